// Package seo prioritizes keyword clusters for optimization work: which of
// hundreds of clusters to improve first, based on traffic potential,
// conversion evidence, current position, and competitor pressure. It is a
// second, differently shaped consumer of the ranking pipeline alongside the
// notification feed.
package seo

import "time"

// Search intent classifications for a cluster.
const (
	IntentCommercial    = "commercial"
	IntentInformational = "informational"
	IntentMixed         = "mixed"
	IntentUnknown       = "unknown"
)

// Competition levels.
const (
	CompetitionLow    = "low"
	CompetitionMedium = "medium"
	CompetitionHigh   = "high"
)

// Metadata keys written by sources and hydrators.
const (
	MetaHasPosition      = "has_position"
	MetaHasTraffic       = "has_traffic"
	MetaNewOpportunity   = "is_new_opportunity"
	MetaCTR              = "ctr"
	MetaConversionRate   = "conversion_rate"
	MetaRevenue          = "revenue"
	MetaCompetitorCount  = "competitor_count"
	MetaTopAuthority     = "top3_authority"
	MetaContentGap       = "content_gap"
)

// Cluster is one keyword cluster under consideration for optimization.
type Cluster struct {
	ID          string
	MainKeyword string
	Keywords    []string

	// SearchVolume is the monthly search volume for the cluster.
	SearchVolume int

	// CurrentPosition is the current ranking position, 0 when unranked.
	CurrentPosition int

	TargetURL   string
	Intent      string
	Competition string

	// Performance metrics.
	Impressions   int
	Clicks        int
	Conversions   int
	BounceRate    float64
	AvgTimeOnPage float64 // seconds

	LastOptimized time.Time
	CreatedAt     time.Time
}

// Ranked reports whether the cluster currently holds a search position.
func (c *Cluster) Ranked() bool {
	return c.CurrentPosition > 0
}
