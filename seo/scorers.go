package seo

import (
	"context"

	"github.com/onnwee/rankpipe/pipeline"
	"github.com/onnwee/rankpipe/ranking"
)

// Normalization ceilings for turning raw cluster metrics into [0, 1]
// signal values.
const (
	clicksCeiling      = 1000
	conversionsCeiling = 100
	timeOnPageCeiling  = 300   // seconds; five minutes reads as ideal
	volumeCeiling      = 10000 // monthly searches
	revenueCeiling     = 100000
)

// ClusterScorer computes the weighted score for each cluster with the
// SEO-tuned preset: conversions dominate, volume counts as evidence at half
// weight, and position bands steer effort toward the striking zone.
type ClusterScorer struct {
	scorer *ranking.Scorer
}

// NewClusterScorer creates the main cluster scorer. A nil config selects
// the SEO preset.
func NewClusterScorer(config *ranking.Config) *ClusterScorer {
	if config == nil {
		config = ranking.SEOConfig()
	}
	return &ClusterScorer{scorer: ranking.NewScorer(config)}
}

func (s *ClusterScorer) Name() string { return "seo_weighted" }

func (s *ClusterScorer) Score(ctx context.Context, cands []pipeline.Candidate[*Cluster], rc *pipeline.RunContext) ([]pipeline.Candidate[*Cluster], error) {
	for i := range cands {
		signals := extractSignals(&cands[i])
		flags := ranking.Flags{
			Authoritative: cands[i].Payload.Competition == CompetitionLow,
			Recent:        cands[i].MetaBool(MetaNewOpportunity),
		}
		cands[i].Score = s.scorer.Score(signals, flags)
	}
	return cands, nil
}

func normalize(value, ceiling float64) float64 {
	v := value / ceiling
	if v > 1 {
		return 1
	}
	return v
}

func extractSignals(c *pipeline.Candidate[*Cluster]) []ranking.Signal {
	cluster := c.Payload
	var signals []ranking.Signal

	if cluster.Clicks > 0 {
		signals = append(signals, ranking.NewSignal(ranking.SignalClick, normalize(float64(cluster.Clicks), clicksCeiling)))
	}
	if cluster.Conversions > 0 {
		signals = append(signals, ranking.NewSignal(ranking.SignalConversion, normalize(float64(cluster.Conversions), conversionsCeiling)))
	}
	if cluster.AvgTimeOnPage > 0 {
		signals = append(signals, ranking.NewSignal(ranking.SignalTimeSpent, normalize(cluster.AvgTimeOnPage, timeOnPageCeiling)))
	}
	if cluster.SearchVolume > 0 {
		// Volume is potential, not proof, so it carries half weight.
		signals = append(signals, ranking.Signal{
			Type:   ranking.SignalAuthority,
			Value:  normalize(float64(cluster.SearchVolume), volumeCeiling),
			Weight: 0.5,
		})
	}
	if cluster.BounceRate > 0 {
		signals = append(signals, ranking.NewSignal(ranking.SignalBounce, cluster.BounceRate))
	}

	// Position bands: top-10 clusters need less work, 11-20 is the zone
	// where effort pays off fastest.
	switch pos := cluster.CurrentPosition; {
	case pos == 0:
	case pos <= 10:
		signals = append(signals, ranking.NewSignal(ranking.SignalSkip, 0.3))
	case pos <= 20:
		signals = append(signals, ranking.NewSignal(ranking.SignalReturnVisit, 0.5))
	}

	return signals
}

// DefaultRevenueWeight scales the revenue bonus applied by ROIScorer when
// none is configured.
const DefaultRevenueWeight = 0.3

// ROIScorer adds a revenue-potential bonus on top of the weighted score for
// clusters whose analytics report attributable revenue.
type ROIScorer struct {
	// RevenueWeight scales the normalized revenue bonus.
	// Defaults to DefaultRevenueWeight.
	RevenueWeight float64
}

func (s ROIScorer) Name() string { return "roi" }

func (s ROIScorer) Score(ctx context.Context, cands []pipeline.Candidate[*Cluster], rc *pipeline.RunContext) ([]pipeline.Candidate[*Cluster], error) {
	weight := s.RevenueWeight
	if weight <= 0 {
		weight = DefaultRevenueWeight
	}
	for i := range cands {
		revenue := cands[i].MetaFloat(MetaRevenue, 0)
		if revenue > 0 {
			cands[i].Score += normalize(revenue, revenueCeiling) * weight
		}
	}
	return cands, nil
}
