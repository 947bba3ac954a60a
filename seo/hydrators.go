package seo

import (
	"context"

	"github.com/onnwee/rankpipe/pipeline"
)

// ClusterMetrics carries analytics figures for one cluster.
type ClusterMetrics struct {
	CTR            float64
	ConversionRate float64
	Revenue        float64
}

// MetricsHydrator annotates candidates with analytics metrics keyed by
// cluster ID. Clusters without metrics pass through unannotated.
type MetricsHydrator struct {
	metrics map[string]ClusterMetrics
}

// NewMetricsHydrator creates a hydrator over analytics data.
func NewMetricsHydrator(metrics map[string]ClusterMetrics) *MetricsHydrator {
	return &MetricsHydrator{metrics: metrics}
}

func (h *MetricsHydrator) Name() string { return "analytics_metrics" }

func (h *MetricsHydrator) Hydrate(ctx context.Context, cands []pipeline.Candidate[*Cluster], rc *pipeline.RunContext) ([]pipeline.Candidate[*Cluster], error) {
	for i := range cands {
		m, ok := h.metrics[cands[i].ID]
		if !ok {
			continue
		}
		cands[i].SetMeta(MetaCTR, m.CTR)
		cands[i].SetMeta(MetaConversionRate, m.ConversionRate)
		cands[i].SetMeta(MetaRevenue, m.Revenue)
	}
	return cands, nil
}

// CompetitorStats carries competitor intelligence for one keyword.
type CompetitorStats struct {
	Count        int
	TopAuthority float64
	ContentGap   bool
}

// CompetitorHydrator annotates candidates with competitor data keyed by the
// cluster's main keyword.
type CompetitorHydrator struct {
	competitors map[string]CompetitorStats
}

// NewCompetitorHydrator creates a hydrator over competitor intelligence.
func NewCompetitorHydrator(competitors map[string]CompetitorStats) *CompetitorHydrator {
	return &CompetitorHydrator{competitors: competitors}
}

func (h *CompetitorHydrator) Name() string { return "competitors" }

func (h *CompetitorHydrator) Hydrate(ctx context.Context, cands []pipeline.Candidate[*Cluster], rc *pipeline.RunContext) ([]pipeline.Candidate[*Cluster], error) {
	for i := range cands {
		stats, ok := h.competitors[cands[i].Payload.MainKeyword]
		if !ok {
			continue
		}
		cands[i].SetMeta(MetaCompetitorCount, stats.Count)
		cands[i].SetMeta(MetaTopAuthority, stats.TopAuthority)
		cands[i].SetMeta(MetaContentGap, stats.ContentGap)
	}
	return cands, nil
}
