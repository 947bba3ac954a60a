package seo

import (
	"log/slog"

	"github.com/onnwee/rankpipe/pipeline"
)

// MaxPerSource balances the prioritized list between already-ranked
// clusters and new opportunities.
const MaxPerSource = 10

// NewPrioritizer assembles the cluster prioritization pipeline: ranked and
// unranked clusters from their own sources, analytics and competitor
// hydration, volume and opportunity-window filtering, weighted scoring with
// an ROI bonus, and source-balanced selection.
func NewPrioritizer(
	clusters []*Cluster,
	metrics map[string]ClusterMetrics,
	competitors map[string]CompetitorStats,
	logger *slog.Logger,
	observers ...pipeline.Observer,
) (*pipeline.Pipeline[*Cluster], error) {
	return pipeline.New(pipeline.Config[*Cluster]{
		Sources: []pipeline.Source[*Cluster]{
			NewWebmasterSource(clusters),
			NewOpportunitySource(clusters),
		},
		Hydrators: []pipeline.Hydrator[*Cluster]{
			NewMetricsHydrator(metrics),
			NewCompetitorHydrator(competitors),
		},
		Filters: []pipeline.Filter[*Cluster]{
			VolumeFilter{MinVolume: 50},
			OpportunityWindowFilter{},
		},
		Scorers: []pipeline.Scorer[*Cluster]{
			NewClusterScorer(nil),
			ROIScorer{},
		},
		Selectors: []pipeline.Selector[*Cluster]{
			pipeline.DiversitySelector[*Cluster]{MaxPerKey: MaxPerSource},
			pipeline.TopNSelector[*Cluster]{},
		},
		Logger:    logger,
		Observers: observers,
	})
}
