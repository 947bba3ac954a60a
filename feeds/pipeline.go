package feeds

import (
	"log/slog"

	"github.com/onnwee/rankpipe/pipeline"
)

// NewFeedPipeline assembles the client feed: kind-partitioned sources with
// action-required items first-class, preference and engagement hydration,
// viewed and dismiss-rate filtering, weighted scoring with an action boost,
// and kind-balanced selection.
func NewFeedPipeline(
	notifications []*Notification,
	profiles map[string]*Profile,
	history EngagementHistory,
	logger *slog.Logger,
	observers ...pipeline.Observer,
) (*pipeline.Pipeline[*Notification], error) {
	return pipeline.New(pipeline.Config[*Notification]{
		Sources: []pipeline.Source[*Notification]{
			NewActionRequiredSource(notifications),
			NewTrafficAlertsSource(notifications),
			NewPositionChangesSource(notifications),
			NewReportsSource(notifications),
		},
		Hydrators: []pipeline.Hydrator[*Notification]{
			NewPreferencesHydrator(profiles),
			NewEngagementHydrator(history),
		},
		Filters: []pipeline.Filter[*Notification]{
			UnviewedFilter{},
			DismissRateFilter{Threshold: DefaultDismissThreshold},
		},
		Scorers: []pipeline.Scorer[*Notification]{
			NewFeedScorer(nil),
			ActionBooster{Factor: DefaultActionBoost},
		},
		Selectors: []pipeline.Selector[*Notification]{
			BalancedSelector{MaxPerKind: DefaultMaxPerKind},
			pipeline.TopNSelector[*Notification]{},
		},
		Logger:    logger,
		Observers: observers,
	})
}
