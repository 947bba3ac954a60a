package feeds

import (
	"context"

	"github.com/onnwee/rankpipe/pipeline"
)

// NotificationSource serves notifications of specific kinds from an
// in-memory snapshot. Partitioning the feed across several kind-scoped
// sources lets them fetch concurrently and keeps per-source attribution in
// logs and metrics.
type NotificationSource struct {
	name           string
	kinds          map[Kind]struct{}
	notifications  []*Notification
	requiresAction bool
}

// NewNotificationSource creates a source serving only the given kinds.
func NewNotificationSource(name string, notifications []*Notification, kinds ...Kind) *NotificationSource {
	set := make(map[Kind]struct{}, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	return &NotificationSource{name: name, kinds: set, notifications: notifications}
}

// NewActionRequiredSource serves notifications that need a client decision.
// Its candidates are tagged so later stages can boost and always admit them.
func NewActionRequiredSource(notifications []*Notification) *NotificationSource {
	s := NewNotificationSource("action_required", notifications, KindActionRequired)
	s.requiresAction = true
	return s
}

// NewTrafficAlertsSource serves traffic spike and drop alerts.
func NewTrafficAlertsSource(notifications []*Notification) *NotificationSource {
	return NewNotificationSource("traffic_alerts", notifications, KindTrafficSpike, KindTrafficDrop)
}

// NewPositionChangesSource serves ranking position changes.
func NewPositionChangesSource(notifications []*Notification) *NotificationSource {
	return NewNotificationSource("position_changes", notifications, KindPositionChange)
}

// NewReportsSource serves finished report notifications.
func NewReportsSource(notifications []*Notification) *NotificationSource {
	return NewNotificationSource("reports", notifications, KindReportReady)
}

// Name identifies the source in logs, metrics and candidate origins.
func (s *NotificationSource) Name() string { return s.name }

// Fetch returns up to max candidates of the source's kinds.
func (s *NotificationSource) Fetch(ctx context.Context, rc *pipeline.RunContext, max int) ([]pipeline.Candidate[*Notification], error) {
	var cands []pipeline.Candidate[*Notification]
	for _, n := range s.notifications {
		if len(cands) >= max {
			break
		}
		if _, ok := s.kinds[n.Kind]; !ok {
			continue
		}
		c := pipeline.NewCandidate(n.ID, n, s.name)
		if s.requiresAction {
			c.SetMeta(MetaRequiresAction, true)
		}
		cands = append(cands, c)
	}
	return cands, nil
}
