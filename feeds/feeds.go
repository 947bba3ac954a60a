// Package feeds builds a prioritized client notification feed on top of the
// ranking pipeline: kind-partitioned sources, preference and engagement
// hydration, dismiss-rate filtering, weighted scoring tuned for freshness,
// and a kind-balanced selection step.
package feeds

import (
	"time"

	"github.com/google/uuid"
)

// Kind names a notification category.
type Kind string

const (
	KindPositionChange Kind = "position_change"
	KindTrafficSpike   Kind = "traffic_spike"
	KindTrafficDrop    Kind = "traffic_drop"
	KindNewKeywords    Kind = "new_keywords"
	KindReportReady    Kind = "report_ready"
	KindActionRequired Kind = "action_required"
	KindMilestone      Kind = "milestone"
)

// Priority levels for notifications.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityNormal   Priority = "normal"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Metadata keys written by hydrators and sources and read by later stages.
const (
	MetaRequiresAction   = "requires_action"
	MetaDeprioritize     = "deprioritize"
	MetaPreferenceBoost  = "preference_boost"
	MetaClientEngagement = "client_engagement"
	MetaClickRate        = "type_click_rate"
	MetaDismissRate      = "type_dismiss_rate"
)

// Notification is one item a client may see in their feed.
type Notification struct {
	ID          string
	Kind        Kind
	Title       string
	Description string
	Priority    Priority
	Data        map[string]any
	CreatedAt   time.Time

	// Engagement state for this specific notification.
	Viewed        bool
	Clicked       bool
	Dismissed     bool
	AskedQuestion bool
}

// NewNotification creates a notification with a generated ID and the
// current timestamp.
func NewNotification(kind Kind, title, description string, priority Priority) *Notification {
	return &Notification{
		ID:          uuid.NewString(),
		Kind:        kind,
		Title:       title,
		Description: description,
		Priority:    priority,
		CreatedAt:   time.Now(),
	}
}

// Profile personalizes the feed for one client.
type Profile struct {
	ClientID        string
	CompanyName     string
	Industry        string
	EngagementLevel string // low, medium, high
	Preferences     map[string]any
}

// Engagement aggregates a client's historical reaction to one notification
// kind.
type Engagement struct {
	ClickRate   float64
	DismissRate float64
}

// EngagementHistory maps client ID to per-kind engagement stats.
type EngagementHistory map[string]map[Kind]Engagement

// Preference keys consulted by the hydrators.
const (
	PrefOnlyCritical       = "only_critical"
	PrefLovesTrafficAlerts = "loves_traffic_reports"
)

// Default engagement stats assumed when a client has no history for a kind.
const (
	DefaultClickRate   = 0.5
	DefaultDismissRate = 0.1
)
