package feeds

import (
	"context"

	"github.com/onnwee/rankpipe/pipeline"
)

// PreferencesHydrator annotates candidates with the requesting client's
// preferences: notifications outside a strict preference get deprioritized,
// preferred kinds get a boost marker, and the client's engagement level is
// recorded for downstream stages.
type PreferencesHydrator struct {
	profiles map[string]*Profile
}

// NewPreferencesHydrator creates a hydrator over the given client profiles.
func NewPreferencesHydrator(profiles map[string]*Profile) *PreferencesHydrator {
	return &PreferencesHydrator{profiles: profiles}
}

func (h *PreferencesHydrator) Name() string { return "client_preferences" }

func (h *PreferencesHydrator) Hydrate(ctx context.Context, cands []pipeline.Candidate[*Notification], rc *pipeline.RunContext) ([]pipeline.Candidate[*Notification], error) {
	profile, ok := h.profiles[rc.UserID]
	if !ok {
		return cands, nil
	}

	onlyCritical, _ := profile.Preferences[PrefOnlyCritical].(bool)
	lovesTraffic, _ := profile.Preferences[PrefLovesTrafficAlerts].(bool)

	for i := range cands {
		n := cands[i].Payload

		if onlyCritical && n.Priority != PriorityCritical {
			cands[i].SetMeta(MetaDeprioritize, true)
		}
		if lovesTraffic && (n.Kind == KindTrafficSpike || n.Kind == KindTrafficDrop) {
			cands[i].SetMeta(MetaPreferenceBoost, true)
		}
		cands[i].SetMeta(MetaClientEngagement, profile.EngagementLevel)
	}
	return cands, nil
}

// EngagementHydrator annotates each candidate with the client's historical
// click and dismiss rates for the candidate's kind. Clients without history
// get neutral defaults.
type EngagementHydrator struct {
	history EngagementHistory
}

// NewEngagementHydrator creates a hydrator over engagement history.
func NewEngagementHydrator(history EngagementHistory) *EngagementHydrator {
	return &EngagementHydrator{history: history}
}

func (h *EngagementHydrator) Name() string { return "engagement_history" }

func (h *EngagementHydrator) Hydrate(ctx context.Context, cands []pipeline.Candidate[*Notification], rc *pipeline.RunContext) ([]pipeline.Candidate[*Notification], error) {
	byKind := h.history[rc.UserID]

	for i := range cands {
		stats, ok := byKind[cands[i].Payload.Kind]
		if !ok {
			stats = Engagement{ClickRate: DefaultClickRate, DismissRate: DefaultDismissRate}
		}
		cands[i].SetMeta(MetaClickRate, stats.ClickRate)
		cands[i].SetMeta(MetaDismissRate, stats.DismissRate)
	}
	return cands, nil
}
