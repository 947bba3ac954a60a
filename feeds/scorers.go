package feeds

import (
	"context"
	"time"

	"github.com/onnwee/rankpipe/pipeline"
	"github.com/onnwee/rankpipe/ranking"
)

// FeedScorer computes the weighted score for each notification from its
// priority, the client's engagement history with its kind, preference
// markers, and freshness. It uses the feed-tuned scoring preset, so a
// one-day half-life and a strong recency boost apply.
type FeedScorer struct {
	scorer *ranking.Scorer
	now    func() time.Time
}

// NewFeedScorer creates the main feed scorer. A nil config selects the feed
// preset.
func NewFeedScorer(config *ranking.Config) *FeedScorer {
	if config == nil {
		config = ranking.FeedConfig()
	}
	return &FeedScorer{scorer: ranking.NewScorer(config), now: time.Now}
}

func (s *FeedScorer) Name() string { return "feed_weighted" }

func (s *FeedScorer) Score(ctx context.Context, cands []pipeline.Candidate[*Notification], rc *pipeline.RunContext) ([]pipeline.Candidate[*Notification], error) {
	for i := range cands {
		signals := s.extractSignals(&cands[i])
		flags := s.buildFlags(cands[i].Payload)
		cands[i].Score = s.scorer.Score(signals, flags)
	}
	return cands, nil
}

// priorityValue maps a notification priority to a base authority signal.
func priorityValue(p Priority) float64 {
	switch p {
	case PriorityCritical:
		return 1.0
	case PriorityHigh:
		return 0.7
	case PriorityLow:
		return 0.1
	default:
		return 0.4
	}
}

func (s *FeedScorer) extractSignals(c *pipeline.Candidate[*Notification]) []ranking.Signal {
	n := c.Payload
	signals := []ranking.Signal{
		ranking.NewSignal(ranking.SignalAuthority, priorityValue(n.Priority)),
		ranking.NewSignal(ranking.SignalClick, c.MetaFloat(MetaClickRate, DefaultClickRate)),
	}

	if dismissRate := c.MetaFloat(MetaDismissRate, 0); dismissRate > 0 {
		signals = append(signals, ranking.NewSignal(ranking.SignalSkip, dismissRate))
	}
	if c.MetaBool(MetaPreferenceBoost) {
		signals = append(signals, ranking.NewSignal(ranking.SignalConversion, 0.5))
	}
	if c.MetaBool(MetaDeprioritize) {
		signals = append(signals, ranking.NewSignal(ranking.SignalHide, 0.5))
	}
	if s.now().Sub(n.CreatedAt) < time.Hour {
		signals = append(signals, ranking.NewSignal(ranking.SignalReturnVisit, 0.3))
	}

	return signals
}

func (s *FeedScorer) buildFlags(n *Notification) ranking.Flags {
	return ranking.Flags{
		Authoritative: n.Priority == PriorityCritical || n.Priority == PriorityHigh,
		Recent:        s.now().Sub(n.CreatedAt) < time.Hour,
	}
}

// DefaultActionBoost is the multiplier applied by ActionBooster when none
// is configured.
const DefaultActionBoost = 1.5

// ActionBooster multiplies the score of notifications that require a client
// action, so they outrank informational items of similar weight.
type ActionBooster struct {
	// Factor is the score multiplier. Defaults to DefaultActionBoost.
	Factor float64
}

func (b ActionBooster) Name() string { return "action_booster" }

func (b ActionBooster) Score(ctx context.Context, cands []pipeline.Candidate[*Notification], rc *pipeline.RunContext) ([]pipeline.Candidate[*Notification], error) {
	factor := b.Factor
	if factor <= 0 {
		factor = DefaultActionBoost
	}
	for i := range cands {
		if cands[i].MetaBool(MetaRequiresAction) {
			cands[i].Score *= factor
		}
	}
	return cands, nil
}
