package feeds

import (
	"context"

	"github.com/onnwee/rankpipe/pipeline"
)

// DefaultMaxPerKind caps how many notifications of one kind appear when
// BalancedSelector is used with a zero MaxPerKind.
const DefaultMaxPerKind = 3

// BalancedSelector keeps one notification kind from flooding the feed: it
// walks the score-descending list, admits at most MaxPerKind per kind, and
// stops at limit. Action-required notifications bypass the per-kind cap but
// still count toward the limit.
type BalancedSelector struct {
	// MaxPerKind caps each kind's share of the feed.
	// Defaults to DefaultMaxPerKind.
	MaxPerKind int
}

func (s BalancedSelector) Name() string { return "balanced" }

func (s BalancedSelector) Select(ctx context.Context, cands []pipeline.Candidate[*Notification], rc *pipeline.RunContext, limit int) ([]pipeline.Candidate[*Notification], error) {
	maxPerKind := s.MaxPerKind
	if maxPerKind <= 0 {
		maxPerKind = DefaultMaxPerKind
	}
	if limit < 0 {
		limit = 0
	}

	sorted := pipeline.SortByScore(cands)
	selected := make([]pipeline.Candidate[*Notification], 0, min(limit, len(sorted)))
	counts := make(map[Kind]int)

	for _, c := range sorted {
		if len(selected) >= limit {
			break
		}
		kind := c.Payload.Kind
		if kind != KindActionRequired && counts[kind] >= maxPerKind {
			continue
		}
		selected = append(selected, c)
		counts[kind]++
	}

	return selected, nil
}
