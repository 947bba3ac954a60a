package pipeline

import "context"

// MinScoreFilter retains candidates whose score is at least Min. Running it
// twice with the same threshold is a no-op the second time.
type MinScoreFilter[T any] struct {
	Min float64
}

func (f MinScoreFilter[T]) Name() string { return "min_score" }

func (f MinScoreFilter[T]) Filter(ctx context.Context, cands []Candidate[T], rc *RunContext) ([]Candidate[T], error) {
	out := make([]Candidate[T], 0, len(cands))
	for _, c := range cands {
		if c.Score >= f.Min {
			out = append(out, c)
		}
	}
	return out, nil
}

// HistoryFilter drops candidates whose ID appears in the run context's
// history. Relative order of the survivors is preserved; nothing else about
// them changes.
type HistoryFilter[T any] struct{}

func (f HistoryFilter[T]) Name() string { return "history" }

func (f HistoryFilter[T]) Filter(ctx context.Context, cands []Candidate[T], rc *RunContext) ([]Candidate[T], error) {
	if len(rc.History) == 0 {
		return cands, nil
	}
	seen := rc.HistorySet()
	out := make([]Candidate[T], 0, len(cands))
	for _, c := range cands {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
