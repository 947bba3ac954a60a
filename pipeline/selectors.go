package pipeline

import (
	"context"
	"sort"
)

// SortByScore returns a copy of cands sorted by descending score. The sort
// is stable: equal-score candidates keep their relative input order, which
// makes selector output deterministic for a deterministic input.
func SortByScore[T any](cands []Candidate[T]) []Candidate[T] {
	out := make([]Candidate[T], len(cands))
	copy(out, cands)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// TopNSelector sorts by descending score and keeps the first limit
// candidates.
type TopNSelector[T any] struct{}

func (s TopNSelector[T]) Name() string { return "top_n" }

func (s TopNSelector[T]) Select(ctx context.Context, cands []Candidate[T], rc *RunContext, limit int) ([]Candidate[T], error) {
	sorted := SortByScore(cands)
	if limit < 0 {
		limit = 0
	}
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

// DefaultMaxPerKey is the per-key cap applied when DiversitySelector is
// used with a zero MaxPerKey.
const DefaultMaxPerKey = 3

// DiversitySelector keeps one source, type, or any other grouping from
// dominating the result. It walks the score-descending list once, admits a
// candidate only while its group's running count is below MaxPerKey, and
// stops once limit candidates are admitted.
type DiversitySelector[T any] struct {
	// MaxPerKey caps how many candidates share one grouping key.
	// Defaults to DefaultMaxPerKey.
	MaxPerKey int

	// Key derives the grouping key. Defaults to the candidate's origin.
	Key func(Candidate[T]) string
}

func (s DiversitySelector[T]) Name() string { return "diversity" }

func (s DiversitySelector[T]) Select(ctx context.Context, cands []Candidate[T], rc *RunContext, limit int) ([]Candidate[T], error) {
	maxPerKey := s.MaxPerKey
	if maxPerKey <= 0 {
		maxPerKey = DefaultMaxPerKey
	}
	key := s.Key
	if key == nil {
		key = func(c Candidate[T]) string { return c.Origin }
	}
	if limit < 0 {
		limit = 0
	}

	sorted := SortByScore(cands)
	selected := make([]Candidate[T], 0, min(limit, len(sorted)))
	counts := make(map[string]int)

	for _, c := range sorted {
		if len(selected) >= limit {
			break
		}
		k := key(c)
		if counts[k] >= maxPerKey {
			continue
		}
		selected = append(selected, c)
		counts[k]++
	}

	return selected, nil
}
