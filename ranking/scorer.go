package ranking

import (
	"math"
	"sort"
	"time"
)

// Scorer computes weighted scores from signals.
//
// The final score is the sum over all signals of
//
//	weight(type) × value × localWeight × decay(timestamp)
//
// followed by the authority boost and then the recency boost when the
// corresponding flag is set. Boost order is fixed for reproducible traces;
// the product is the same either way. Scores are never clamped: a negative
// total represents net-negative evidence and is kept as-is.
type Scorer struct {
	config *Config
	now    func() time.Time
}

// NewScorer creates a scorer. A nil config selects DefaultConfig.
func NewScorer(config *Config) *Scorer {
	if config == nil {
		config = DefaultConfig()
	}
	return &Scorer{config: config, now: time.Now}
}

// Config returns the scoring configuration in use.
func (s *Scorer) Config() *Config {
	return s.config
}

// Score computes the weighted score for one set of signals.
func (s *Scorer) Score(signals []Signal, flags Flags) float64 {
	score := 0.0

	for _, sig := range signals {
		weight := s.config.Weight(sig.Type)
		if weight == 0 {
			continue
		}

		local := sig.Weight
		if local == 0 {
			local = 1
		}
		value := sig.Value * local

		if !sig.Timestamp.IsZero() {
			value *= s.decay(sig.Timestamp)
		}

		score += weight * value
	}

	if flags.Authoritative {
		score *= s.config.AuthorityBoost
	}
	if flags.Recent {
		score *= s.config.RecencyBoost
	}

	return score
}

// decay returns the exponential time-decay factor for a signal timestamp:
// exp(-ln2 × ageDays / halfLifeDays), i.e. a signal one half-life old
// contributes half of its undamped value.
func (s *Scorer) decay(ts time.Time) float64 {
	if s.config.HalfLifeDays <= 0 {
		return 1
	}
	ageDays := s.now().Sub(ts).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	return math.Exp(-math.Ln2 * ageDays / s.config.HalfLifeDays)
}

// Ranked pairs an item with its computed score.
type Ranked[T any] struct {
	Item  T
	Score float64
}

// Rank scores every item using the extractor callbacks and returns the
// items sorted by descending score. The sort is stable, so equal-score
// items keep their relative input order. flags may be nil when no item
// carries boost context.
func Rank[T any](s *Scorer, items []T, signals func(T) []Signal, flags func(T) Flags) []Ranked[T] {
	ranked := make([]Ranked[T], 0, len(items))
	for _, item := range items {
		var f Flags
		if flags != nil {
			f = flags(item)
		}
		ranked = append(ranked, Ranked[T]{
			Item:  item,
			Score: s.Score(signals(item), f),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}
