// Package pipeline implements a staged candidate-ranking engine.
// A run collects candidates from registered sources, enriches them through
// hydrators, narrows them through filters, scores them, and selects the
// final ranked set. Stage implementations are supplied by the caller; the
// engine owns sequencing, concurrent collection, and the failure policy.
package pipeline

// Candidate is one item flowing through a ranking run. The payload is
// domain-owned and never inspected by the engine; ID, Score, Metadata and
// Origin are the engine-owned bookkeeping fields.
//
// IDs are not required to be unique: two sources may legitimately emit
// candidates with the same ID and both survive the whole run. Deduplication,
// if wanted, belongs in a caller-supplied filter.
type Candidate[T any] struct {
	// ID is an opaque identifier assigned by the producing source.
	ID string

	// Payload carries the domain object being ranked.
	Payload T

	// Metadata holds per-candidate annotations written by hydrators and
	// read by later stages. Mutated in place as the run progresses.
	Metadata map[string]any

	// Score is the current ranking score. Starts at 0 and is updated by
	// each scorer in declared order.
	Score float64

	// Origin names the source that produced this candidate.
	Origin string
}

// NewCandidate creates a candidate with an initialized metadata map.
func NewCandidate[T any](id string, payload T, origin string) Candidate[T] {
	return Candidate[T]{
		ID:       id,
		Payload:  payload,
		Origin:   origin,
		Metadata: make(map[string]any),
	}
}

// Meta returns the metadata value for key, or the zero value when the key is
// absent or the metadata map is nil.
func (c Candidate[T]) Meta(key string) any {
	if c.Metadata == nil {
		return nil
	}
	return c.Metadata[key]
}

// MetaFloat returns the metadata value for key as a float64. Integer values
// are converted; anything else yields the fallback.
func (c Candidate[T]) MetaFloat(key string, fallback float64) float64 {
	switch v := c.Meta(key).(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return fallback
	}
}

// MetaBool returns the metadata value for key as a bool, or false.
func (c Candidate[T]) MetaBool(key string) bool {
	v, ok := c.Meta(key).(bool)
	return ok && v
}

// SetMeta writes a metadata value, allocating the map if needed. Hydrators
// and scorers own the candidates they receive, so no locking is required.
func (c *Candidate[T]) SetMeta(key string, value any) {
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	c.Metadata[key] = value
}
