package pipeline

import "context"

// The five stage contracts below are independent capabilities; a concrete
// plug-in implements exactly the ones it needs. There is no shared base
// type. All operations receive a context.Context for cancellation and
// deadlines, and the shared read-only RunContext.

// Source produces the initial candidates for a run. Sources run
// concurrently during collection; a failing source is isolated and never
// affects its siblings. Fetch must return at most max candidates and must
// not retain references to the RunContext after returning.
type Source[T any] interface {
	// Name identifies the source in logs, metrics and candidate origins.
	Name() string

	// Fetch returns up to max candidates for the requester described by rc.
	Fetch(ctx context.Context, rc *RunContext, max int) ([]Candidate[T], error)
}

// Hydrator enriches candidates with additional metadata. Hydrators run
// strictly in declared order; each receives the full set produced by its
// predecessor and returns the same population, typically annotated.
type Hydrator[T any] interface {
	Name() string
	Hydrate(ctx context.Context, cands []Candidate[T], rc *RunContext) ([]Candidate[T], error)
}

// Filter removes unsuitable candidates. Filters run strictly in declared
// order, and order affects outcome. The returned set should be a subset of
// the input.
type Filter[T any] interface {
	Name() string
	Filter(ctx context.Context, cands []Candidate[T], rc *RunContext) ([]Candidate[T], error)
}

// Scorer assigns or adjusts candidate scores. Scorers run strictly in
// declared order and see the scores written by earlier scorers; the engine
// imposes no aggregation rule, so a scorer may overwrite, add to, or
// multiply what it finds.
type Scorer[T any] interface {
	Name() string
	Score(ctx context.Context, cands []Candidate[T], rc *RunContext) ([]Candidate[T], error)
}

// Selector performs final ranking and truncation. Selectors run strictly in
// declared order; intermediate selectors may return more than limit items
// for a later selector to narrow, but a well-formed pipeline's last
// selector returns at most limit candidates.
type Selector[T any] interface {
	Name() string
	Select(ctx context.Context, cands []Candidate[T], rc *RunContext, limit int) ([]Candidate[T], error)
}
