package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/onnwee/rankpipe/tracing"
)

// Default values for pipeline configuration.
const (
	// DefaultWorkers is the collect-stage worker pool width.
	DefaultWorkers = 4

	// DefaultSourceLimit is the per-source fetch cap.
	DefaultSourceLimit = 100
)

// Configuration errors.
var (
	ErrInvalidWorkers   = errors.New("workers must be positive")
	ErrInvalidSourceLim = errors.New("source limit must be positive")
)

// Config assembles a pipeline. The five stage slices run in declared order;
// sources additionally run concurrently during collection.
type Config[T any] struct {
	Sources   []Source[T]
	Hydrators []Hydrator[T]
	Filters   []Filter[T]
	Scorers   []Scorer[T]
	Selectors []Selector[T]

	// Workers bounds concurrent source fetches. Defaults to DefaultWorkers.
	Workers int

	// SourceLimit caps how many candidates each source may return.
	// Defaults to DefaultSourceLimit.
	SourceLimit int

	// FailClosed aborts the run on the first stage or source failure,
	// propagating the underlying error to the caller. The zero value keeps
	// the engine fail-open: failures are reported to observers and the
	// failing stage degrades to a no-op.
	FailClosed bool

	// Logger for engine activity. Defaults to slog.Default().
	Logger *slog.Logger

	// Observers receive stage-boundary events for every run.
	Observers []Observer
}

// Pipeline drives ranking runs end to end. A pipeline is immutable after
// construction and safe for concurrent runs.
type Pipeline[T any] struct {
	cfg    Config[T]
	logger *slog.Logger
}

// New validates the configuration, applies defaults, and builds a pipeline.
// A pipeline with zero sources is legal; its runs return empty without
// invoking any later stage.
func New[T any](cfg Config[T]) (*Pipeline[T], error) {
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Workers < 0 {
		return nil, ErrInvalidWorkers
	}
	if cfg.SourceLimit == 0 {
		cfg.SourceLimit = DefaultSourceLimit
	}
	if cfg.SourceLimit < 0 {
		return nil, ErrInvalidSourceLim
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline[T]{cfg: cfg, logger: logger}, nil
}

// Run executes one ranking run for rc and returns at most limit candidates
// (assuming a well-formed final selector). An empty result with a nil error
// means either no source produced candidates or every candidate was
// filtered out; the engine does not distinguish the two.
//
// Under fail-open (the default) Run only returns an error when ctx itself
// is cancelled inside a stage implementation that honors it. Under
// fail-closed the first stage or source error is returned unmodified.
func (p *Pipeline[T]) Run(ctx context.Context, rc *RunContext, limit int) ([]Candidate[T], error) {
	start := time.Now()
	if rc == nil {
		rc = &RunContext{}
	}

	ctx, endRun := tracing.StartRunSpan(ctx, rc.UserID, limit)
	for _, o := range p.cfg.Observers {
		o.RunStarted(rc.UserID, limit)
	}
	p.logger.Info("pipeline run started",
		slog.String("user_id", rc.UserID),
		slog.Int("limit", limit),
		slog.Int("sources", len(p.cfg.Sources)))

	result, err := p.run(ctx, rc, limit)

	elapsed := time.Since(start)
	endRun(err)
	for _, o := range p.cfg.Observers {
		o.RunCompleted(len(result), elapsed, err)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (p *Pipeline[T]) run(ctx context.Context, rc *RunContext, limit int) ([]Candidate[T], error) {
	cands, err := p.collect(ctx, rc)
	if err != nil {
		return nil, err
	}
	if len(cands) == 0 {
		p.logger.Warn("no candidates collected")
		return []Candidate[T]{}, nil
	}

	for _, h := range p.cfg.Hydrators {
		cands, err = p.applyStage(ctx, StageHydrate, h.Name(), cands,
			func(sctx context.Context) ([]Candidate[T], error) {
				return h.Hydrate(sctx, cands, rc)
			})
		if err != nil {
			return nil, err
		}
	}

	for _, f := range p.cfg.Filters {
		cands, err = p.applyStage(ctx, StageFilter, f.Name(), cands,
			func(sctx context.Context) ([]Candidate[T], error) {
				return f.Filter(sctx, cands, rc)
			})
		if err != nil {
			return nil, err
		}
		if len(cands) == 0 {
			p.logger.Warn("all candidates filtered out",
				slog.String("filter", f.Name()))
			return []Candidate[T]{}, nil
		}
	}

	for _, s := range p.cfg.Scorers {
		cands, err = p.applyStage(ctx, StageScore, s.Name(), cands,
			func(sctx context.Context) ([]Candidate[T], error) {
				return s.Score(sctx, cands, rc)
			})
		if err != nil {
			return nil, err
		}
	}

	for _, s := range p.cfg.Selectors {
		cands, err = p.applyStage(ctx, StageSelect, s.Name(), cands,
			func(sctx context.Context) ([]Candidate[T], error) {
				return s.Select(sctx, cands, rc, limit)
			})
		if err != nil {
			return nil, err
		}
	}

	return cands, nil
}

// collect fans out over all sources with a bounded worker pool and drains
// completions as the single consumer. A failing source contributes nothing
// and never disturbs its siblings; under fail-closed the first failure is
// remembered, in-flight fetches are allowed to finish, and their results
// are discarded.
func (p *Pipeline[T]) collect(ctx context.Context, rc *RunContext) ([]Candidate[T], error) {
	type fetchResult struct {
		origin string
		cands  []Candidate[T]
		err    error
	}

	start := time.Now()
	cctx, endSpan := tracing.StartStageSpan(ctx, string(StageCollect), "fanout")

	results := make(chan fetchResult, len(p.cfg.Sources))
	sem := make(chan struct{}, p.cfg.Workers)

	for _, src := range p.cfg.Sources {
		go func(src Source[T]) {
			sem <- struct{}{}
			defer func() { <-sem }()
			cands, err := src.Fetch(cctx, rc, p.cfg.SourceLimit)
			results <- fetchResult{origin: src.Name(), cands: cands, err: err}
		}(src)
	}

	var all []Candidate[T]
	var firstErr error
	for range p.cfg.Sources {
		res := <-results
		if res.err != nil {
			p.logger.Error("source fetch failed",
				slog.String("source", res.origin),
				slog.String("error", res.err.Error()))
			for _, o := range p.cfg.Observers {
				o.StageFailed(StageCollect, res.origin, res.err)
			}
			if p.cfg.FailClosed && firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		all = append(all, res.cands...)
	}

	endSpan(firstErr)
	if firstErr != nil {
		return nil, firstErr
	}

	elapsed := time.Since(start)
	for _, o := range p.cfg.Observers {
		o.StageCompleted(StageCollect, "fanout", 0, len(all), elapsed)
	}
	p.logger.Info("collected candidates",
		slog.Int("count", len(all)),
		slog.Int("sources", len(p.cfg.Sources)),
		slog.Duration("elapsed", elapsed))
	return all, nil
}

// applyStage invokes one stage under the failure policy. Under fail-open a
// failing stage degrades to a no-op and the input set flows through
// unchanged; under fail-closed the stage's error is returned unmodified.
func (p *Pipeline[T]) applyStage(
	ctx context.Context,
	stage Stage,
	name string,
	in []Candidate[T],
	fn func(context.Context) ([]Candidate[T], error),
) ([]Candidate[T], error) {
	start := time.Now()
	sctx, endSpan := tracing.StartStageSpan(ctx, string(stage), name)
	out, err := fn(sctx)
	endSpan(err)

	if err != nil {
		p.logger.Error("stage failed",
			slog.String("stage", string(stage)),
			slog.String("name", name),
			slog.String("error", err.Error()))
		for _, o := range p.cfg.Observers {
			o.StageFailed(stage, name, err)
		}
		if p.cfg.FailClosed {
			return nil, err
		}
		return in, nil
	}

	elapsed := time.Since(start)
	for _, o := range p.cfg.Observers {
		o.StageCompleted(stage, name, len(in), len(out), elapsed)
	}
	return out, nil
}
