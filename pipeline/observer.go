package pipeline

import (
	"log/slog"
	"time"
)

// Stage names a pipeline stage kind in observer events, logs and metrics.
type Stage string

const (
	StageCollect Stage = "collect"
	StageHydrate Stage = "hydrate"
	StageFilter  Stage = "filter"
	StageScore   Stage = "score"
	StageSelect  Stage = "select"
)

// Observer receives stage-boundary events for one or more runs. Observers
// replace ambient logging: the engine reports what happened and the
// observer decides where it goes. Implementations must be safe for
// concurrent use when a pipeline is shared across goroutines.
//
// Population counts are reported instead of candidate contents so that
// observers stay independent of the payload type.
type Observer interface {
	// RunStarted fires before collection begins.
	RunStarted(userID string, limit int)

	// StageCompleted fires after each successful stage invocation with the
	// population before and after.
	StageCompleted(stage Stage, name string, before, after int, elapsed time.Duration)

	// StageFailed fires when a stage invocation returns an error. Under
	// fail-open the run continues; under fail-closed it aborts after this
	// event.
	StageFailed(stage Stage, name string, err error)

	// RunCompleted fires when the run returns to the caller. err is nil
	// unless a fail-closed abort occurred.
	RunCompleted(returned int, elapsed time.Duration, err error)
}

// SlogObserver logs stage-boundary events with structured fields.
type SlogObserver struct {
	Logger *slog.Logger
}

// NewSlogObserver creates an observer writing to logger, or slog.Default()
// when logger is nil.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogObserver{Logger: logger}
}

func (o *SlogObserver) RunStarted(userID string, limit int) {
	o.Logger.Info("pipeline run started",
		slog.String("user_id", userID),
		slog.Int("limit", limit))
}

func (o *SlogObserver) StageCompleted(stage Stage, name string, before, after int, elapsed time.Duration) {
	o.Logger.Info("stage completed",
		slog.String("stage", string(stage)),
		slog.String("name", name),
		slog.Int("before", before),
		slog.Int("after", after),
		slog.Duration("elapsed", elapsed))
}

func (o *SlogObserver) StageFailed(stage Stage, name string, err error) {
	o.Logger.Error("stage failed",
		slog.String("stage", string(stage)),
		slog.String("name", name),
		slog.String("error", err.Error()))
}

func (o *SlogObserver) RunCompleted(returned int, elapsed time.Duration, err error) {
	if err != nil {
		o.Logger.Error("pipeline run aborted",
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()))
		return
	}
	o.Logger.Info("pipeline run completed",
		slog.Int("returned", returned),
		slog.Duration("elapsed", elapsed))
}

// MetricsObserver maps stage-boundary events onto prometheus collectors.
type MetricsObserver struct {
	metrics *Metrics
}

// NewMetricsObserver creates an observer recording into m.
func NewMetricsObserver(m *Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

func (o *MetricsObserver) RunStarted(userID string, limit int) {
	o.metrics.IncRuns()
}

func (o *MetricsObserver) StageCompleted(stage Stage, name string, before, after int, elapsed time.Duration) {
	o.metrics.ObserveStageDuration(stage, elapsed.Seconds())
	if stage == StageCollect {
		o.metrics.AddCandidatesCollected(after)
	}
}

func (o *MetricsObserver) StageFailed(stage Stage, name string, err error) {
	o.metrics.IncStageFailures(stage)
}

func (o *MetricsObserver) RunCompleted(returned int, elapsed time.Duration, err error) {
	o.metrics.ObserveRunDuration(elapsed.Seconds())
	if err != nil {
		o.metrics.IncRunErrors()
	}
}
