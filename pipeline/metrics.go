package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricRunsTotal           = "rankpipe_runs_total"
	MetricRunErrorsTotal      = "rankpipe_run_errors_total"
	MetricCandidatesCollected = "rankpipe_candidates_collected_total"
	MetricStageFailures       = "rankpipe_stage_failures_total"
	MetricRunDuration         = "rankpipe_run_duration_seconds"
	MetricStageDuration       = "rankpipe_stage_duration_seconds"
)

// Metrics contains Prometheus metrics for the ranking engine.
// All operations are thread-safe.
type Metrics struct {
	runs                prometheus.Counter
	runErrors           prometheus.Counter
	candidatesCollected prometheus.Counter
	stageFailures       *prometheus.CounterVec
	runDuration         prometheus.Histogram
	stageDuration       *prometheus.HistogramVec
}

// NewMetrics creates a Metrics instance with all collectors initialized.
// The metrics are not registered; call Register to register them with a
// registry.
func NewMetrics() *Metrics {
	return &Metrics{
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricRunsTotal,
			Help: "Total number of pipeline runs started",
		}),
		runErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricRunErrorsTotal,
			Help: "Total number of pipeline runs that aborted with an error",
		}),
		candidatesCollected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricCandidatesCollected,
			Help: "Total number of candidates produced by the collect stage",
		}),
		stageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricStageFailures,
			Help: "Total number of stage invocation failures, by stage kind",
		}, []string{"stage"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricRunDuration,
			Help:    "Histogram of end-to-end pipeline run duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricStageDuration,
			Help:    "Histogram of per-stage invocation duration in seconds, by stage kind",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Collectors returns all Prometheus collectors for testing.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.runs,
		m.runErrors,
		m.candidatesCollected,
		m.stageFailures,
		m.runDuration,
		m.stageDuration,
	}
}

// IncRuns increments the runs counter.
func (m *Metrics) IncRuns() {
	m.runs.Inc()
}

// IncRunErrors increments the run errors counter.
func (m *Metrics) IncRunErrors() {
	m.runErrors.Inc()
}

// AddCandidatesCollected adds n to the collected candidates counter.
func (m *Metrics) AddCandidatesCollected(n int) {
	m.candidatesCollected.Add(float64(n))
}

// IncStageFailures increments the failure counter for a stage kind.
func (m *Metrics) IncStageFailures(stage Stage) {
	m.stageFailures.WithLabelValues(string(stage)).Inc()
}

// ObserveRunDuration records an end-to-end run duration sample.
func (m *Metrics) ObserveRunDuration(seconds float64) {
	m.runDuration.Observe(seconds)
}

// ObserveStageDuration records a per-stage duration sample.
func (m *Metrics) ObserveStageDuration(stage Stage, seconds float64) {
	m.stageDuration.WithLabelValues(string(stage)).Observe(seconds)
}
