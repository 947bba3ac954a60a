package pipeline

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()
	if m == nil {
		t.Fatal("NewMetrics() returned nil")
	}

	// Verify all collectors are initialized
	collectors := m.Collectors()
	if len(collectors) != 6 {
		t.Errorf("expected 6 collectors, got %d", len(collectors))
	}
}

func TestMetrics_Register(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		m := NewMetrics()
		reg := prometheus.NewRegistry()

		if err := m.Register(reg); err != nil {
			t.Errorf("Register() returned error: %v", err)
		}

		// Vector collectors only appear in Gather once they have a sample.
		m.IncStageFailures(StageFilter)
		m.ObserveStageDuration(StageScore, 0.01)

		families, err := reg.Gather()
		if err != nil {
			t.Errorf("Gather() returned error: %v", err)
		}

		expectedNames := map[string]bool{
			MetricRunsTotal:           false,
			MetricRunErrorsTotal:      false,
			MetricCandidatesCollected: false,
			MetricStageFailures:       false,
			MetricRunDuration:         false,
			MetricStageDuration:       false,
		}

		for _, family := range families {
			if _, ok := expectedNames[family.GetName()]; ok {
				expectedNames[family.GetName()] = true
			}
		}

		for name, found := range expectedNames {
			if !found {
				t.Errorf("metric %s not found in gathered metrics", name)
			}
		}
	})

	t.Run("duplicate registration fails", func(t *testing.T) {
		m1 := NewMetrics()
		m2 := NewMetrics()
		reg := prometheus.NewRegistry()

		if err := m1.Register(reg); err != nil {
			t.Fatalf("first Register() returned error: %v", err)
		}

		if err := m2.Register(reg); err == nil {
			t.Error("second Register() should have returned an error")
		}
	})
}

func getCounterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.(prometheus.Metric).Write(&m); err != nil {
		return -1
	}
	return m.GetCounter().GetValue()
}

func getHistogramSampleCount(h prometheus.Histogram) uint64 {
	var m dto.Metric
	if err := h.(prometheus.Metric).Write(&m); err != nil {
		return 0
	}
	return m.GetHistogram().GetSampleCount()
}

func TestMetrics_IncRuns(t *testing.T) {
	m := NewMetrics()

	initial := getCounterValue(m.runs)
	if initial != 0 {
		t.Errorf("initial value = %f, want 0", initial)
	}

	for i := 0; i < 100; i++ {
		m.IncRuns()
	}

	final := getCounterValue(m.runs)
	if final != 100 {
		t.Errorf("final value = %f, want 100", final)
	}
}

func TestMetrics_AddCandidatesCollected(t *testing.T) {
	m := NewMetrics()

	m.AddCandidatesCollected(40)
	m.AddCandidatesCollected(2)

	final := getCounterValue(m.candidatesCollected)
	if final != 42 {
		t.Errorf("final value = %f, want 42", final)
	}
}

func TestMetrics_IncStageFailures(t *testing.T) {
	m := NewMetrics()

	m.IncStageFailures(StageFilter)
	m.IncStageFailures(StageFilter)
	m.IncStageFailures(StageCollect)

	filterVal := getCounterValue(m.stageFailures.WithLabelValues(string(StageFilter)))
	if filterVal != 2 {
		t.Errorf("filter failures = %f, want 2", filterVal)
	}
	collectVal := getCounterValue(m.stageFailures.WithLabelValues(string(StageCollect)))
	if collectVal != 1 {
		t.Errorf("collect failures = %f, want 1", collectVal)
	}
	scoreVal := getCounterValue(m.stageFailures.WithLabelValues(string(StageScore)))
	if scoreVal != 0 {
		t.Errorf("score failures = %f, want 0", scoreVal)
	}
}

func TestMetrics_ObserveRunDuration(t *testing.T) {
	m := NewMetrics()

	initial := getHistogramSampleCount(m.runDuration)
	if initial != 0 {
		t.Errorf("initial sample count = %d, want 0", initial)
	}

	durations := []float64{0.001, 0.005, 0.05, 0.5}
	for _, d := range durations {
		m.ObserveRunDuration(d)
	}

	final := getHistogramSampleCount(m.runDuration)
	if final != uint64(len(durations)) {
		t.Errorf("final sample count = %d, want %d", final, len(durations))
	}
}

func TestMetrics_ObserveStageDuration(t *testing.T) {
	m := NewMetrics()

	m.ObserveStageDuration(StageHydrate, 0.002)
	m.ObserveStageDuration(StageHydrate, 0.004)
	m.ObserveStageDuration(StageSelect, 0.001)

	hydrate, err := m.stageDuration.GetMetricWithLabelValues(string(StageHydrate))
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues() error = %v", err)
	}
	var metric dto.Metric
	if err := hydrate.(prometheus.Metric).Write(&metric); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got := metric.GetHistogram().GetSampleCount(); got != 2 {
		t.Errorf("hydrate sample count = %d, want 2", got)
	}
}

func TestMetrics_Concurrency(t *testing.T) {
	m := NewMetrics()
	done := make(chan bool)
	iterations := 100

	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < iterations; j++ {
				m.IncRuns()
				m.IncRunErrors()
				m.AddCandidatesCollected(1)
				m.IncStageFailures(StageFilter)
				m.ObserveRunDuration(0.01)
				m.ObserveStageDuration(StageScore, 0.001)
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	if got := getCounterValue(m.runs); got != 1000 {
		t.Errorf("runs = %f, want 1000", got)
	}
	if got := getCounterValue(m.candidatesCollected); got != 1000 {
		t.Errorf("candidatesCollected = %f, want 1000", got)
	}
}
