package pipeline

import (
	"context"
	"testing"
)

func scoredCands(scores map[string]float64, order ...string) []Candidate[string] {
	cands := make([]Candidate[string], 0, len(order))
	for _, id := range order {
		c := NewCandidate(id, id, "test")
		c.Score = scores[id]
		cands = append(cands, c)
	}
	return cands
}

func ids(cands []Candidate[string]) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.ID)
	}
	return out
}

func assertIDs(t *testing.T, got []Candidate[string], want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("got %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("got %v, want %v", gotIDs, want)
		}
	}
}

func TestMinScoreFilter(t *testing.T) {
	tests := []struct {
		name  string
		min   float64
		cands []Candidate[string]
		want  []string
	}{
		{
			name:  "drops below threshold",
			min:   1.0,
			cands: scoredCands(map[string]float64{"a": 2.0, "b": 0.5, "c": 1.0}, "a", "b", "c"),
			want:  []string{"a", "c"},
		},
		{
			name:  "threshold is inclusive",
			min:   0.0,
			cands: scoredCands(map[string]float64{"a": 0.0, "b": -0.1}, "a", "b"),
			want:  []string{"a"},
		},
		{
			name:  "empty input",
			min:   1.0,
			cands: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := MinScoreFilter[string]{Min: tt.min}
			got, err := f.Filter(context.Background(), tt.cands, &RunContext{})
			if err != nil {
				t.Fatalf("Filter() error = %v", err)
			}
			assertIDs(t, got, tt.want...)
		})
	}
}

func TestMinScoreFilter_Idempotent(t *testing.T) {
	f := MinScoreFilter[string]{Min: 1.0}
	cands := scoredCands(map[string]float64{"a": 2.0, "b": 0.5, "c": 3.0}, "a", "b", "c")

	once, err := f.Filter(context.Background(), cands, &RunContext{})
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	twice, err := f.Filter(context.Background(), once, &RunContext{})
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}

	assertIDs(t, twice, ids(once)...)
}

func TestHistoryFilter(t *testing.T) {
	tests := []struct {
		name    string
		history []string
		cands   []Candidate[string]
		want    []string
	}{
		{
			name:    "drops seen ids preserving order",
			history: []string{"b", "d"},
			cands:   makeCands("a", "b", "c", "d", "e"),
			want:    []string{"a", "c", "e"},
		},
		{
			name:    "empty history keeps everything",
			history: nil,
			cands:   makeCands("a", "b"),
			want:    []string{"a", "b"},
		},
		{
			name:    "history covering everything empties the set",
			history: []string{"a", "b"},
			cands:   makeCands("a", "b"),
			want:    nil,
		},
		{
			name:    "history ids not present are ignored",
			history: []string{"x", "y"},
			cands:   makeCands("a", "b"),
			want:    []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := HistoryFilter[string]{}
			got, err := f.Filter(context.Background(), tt.cands, &RunContext{History: tt.history})
			if err != nil {
				t.Fatalf("Filter() error = %v", err)
			}
			assertIDs(t, got, tt.want...)
		})
	}
}

func TestHistoryFilter_IsSubset(t *testing.T) {
	f := HistoryFilter[string]{}
	cands := makeCands("a", "b", "c")
	input := make(map[string]bool, len(cands))
	for _, c := range cands {
		input[c.ID] = true
	}

	got, err := f.Filter(context.Background(), cands, &RunContext{History: []string{"b"}})
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}

	for _, c := range got {
		if !input[c.ID] {
			t.Errorf("filter output contains %q which was not in the input", c.ID)
		}
	}
}
