package seo

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/onnwee/rankpipe/pipeline"
)

func cluster(id string, position, volume int) *Cluster {
	return &Cluster{
		ID:              id,
		MainKeyword:     id,
		SearchVolume:    volume,
		CurrentPosition: position,
		Intent:          IntentCommercial,
		Competition:     CompetitionMedium,
	}
}

func TestWebmasterSource_ServesOnlyRanked(t *testing.T) {
	clusters := []*Cluster{
		cluster("ranked", 8, 1000),
		cluster("unranked", 0, 1000),
	}

	got, err := NewWebmasterSource(clusters).Fetch(context.Background(), &pipeline.RunContext{}, 10)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "ranked" {
		t.Fatalf("Fetch() = %v, want only the ranked cluster", got)
	}
	if !got[0].MetaBool(MetaHasPosition) {
		t.Errorf("ranked candidate missing %s metadata", MetaHasPosition)
	}
}

func TestOpportunitySource_ServesOnlyUnranked(t *testing.T) {
	clusters := []*Cluster{
		cluster("ranked", 8, 1000),
		cluster("unranked", 0, 1000),
	}

	got, err := NewOpportunitySource(clusters).Fetch(context.Background(), &pipeline.RunContext{}, 10)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "unranked" {
		t.Fatalf("Fetch() = %v, want only the unranked cluster", got)
	}
	if !got[0].MetaBool(MetaNewOpportunity) {
		t.Errorf("opportunity candidate missing %s metadata", MetaNewOpportunity)
	}
}

func TestMetricsHydrator(t *testing.T) {
	metrics := map[string]ClusterMetrics{
		"c1": {CTR: 0.05, ConversionRate: 0.02, Revenue: 50000},
	}
	cands := []pipeline.Candidate[*Cluster]{
		pipeline.NewCandidate("c1", cluster("c1", 8, 1000), "webmaster"),
		pipeline.NewCandidate("c2", cluster("c2", 12, 1000), "webmaster"),
	}

	got, err := NewMetricsHydrator(metrics).Hydrate(context.Background(), cands, &pipeline.RunContext{})
	if err != nil {
		t.Fatalf("Hydrate() error = %v", err)
	}
	if got[0].MetaFloat(MetaRevenue, 0) != 50000 {
		t.Errorf("revenue = %v, want 50000", got[0].MetaFloat(MetaRevenue, 0))
	}
	if got[1].Meta(MetaRevenue) != nil {
		t.Errorf("cluster without metrics should stay unannotated, got %v", got[1].Meta(MetaRevenue))
	}
}

func TestCompetitorHydrator(t *testing.T) {
	competitors := map[string]CompetitorStats{
		"dental implants": {Count: 12, TopAuthority: 0.8, ContentGap: true},
	}
	c := cluster("c1", 8, 1000)
	c.MainKeyword = "dental implants"
	cands := []pipeline.Candidate[*Cluster]{pipeline.NewCandidate("c1", c, "webmaster")}

	got, err := NewCompetitorHydrator(competitors).Hydrate(context.Background(), cands, &pipeline.RunContext{})
	if err != nil {
		t.Fatalf("Hydrate() error = %v", err)
	}
	if !got[0].MetaBool(MetaContentGap) {
		t.Error("content gap not annotated")
	}
	if got[0].MetaFloat(MetaTopAuthority, 0) != 0.8 {
		t.Errorf("top authority = %v, want 0.8", got[0].MetaFloat(MetaTopAuthority, 0))
	}
}

func TestIntentFilter(t *testing.T) {
	mk := func(id, intent string) pipeline.Candidate[*Cluster] {
		c := cluster(id, 8, 1000)
		c.Intent = intent
		return pipeline.NewCandidate(id, c, "webmaster")
	}
	cands := []pipeline.Candidate[*Cluster]{
		mk("commercial", IntentCommercial),
		mk("info", IntentInformational),
		mk("mixed", IntentMixed),
	}

	t.Run("default allows commercial and mixed", func(t *testing.T) {
		got, err := IntentFilter{}.Filter(context.Background(), cands, &pipeline.RunContext{})
		if err != nil {
			t.Fatalf("Filter() error = %v", err)
		}
		if len(got) != 2 || got[0].ID != "commercial" || got[1].ID != "mixed" {
			t.Errorf("Filter() = %v, want [commercial mixed]", got)
		}
	})

	t.Run("request parameter narrows to one intent", func(t *testing.T) {
		rc := &pipeline.RunContext{Params: map[string]any{ParamIntentFilter: IntentInformational}}
		got, err := IntentFilter{}.Filter(context.Background(), cands, rc)
		if err != nil {
			t.Fatalf("Filter() error = %v", err)
		}
		if len(got) != 1 || got[0].ID != "info" {
			t.Errorf("Filter() = %v, want [info]", got)
		}
	})
}

func TestVolumeFilter(t *testing.T) {
	cands := []pipeline.Candidate[*Cluster]{
		pipeline.NewCandidate("big", cluster("big", 8, 5000), "webmaster"),
		pipeline.NewCandidate("small", cluster("small", 8, 10), "webmaster"),
		pipeline.NewCandidate("edge", cluster("edge", 8, 100), "webmaster"),
	}

	got, err := VolumeFilter{MinVolume: 100}.Filter(context.Background(), cands, &pipeline.RunContext{})
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "big" || got[1].ID != "edge" {
		t.Errorf("Filter() = %v, want [big edge] (cutoff inclusive)", got)
	}
}

func TestOpportunityWindowFilter(t *testing.T) {
	tests := []struct {
		name     string
		position int
		want     bool
	}{
		{name: "unranked is an opportunity", position: 0, want: true},
		{name: "top three already won", position: 2, want: false},
		{name: "position four in the window", position: 4, want: true},
		{name: "position fifty in the window", position: 50, want: true},
		{name: "beyond fifty too far", position: 51, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cands := []pipeline.Candidate[*Cluster]{
				pipeline.NewCandidate("c", cluster("c", tt.position, 1000), "webmaster"),
			}
			got, err := OpportunityWindowFilter{}.Filter(context.Background(), cands, &pipeline.RunContext{})
			if err != nil {
				t.Fatalf("Filter() error = %v", err)
			}
			if kept := len(got) == 1; kept != tt.want {
				t.Errorf("position %d kept = %v, want %v", tt.position, kept, tt.want)
			}
		})
	}
}

func TestClusterScorer(t *testing.T) {
	s := NewClusterScorer(nil)

	strong := cluster("strong", 12, 8000)
	strong.Clicks = 800
	strong.Conversions = 50
	strong.AvgTimeOnPage = 200

	weak := cluster("weak", 45, 200)
	weak.BounceRate = 0.8

	cands := []pipeline.Candidate[*Cluster]{
		pipeline.NewCandidate("strong", strong, "webmaster"),
		pipeline.NewCandidate("weak", weak, "webmaster"),
	}
	got, err := s.Score(context.Background(), cands, &pipeline.RunContext{})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	if got[0].Score <= got[1].Score {
		t.Errorf("strong cluster score %v not above weak cluster score %v", got[0].Score, got[1].Score)
	}
	if got[0].Score <= 0 {
		t.Errorf("strong cluster score = %v, want positive", got[0].Score)
	}
}

func TestClusterScorer_LowCompetitionBoosted(t *testing.T) {
	s := NewClusterScorer(nil)

	base := cluster("base", 12, 5000)
	base.Clicks = 500
	easy := cluster("easy", 12, 5000)
	easy.Clicks = 500
	easy.Competition = CompetitionLow

	cands := []pipeline.Candidate[*Cluster]{
		pipeline.NewCandidate("base", base, "webmaster"),
		pipeline.NewCandidate("easy", easy, "webmaster"),
	}
	got, err := s.Score(context.Background(), cands, &pipeline.RunContext{})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if got[1].Score <= got[0].Score {
		t.Errorf("low-competition score %v not above baseline %v", got[1].Score, got[0].Score)
	}
}

func TestROIScorer(t *testing.T) {
	withRevenue := pipeline.NewCandidate("r", cluster("r", 12, 1000), "webmaster")
	withRevenue.Score = 1.0
	withRevenue.SetMeta(MetaRevenue, 50000.0)
	without := pipeline.NewCandidate("n", cluster("n", 12, 1000), "webmaster")
	without.Score = 1.0

	got, err := ROIScorer{RevenueWeight: 0.3}.Score(context.Background(),
		[]pipeline.Candidate[*Cluster]{withRevenue, without}, &pipeline.RunContext{})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	want := 1.0 + 0.5*0.3 // 50000/100000 normalized, weighted
	if got[0].Score != want {
		t.Errorf("score with revenue = %v, want %v", got[0].Score, want)
	}
	if got[1].Score != 1.0 {
		t.Errorf("score without revenue = %v, want 1.0 unchanged", got[1].Score)
	}
}

func TestPrioritizer_EndToEnd(t *testing.T) {
	implant := cluster("implants", 12, 8000)
	implant.Clicks = 600
	implant.Conversions = 40
	implant.AvgTimeOnPage = 180

	newOpp := cluster("veneers", 0, 6000)

	tooSmall := cluster("niche", 14, 20)
	alreadyWon := cluster("whitening", 2, 9000)

	clusters := []*Cluster{implant, newOpp, tooSmall, alreadyWon}
	metrics := map[string]ClusterMetrics{
		"implants": {CTR: 0.06, ConversionRate: 0.03, Revenue: 80000},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p, err := NewPrioritizer(clusters, metrics, nil, logger)
	if err != nil {
		t.Fatalf("NewPrioritizer() error = %v", err)
	}

	got, err := p.Run(context.Background(), &pipeline.RunContext{}, 10)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Run() returned %d clusters, want 2 (filters drop niche and whitening)", len(got))
	}
	if got[0].ID != "implants" {
		t.Errorf("top cluster = %s, want implants (strongest evidence + ROI)", got[0].ID)
	}
	for _, c := range got {
		if c.ID == "niche" || c.ID == "whitening" {
			t.Errorf("cluster %s should have been filtered out", c.ID)
		}
	}
}
