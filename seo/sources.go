package seo

import (
	"context"

	"github.com/onnwee/rankpipe/pipeline"
)

// WebmasterSource serves clusters that already hold a search position,
// annotated with what evidence exists for them.
type WebmasterSource struct {
	clusters []*Cluster
}

// NewWebmasterSource creates a source over already-ranked clusters.
// Unranked clusters in the input are skipped.
func NewWebmasterSource(clusters []*Cluster) *WebmasterSource {
	return &WebmasterSource{clusters: clusters}
}

func (s *WebmasterSource) Name() string { return "webmaster" }

func (s *WebmasterSource) Fetch(ctx context.Context, rc *pipeline.RunContext, max int) ([]pipeline.Candidate[*Cluster], error) {
	var cands []pipeline.Candidate[*Cluster]
	for _, cluster := range s.clusters {
		if len(cands) >= max {
			break
		}
		if !cluster.Ranked() {
			continue
		}
		c := pipeline.NewCandidate(cluster.ID, cluster, s.Name())
		c.SetMeta(MetaHasPosition, true)
		c.SetMeta(MetaHasTraffic, cluster.Impressions > 0)
		cands = append(cands, c)
	}
	return cands, nil
}

// OpportunitySource serves unranked clusters discovered through keyword
// research, tagged as new opportunities so scoring treats them as fresh.
type OpportunitySource struct {
	clusters []*Cluster
}

// NewOpportunitySource creates a source over unranked clusters. Ranked
// clusters in the input are skipped.
func NewOpportunitySource(clusters []*Cluster) *OpportunitySource {
	return &OpportunitySource{clusters: clusters}
}

func (s *OpportunitySource) Name() string { return "keyword_research" }

func (s *OpportunitySource) Fetch(ctx context.Context, rc *pipeline.RunContext, max int) ([]pipeline.Candidate[*Cluster], error) {
	var cands []pipeline.Candidate[*Cluster]
	for _, cluster := range s.clusters {
		if len(cands) >= max {
			break
		}
		if cluster.Ranked() {
			continue
		}
		c := pipeline.NewCandidate(cluster.ID, cluster, s.Name())
		c.SetMeta(MetaNewOpportunity, true)
		cands = append(cands, c)
	}
	return cands, nil
}
