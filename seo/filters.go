package seo

import (
	"context"

	"github.com/onnwee/rankpipe/pipeline"
)

// ParamIntentFilter is the request parameter that restricts a run to one
// intent, overriding an IntentFilter's configured allow list.
const ParamIntentFilter = "intent_filter"

// IntentFilter keeps clusters whose search intent is in the allowed set.
// A per-request intent parameter narrows the run to exactly that intent.
type IntentFilter struct {
	// Allowed intents. Defaults to commercial and mixed.
	Allowed []string
}

func (f IntentFilter) Name() string { return "intent" }

func (f IntentFilter) Filter(ctx context.Context, cands []pipeline.Candidate[*Cluster], rc *pipeline.RunContext) ([]pipeline.Candidate[*Cluster], error) {
	allowed := f.Allowed
	if len(allowed) == 0 {
		allowed = []string{IntentCommercial, IntentMixed}
	}
	if intent := rc.ParamString(ParamIntentFilter); intent != "" {
		allowed = []string{intent}
	}

	set := make(map[string]struct{}, len(allowed))
	for _, intent := range allowed {
		set[intent] = struct{}{}
	}

	out := make([]pipeline.Candidate[*Cluster], 0, len(cands))
	for _, c := range cands {
		if _, ok := set[c.Payload.Intent]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// DefaultMinVolume is the search volume cutoff applied when VolumeFilter is
// used with a zero MinVolume.
const DefaultMinVolume = 100

// VolumeFilter drops clusters below a minimum monthly search volume.
type VolumeFilter struct {
	// MinVolume is the inclusive lower bound. Defaults to DefaultMinVolume.
	MinVolume int
}

func (f VolumeFilter) Name() string { return "volume" }

func (f VolumeFilter) Filter(ctx context.Context, cands []pipeline.Candidate[*Cluster], rc *pipeline.RunContext) ([]pipeline.Candidate[*Cluster], error) {
	minVolume := f.MinVolume
	if minVolume <= 0 {
		minVolume = DefaultMinVolume
	}
	out := make([]pipeline.Candidate[*Cluster], 0, len(cands))
	for _, c := range cands {
		if c.Payload.SearchVolume >= minVolume {
			out = append(out, c)
		}
	}
	return out, nil
}

// OpportunityWindowFilter keeps clusters where optimization work can
// realistically move the needle: unranked clusters, or positions 4 through
// 50. Positions 1-3 are already won and positions beyond 50 are long shots.
type OpportunityWindowFilter struct{}

func (f OpportunityWindowFilter) Name() string { return "opportunity_window" }

func (f OpportunityWindowFilter) Filter(ctx context.Context, cands []pipeline.Candidate[*Cluster], rc *pipeline.RunContext) ([]pipeline.Candidate[*Cluster], error) {
	out := make([]pipeline.Candidate[*Cluster], 0, len(cands))
	for _, c := range cands {
		pos := c.Payload.CurrentPosition
		if pos == 0 || (pos >= 4 && pos <= 50) {
			out = append(out, c)
		}
	}
	return out, nil
}
