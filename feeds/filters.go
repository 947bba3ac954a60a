package feeds

import (
	"context"

	"github.com/onnwee/rankpipe/pipeline"
)

// UnviewedFilter drops notifications the client has already seen.
type UnviewedFilter struct{}

func (f UnviewedFilter) Name() string { return "unviewed" }

func (f UnviewedFilter) Filter(ctx context.Context, cands []pipeline.Candidate[*Notification], rc *pipeline.RunContext) ([]pipeline.Candidate[*Notification], error) {
	out := make([]pipeline.Candidate[*Notification], 0, len(cands))
	for _, c := range cands {
		if !c.Payload.Viewed {
			out = append(out, c)
		}
	}
	return out, nil
}

// DefaultDismissThreshold is the dismiss-rate cutoff applied when
// DismissRateFilter is used with a zero Threshold.
const DefaultDismissThreshold = 0.8

// DismissRateFilter drops notification kinds the client habitually
// dismisses. Critical and action-required notifications are exempt: they
// must surface no matter how unpopular their kind is.
type DismissRateFilter struct {
	// Threshold is the dismiss rate at or above which a kind is dropped.
	// Defaults to DefaultDismissThreshold.
	Threshold float64
}

func (f DismissRateFilter) Name() string { return "dismiss_rate" }

func (f DismissRateFilter) Filter(ctx context.Context, cands []pipeline.Candidate[*Notification], rc *pipeline.RunContext) ([]pipeline.Candidate[*Notification], error) {
	threshold := f.Threshold
	if threshold <= 0 {
		threshold = DefaultDismissThreshold
	}

	out := make([]pipeline.Candidate[*Notification], 0, len(cands))
	for _, c := range cands {
		n := c.Payload
		if n.Priority == PriorityCritical || n.Kind == KindActionRequired {
			out = append(out, c)
			continue
		}
		if c.MetaFloat(MetaDismissRate, 0) < threshold {
			out = append(out, c)
		}
	}
	return out, nil
}
