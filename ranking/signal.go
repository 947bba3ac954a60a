// Package ranking provides the weighted-signal scoring engine: a
// time-decayed, contextually boosted linear combination of engagement
// signals, with deploy-time calibration of weight tables.
package ranking

import "time"

// SignalType names one kind of evidence about a candidate.
type SignalType string

// Positive signal types.
const (
	SignalClick       SignalType = "click"
	SignalConversion  SignalType = "conversion"
	SignalTimeSpent   SignalType = "time_spent"
	SignalShare       SignalType = "share"
	SignalSave        SignalType = "save"
	SignalReturnVisit SignalType = "return_visit"
)

// Negative signal types.
const (
	SignalBounce SignalType = "bounce"
	SignalSkip   SignalType = "skip"
	SignalHide   SignalType = "hide"
	SignalReport SignalType = "report"
)

// Neutral and contextual signal types.
const (
	SignalImpression SignalType = "impression"
	SignalRecency    SignalType = "recency"
	SignalAuthority  SignalType = "authority"
)

// Signal is one piece of weighted evidence about a candidate.
type Signal struct {
	// Type selects the per-type weight from the scoring config. A type
	// absent from both weight tables contributes exactly zero.
	Type SignalType

	// Value is the signal magnitude, typically a probability or a value
	// normalized to [0, 1].
	Value float64

	// Weight is a local multiplier, distinct from the global per-type
	// weight. A zero Weight is treated as 1 so that struct literals built
	// without it keep the conventional default.
	Weight float64

	// Timestamp dates the signal for time decay. The zero time means the
	// signal does not decay.
	Timestamp time.Time
}

// NewSignal creates an undated signal with the default local weight of 1.
func NewSignal(t SignalType, value float64) Signal {
	return Signal{Type: t, Value: value, Weight: 1}
}

// NewSignalAt creates a dated signal with the default local weight of 1.
func NewSignalAt(t SignalType, value float64, ts time.Time) Signal {
	return Signal{Type: t, Value: value, Weight: 1, Timestamp: ts}
}

// Flags carries the per-candidate context consulted after summation.
type Flags struct {
	// Authoritative applies the authority boost to the summed score.
	Authoritative bool

	// Recent applies the recency boost to the summed score.
	Recent bool
}
