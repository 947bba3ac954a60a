package ranking

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// Config holds the weight tables and boost factors consumed by the scoring
// engine. Positive and negative tables are disjoint by convention, not
// enforcement; lookups consult the positive table first. A Config is
// immutable once constructed and safe for concurrent reads.
type Config struct {
	// PositiveWeights maps signal types to their (positive) global weight.
	PositiveWeights map[SignalType]float64 `json:"positive_weights"`

	// NegativeWeights maps signal types to their (negative) global weight.
	NegativeWeights map[SignalType]float64 `json:"negative_weights"`

	// HalfLifeDays is the time-decay half-life: a dated signal loses half
	// its contribution every HalfLifeDays days. Non-positive disables
	// decay.
	HalfLifeDays float64 `json:"half_life_days"`

	// AuthorityBoost multiplies the summed score for authoritative
	// candidates.
	AuthorityBoost float64 `json:"authority_boost"`

	// RecencyBoost multiplies the summed score for recent candidates.
	RecencyBoost float64 `json:"recency_boost"`
}

// DefaultConfig returns the baseline scoring configuration. The weights
// mirror typical engagement-feed tuning: conversions dominate the positive
// side, reports dominate the negative side.
func DefaultConfig() *Config {
	return &Config{
		PositiveWeights: map[SignalType]float64{
			SignalClick:       1.0,
			SignalConversion:  5.0,
			SignalTimeSpent:   0.5,
			SignalShare:       3.0,
			SignalSave:        2.0,
			SignalReturnVisit: 2.5,
		},
		NegativeWeights: map[SignalType]float64{
			SignalBounce: -1.0,
			SignalSkip:   -0.5,
			SignalHide:   -2.0,
			SignalReport: -5.0,
		},
		HalfLifeDays:   7.0,
		AuthorityBoost: 1.5,
		RecencyBoost:   1.2,
	}
}

// Weight returns the global weight for a signal type, or 0 when the type is
// unknown to both tables.
func (c *Config) Weight(t SignalType) float64 {
	if w, ok := c.PositiveWeights[t]; ok {
		return w
	}
	if w, ok := c.NegativeWeights[t]; ok {
		return w
	}
	return 0
}

// CalibrationConfig represents the JSON structure of a calibration file.
type CalibrationConfig struct {
	Version string `json:"version"`
	Weights Config `json:"weights"`
}

// LoadCalibration loads a scoring configuration from a JSON calibration
// file, merging non-zero overrides onto the defaults. On any error the
// defaults are returned alongside the error so callers can degrade
// gracefully.
func LoadCalibration(filePath string) (*Config, error) {
	if filePath == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		slog.Warn("failed to read calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultConfig(), fmt.Errorf("failed to read calibration file: %w", err)
	}

	var calibration CalibrationConfig
	if err := json.Unmarshal(data, &calibration); err != nil {
		slog.Warn("failed to parse calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultConfig(), fmt.Errorf("failed to parse calibration file: %w", err)
	}

	merged := MergeCalibration(DefaultConfig(), &calibration.Weights)
	logCalibrationOverrides(DefaultConfig(), merged)
	return merged, nil
}

// MergeCalibration merges override values onto a base configuration. Weight
// table entries from the override are applied per-type; scalar fields are
// applied only when non-zero, which allows partial calibration files.
func MergeCalibration(base *Config, override *Config) *Config {
	if base == nil {
		base = DefaultConfig()
	}
	result := &Config{
		PositiveWeights: make(map[SignalType]float64, len(base.PositiveWeights)),
		NegativeWeights: make(map[SignalType]float64, len(base.NegativeWeights)),
		HalfLifeDays:    base.HalfLifeDays,
		AuthorityBoost:  base.AuthorityBoost,
		RecencyBoost:    base.RecencyBoost,
	}
	for t, w := range base.PositiveWeights {
		result.PositiveWeights[t] = w
	}
	for t, w := range base.NegativeWeights {
		result.NegativeWeights[t] = w
	}
	if override == nil {
		return result
	}
	for t, w := range override.PositiveWeights {
		result.PositiveWeights[t] = w
	}
	for t, w := range override.NegativeWeights {
		result.NegativeWeights[t] = w
	}
	if override.HalfLifeDays != 0 {
		result.HalfLifeDays = override.HalfLifeDays
	}
	if override.AuthorityBoost != 0 {
		result.AuthorityBoost = override.AuthorityBoost
	}
	if override.RecencyBoost != 0 {
		result.RecencyBoost = override.RecencyBoost
	}
	return result
}

// logCalibrationOverrides logs which values differ from the defaults.
func logCalibrationOverrides(defaults *Config, loaded *Config) {
	var overrides []string

	for t, w := range loaded.PositiveWeights {
		if w != defaults.PositiveWeights[t] {
			overrides = append(overrides, fmt.Sprintf("positive.%s: %.2f -> %.2f",
				t, defaults.PositiveWeights[t], w))
		}
	}
	for t, w := range loaded.NegativeWeights {
		if w != defaults.NegativeWeights[t] {
			overrides = append(overrides, fmt.Sprintf("negative.%s: %.2f -> %.2f",
				t, defaults.NegativeWeights[t], w))
		}
	}
	if loaded.HalfLifeDays != defaults.HalfLifeDays {
		overrides = append(overrides, fmt.Sprintf("half_life_days: %.1f -> %.1f",
			defaults.HalfLifeDays, loaded.HalfLifeDays))
	}
	if loaded.AuthorityBoost != defaults.AuthorityBoost {
		overrides = append(overrides, fmt.Sprintf("authority_boost: %.2f -> %.2f",
			defaults.AuthorityBoost, loaded.AuthorityBoost))
	}
	if loaded.RecencyBoost != defaults.RecencyBoost {
		overrides = append(overrides, fmt.Sprintf("recency_boost: %.2f -> %.2f",
			defaults.RecencyBoost, loaded.RecencyBoost))
	}

	if len(overrides) > 0 {
		slog.Info("loaded scoring calibration with overrides",
			"overrides", overrides)
	} else {
		slog.Info("loaded scoring calibration (using all defaults)")
	}
}
