package ranking

// Preset configurations for the use cases the engine grew out of. Each is a
// starting point; production deployments override them through calibration
// files.

// SEOConfig tunes the scorer for prioritizing SEO keyword clusters.
// Conversions dominate, the half-life is long because organic search is a
// long game, and source authority counts as positive evidence.
func SEOConfig() *Config {
	return &Config{
		PositiveWeights: map[SignalType]float64{
			SignalClick:       1.0,
			SignalConversion:  10.0,
			SignalTimeSpent:   0.8,
			SignalReturnVisit: 3.0,
			SignalAuthority:   2.0,
		},
		NegativeWeights: map[SignalType]float64{
			SignalBounce: -1.5,
			SignalSkip:   -0.3,
		},
		HalfLifeDays:   30.0,
		AuthorityBoost: 1.5,
		RecencyBoost:   1.2,
	}
}

// ContentConfig tunes the scorer for content recommendations: shares and
// reading time are the strongest positives, and content ages out quickly.
func ContentConfig() *Config {
	return &Config{
		PositiveWeights: map[SignalType]float64{
			SignalClick:     1.0,
			SignalTimeSpent: 2.0,
			SignalShare:     5.0,
			SignalSave:      3.0,
		},
		NegativeWeights: map[SignalType]float64{
			SignalBounce: -2.0,
			SignalSkip:   -0.5,
			SignalHide:   -3.0,
		},
		HalfLifeDays:   7.0,
		AuthorityBoost: 1.5,
		RecencyBoost:   1.5,
	}
}

// TaskConfig tunes the scorer for task prioritization: business impact and
// client importance dominate, urgency decays in days.
func TaskConfig() *Config {
	return &Config{
		PositiveWeights: map[SignalType]float64{
			SignalConversion: 5.0,
			SignalAuthority:  3.0,
			SignalClick:      0.5,
		},
		NegativeWeights: map[SignalType]float64{
			SignalSkip: -2.0,
			SignalHide: -1.0,
		},
		HalfLifeDays:   3.0,
		AuthorityBoost: 1.5,
		RecencyBoost:   2.0,
	}
}

// FeedConfig tunes the scorer for notification feeds, where freshness is
// critical: the half-life is a single day and recent items get a strong
// boost.
func FeedConfig() *Config {
	return &Config{
		PositiveWeights: map[SignalType]float64{
			SignalClick:      2.0,
			SignalConversion: 5.0,
			SignalTimeSpent:  1.0,
			SignalShare:      3.0,
			SignalAuthority:  2.0,
		},
		NegativeWeights: map[SignalType]float64{
			SignalSkip:   -1.0,
			SignalHide:   -3.0,
			SignalBounce: -0.5,
		},
		HalfLifeDays:   1.0,
		AuthorityBoost: 1.5,
		RecencyBoost:   2.0,
	}
}
