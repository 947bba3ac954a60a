package pipeline

// RunContext carries request-scoped state into every stage of a ranking run:
// who is asking, what they have already seen, and how they want results
// shaped. It is shared by reference across concurrently running source
// fetches, so stages must treat it as read-only for the duration of a run.
type RunContext struct {
	// UserID identifies the requester. May be empty for anonymous runs.
	UserID string

	// History lists candidate IDs the requester has already seen, oldest
	// first. Filters typically use membership, not ordering.
	History []string

	// Preferences holds requester-level settings consulted by hydrators
	// and scorers.
	Preferences map[string]any

	// Params holds per-request parameters (for example an intent filter
	// or a category restriction).
	Params map[string]any
}

// HistorySet returns the history as a membership set. Each call builds a
// fresh set; filters that run repeatedly should build it once.
func (rc *RunContext) HistorySet() map[string]struct{} {
	seen := make(map[string]struct{}, len(rc.History))
	for _, id := range rc.History {
		seen[id] = struct{}{}
	}
	return seen
}

// Param returns the request parameter for key, or nil.
func (rc *RunContext) Param(key string) any {
	if rc.Params == nil {
		return nil
	}
	return rc.Params[key]
}

// ParamString returns the request parameter for key as a string, or "".
func (rc *RunContext) ParamString(key string) string {
	v, _ := rc.Param(key).(string)
	return v
}

// Preference returns the preference value for key, or nil.
func (rc *RunContext) Preference(key string) any {
	if rc.Preferences == nil {
		return nil
	}
	return rc.Preferences[key]
}

// PreferenceBool returns the preference value for key as a bool, or false.
func (rc *RunContext) PreferenceBool(key string) bool {
	v, ok := rc.Preference(key).(bool)
	return ok && v
}
