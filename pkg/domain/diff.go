package domain

// SessionDiff represents the changes between two snapshots of a session.
// It is designed to be serialized to JSON for partial updates on the client.
type SessionDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	// Thermostats contains only changed, added or deleted locations.
	// For deletions, the key is present with a nil value.
	Thermostats map[string]*float64 `json:"thermostat_temperatures,omitempty"`

	// Frame is set when the pending frame was created, replaced or consumed.
	Frame *FrameDelta `json:"frame,omitempty"`
}

// FrameDelta describes what happened to the pending frame.
type FrameDelta struct {
	Set     *Frame `json:"set,omitempty"`
	Cleared bool   `json:"cleared,omitempty"`
}

// Diff calculates the difference between oldSession and newSession.
// If oldSession is nil, it returns a diff representing the entire newSession.
// It returns nil when nothing changed.
func Diff(oldSession, newSession *Session) *SessionDiff {
	if newSession == nil {
		return nil
	}

	diff := &SessionDiff{
		SessionID:   newSession.ID,
		Thermostats: diffThermostats(oldSession, newSession),
		Frame:       diffFrame(oldSession, newSession),
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffThermostats(old, new *Session) map[string]*float64 {
	delta := make(map[string]*float64)

	for k, v := range new.Thermostats {
		if old == nil {
			delta[k] = &v
			continue
		}
		if prev, ok := old.Thermostats[k]; !ok || prev != v {
			delta[k] = &v
		}
	}

	if old != nil {
		for k := range old.Thermostats {
			if _, ok := new.Thermostats[k]; !ok {
				delta[k] = nil
			}
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

func diffFrame(old, new *Session) *FrameDelta {
	var before *Frame
	if old != nil {
		before = old.Frame
	}
	after := new.Frame

	switch {
	case before == nil && after == nil:
		return nil
	case after == nil:
		return &FrameDelta{Cleared: true}
	case before != nil && *before == *after:
		return nil
	}
	f := *after
	return &FrameDelta{Set: &f}
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SessionDiff) IsEmpty() bool {
	return len(d.Thermostats) == 0 && d.Frame == nil
}
