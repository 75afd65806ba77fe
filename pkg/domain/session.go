package domain

import (
	"strings"
	"time"
)

// Frame records an action that was deferred until the next turn supplies the missing slot.
type Frame struct {
	Action             Action `json:"desired_action"`
	Appliance          string `json:"appliance,omitempty"`
	ThermostatLocation string `json:"thermostat_location,omitempty"`
}

// Thermostats maps a location to its current temperature in degrees Fahrenheit.
// It stays sparse: locations only appear once something writes them.
type Thermostats map[string]float64

// Lookup finds the entry for location, matching keys case-insensitively.
// It returns the stored key so callers can update the entry in place.
func (t Thermostats) Lookup(location string) (string, float64, bool) {
	if v, ok := t[location]; ok {
		return location, v, true
	}
	for k, v := range t {
		if strings.EqualFold(k, location) {
			return k, v, true
		}
	}
	return location, 0, false
}

// GetOrDefault returns the temperature for location, or DefaultThermostatTemperature.
func (t Thermostats) GetOrDefault(location string) float64 {
	if _, v, ok := t.Lookup(location); ok {
		return v
	}
	return DefaultThermostatTemperature
}

// Session is the state persisted between turns of one conversation.
type Session struct {
	ID          string      `json:"session_id"`
	Thermostats Thermostats `json:"thermostat_temperatures"`

	// Frame is the single pending action, if any. A new deferral replaces it.
	Frame *Frame `json:"frame,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`

	// Sealed carries the encrypted session when a store seals it at rest.
	// A sealed envelope has no other state.
	Sealed string `json:"sealed,omitempty"`
}

// NewSession creates an empty session.
func NewSession(id string) *Session {
	return &Session{
		ID:          id,
		Thermostats: make(Thermostats),
	}
}

// SetTemperature writes the temperature for location and returns it.
// An existing entry that differs only in case is overwritten rather than duplicated.
func (s *Session) SetTemperature(location string, value float64) float64 {
	if s.Thermostats == nil {
		s.Thermostats = make(Thermostats)
	}
	key, _, _ := s.Thermostats.Lookup(location)
	s.Thermostats[key] = value
	return value
}

// AdjustTemperature adds delta to the current temperature of location.
// A location that was never written starts from DefaultThermostatTemperature.
func (s *Session) AdjustTemperature(location string, delta float64) float64 {
	return s.SetTemperature(location, s.Thermostats.GetOrDefault(location)+delta)
}

// Defer stores f as the pending frame, replacing any previous one.
func (s *Session) Defer(f Frame) {
	s.Frame = &f
}

// Pending returns the pending frame, if any.
func (s *Session) Pending() (Frame, bool) {
	if s.Frame == nil {
		return Frame{}, false
	}
	return *s.Frame, true
}

// ClearFrame drops the pending frame.
func (s *Session) ClearFrame() {
	s.Frame = nil
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Thermostats = make(Thermostats, len(s.Thermostats))
	for k, v := range s.Thermostats {
		c.Thermostats[k] = v
	}
	if s.Frame != nil {
		f := *s.Frame
		c.Frame = &f
	}
	return &c
}
