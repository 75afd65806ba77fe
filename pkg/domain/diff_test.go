package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ptr[T any](v T) *T { return &v }

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		old      *Session
		new      *Session
		wantDiff *SessionDiff // nil means we expect no diff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new: &Session{
				ID:          "sess-1",
				Thermostats: Thermostats{"home": 72},
			},
			wantDiff: &SessionDiff{
				SessionID:   "sess-1",
				Thermostats: map[string]*float64{"home": ptr(72.0)},
			},
		},
		{
			name:     "No Changes",
			old:      &Session{ID: "sess-1", Thermostats: Thermostats{"home": 72}},
			new:      &Session{ID: "sess-1", Thermostats: Thermostats{"home": 72}},
			wantDiff: nil,
		},
		{
			name: "Temperature Modified & Added",
			old:  &Session{ID: "sess-1", Thermostats: Thermostats{"home": 72}},
			new:  &Session{ID: "sess-1", Thermostats: Thermostats{"home": 70, "Bedroom": 68}},
			wantDiff: &SessionDiff{
				SessionID:   "sess-1",
				Thermostats: map[string]*float64{"home": ptr(70.0), "Bedroom": ptr(68.0)},
			},
		},
		{
			name: "Temperature Deleted",
			old:  &Session{ID: "sess-1", Thermostats: Thermostats{"home": 72, "Bedroom": 68}},
			new:  &Session{ID: "sess-1", Thermostats: Thermostats{"home": 72}},
			wantDiff: &SessionDiff{
				SessionID:   "sess-1",
				Thermostats: map[string]*float64{"Bedroom": nil},
			},
		},
		{
			name: "Frame Deferred",
			old:  &Session{ID: "sess-1"},
			new:  &Session{ID: "sess-1", Frame: &Frame{Action: ActionCloseDoor}},
			wantDiff: &SessionDiff{
				SessionID: "sess-1",
				Frame:     &FrameDelta{Set: &Frame{Action: ActionCloseDoor}},
			},
		},
		{
			name: "Frame Replaced",
			old:  &Session{ID: "sess-1", Frame: &Frame{Action: ActionCloseDoor}},
			new:  &Session{ID: "sess-1", Frame: &Frame{Action: ActionTurnOnLights}},
			wantDiff: &SessionDiff{
				SessionID: "sess-1",
				Frame:     &FrameDelta{Set: &Frame{Action: ActionTurnOnLights}},
			},
		},
		{
			name: "Frame Consumed",
			old:  &Session{ID: "sess-1", Frame: &Frame{Action: ActionSetThermostat, ThermostatLocation: "home"}},
			new:  &Session{ID: "sess-1", Thermostats: Thermostats{"home": 65}},
			wantDiff: &SessionDiff{
				SessionID:   "sess-1",
				Thermostats: map[string]*float64{"home": ptr(65.0)},
				Frame:       &FrameDelta{Cleared: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if diff := cmp.Diff(tt.wantDiff, got); diff != "" {
				t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiffJSONSerialization(t *testing.T) {
	t.Run("Deletions as Null", func(t *testing.T) {
		s1 := &Session{ID: "s", Thermostats: Thermostats{"a": 1, "b": 2}}
		s2 := &Session{ID: "s", Thermostats: Thermostats{"a": 1}}
		diff := Diff(s1, s2)
		if diff == nil {
			t.Fatal("Expected diff, got nil")
		}

		bytes, _ := json.Marshal(diff)
		if !strings.Contains(string(bytes), `"b":null`) {
			t.Errorf("JSON should contain 'b':null for deletion, got: %s", string(bytes))
		}
		if strings.Contains(string(bytes), `"frame"`) {
			t.Errorf("JSON should not contain 'frame' when unchanged, got: %s", string(bytes))
		}
	})
}
