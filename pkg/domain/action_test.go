package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestActions_AreValidAndPartitioned(t *testing.T) {
	actions := Actions()
	if len(actions) != 13 {
		t.Fatalf("expected 13 action kinds, got %d", len(actions))
	}

	for _, a := range actions {
		if !a.Valid() {
			t.Errorf("%q should be valid", a)
		}
		if a.AwaitsLocation() && a.AwaitsTemperature() {
			t.Errorf("%q cannot be answered by both follow-up intents", a)
		}
	}

	if ActionTurnOnThermostat.AwaitsLocation() || ActionTurnOnThermostat.AwaitsTemperature() {
		t.Error("thermostat mode toggles are never deferred")
	}
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("Close Door")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != ActionCloseDoor {
		t.Errorf("got %q", a)
	}

	// The legacy appliance labels are not part of the closed set.
	if _, err := ParseAction("Turn On"); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
}

func TestFrame_UnmarshalRejectsUnknownAction(t *testing.T) {
	var f Frame
	if err := json.Unmarshal([]byte(`{"desired_action":"Lock Door"}`), &f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Action != ActionLockDoor {
		t.Errorf("got %q", f.Action)
	}

	err := json.Unmarshal([]byte(`{"desired_action":"Launch Rocket"}`), &f)
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
}
