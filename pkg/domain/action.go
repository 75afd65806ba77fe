package domain

import "fmt"

// Action is the canonical label of a device action. It is what a pending Frame
// records as its desired action, so the set is closed: any other value is a defect.
type Action string

const (
	ActionCloseDoor          Action = "Close Door"
	ActionOpenDoor           Action = "Open Door"
	ActionLockDoor           Action = "Lock Door"
	ActionUnlockDoor         Action = "Unlock Door"
	ActionTurnOnLights       Action = "Turn On Lights"
	ActionTurnOffLights      Action = "Turn Off Lights"
	ActionTurnOnAppliance    Action = "Turn On Appliance"
	ActionTurnOffAppliance   Action = "Turn Off Appliance"
	ActionSetThermostat      Action = "Set Thermostat"
	ActionTurnUpThermostat   Action = "Turn Up Thermostat"
	ActionTurnDownThermostat Action = "Turn Down Thermostat"
	ActionTurnOnThermostat   Action = "Turn On Thermostat"
	ActionTurnOffThermostat  Action = "Turn Off Thermostat"
)

// Actions returns the 13 action kinds in declaration order.
func Actions() []Action {
	return []Action{
		ActionCloseDoor,
		ActionOpenDoor,
		ActionLockDoor,
		ActionUnlockDoor,
		ActionTurnOnLights,
		ActionTurnOffLights,
		ActionTurnOnAppliance,
		ActionTurnOffAppliance,
		ActionSetThermostat,
		ActionTurnUpThermostat,
		ActionTurnDownThermostat,
		ActionTurnOnThermostat,
		ActionTurnOffThermostat,
	}
}

// Valid reports whether a is one of the known action kinds.
func (a Action) Valid() bool {
	switch a {
	case ActionCloseDoor, ActionOpenDoor, ActionLockDoor, ActionUnlockDoor,
		ActionTurnOnLights, ActionTurnOffLights,
		ActionTurnOnAppliance, ActionTurnOffAppliance,
		ActionSetThermostat, ActionTurnUpThermostat, ActionTurnDownThermostat,
		ActionTurnOnThermostat, ActionTurnOffThermostat:
		return true
	}
	return false
}

// AwaitsLocation reports whether a deferred frame for this action is answered by specify-location.
func (a Action) AwaitsLocation() bool {
	switch a {
	case ActionCloseDoor, ActionOpenDoor, ActionLockDoor, ActionUnlockDoor,
		ActionTurnOnLights, ActionTurnOffLights,
		ActionTurnOnAppliance, ActionTurnOffAppliance:
		return true
	}
	return false
}

// AwaitsTemperature reports whether a deferred frame for this action is answered by specify-temperature.
func (a Action) AwaitsTemperature() bool {
	switch a {
	case ActionSetThermostat, ActionTurnUpThermostat, ActionTurnDownThermostat:
		return true
	}
	return false
}

// ParseAction converts a persisted label back into an Action.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
	return a, nil
}

// UnmarshalText rejects unknown labels so a corrupted frame never reaches a handler.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
