package domain

// Intent is the classified purpose of an utterance, as produced by the upstream classifier.
type Intent string

const (
	IntentCheckWeather       Intent = "check-weather"
	IntentSpecifyLocation    Intent = "specify-location"
	IntentSpecifyTemperature Intent = "specify-temperature"
	IntentCloseDoor          Intent = "close-door"
	IntentOpenDoor           Intent = "open-door"
	IntentLockDoor           Intent = "lock-door"
	IntentUnlockDoor         Intent = "unlock-door"
	IntentTurnApplianceOn    Intent = "turn-appliance-on"
	IntentTurnApplianceOff   Intent = "turn-appliance-off"
	IntentTurnLightsOn       Intent = "turn-lights-on"
	IntentTurnLightsOff      Intent = "turn-lights-off"
	IntentCheckThermostat    Intent = "check-thermostat"
	IntentSetThermostat      Intent = "set-thermostat"
	IntentTurnUpThermostat   Intent = "turn-up-thermostat"
	IntentTurnDownThermostat Intent = "turn-down-thermostat"
	IntentTurnOnThermostat   Intent = "turn-on-thermostat"
	IntentTurnOffThermostat  Intent = "turn-off-thermostat"
	IntentUnsupported        Intent = "unsupported"
)

// Intents lists every intent the controller has a dedicated handler for.
func Intents() []Intent {
	return []Intent{
		IntentCheckWeather,
		IntentSpecifyLocation,
		IntentSpecifyTemperature,
		IntentCloseDoor,
		IntentOpenDoor,
		IntentLockDoor,
		IntentUnlockDoor,
		IntentTurnApplianceOn,
		IntentTurnApplianceOff,
		IntentTurnLightsOn,
		IntentTurnLightsOff,
		IntentCheckThermostat,
		IntentSetThermostat,
		IntentTurnUpThermostat,
		IntentTurnDownThermostat,
		IntentTurnOnThermostat,
		IntentTurnOffThermostat,
		IntentUnsupported,
	}
}
