package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/hearth/pkg/domain"
)

// Fixed texts.
const (
	PromptFallback       = "Sorry, not sure what you meant there."
	PromptWhichDoor      = "Of course, which door?"
	PromptWhichLights    = "Of course, which lights?"
	PromptSetTemperature = "Of course, what temperature shall I set it to?"
	PromptAdjustAmount   = "Of course, by how much?"

	ReplyWeatherNotSetup    = "Open weather API is not setup, please follow instructions to setup the API."
	ReplyWeatherUnreachable = "Sorry, I was unable to connect to the weather API, please check your connection."
	ReplyWeatherUnknownCity = "Sorry, I wasn't able to recognize that city."
	ReplyWeatherInvalidKey  = "Sorry, the API key is invalid."
)

// formatNumber prints the shortest decimal form, so 10.0 renders as "10" and 55.5 as "55.5".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// deviceState is the past participle describing the outcome of a device action.
func deviceState(a domain.Action) (string, error) {
	switch a {
	case domain.ActionCloseDoor:
		return "closed", nil
	case domain.ActionOpenDoor:
		return "opened", nil
	case domain.ActionLockDoor:
		return "locked", nil
	case domain.ActionUnlockDoor:
		return "unlocked", nil
	case domain.ActionTurnOnLights, domain.ActionTurnOnAppliance, domain.ActionTurnOnThermostat:
		return "on", nil
	case domain.ActionTurnOffLights, domain.ActionTurnOffAppliance, domain.ActionTurnOffThermostat:
		return "off", nil
	}
	return "", fmt.Errorf("%w: %q has no device state", domain.ErrUnknownAction, a)
}

// DoorReply describes a door action on every door or on the door of one room.
func DoorReply(all bool, location, state string) string {
	if all {
		return fmt.Sprintf("Ok. All doors have been %s.", state)
	}
	return fmt.Sprintf("Ok. The %s door has been %s.", strings.ToLower(location), state)
}

// LightsReply describes a lights action on every light or on the lights of one room.
func LightsReply(all bool, location, state string) string {
	if all {
		return fmt.Sprintf("Ok. All lights have been turned %s.", state)
	}
	return fmt.Sprintf("Ok. The %s lights have been turned %s.", strings.ToLower(location), state)
}

// ApplianceReply describes an appliance switched on or off.
func ApplianceReply(appliance, state string) string {
	return fmt.Sprintf("Ok. The %s has been turned %s.", appliance, state)
}

// AppliancePrompt asks which of several appliances is meant.
func AppliancePrompt(appliance string) string {
	return fmt.Sprintf("Of course, which %s", appliance)
}

// ThermostatTemperatureReply reports a new thermostat temperature.
func ThermostatTemperatureReply(location string, temp float64) string {
	return fmt.Sprintf("The thermostat temperature in the %s is now %s degrees F.", location, formatNumber(temp))
}

// ThermostatModeReply reports a thermostat switched on or off.
func ThermostatModeReply(location, state string) string {
	return fmt.Sprintf("Ok. The thermostat in the %s has been turned %s.", location, state)
}

// ThermostatCheckReply reports the current thermostat temperature.
func ThermostatCheckReply(location string, temp float64) string {
	return fmt.Sprintf("Current thermostat temperature in the %s is %s.", strings.ToLower(location), formatNumber(temp))
}

// WeatherReply reports current conditions.
func WeatherReply(city, condition string, tempMin, tempMax float64) string {
	return fmt.Sprintf("The weather in %s is %s with a min of %s and a max of %s",
		city, condition, formatNumber(tempMin), formatNumber(tempMax))
}

// target is what a device action is applied to.
type target struct {
	all       bool
	location  string
	appliance string
}

// deviceReply is shared by the direct device intents and specify-location so both
// produce the same text for the same action and target.
func deviceReply(a domain.Action, t target) (string, error) {
	state, err := deviceState(a)
	if err != nil {
		return "", err
	}
	switch a {
	case domain.ActionCloseDoor, domain.ActionOpenDoor, domain.ActionLockDoor, domain.ActionUnlockDoor:
		return DoorReply(t.all, t.location, state), nil
	case domain.ActionTurnOnLights, domain.ActionTurnOffLights:
		return LightsReply(t.all, t.location, state), nil
	case domain.ActionTurnOnAppliance, domain.ActionTurnOffAppliance:
		return ApplianceReply(t.appliance, state), nil
	}
	return "", fmt.Errorf("%w: %q is not a device action", domain.ErrUnknownAction, a)
}

// devicePrompt asks for the missing target of a device action.
func devicePrompt(a domain.Action, appliance string) string {
	switch a {
	case domain.ActionTurnOnLights, domain.ActionTurnOffLights:
		return PromptWhichLights
	case domain.ActionTurnOnAppliance, domain.ActionTurnOffAppliance:
		return AppliancePrompt(appliance)
	}
	return PromptWhichDoor
}

// thermostatPrompt asks for the missing temperature of a thermostat action.
func thermostatPrompt(a domain.Action) string {
	if a == domain.ActionSetThermostat {
		return PromptSetTemperature
	}
	return PromptAdjustAmount
}
