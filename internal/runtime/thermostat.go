package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/hearth/pkg/domain"
	"github.com/aretw0/hearth/pkg/registry"
)

// checkThermostat reports the temperature of a room, backfilling the default on a miss.
func (e *Engine) checkThermostat(ctx context.Context, req *registry.Request) (domain.Response, error) {
	location, err := e.resolver.ThermostatLocation(ctx, req.Turn)
	if err != nil {
		return domain.Response{}, err
	}

	_, temp, ok := req.Session.Thermostats.Lookup(location)
	if !ok {
		temp = req.Session.SetTemperature(location, domain.DefaultThermostatTemperature)
	}
	return domain.Reply(ThermostatCheckReply(location, temp)), nil
}

// adjustThermostat handles set, turn-up and turn-down: apply the temperature when the turn
// carries one, otherwise defer and ask for it.
func (e *Engine) adjustThermostat(action domain.Action) registry.HandlerFunc {
	return func(ctx context.Context, req *registry.Request) (domain.Response, error) {
		location, err := e.resolver.ThermostatLocation(ctx, req.Turn)
		if err != nil {
			return domain.Response{}, err
		}
		amount, ok, err := e.resolver.Temperature(ctx, req.Turn)
		if err != nil {
			return domain.Response{}, err
		}

		if !ok {
			e.deferAction(ctx, req.Session, domain.Frame{Action: action, ThermostatLocation: location})
			return domain.Prompt(thermostatPrompt(action)), nil
		}

		temp, err := applyThermostat(req.Session, action, location, amount)
		if err != nil {
			return domain.Response{}, err
		}
		return domain.Reply(ThermostatTemperatureReply(location, temp)), nil
	}
}

// thermostatMode switches a thermostat on or off. Nothing is stored.
func (e *Engine) thermostatMode(action domain.Action) registry.HandlerFunc {
	return func(ctx context.Context, req *registry.Request) (domain.Response, error) {
		location, err := e.resolver.ThermostatLocation(ctx, req.Turn)
		if err != nil {
			return domain.Response{}, err
		}
		state, err := deviceState(action)
		if err != nil {
			return domain.Response{}, err
		}
		return domain.Reply(ThermostatModeReply(location, state)), nil
	}
}

// applyThermostat is shared by the direct thermostat intents and specify-temperature.
// Adjusting a room with no entry starts from the default temperature.
func applyThermostat(session *domain.Session, action domain.Action, location string, amount float64) (float64, error) {
	switch action {
	case domain.ActionSetThermostat:
		return session.SetTemperature(location, amount), nil
	case domain.ActionTurnUpThermostat:
		return session.AdjustTemperature(location, amount), nil
	case domain.ActionTurnDownThermostat:
		return session.AdjustTemperature(location, -amount), nil
	}
	return 0, fmt.Errorf("%w: %q does not take a temperature", domain.ErrUnknownAction, action)
}
