package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/hearth/pkg/domain"
	"github.com/aretw0/hearth/pkg/registry"
)

// specifyLocation completes a deferred door, lights or appliance action with the room
// named in this turn. Without a matching frame it returns domain.ErrNoPendingAction.
func (e *Engine) specifyLocation(ctx context.Context, req *registry.Request) (domain.Response, error) {
	frame, ok := req.Session.Pending()
	if !ok || !frame.Action.AwaitsLocation() {
		return domain.Response{}, fmt.Errorf("%w for %s", domain.ErrNoPendingAction, req.Turn.Intent)
	}

	location, hasLocation, err := e.resolver.Location(ctx, req.Turn)
	if err != nil {
		return domain.Response{}, err
	}

	t := target{location: location, appliance: frame.Appliance}
	if !isApplianceAction(frame.Action) {
		t.all = e.resolver.All(req.Turn)
	}

	// Still no answer: ask again and keep waiting.
	if !hasLocation && !t.all {
		return domain.Prompt(devicePrompt(frame.Action, frame.Appliance)), nil
	}

	text, err := deviceReply(frame.Action, t)
	if err != nil {
		return domain.Response{}, err
	}
	req.Session.ClearFrame()
	return domain.Reply(text), nil
}

// specifyTemperature completes a deferred set, turn-up or turn-down with the temperature
// named in this turn. Without a matching frame it returns domain.ErrNoPendingAction.
func (e *Engine) specifyTemperature(ctx context.Context, req *registry.Request) (domain.Response, error) {
	frame, ok := req.Session.Pending()
	if !ok || !frame.Action.AwaitsTemperature() {
		return domain.Response{}, fmt.Errorf("%w for %s", domain.ErrNoPendingAction, req.Turn.Intent)
	}

	amount, hasAmount, err := e.resolver.Temperature(ctx, req.Turn)
	if err != nil {
		return domain.Response{}, err
	}
	if !hasAmount {
		return domain.Prompt(thermostatPrompt(frame.Action)), nil
	}

	location := frame.ThermostatLocation
	if location == "" {
		location = domain.DefaultThermostatLocation
	}

	temp, err := applyThermostat(req.Session, frame.Action, location, amount)
	if err != nil {
		return domain.Response{}, err
	}
	req.Session.ClearFrame()
	return domain.Reply(ThermostatTemperatureReply(location, temp)), nil
}
