package runtime

import (
	"context"

	"github.com/aretw0/hearth/pkg/domain"
	"github.com/aretw0/hearth/pkg/registry"
)

var deviceIntents = map[domain.Intent]domain.Action{
	domain.IntentCloseDoor:        domain.ActionCloseDoor,
	domain.IntentOpenDoor:         domain.ActionOpenDoor,
	domain.IntentLockDoor:         domain.ActionLockDoor,
	domain.IntentUnlockDoor:       domain.ActionUnlockDoor,
	domain.IntentTurnLightsOn:     domain.ActionTurnOnLights,
	domain.IntentTurnLightsOff:    domain.ActionTurnOffLights,
	domain.IntentTurnApplianceOn:  domain.ActionTurnOnAppliance,
	domain.IntentTurnApplianceOff: domain.ActionTurnOffAppliance,
}

func isApplianceAction(a domain.Action) bool {
	return a == domain.ActionTurnOnAppliance || a == domain.ActionTurnOffAppliance
}

// deviceHandler executes a door, lights or appliance action when its target is known,
// and otherwise defers it and asks for the room.
func (e *Engine) deviceHandler(action domain.Action) registry.HandlerFunc {
	return func(ctx context.Context, req *registry.Request) (domain.Response, error) {
		location, hasLocation, err := e.resolver.Location(ctx, req.Turn)
		if err != nil {
			return domain.Response{}, err
		}

		t := target{location: location}
		determined := hasLocation

		if isApplianceAction(action) {
			if t.appliance, err = e.resolver.Appliance(ctx, req.Turn); err != nil {
				return domain.Response{}, err
			}
		} else {
			t.all = e.resolver.All(req.Turn)
			determined = determined || t.all
		}

		if !determined {
			e.deferAction(ctx, req.Session, domain.Frame{Action: action, Appliance: t.appliance})
			return domain.Prompt(devicePrompt(action, t.appliance)), nil
		}

		text, err := deviceReply(action, t)
		if err != nil {
			return domain.Response{}, err
		}
		return domain.Reply(text), nil
	}
}
