package runtime_test

import (
	"context"
	"sync"

	"github.com/aretw0/hearth/internal/runtime"
	"github.com/aretw0/hearth/pkg/adapters/memory"
	"github.com/aretw0/hearth/pkg/domain"
	"github.com/aretw0/hearth/pkg/ports"
)

func newKB() *memory.KnowledgeBase {
	return memory.NewKnowledgeBase(map[string]map[string]any{
		"locations": {
			"loc1": "Kitchen",
			"loc2": "Bedroom",
			"loc3": "Living Room",
		},
		"appliances": {
			"app1": "oven",
			"app2": "coffee maker",
		},
		"temperatures": {
			"t68":  68,
			"t5":   5.0,
			"t0":   0,
			"t2.5": "2.5",
		},
		"units": {
			"c": "Celsius",
			"f": "Fahrenheit",
		},
		"cities": {
			"nyc": "New York",
		},
	})
}

func entity(typ domain.EntityType, id string) domain.Entity {
	return domain.Entity{Type: typ, Value: []domain.EntityValue{{ID: id}}}
}

func turn(intent domain.Intent, entities ...domain.Entity) domain.Turn {
	return domain.Turn{Intent: intent, Entities: entities}
}

var allEntity = domain.Entity{Type: domain.EntityAll}

type fakeWeather struct {
	mu     sync.Mutex
	calls  []ports.WeatherQuery
	report ports.WeatherReport
	err    error
}

func (f *fakeWeather) Current(ctx context.Context, q ports.WeatherQuery) (ports.WeatherReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, q)
	return f.report, f.err
}

func staticKey(key string) runtime.CredentialFunc {
	return func(context.Context) (string, error) { return key, nil }
}
