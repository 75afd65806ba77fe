package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aretw0/hearth/pkg/domain"
	"github.com/aretw0/hearth/pkg/ports"
)

// Resolver turns the entities of a turn into domain values, applying per-type defaults.
// Only the first entity of each type is considered.
type Resolver struct {
	kb ports.KnowledgeBase
}

// NewResolver creates a resolver backed by kb.
func NewResolver(kb ports.KnowledgeBase) *Resolver {
	return &Resolver{kb: kb}
}

// lookup resolves the first entity of typ. found is false when the turn has no such entity.
// An id missing from the knowledge base is an error, never a default.
func (r *Resolver) lookup(ctx context.Context, turn domain.Turn, typ domain.EntityType) (any, bool, error) {
	entity, ok := turn.Find(typ)
	if !ok {
		return nil, false, nil
	}
	id, ok := entity.ID()
	if !ok {
		return nil, false, nil
	}

	value, err := r.kb.Get(ctx, typ.Index(), id)
	if err != nil {
		return nil, false, fmt.Errorf("resolve %s %q: %w", typ, id, err)
	}
	return value, true, nil
}

func (r *Resolver) text(ctx context.Context, turn domain.Turn, typ domain.EntityType) (string, bool, error) {
	value, ok, err := r.lookup(ctx, turn, typ)
	if err != nil || !ok {
		return "", ok, err
	}
	if s, isString := value.(string); isString {
		return s, true, nil
	}
	return fmt.Sprint(value), true, nil
}

// All reports whether the user addressed every device ("all the lights").
func (r *Resolver) All(turn domain.Turn) bool {
	return turn.Has(domain.EntityAll)
}

// Location resolves a room. There is no default.
func (r *Resolver) Location(ctx context.Context, turn domain.Turn) (string, bool, error) {
	return r.text(ctx, turn, domain.EntityLocation)
}

// ThermostatLocation resolves a room, defaulting to the whole home.
func (r *Resolver) ThermostatLocation(ctx context.Context, turn domain.Turn) (string, error) {
	loc, ok, err := r.Location(ctx, turn)
	if err != nil {
		return "", err
	}
	if !ok {
		return domain.DefaultThermostatLocation, nil
	}
	return loc, nil
}

// Appliance resolves the appliance an appliance intent always carries.
// Its absence is a classifier defect reported as *domain.MissingEntityError.
func (r *Resolver) Appliance(ctx context.Context, turn domain.Turn) (string, error) {
	appliance, ok, err := r.text(ctx, turn, domain.EntityAppliance)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &domain.MissingEntityError{Type: domain.EntityAppliance, Intent: turn.Intent}
	}
	return appliance, nil
}

// Temperature resolves a temperature or an amount of degrees. There is no default;
// zero is a valid value.
func (r *Resolver) Temperature(ctx context.Context, turn domain.Turn) (float64, bool, error) {
	value, ok, err := r.lookup(ctx, turn, domain.EntityTemperature)
	if err != nil || !ok {
		return 0, ok, err
	}
	f, err := toFloat(value)
	if err != nil {
		return 0, false, fmt.Errorf("resolve %s: %w", domain.EntityTemperature, err)
	}
	return f, true, nil
}

// Unit resolves a temperature unit, defaulting to Fahrenheit.
func (r *Resolver) Unit(ctx context.Context, turn domain.Turn) (string, error) {
	return r.textOr(ctx, turn, domain.EntityUnit, domain.DefaultTemperatureUnit)
}

// City resolves a city, defaulting to San Francisco.
func (r *Resolver) City(ctx context.Context, turn domain.Turn) (string, error) {
	return r.textOr(ctx, turn, domain.EntityCity, domain.DefaultCity)
}

func (r *Resolver) textOr(ctx context.Context, turn domain.Turn, typ domain.EntityType, fallback string) (string, error) {
	s, ok, err := r.text(ctx, turn, typ)
	if err != nil {
		return "", err
	}
	if !ok {
		return fallback, nil
	}
	return s, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(n, 64)
	}
	return 0, fmt.Errorf("value %v (%T) is not numeric", v, v)
}
