package domain

// EntityType names the kind of value an entity refers to.
type EntityType string

const (
	EntityLocation    EntityType = "location"
	EntityAll         EntityType = "all"
	EntityAppliance   EntityType = "appliance"
	EntityTemperature EntityType = "temperature"
	EntityUnit        EntityType = "unit"
	EntityCity        EntityType = "city"
)

// Index returns the knowledge-base partition holding values for this entity type.
// The "all" type is a presence flag and has no partition.
func (t EntityType) Index() string {
	switch t {
	case EntityLocation:
		return "locations"
	case EntityAppliance:
		return "appliances"
	case EntityTemperature:
		return "temperatures"
	case EntityUnit:
		return "units"
	case EntityCity:
		return "cities"
	}
	return ""
}

// EntityValue is one candidate match for an entity, identified by its knowledge-base id.
type EntityValue struct {
	ID string `json:"id" yaml:"id" mapstructure:"id"`
}

// Entity is a typed reference extracted from the utterance. It still has to be
// resolved against the knowledge base.
type Entity struct {
	Type  EntityType    `json:"type" yaml:"type" mapstructure:"type"`
	Value []EntityValue `json:"value" yaml:"value" mapstructure:"value"`
}

// ID returns the id of the first candidate, if any.
func (e Entity) ID() (string, bool) {
	if len(e.Value) == 0 || e.Value[0].ID == "" {
		return "", false
	}
	return e.Value[0].ID, true
}

// Turn is the per-request input: the classified intent and the recognized entities.
type Turn struct {
	Intent   Intent   `json:"intent" yaml:"intent" mapstructure:"intent"`
	Entities []Entity `json:"entities,omitempty" yaml:"entities,omitempty" mapstructure:"entities"`
}

// Find returns the first entity of the given type. Order within the list is otherwise irrelevant.
func (t Turn) Find(typ EntityType) (Entity, bool) {
	for _, e := range t.Entities {
		if e.Type == typ {
			return e, true
		}
	}
	return Entity{}, false
}

// Has reports whether the turn carries at least one entity of the given type.
func (t Turn) Has(typ EntityType) bool {
	_, ok := t.Find(typ)
	return ok
}
