package domain

// Defaults applied by the entity resolver when a turn carries no entity of the given type.
const (
	DefaultThermostatTemperature = 72.0
	DefaultThermostatLocation    = "home"
	DefaultTemperatureUnit       = "Fahrenheit"
	DefaultCity                  = "San Francisco"
)

// UnitCelsius is the only unit that switches the weather API to metric.
const UnitCelsius = "Celsius"
