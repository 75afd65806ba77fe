package ports

import "context"

// WeatherQuery identifies what to look up and with which credential.
type WeatherQuery struct {
	City   string
	Unit   string
	APIKey string
}

// WeatherReport is the subset of current conditions the assistant talks about.
type WeatherReport struct {
	City      string
	Condition string
	TempMin   float64
	TempMax   float64
}

// WeatherProvider fetches current conditions. Implementations do not retry.
type WeatherProvider interface {
	Current(ctx context.Context, q WeatherQuery) (WeatherReport, error)
}
