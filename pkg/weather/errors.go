package weather

import "errors"

var (
	// ErrNotConfigured means no API key was supplied; no request is made.
	ErrNotConfigured = errors.New("weather: api key not configured")
	// ErrUnavailable wraps transport failures and unreadable responses.
	ErrUnavailable = errors.New("weather: service unavailable")
	// ErrCityNotFound is returned for a "404" status code in the payload.
	ErrCityNotFound = errors.New("weather: city not found")
	// ErrInvalidKey is returned for a "401" status code in the payload.
	ErrInvalidKey = errors.New("weather: invalid api key")
)

// Outcome labels the result of a lookup for logs and metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, ErrCityNotFound):
		return "city_not_found"
	case errors.Is(err, ErrInvalidKey):
		return "invalid_key"
	}
	return "unavailable"
}
