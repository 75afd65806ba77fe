package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/hearth/internal/logging"
	"github.com/aretw0/hearth/pkg/domain"
	"github.com/aretw0/hearth/pkg/ports"
	"github.com/mitchellh/mapstructure"
)

const (
	// DefaultBaseURL is the OpenWeather current weather endpoint.
	DefaultBaseURL = "http://api.openweathermap.org/data/2.5/weather"
	// DefaultTimeout bounds a single lookup.
	DefaultTimeout = 5 * time.Second

	codeCityNotFound = "404"
	codeInvalidKey   = "401"

	maxBody = 1 << 20
)

// Client implements ports.WeatherProvider against OpenWeather.
// Each call is a single GET with no caching and no retry.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

var _ ports.WeatherProvider = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithBaseURL points the client at another endpoint.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = base
	}
}

// WithTimeout sets the overall request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger configures a logger for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client with DefaultBaseURL and DefaultTimeout.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// payload mirrors the fields read from the OpenWeather response.
// cod arrives as a number on success and as a string on errors.
type payload struct {
	Cod     string `mapstructure:"cod"`
	Message string `mapstructure:"message"`
	Name    string `mapstructure:"name"`
	Main    struct {
		TempMin float64 `mapstructure:"temp_min"`
		TempMax float64 `mapstructure:"temp_max"`
	} `mapstructure:"main"`
	Weather []struct {
		Main        string `mapstructure:"main"`
		Description string `mapstructure:"description"`
	} `mapstructure:"weather"`
}

// Units maps a temperature unit to the API "units" parameter.
// Only Celsius selects metric.
func Units(unit string) string {
	if unit == domain.UnitCelsius {
		return "metric"
	}
	return "imperial"
}

// URL builds the request URL for q.
func (c *Client) URL(q ports.WeatherQuery) string {
	return fmt.Sprintf("%s?q=%s&units=%s&appid=%s",
		c.baseURL,
		url.QueryEscape(q.City),
		Units(q.Unit),
		url.QueryEscape(q.APIKey),
	)
}

// Current fetches the current conditions for q.City.
func (c *Client) Current(ctx context.Context, q ports.WeatherQuery) (ports.WeatherReport, error) {
	if q.APIKey == "" {
		return ports.WeatherReport{}, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(q), nil)
	if err != nil {
		return ports.WeatherReport{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("weather request failed", "city", q.City, "err", redact(err, q.APIKey))
		return ports.WeatherReport{}, fmt.Errorf("%w: %s", ErrUnavailable, redact(err, q.APIKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return ports.WeatherReport{}, fmt.Errorf("%w: reading body: %w", ErrUnavailable, err)
	}

	// The status code of interest lives in the payload, not the HTTP status line.
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return ports.WeatherReport{}, fmt.Errorf("%w: http %d: malformed body: %w", ErrUnavailable, resp.StatusCode, err)
	}

	var p payload
	if err := mapstructure.WeakDecode(raw, &p); err != nil {
		return ports.WeatherReport{}, fmt.Errorf("%w: unexpected payload: %w", ErrUnavailable, err)
	}

	switch p.Cod {
	case codeCityNotFound:
		return ports.WeatherReport{}, fmt.Errorf("%w: %s", ErrCityNotFound, q.City)
	case codeInvalidKey:
		return ports.WeatherReport{}, ErrInvalidKey
	}

	report := ports.WeatherReport{
		City:    p.Name,
		TempMin: p.Main.TempMin,
		TempMax: p.Main.TempMax,
	}
	if len(p.Weather) > 0 {
		report.Condition = p.Weather[0].Main
	}
	return report, nil
}

// redact keeps the API key out of error messages, which url.Error would otherwise include.
func redact(err error, key string) string {
	msg := err.Error()
	if key == "" {
		return msg
	}
	return strings.ReplaceAll(msg, url.QueryEscape(key), "REDACTED")
}
