package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/hearth/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors fed by the controller hooks.
type Metrics struct {
	Turns           *prometheus.CounterVec
	TurnDuration    *prometheus.HistogramVec
	Deferrals       *prometheus.CounterVec
	WeatherDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg uses a fresh registry, which keeps tests isolated.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		Turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hearth_turns_total",
				Help: "Total number of handled turns",
			},
			[]string{"intent", "kind"},
		),
		TurnDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hearth_turn_duration_seconds",
				Help:    "Duration of turn handling",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"intent"},
		),
		Deferrals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hearth_deferrals_total",
				Help: "Total number of actions deferred awaiting a follow-up",
			},
			[]string{"action"},
		),
		WeatherDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hearth_weather_request_duration_seconds",
				Help:    "Duration of weather lookups",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		gatherer: reg,
	}

	reg.MustRegister(m.Turns, m.TurnDuration, m.Deferrals, m.WeatherDuration)
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(_ context.Context, e *domain.TurnEvent) {
			kind := string(e.Kind)
			if e.Err != nil {
				kind = "error"
			}
			m.Turns.WithLabelValues(string(e.Intent), kind).Inc()
			m.TurnDuration.WithLabelValues(string(e.Intent)).Observe(e.Duration.Seconds())
		},
		OnDefer: func(_ context.Context, e *domain.FrameEvent) {
			m.Deferrals.WithLabelValues(string(e.Frame.Action)).Inc()
		},
		OnWeather: func(_ context.Context, e *domain.WeatherEvent) {
			m.WeatherDuration.WithLabelValues(e.Outcome).Observe(e.Duration.Seconds())
		},
	}
}

// Handler serves the registry m was created with.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
