package runtime

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/hearth/pkg/domain"
	"github.com/aretw0/hearth/pkg/ports"
	"github.com/aretw0/hearth/pkg/registry"
	"github.com/aretw0/hearth/pkg/weather"
)

// checkWeather looks up current conditions. Every failure becomes a reply.
// Without an API key nothing else is resolved.
func (e *Engine) checkWeather(ctx context.Context, req *registry.Request) (domain.Response, error) {
	key, err := e.credential(ctx)
	if err != nil {
		e.logger.WarnContext(ctx, "weather credential lookup failed", "err", err)
		key = ""
	}
	if key == "" {
		e.weatherLookup(ctx, req.Session, ports.WeatherQuery{}, weather.ErrNotConfigured, 0)
		return domain.Reply(ReplyWeatherNotSetup), nil
	}

	city, err := e.resolver.City(ctx, req.Turn)
	if err != nil {
		return domain.Response{}, err
	}
	unit, err := e.resolver.Unit(ctx, req.Turn)
	if err != nil {
		return domain.Response{}, err
	}

	query := ports.WeatherQuery{City: city, Unit: unit, APIKey: key}
	start := e.now()
	report, err := e.weather.Current(ctx, query)
	e.weatherLookup(ctx, req.Session, query, err, e.now().Sub(start))

	switch {
	case err == nil:
		return domain.Reply(WeatherReply(report.City, report.Condition, report.TempMin, report.TempMax)), nil
	case errors.Is(err, weather.ErrNotConfigured):
		return domain.Reply(ReplyWeatherNotSetup), nil
	case errors.Is(err, weather.ErrCityNotFound):
		return domain.Reply(ReplyWeatherUnknownCity), nil
	case errors.Is(err, weather.ErrInvalidKey):
		return domain.Reply(ReplyWeatherInvalidKey), nil
	}

	e.logger.WarnContext(ctx, "weather lookup failed", "city", city, "err", err)
	return domain.Reply(ReplyWeatherUnreachable), nil
}

func (e *Engine) weatherLookup(ctx context.Context, session *domain.Session, q ports.WeatherQuery, err error, took time.Duration) {
	if e.hooks.OnWeather == nil {
		return
	}
	e.hooks.OnWeather(ctx, &domain.WeatherEvent{
		EventBase: e.event(domain.EventWeather, session),
		City:      q.City,
		Unit:      q.Unit,
		Outcome:   weather.Outcome(err),
		Duration:  took,
	})
}
