package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/hearth/pkg/domain"
)

// LogHooks returns hooks that write one structured line per event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(ctx context.Context, e *domain.TurnEvent) {
			if e.Err != nil {
				logger.ErrorContext(ctx, "turn failed",
					"session_id", e.SessionID,
					"intent", e.Intent,
					"err", e.Err,
				)
				return
			}
			logger.InfoContext(ctx, "turn",
				"session_id", e.SessionID,
				"intent", e.Intent,
				"kind", e.Kind,
				"duration", e.Duration,
			)
		},
		OnDefer: func(ctx context.Context, e *domain.FrameEvent) {
			logger.DebugContext(ctx, "action deferred",
				"session_id", e.SessionID,
				"action", e.Frame.Action,
			)
		},
		OnWeather: func(ctx context.Context, e *domain.WeatherEvent) {
			logger.InfoContext(ctx, "weather lookup",
				"session_id", e.SessionID,
				"city", e.City,
				"outcome", e.Outcome,
				"duration", e.Duration,
			)
		},
	}
}

// Combine fans each event out to every non-nil hook in order.
func Combine(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range all {
		out.OnTurn = chain(out.OnTurn, h.OnTurn)
		out.OnDefer = chain(out.OnDefer, h.OnDefer)
		out.OnWeather = chain(out.OnWeather, h.OnWeather)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
