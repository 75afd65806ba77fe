package runtime

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/hearth/internal/logging"
	"github.com/aretw0/hearth/pkg/domain"
	"github.com/aretw0/hearth/pkg/ports"
	"github.com/aretw0/hearth/pkg/registry"
	"github.com/aretw0/hearth/pkg/weather"
)

// CredentialFunc returns the weather API key. It is consulted on every weather
// turn and nowhere else. An empty key means weather is not configured.
type CredentialFunc func(ctx context.Context) (string, error)

// Engine is the dialogue controller: it routes each turn to its intent handler
// and applies the result to the session passed in.
type Engine struct {
	resolver   *Resolver
	registry   *registry.Registry
	weather    ports.WeatherProvider
	credential CredentialFunc
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures the Engine.
type Option func(*Engine)

// WithWeather sets the weather provider. Defaults to the OpenWeather client.
func WithWeather(p ports.WeatherProvider) Option {
	return func(e *Engine) {
		e.weather = p
	}
}

// WithCredential sets how the weather API key is looked up.
func WithCredential(fn CredentialFunc) Option {
	return func(e *Engine) {
		e.credential = fn
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger configures a logger for the Engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an engine resolving entities against kb.
func NewEngine(kb ports.KnowledgeBase, opts ...Option) *Engine {
	e := &Engine{
		resolver:   NewResolver(kb),
		registry:   registry.NewRegistry(),
		weather:    weather.New(),
		credential: func(context.Context) (string, error) { return "", nil },
		logger:     logging.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.registerHandlers()
	return e
}

func (e *Engine) registerHandlers() {
	for intent, action := range deviceIntents {
		e.registry.Register(intent, e.deviceHandler(action))
	}

	e.registry.Register(domain.IntentSpecifyLocation, e.specifyLocation)
	e.registry.Register(domain.IntentSpecifyTemperature, e.specifyTemperature)

	e.registry.Register(domain.IntentCheckThermostat, e.checkThermostat)
	e.registry.Register(domain.IntentSetThermostat, e.adjustThermostat(domain.ActionSetThermostat))
	e.registry.Register(domain.IntentTurnUpThermostat, e.adjustThermostat(domain.ActionTurnUpThermostat))
	e.registry.Register(domain.IntentTurnDownThermostat, e.adjustThermostat(domain.ActionTurnDownThermostat))
	e.registry.Register(domain.IntentTurnOnThermostat, e.thermostatMode(domain.ActionTurnOnThermostat))
	e.registry.Register(domain.IntentTurnOffThermostat, e.thermostatMode(domain.ActionTurnOffThermostat))

	e.registry.Register(domain.IntentCheckWeather, e.checkWeather)

	e.registry.Register(domain.IntentUnsupported, fallback)
	e.registry.SetFallback(fallback)
}

// Intents lists the intents with a dedicated handler.
func (e *Engine) Intents() []domain.Intent {
	return e.registry.Intents()
}

// Handle processes one turn against session, mutating it in place.
// It returns exactly one reply or prompt. The only errors are internal faults
// (an unknown knowledge base id, a missing appliance entity); session is left
// untouched when one occurs.
func (e *Engine) Handle(ctx context.Context, session *domain.Session, turn domain.Turn) (domain.Response, error) {
	start := e.now()

	resp, err := e.registry.Dispatch(ctx, &registry.Request{Session: session, Turn: turn})
	if errors.Is(err, domain.ErrNoPendingAction) {
		e.logger.DebugContext(ctx, "follow-up without a matching pending action",
			"session_id", session.ID,
			"intent", turn.Intent,
		)
		resp, err = domain.Prompt(PromptFallback), nil
	}

	if e.hooks.OnTurn != nil {
		e.hooks.OnTurn(ctx, &domain.TurnEvent{
			EventBase: e.event(domain.EventTurn, session),
			Intent:    turn.Intent,
			Kind:      resp.Kind,
			Duration:  e.now().Sub(start),
			Err:       err,
		})
	}

	if err != nil {
		e.logger.ErrorContext(ctx, "turn failed",
			"session_id", session.ID,
			"intent", turn.Intent,
			"err", err,
		)
		return domain.Response{}, err
	}
	return resp, nil
}

func (e *Engine) event(typ domain.EventType, session *domain.Session) domain.EventBase {
	return domain.EventBase{
		Timestamp: e.now(),
		Type:      typ,
		SessionID: session.ID,
	}
}

// deferAction stores f as the pending frame and notifies the hooks.
func (e *Engine) deferAction(ctx context.Context, session *domain.Session, f domain.Frame) {
	session.Defer(f)
	if e.hooks.OnDefer != nil {
		e.hooks.OnDefer(ctx, &domain.FrameEvent{
			EventBase: e.event(domain.EventDefer, session),
			Frame:     f,
		})
	}
}

func fallback(context.Context, *registry.Request) (domain.Response, error) {
	return domain.Prompt(PromptFallback), nil
}
