package hearth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/hearth/internal/logging"
	"github.com/aretw0/hearth/internal/runtime"
	"github.com/aretw0/hearth/pkg/adapters/memory"
	"github.com/aretw0/hearth/pkg/domain"
	"github.com/aretw0/hearth/pkg/persistence/middleware"
	"github.com/aretw0/hearth/pkg/ports"
	"github.com/aretw0/hearth/pkg/session"
)

// ErrNoKnowledgeBase is returned by New when WithKnowledgeBase was not given.
var ErrNoKnowledgeBase = errors.New("a knowledge base is required")

// ChangeFunc receives the state change produced by a turn or a reset.
type ChangeFunc func(ctx context.Context, diff *domain.SessionDiff)

// Assistant is the high-level entry point: it loads the session, runs the turn
// through the dialogue controller and saves the result, one turn per session at a time.
type Assistant struct {
	engine   *runtime.Engine
	sessions *session.Manager

	kb          ports.KnowledgeBase
	store       ports.SessionStore
	middlewares []middleware.Middleware
	locker      ports.DistributedLocker
	weather     ports.WeatherProvider
	credential  runtime.CredentialFunc
	hooks       domain.LifecycleHooks
	logger      *slog.Logger

	mu        sync.RWMutex
	observers map[int]ChangeFunc
	nextID    int
}

// Option defines a functional option for configuring the Assistant.
type Option func(*Assistant)

// WithKnowledgeBase sets where entity ids are resolved. Required.
func WithKnowledgeBase(kb ports.KnowledgeBase) Option {
	return func(a *Assistant) {
		a.kb = kb
	}
}

// WithStore sets where sessions persist between turns. Defaults to memory.
func WithStore(store ports.SessionStore) Option {
	return func(a *Assistant) {
		a.store = store
	}
}

// WithStoreMiddleware wraps the store, e.g. with encryption. The first middleware is outermost.
func WithStoreMiddleware(mws ...middleware.Middleware) Option {
	return func(a *Assistant) {
		a.middlewares = append(a.middlewares, mws...)
	}
}

// WithLocker serializes turns of one session across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(a *Assistant) {
		a.locker = locker
	}
}

// WithWeather sets the weather provider.
func WithWeather(p ports.WeatherProvider) Option {
	return func(a *Assistant) {
		a.weather = p
	}
}

// WithCredential sets the weather API key lookup.
func WithCredential(fn func(context.Context) (string, error)) Option {
	return func(a *Assistant) {
		a.credential = fn
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Assistant) {
		a.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) {
		a.logger = logger
	}
}

// New creates an Assistant.
func New(opts ...Option) (*Assistant, error) {
	a := &Assistant{observers: make(map[int]ChangeFunc)}
	for _, opt := range opts {
		opt(a)
	}

	if a.kb == nil {
		return nil, ErrNoKnowledgeBase
	}
	if a.store == nil {
		a.store = memory.NewStore()
	}
	a.store = middleware.Chain(a.store, a.middlewares...)
	if a.logger == nil {
		a.logger = logging.NewNop()
	}

	engineOpts := []runtime.Option{
		runtime.WithLifecycleHooks(a.hooks),
		runtime.WithLogger(a.logger),
	}
	if a.weather != nil {
		engineOpts = append(engineOpts, runtime.WithWeather(a.weather))
	}
	if a.credential != nil {
		engineOpts = append(engineOpts, runtime.WithCredential(a.credential))
	}
	a.engine = runtime.NewEngine(a.kb, engineOpts...)

	managerOpts := []session.Option{session.WithLogger(a.logger)}
	if a.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(a.locker))
	}
	a.sessions = session.NewManager(a.store, managerOpts...)

	return a, nil
}

// Handle runs one turn of sessionID. A session that does not exist yet starts empty.
// Nothing is saved when the turn fails with an internal fault.
func (a *Assistant) Handle(ctx context.Context, sessionID string, turn domain.Turn) (domain.Response, error) {
	var (
		resp   domain.Response
		before *domain.Session
	)
	after, err := a.sessions.Update(ctx, sessionID, func(ctx context.Context, s *domain.Session) error {
		before = s.Clone()
		var err error
		resp, err = a.engine.Handle(ctx, s, turn)
		return err
	})
	if err != nil {
		return domain.Response{}, fmt.Errorf("session %s: %w", sessionID, err)
	}

	a.notify(ctx, domain.Diff(before, after))
	return resp, nil
}

// Respond runs the turn and delivers the outcome through r: exactly one Reply or Prompt.
func (a *Assistant) Respond(ctx context.Context, sessionID string, turn domain.Turn, r ports.Responder) error {
	resp, err := a.Handle(ctx, sessionID, turn)
	if err != nil {
		return err
	}
	if resp.Kind == domain.ResponsePrompt {
		return r.Prompt(ctx, resp.Text)
	}
	return r.Reply(ctx, resp.Text)
}

// Session returns the stored state of sessionID.
func (a *Assistant) Session(ctx context.Context, sessionID string) (*domain.Session, error) {
	return a.sessions.Load(ctx, sessionID)
}

// Sessions lists the stored session ids.
func (a *Assistant) Sessions(ctx context.Context) ([]string, error) {
	return a.sessions.List(ctx)
}

// Reset deletes sessionID; its next turn starts empty.
func (a *Assistant) Reset(ctx context.Context, sessionID string) error {
	before, err := a.sessions.Load(ctx, sessionID)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}
	if err := a.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	if before != nil {
		a.notify(ctx, domain.Diff(before, domain.NewSession(sessionID)))
	}
	return nil
}

// Intents lists the intents the assistant understands.
func (a *Assistant) Intents() []domain.Intent {
	return a.engine.Intents()
}

// Subscribe registers fn for every non-empty session change. Call cancel to stop.
func (a *Assistant) Subscribe(fn ChangeFunc) (cancel func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextID
	a.nextID++
	a.observers[id] = fn

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.observers, id)
	}
}

func (a *Assistant) notify(ctx context.Context, diff *domain.SessionDiff) {
	if diff == nil {
		return
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, fn := range a.observers {
		fn(ctx, diff)
	}
}
