package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/hearth/pkg/domain"
)

// ErrNoHandler is returned by Dispatch when the intent has no handler and no fallback is set.
var ErrNoHandler = errors.New("no handler registered")

// Request is what a handler sees for one turn.
// Handlers mutate Session in place; the caller persists it.
type Request struct {
	Session *domain.Session
	Turn    domain.Turn
}

// HandlerFunc handles one intent.
type HandlerFunc func(ctx context.Context, req *Request) (domain.Response, error)

// Registry maps intents to their handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[domain.Intent]HandlerFunc
	fallback HandlerFunc
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[domain.Intent]HandlerFunc),
	}
}

// Register adds a handler for intent.
// If a handler for the same intent exists, it is overwritten.
func (r *Registry) Register(intent domain.Intent, fn HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[intent] = fn
}

// SetFallback sets the handler used for intents nothing else claims.
func (r *Registry) SetFallback(fn HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = fn
}

// Lookup returns the handler registered for intent, without falling back.
func (r *Registry) Lookup(intent domain.Intent) (HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.handlers[intent]
	return fn, ok
}

// Intents lists the registered intents in sorted order.
func (r *Registry) Intents() []domain.Intent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	intents := make([]domain.Intent, 0, len(r.handlers))
	for intent := range r.handlers {
		intents = append(intents, intent)
	}
	slices.Sort(intents)
	return intents
}

// Dispatch routes req to the handler for its intent, or to the fallback.
func (r *Registry) Dispatch(ctx context.Context, req *Request) (domain.Response, error) {
	r.mu.RLock()
	fn, ok := r.handlers[req.Turn.Intent]
	if !ok {
		fn = r.fallback
	}
	r.mu.RUnlock()

	if fn == nil {
		return domain.Response{}, fmt.Errorf("%w: %s", ErrNoHandler, req.Turn.Intent)
	}
	return fn(ctx, req)
}
