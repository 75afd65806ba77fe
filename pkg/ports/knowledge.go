package ports

import "context"

// KnowledgeBase resolves entity ids to canonical values.
type KnowledgeBase interface {
	// Get returns the value stored under id in the named index (e.g. "locations").
	// The value is a string or a number. Returns domain.ErrRecordNotFound when absent.
	Get(ctx context.Context, index, id string) (any, error)
}
