package loam

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/hearth/pkg/domain"
	"github.com/aretw0/loam"
)

// KnowledgeBase adapts a Loam repository to ports.KnowledgeBase.
// Every document in the repository is one index; its "entries" frontmatter maps ids to values.
type KnowledgeBase struct {
	Repo *loam.TypedRepository[IndexMetadata]

	mu      sync.RWMutex
	indexes map[string]map[string]any
}

// New creates a knowledge base over repo and loads every index it contains.
func New(ctx context.Context, repo *loam.TypedRepository[IndexMetadata]) (*KnowledgeBase, error) {
	kb := &KnowledgeBase{Repo: repo}
	if err := kb.Reload(ctx); err != nil {
		return nil, err
	}
	return kb, nil
}

// Open initializes a read-only Loam repository at path and wraps it.
func Open(ctx context.Context, path string) (*KnowledgeBase, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve knowledge path: %w", err)
	}

	// Strict mode makes Markdown and JSON documents agree on numeric types.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open loam repository: %w", err)
	}

	return New(ctx, loam.NewTypedRepository[IndexMetadata](repo))
}

// Reload re-reads every document from the repository.
func (kb *KnowledgeBase) Reload(ctx context.Context) error {
	docs, err := kb.Repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loam list failed: %w", err)
	}

	indexes := make(map[string]map[string]any, len(docs))
	seen := make(map[string]string, len(docs))

	for _, listed := range docs {
		// List may serve cached metadata; Get reads the document itself.
		doc, err := kb.Repo.Get(ctx, listed.ID)
		if err != nil {
			return fmt.Errorf("loam get failed for %s: %w", listed.ID, err)
		}

		name := doc.Data.Index
		if name == "" {
			name = trimExtension(doc.ID)
		}

		if existing, ok := seen[name]; ok {
			return fmt.Errorf("collision detected: index '%s' is defined in both '%s' and '%s'", name, existing, doc.ID)
		}
		seen[name] = doc.ID

		entries := make(map[string]any, len(doc.Data.Entries))
		for id, value := range doc.Data.Entries {
			entries[id] = normalize(value)
		}
		indexes[name] = entries
	}

	kb.mu.Lock()
	kb.indexes = indexes
	kb.mu.Unlock()
	return nil
}

// Get returns the record stored under id in index.
func (kb *KnowledgeBase) Get(ctx context.Context, index, id string) (any, error) {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	value, ok := kb.indexes[index][id]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrRecordNotFound, index, id)
	}
	return value, nil
}

// Indexes returns the names of the loaded indexes.
func (kb *KnowledgeBase) Indexes() []string {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	names := make([]string, 0, len(kb.indexes))
	for name := range kb.indexes {
		names = append(names, name)
	}
	return names
}

// normalize collapses the numeric kinds Loam may produce into float64.
func normalize(v any) any {
	switch n := v.(type) {
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	}
	return v
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
