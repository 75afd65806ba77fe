package memory

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/aretw0/hearth/pkg/domain"
	"gopkg.in/yaml.v3"
)

// KnowledgeBase implements ports.KnowledgeBase over an in-memory index -> id -> value table.
type KnowledgeBase struct {
	mu      sync.RWMutex
	indexes map[string]map[string]any
}

// NewKnowledgeBase creates a knowledge base seeded with the given records.
// The records map is copied.
func NewKnowledgeBase(records map[string]map[string]any) *KnowledgeBase {
	kb := &KnowledgeBase{indexes: make(map[string]map[string]any)}
	for index, entries := range records {
		for id, value := range entries {
			kb.Put(index, id, value)
		}
	}
	return kb
}

// LoadKnowledgeBase reads a YAML document of the form
//
//	locations:
//	  loc1: Kitchen
//	temperatures:
//	  t68: 68
//
// and returns a knowledge base holding its records.
func LoadKnowledgeBase(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base: %w", err)
	}

	var records map[string]map[string]any
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base %s: %w", path, err)
	}
	return NewKnowledgeBase(records), nil
}

// Put adds or replaces a record.
func (kb *KnowledgeBase) Put(index, id string, value any) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	entries, ok := kb.indexes[index]
	if !ok {
		entries = make(map[string]any)
		kb.indexes[index] = entries
	}
	entries[id] = value
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
