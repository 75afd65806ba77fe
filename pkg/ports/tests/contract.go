package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/hearth/pkg/domain"
	"github.com/aretw0/hearth/pkg/ports"
)

// KnowledgeBaseContractTest is a reusable test suite that verifies if an adapter complies with ports.KnowledgeBase.
// setupData maps index -> id -> expected value, and must already be loaded into kb.
func KnowledgeBaseContractTest(t *testing.T, kb ports.KnowledgeBase, setupData map[string]map[string]any) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get_Success", func(t *testing.T) {
		for index, records := range setupData {
			for id, want := range records {
				got, err := kb.Get(ctx, index, id)
				if err != nil {
					t.Fatalf("unexpected error getting %s/%s: %v", index, id, err)
				}
				if !sameValue(got, want) {
					t.Errorf("value mismatch for %s/%s. got %#v, want %#v", index, id, got, want)
				}
			}
		}
	})

	t.Run("Get_UnknownID", func(t *testing.T) {
		for index := range setupData {
			_, err := kb.Get(ctx, index, "non-existent-id")
			if !errors.Is(err, domain.ErrRecordNotFound) {
				t.Errorf("expected ErrRecordNotFound for %s, got %v", index, err)
			}
		}
	})

	t.Run("Get_UnknownIndex", func(t *testing.T) {
		_, err := kb.Get(ctx, "non-existent-index", "x")
		if !errors.Is(err, domain.ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound, got %v", err)
		}
	})
}

// sameValue treats all numeric kinds as equal when they hold the same number,
// since backends differ in how they decode numbers.
func sameValue(got, want any) bool {
	gf, gok := toFloat(got)
	wf, wok := toFloat(want)
	if gok && wok {
		return gf == wf
	}
	return got == want
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
