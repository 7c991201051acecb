// Package helpers provides shared test constructors.
package helpers

import (
	"context"
	"testing"

	"questengine/completion"
	"questengine/engine"
	"questengine/policy"
	"questengine/store"
)

// NewTestCache returns an in-memory SQLite local cache.
func NewTestCache(t *testing.T) *store.SQLiteCache {
	t.Helper()

	c, err := store.NewSQLiteCache(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite cache: %v", err)
	}

	t.Cleanup(func() {
		_ = c.Close()
	})

	return c
}

// NewTestEngine builds an engine over an in-memory cache and remote
// store with a canned completion service.
func NewTestEngine(t *testing.T, opts engine.Options) (*engine.Engine, *store.MemoryRemote) {
	t.Helper()

	svc := completion.Func(func(ctx context.Context, prompt string) (string, error) {
		return "Onward, then.", nil
	})
	return NewTestEngineWith(t, svc, opts)
}

// NewTestEngineWith is NewTestEngine with a caller-supplied completion
// service.
func NewTestEngineWith(t *testing.T, svc completion.Service, opts engine.Options) (*engine.Engine, *store.MemoryRemote) {
	t.Helper()

	cache := NewTestCache(t)
	remote := store.NewMemoryRemote()

	pol, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("failed to create policy engine: %v", err)
	}

	eng := engine.New(cache, remote, svc, pol, opts)
	t.Cleanup(eng.Stop)
	return eng, remote
}
