// Package testutil provides helpers for environment-gated integration tests.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/tickline/tickline/internal/store"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// testDatabase is the database used by integration tests.
const testDatabase = "tickline_test"

// NewTestStore connects to the store named by TEST_MONGO_URL, or skips.
// The store and its collections are cleaned up when the test finishes.
func NewTestStore(t *testing.T) *store.Store {
	t.Helper()

	mongoURL := RequireEnv(t, "TEST_MONGO_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := store.New(ctx, mongoURL, testDatabase, 5*time.Second)
	if err != nil {
		t.Fatalf("connect test store: %v", err)
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset test store: %v", err)
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.Reset(ctx)
		_ = s.Close(ctx)
	})

	return s
}
