package testutil

import (
	"context"
	"testing"

	"github.com/HerbHall/timeshift/internal/store"
)

// NewStore creates an in-memory SQLiteStore closed when the test completes.
func NewStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	db, err := store.Open(context.Background(), store.MemoryPath)
	if err != nil {
		t.Fatalf("testutil.NewStore: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
