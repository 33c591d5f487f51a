// Package testutil provides shared test helpers for setting up note stores.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/starford/jot/internal/models"
	"github.com/starford/jot/internal/store"
)

// TestStore creates a temporary SQLite note store that is automatically cleaned up.
func TestStore(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "jot-test.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// Seed inserts a note with the given status and description and returns its id.
func Seed(t *testing.T, db *store.DB, status int, desc string) int64 {
	t.Helper()
	id, err := db.CreateNote(context.Background(), models.Note{StatusID: status, Description: desc})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

// Nest records parent as a parent of child.
func Nest(t *testing.T, db *store.DB, parent, child int64) {
	t.Helper()
	if err := db.AddEdge(context.Background(), parent, child); err != nil {
		t.Fatal(err)
	}
}
