package store

import (
	"context"

	"github.com/starford/jot/internal/models"
)

// NoteStore defines the persistence operations jot needs.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with fakes.
type NoteStore interface {
	AllEdges(ctx context.Context) ([]models.Edge, error)
	NotesByStatus(ctx context.Context, statuses []int, ids []int64) ([]int64, error)
	NoteByID(ctx context.Context, id int64) (*models.Note, error)
	SearchByDescription(ctx context.Context, term string) ([]int64, error)
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
	IDsByAlias(ctx context.Context, aliases []string) ([]int64, error)
	AliasExists(ctx context.Context, alias string) (bool, error)
	Statuses(ctx context.Context) ([]models.Status, error)
	CreateNote(ctx context.Context, n models.Note) (int64, error)
	UpdateNote(ctx context.Context, n models.Note) error
	RemoveNote(ctx context.Context, id int64) ([]models.Edge, error)
	Parents(ctx context.Context, child int64) ([]int64, error)
	Children(ctx context.Context, parent int64) ([]int64, error)
	AddEdge(ctx context.Context, parent, child int64) error
	RemoveEdge(ctx context.Context, parent, child int64) error
	RemoveParents(ctx context.Context, child int64) error
	Path() string
	Close() error
}

// Verify *DB satisfies NoteStore at compile time.
var _ NoteStore = (*DB)(nil)
