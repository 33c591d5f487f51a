package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/starford/jot/internal/apperr"
	"github.com/starford/jot/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "jot-test.sqlite"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustCreate(t *testing.T, db *DB, status int, desc string) int64 {
	t.Helper()
	id, err := db.CreateNote(context.Background(), models.Note{StatusID: status, Description: desc})
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	return id
}

func TestSchemaSeedsStatuses(t *testing.T) {
	db := testDB(t)
	got, err := db.Statuses(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 5 {
		t.Fatalf("statuses = %v", got)
	}
	if got[2].Label != "done" || got[2].Glyph != "x" {
		t.Errorf("status 3 = %+v", got[2])
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reopen.sqlite")
	db, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	id := mustCreate(t, db, models.StatusNote, "persist me")
	db.Close()

	db, err = Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	n, err := db.NoteByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if n.Description != "persist me" {
		t.Errorf("description = %q", n.Description)
	}
}

func TestNoteByID(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	id, err := db.CreateNote(ctx, models.Note{
		StatusID: models.StatusTodo, Description: "call bob", Due: "2024-05-01", Alias: "bob",
	})
	if err != nil {
		t.Fatal(err)
	}
	n, err := db.NoteByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if n.Status.Label != "todo" || n.Status.ID != models.StatusTodo {
		t.Errorf("status = %+v", n.Status)
	}
	if n.Due != "2024-05-01" || n.Alias != "bob" || n.Created == "" || n.Modified == "" {
		t.Errorf("note = %+v", n)
	}

	if _, err := db.NoteByID(ctx, 999); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateNoteDuplicateAlias(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	if _, err := db.CreateNote(ctx, models.Note{StatusID: 1, Alias: "dup"}); err != nil {
		t.Fatal(err)
	}
	_, err := db.CreateNote(ctx, models.Note{StatusID: 1, Alias: "dup"})
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
	ok, err := db.AliasExists(ctx, "dup")
	if err != nil || !ok {
		t.Errorf("AliasExists = %v, %v", ok, err)
	}
}

func TestUpdateNote(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	id := mustCreate(t, db, models.StatusTodo, "draft")

	n, _ := db.NoteByID(ctx, id)
	n.StatusID = models.StatusDone
	n.Description = "final"
	n.Due = ""
	n.Modified = "2030-01-01 00:00:00"
	if err := db.UpdateNote(ctx, *n); err != nil {
		t.Fatal(err)
	}
	got, _ := db.NoteByID(ctx, id)
	if got.StatusID != models.StatusDone || got.Description != "final" || got.Modified != "2030-01-01 00:00:00" {
		t.Errorf("note = %+v", got)
	}

	n.ID = 999
	if err := db.UpdateNote(ctx, *n); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestNotesByStatus(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	a := mustCreate(t, db, models.StatusNote, "a")
	b := mustCreate(t, db, models.StatusDone, "b")
	c := mustCreate(t, db, models.StatusTodo, "c")

	got, err := db.NotesByStatus(ctx, models.ActiveStatuses, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []int64{a, c}) {
		t.Errorf("active = %v", got)
	}

	got, _ = db.NotesByStatus(ctx, models.AllStatuses, []int64{b, c})
	if !reflect.DeepEqual(got, []int64{b, c}) {
		t.Errorf("filtered = %v", got)
	}

	got, _ = db.NotesByStatus(ctx, models.AllStatuses, []int64{})
	if len(got) != 0 {
		t.Errorf("empty filter = %v, want none", got)
	}
}

func TestSearchByDescription(t *testing.T) {
	db := testDB(t)
	a := mustCreate(t, db, 1, "Buy MILK")
	mustCreate(t, db, 1, "walk dog")
	c := mustCreate(t, db, 1, "100% milk")

	got, err := db.SearchByDescription(context.Background(), "milk")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []int64{a, c}) {
		t.Errorf("search = %v", got)
	}
	got, _ = db.SearchByDescription(context.Background(), "0%")
	if !reflect.DeepEqual(got, []int64{c}) {
		t.Errorf("literal percent = %v", got)
	}
}

func TestResolveHelpers(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	a := mustCreate(t, db, 1, "a")
	b, _ := db.CreateNote(ctx, models.Note{StatusID: 1, Alias: "bee"})

	got, _ := db.ExistingIDs(ctx, []int64{b, 404, a})
	if !reflect.DeepEqual(got, []int64{a, b}) {
		t.Errorf("ExistingIDs = %v", got)
	}
	got, _ = db.IDsByAlias(ctx, []string{"bee", "nope"})
	if !reflect.DeepEqual(got, []int64{b}) {
		t.Errorf("IDsByAlias = %v", got)
	}
}

func TestEdges(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	for _, e := range [][2]int64{{1, 2}, {1, 3}, {1, 2}, {4, 2}} {
		if err := db.AddEdge(ctx, e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	edges, _ := db.AllEdges(ctx)
	want := []models.Edge{{Parent: 1, Child: 2}, {Parent: 1, Child: 3}, {Parent: 4, Child: 2}}
	if !reflect.DeepEqual(edges, want) {
		t.Errorf("edges = %v, want %v", edges, want)
	}

	parents, _ := db.Parents(ctx, 2)
	if !reflect.DeepEqual(parents, []int64{1, 4}) {
		t.Errorf("parents = %v", parents)
	}

	_ = db.RemoveEdge(ctx, 1, 3)
	children, _ := db.Children(ctx, 1)
	if !reflect.DeepEqual(children, []int64{2}) {
		t.Errorf("children = %v", children)
	}

	_ = db.RemoveParents(ctx, 2)
	edges, _ = db.AllEdges(ctx)
	if len(edges) != 0 {
		t.Errorf("edges = %v, want none", edges)
	}
}

func TestRemoveNoteAdoptsChildren(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	grand := mustCreate(t, db, 1, "grand")
	mid := mustCreate(t, db, 1, "mid")
	kid1 := mustCreate(t, db, 1, "kid1")
	kid2 := mustCreate(t, db, 1, "kid2")
	for _, e := range []models.Edge{{Parent: grand, Child: mid}, {Parent: mid, Child: kid1}, {Parent: mid, Child: kid2}} {
		_ = db.AddEdge(ctx, e.Parent, e.Child)
	}

	adopted, err := db.RemoveNote(ctx, mid)
	if err != nil {
		t.Fatal(err)
	}
	want := []models.Edge{{Parent: grand, Child: kid1}, {Parent: grand, Child: kid2}}
	if !reflect.DeepEqual(adopted, want) {
		t.Errorf("adopted = %v, want %v", adopted, want)
	}
	edges, _ := db.AllEdges(ctx)
	if !reflect.DeepEqual(edges, want) {
		t.Errorf("edges = %v, want %v", edges, want)
	}
	if _, err := db.NoteByID(ctx, mid); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("removed note still present: %v", err)
	}
}

func TestRemoveNoteMissing(t *testing.T) {
	db := testDB(t)
	if _, err := db.RemoveNote(context.Background(), 42); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
