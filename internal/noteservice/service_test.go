package noteservice

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/starford/jot/internal/apperr"
	"github.com/starford/jot/internal/models"
	"github.com/starford/jot/internal/render"
	"github.com/starford/jot/internal/store"
	"github.com/starford/jot/internal/testutil"
)

type fakeEditor struct {
	text    string
	changed bool
	got     string
}

func (f *fakeEditor) Edit(_ context.Context, initial string) (string, bool, error) {
	f.got = initial
	return f.text, f.changed, nil
}

type testEnv struct {
	svc *Service
	db  *store.DB
	out *bytes.Buffer
	ed  *fakeEditor
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.TestStore(t)
	out := &bytes.Buffer{}
	ed := &fakeEditor{}
	clock := func() time.Time { return time.Date(2024, 3, 14, 9, 30, 0, 0, time.Local) }
	svc := NewService(db, render.New(20, db.Path(), nil),
		WithOutput(out), WithEditor(ed), WithClock(clock))
	return &testEnv{svc: svc, db: db, out: out, ed: ed}
}

func ptr[T any](v T) *T { return &v }

func ids(nodes []models.DisplayNode) []int64 {
	out := make([]int64, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func TestResolveDisplayOrderNested(t *testing.T) {
	env := newEnv(t)
	a := testutil.Seed(t, env.db, 1, "a")
	b := testutil.Seed(t, env.db, 1, "b")
	c := testutil.Seed(t, env.db, 1, "c")
	free := testutil.Seed(t, env.db, 1, "free")
	testutil.Nest(t, env.db, a, b)
	testutil.Nest(t, env.db, b, c)

	got, err := env.svc.ResolveDisplayOrder(context.Background(), []int64{a, b, c, free}, models.ModeNested)
	if err != nil {
		t.Fatal(err)
	}
	want := []models.DisplayNode{
		{ID: a, Generation: 1, Position: 0},
		{ID: b, Generation: 2, Position: 1},
		{ID: c, Generation: 3, Position: 2},
		{ID: free, Generation: 0, Position: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %+v, want %+v", got, want)
	}

	flat, _ := env.svc.ResolveDisplayOrder(context.Background(), []int64{c, a}, models.ModeFlat)
	if !reflect.DeepEqual(ids(flat), []int64{c, a}) || flat[0].Generation != 0 {
		t.Errorf("flat = %+v", flat)
	}
}

func TestListDefaultHidesClosedStatuses(t *testing.T) {
	env := newEnv(t)
	testutil.Seed(t, env.db, models.StatusTodo, "open task")
	testutil.Seed(t, env.db, models.StatusDone, "finished task")

	var buf bytes.Buffer
	if err := env.svc.List(context.Background(), &buf, ActiveList("")); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "open task") || strings.Contains(buf.String(), "finished") {
		t.Errorf("list =\n%s", buf.String())
	}
	rows := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(rows) != 5 {
		t.Errorf("rows = %d, want head (3) + note + rule", len(rows))
	}
}

func TestListFindAddsExcerpts(t *testing.T) {
	env := newEnv(t)
	testutil.Seed(t, env.db, models.StatusNote, "groceries\nbuy milk today")
	testutil.Seed(t, env.db, models.StatusNote, "unrelated")

	var buf bytes.Buffer
	if err := env.svc.List(context.Background(), &buf, ActiveList("MILK")); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "unrelated") {
		t.Errorf("search did not filter:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "buy MILK today") {
		t.Errorf("missing excerpt:\n%s", buf.String())
	}
}

func TestListFindNoMatchShowsNothing(t *testing.T) {
	env := newEnv(t)
	testutil.Seed(t, env.db, models.StatusNote, "something")
	entries, err := env.svc.Entries(context.Background(), ActiveList("zzz"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestRenderSummaryTableReportsMissing(t *testing.T) {
	env := newEnv(t)
	var buf bytes.Buffer
	if err := env.svc.RenderSummaryTable(context.Background(), &buf, []int64{77}, models.ModeFlat, "", false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Note does not exist: 77") {
		t.Errorf("out =\n%s", buf.String())
	}
}

func TestRenderSingleNote(t *testing.T) {
	env := newEnv(t)
	id := testutil.Seed(t, env.db, models.StatusNote, "page body")
	var buf bytes.Buffer
	if err := env.svc.RenderSingleNote(context.Background(), &buf, id, ""); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\npage body\n") || !strings.Contains(buf.String(), "created ") {
		t.Errorf("page =\n%s", buf.String())
	}
}

func TestAddDefaultsAndParent(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	parent := testutil.Seed(t, env.db, models.StatusNote, "parent")

	id, err := env.svc.Add(ctx, NoteInput{Description: ptr("child"), Due: ptr("tomorrow"), Parent: ptr(parent)})
	if err != nil {
		t.Fatal(err)
	}
	n, _ := env.db.NoteByID(ctx, id)
	if n.StatusID != models.StatusNote || n.Due != "2024-03-15" {
		t.Errorf("note = %+v", n)
	}
	parents, _ := env.db.Parents(ctx, id)
	if !reflect.DeepEqual(parents, []int64{parent}) {
		t.Errorf("parents = %v", parents)
	}
	if !strings.Contains(env.out.String(), "Parent defined as: 1") {
		t.Errorf("out = %q", env.out.String())
	}
}

func TestAddRejectsBadStatus(t *testing.T) {
	env := newEnv(t)
	_, err := env.svc.Add(context.Background(), NoteInput{StatusID: ptr(9)})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestAddLongEntry(t *testing.T) {
	env := newEnv(t)
	env.ed.text = "from the editor"
	id, err := env.svc.Add(context.Background(), NoteInput{LongEntry: true})
	if err != nil {
		t.Fatal(err)
	}
	n, _ := env.db.NoteByID(context.Background(), id)
	if n.Description != "from the editor" {
		t.Errorf("description = %q", n.Description)
	}
}

func TestAliasRules(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	id, _ := env.svc.Add(ctx, NoteInput{Description: ptr("x"), Alias: ptr("groceries")})
	n, _ := env.db.NoteByID(ctx, id)
	if n.Alias != "groce" {
		t.Errorf("alias = %q, want cut to 5", n.Alias)
	}

	id2, _ := env.svc.Add(ctx, NoteInput{Description: ptr("y"), Alias: ptr("groce")})
	n2, _ := env.db.NoteByID(ctx, id2)
	if n2.Alias != "" || !strings.Contains(env.out.String(), "already in use") {
		t.Errorf("duplicate alias accepted: %+v", n2)
	}

	id3, _ := env.svc.Add(ctx, NoteInput{Description: ptr("z"), Alias: ptr("123")})
	n3, _ := env.db.NoteByID(ctx, id3)
	if n3.Alias != "" {
		t.Errorf("numeric alias accepted: %q", n3.Alias)
	}

	if err := env.svc.Edit(ctx, []int64{id2, id3}, NoteInput{Alias: ptr("multi")}); err != nil {
		t.Fatal(err)
	}
	if ok, _ := env.db.AliasExists(ctx, "multi"); ok {
		t.Error("alias assigned to several notes")
	}
}

func TestEditOnlySuppliedFields(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	id, _ := env.svc.Add(ctx, NoteInput{Description: ptr("keep"), Due: ptr("2024-01-01"), StatusID: ptr(models.StatusTodo)})

	if err := env.svc.Edit(ctx, []int64{id, 404}, NoteInput{StatusID: ptr(models.StatusDone)}); err != nil {
		t.Fatal(err)
	}
	n, _ := env.db.NoteByID(ctx, id)
	if n.StatusID != models.StatusDone || n.Description != "keep" || n.Due != "2024-01-01" {
		t.Errorf("note = %+v", n)
	}
	if n.Modified != "2024-03-14 09:30:00" {
		t.Errorf("modified = %q", n.Modified)
	}
	if !strings.Contains(env.out.String(), "Note does not exist: 404") {
		t.Errorf("out = %q", env.out.String())
	}

	if err := env.svc.Edit(ctx, []int64{id}, NoteInput{Due: ptr("none")}); err != nil {
		t.Fatal(err)
	}
	n, _ = env.db.NoteByID(ctx, id)
	if n.Due != "" {
		t.Errorf("due = %q, want cleared", n.Due)
	}
}

func TestEditLongEntryUnchangedKeepsDescription(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	id := testutil.Seed(t, env.db, models.StatusNote, "original text")

	env.ed.text, env.ed.changed = "ignored", false
	if err := env.svc.Edit(ctx, []int64{id}, NoteInput{LongEntry: true}); err != nil {
		t.Fatal(err)
	}
	if env.ed.got != "original text" {
		t.Errorf("editor prefilled with %q", env.ed.got)
	}
	n, _ := env.db.NoteByID(ctx, id)
	if n.Description != "original text" {
		t.Errorf("description = %q", n.Description)
	}

	env.ed.text, env.ed.changed = "rewritten", true
	_ = env.svc.Edit(ctx, []int64{id}, NoteInput{LongEntry: true})
	n, _ = env.db.NoteByID(ctx, id)
	if n.Description != "rewritten" {
		t.Errorf("description = %q", n.Description)
	}
}

func TestSetParent(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	p1 := testutil.Seed(t, env.db, 1, "p1")
	p2 := testutil.Seed(t, env.db, 1, "p2")
	c := testutil.Seed(t, env.db, 1, "c")

	_ = env.svc.SetParent(ctx, p1, c)
	_ = env.svc.SetParent(ctx, p2, c)
	_ = env.svc.SetParent(ctx, -p1, c)
	parents, _ := env.db.Parents(ctx, c)
	if !reflect.DeepEqual(parents, []int64{p2}) {
		t.Errorf("parents = %v", parents)
	}
	_ = env.svc.SetParent(ctx, 0, c)
	parents, _ = env.db.Parents(ctx, c)
	if len(parents) != 0 {
		t.Errorf("parents = %v", parents)
	}
	if err := env.svc.SetParent(ctx, c, c); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("self parent err = %v", err)
	}
	if err := env.svc.SetParent(ctx, 999, c); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("missing parent err = %v", err)
	}
	if parents, _ = env.db.Parents(ctx, c); len(parents) != 0 {
		t.Errorf("dangling edge recorded: %v", parents)
	}
}

func TestRemoveAdopts(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	g := testutil.Seed(t, env.db, 1, "g")
	m := testutil.Seed(t, env.db, 1, "m")
	k := testutil.Seed(t, env.db, 1, "k")
	testutil.Nest(t, env.db, g, m)
	testutil.Nest(t, env.db, m, k)

	if err := env.svc.Remove(ctx, []int64{m, 99}); err != nil {
		t.Fatal(err)
	}
	out := env.out.String()
	if !strings.Contains(out, "1 adopted 3") || !strings.Contains(out, "Note does not exist: 99") {
		t.Errorf("out = %q", out)
	}
}

func TestResolveIdentifiers(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := testutil.Seed(t, env.db, 1, "a")
	b, _ := env.svc.Add(ctx, NoteInput{Description: ptr("b"), Alias: ptr("bee")})

	got, err := env.svc.ResolveIdentifiers(ctx, []string{"bee", "404", "1", "nope", "bee"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []int64{a, b}) {
		t.Errorf("ids = %v", got)
	}
}

func TestViewUsesPager(t *testing.T) {
	env := newEnv(t)
	id := testutil.Seed(t, env.db, 1, "paged")
	var pages []string
	env.svc.pager = pagerFunc(func(_ context.Context, text string) error {
		pages = append(pages, text)
		return nil
	})
	if err := env.svc.View(context.Background(), []int64{id, 55}, ""); err != nil {
		t.Fatal(err)
	}
	if len(pages) != 1 || !strings.Contains(pages[0], "paged") {
		t.Errorf("pages = %q", pages)
	}
}

type pagerFunc func(context.Context, string) error

func (f pagerFunc) Page(ctx context.Context, text string) error { return f(ctx, text) }
