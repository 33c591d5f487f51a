package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/starford/jot/internal/apperr"
	"github.com/starford/jot/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

const noteColumns = `
	n.notes_id, n.status_id, COALESCE(n.due, ''), n.description,
	n.created, n.modified, COALESCE(n.priority, 0), COALESCE(n.alias, ''),
	COALESCE(s.label, ''), COALESCE(s.glyph, '')`

// NoteByID returns the note joined with its status, or apperr.ErrNotFound.
func (db *DB) NoteByID(ctx context.Context, id int64) (*models.Note, error) {
	var n models.Note
	err := db.conn.QueryRowContext(ctx, `SELECT `+noteColumns+`
		FROM Notes n LEFT JOIN Status s ON n.status_id = s.status_id
		WHERE n.notes_id = ?`, id).Scan(
		&n.ID, &n.StatusID, &n.Due, &n.Description,
		&n.Created, &n.Modified, &n.Priority, &n.Alias,
		&n.Status.Label, &n.Status.Glyph,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: note %d: %w", id, err)
	}
	n.Status.ID = n.StatusID
	return &n, nil
}

// NotesByStatus returns ids of notes in any of statuses, ascending. A nil ids
// slice means no id filter; a non-nil empty one matches nothing.
func (db *DB) NotesByStatus(ctx context.Context, statuses []int, ids []int64) ([]int64, error) {
	if len(statuses) == 0 || (ids != nil && len(ids) == 0) {
		return nil, nil
	}
	args := make([]any, 0, len(statuses)+len(ids))
	for _, s := range statuses {
		args = append(args, s)
	}
	q := `SELECT notes_id FROM Notes WHERE status_id IN (` + placeholders(len(statuses)) + `)`
	if ids != nil {
		q += ` AND notes_id IN (` + placeholders(len(ids)) + `)`
		for _, id := range ids {
			args = append(args, id)
		}
	}
	q += ` ORDER BY notes_id`
	return db.queryIDs(ctx, "notes by status", q, args...)
}

// SearchByDescription returns ids whose description contains term,
// case-insensitively for ASCII.
func (db *DB) SearchByDescription(ctx context.Context, term string) ([]int64, error) {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return db.queryIDs(ctx, "search",
		`SELECT notes_id FROM Notes WHERE description LIKE ? ESCAPE '\' ORDER BY notes_id`,
		"%"+r.Replace(term)+"%")
}

// ExistingIDs returns the subset of ids present in the store, ascending.
func (db *DB) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return db.queryIDs(ctx, "existing ids",
		`SELECT notes_id FROM Notes WHERE notes_id IN (`+placeholders(len(ids))+`) ORDER BY notes_id`, args...)
}

// IDsByAlias resolves aliases to note ids, ascending. Unknown aliases are skipped.
func (db *DB) IDsByAlias(ctx context.Context, aliases []string) ([]int64, error) {
	if len(aliases) == 0 {
		return nil, nil
	}
	args := make([]any, len(aliases))
	for i, a := range aliases {
		args[i] = a
	}
	return db.queryIDs(ctx, "ids by alias",
		`SELECT notes_id FROM Notes WHERE alias IN (`+placeholders(len(aliases))+`) ORDER BY notes_id`, args...)
}

// AliasExists reports whether any note uses alias.
func (db *DB) AliasExists(ctx context.Context, alias string) (bool, error) {
	var ok bool
	err := db.conn.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM Notes WHERE alias = ?)`, alias).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("store: alias check: %w", err)
	}
	return ok, nil
}

// Statuses returns the status reference table.
func (db *DB) Statuses(ctx context.Context) ([]models.Status, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT status_id, label, glyph FROM Status ORDER BY status_id`)
	if err != nil {
		return nil, fmt.Errorf("store: statuses: %w", err)
	}
	defer rows.Close()
	var out []models.Status
	for rows.Next() {
		var s models.Status
		if err := rows.Scan(&s.ID, &s.Label, &s.Glyph); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateNote inserts n and returns the store-assigned id. Created and
// Modified default to the current local time when empty.
func (db *DB) CreateNote(ctx context.Context, n models.Note) (int64, error) {
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO Notes (status_id, due, description, priority, alias, created, modified)
		VALUES (?, ?, ?, ?, ?,
			COALESCE(?, datetime('now', 'localtime')),
			COALESCE(?, datetime('now', 'localtime')))`,
		n.StatusID, nullString(n.Due), n.Description, nullInt(n.Priority), nullString(n.Alias),
		nullString(n.Created), nullString(n.Modified))
	if err != nil {
		return 0, mapConstraint("create note", err)
	}
	return res.LastInsertId()
}

// UpdateNote overwrites every mutable column of note n.ID.
func (db *DB) UpdateNote(ctx context.Context, n models.Note) error {
	res, err := db.conn.ExecContext(ctx, `
		UPDATE Notes SET status_id = ?, due = ?, description = ?, priority = ?, alias = ?,
			modified = COALESCE(?, datetime('now', 'localtime'))
		WHERE notes_id = ?`,
		n.StatusID, nullString(n.Due), n.Description, nullInt(n.Priority), nullString(n.Alias),
		nullString(n.Modified), n.ID)
	if err != nil {
		return mapConstraint("update note", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (db *DB) queryIDs(ctx context.Context, what, q string, args ...any) ([]int64, error) {
	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: %s: %w", what, err)
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func mapConstraint(what string, err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
		return fmt.Errorf("store: %s: %w", what, apperr.ErrAlreadyExists)
	}
	return fmt.Errorf("store: %s: %w", what, err)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(i int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(i), Valid: i != 0}
}
