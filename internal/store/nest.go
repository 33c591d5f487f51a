package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/starford/jot/internal/apperr"
	"github.com/starford/jot/internal/models"
)

// AllEdges returns every parent/child pair, ordered by parent then child.
func (db *DB) AllEdges(ctx context.Context) ([]models.Edge, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT parent, child FROM Nest ORDER BY parent, child`)
	if err != nil {
		return nil, fmt.Errorf("store: edges: %w", err)
	}
	defer rows.Close()
	var out []models.Edge
	for rows.Next() {
		var e models.Edge
		if err := rows.Scan(&e.Parent, &e.Child); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Parents returns the parents of child, ascending.
func (db *DB) Parents(ctx context.Context, child int64) ([]int64, error) {
	return db.queryIDs(ctx, "parents",
		`SELECT DISTINCT parent FROM Nest WHERE child = ? ORDER BY parent`, child)
}

// Children returns the children of parent, ascending.
func (db *DB) Children(ctx context.Context, parent int64) ([]int64, error) {
	return db.queryIDs(ctx, "children",
		`SELECT DISTINCT child FROM Nest WHERE parent = ? ORDER BY child`, parent)
}

// AddEdge records parent as a parent of child. Adding an existing edge is a no-op.
func (db *DB) AddEdge(ctx context.Context, parent, child int64) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO Nest (parent, child)
		SELECT ?, ? WHERE NOT EXISTS (SELECT 1 FROM Nest WHERE parent = ? AND child = ?)`,
		parent, child, parent, child)
	if err != nil {
		return fmt.Errorf("store: add edge %d>%d: %w", parent, child, err)
	}
	return nil
}

// RemoveEdge deletes the parent/child pair. Removing a missing edge is a no-op.
func (db *DB) RemoveEdge(ctx context.Context, parent, child int64) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM Nest WHERE parent = ? AND child = ?`, parent, child); err != nil {
		return fmt.Errorf("store: remove edge %d>%d: %w", parent, child, err)
	}
	return nil
}

// RemoveParents detaches child from all of its parents.
func (db *DB) RemoveParents(ctx context.Context, child int64) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM Nest WHERE child = ?`, child); err != nil {
		return fmt.Errorf("store: remove parents of %d: %w", child, err)
	}
	return nil
}

// RemoveNote deletes note id and its edges in one transaction. Each former
// child of id is re-attached to each former parent of id; the new edges are
// returned. Self-loops that adoption would create are skipped.
func (db *DB) RemoveNote(ctx context.Context, id int64) ([]models.Edge, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM Notes WHERE notes_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("store: delete note %d: %w", id, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, apperr.ErrNotFound
	}

	parents, err := txIDs(ctx, tx, `SELECT DISTINCT parent FROM Nest WHERE child = ? AND parent != child`, id)
	if err != nil {
		return nil, fmt.Errorf("store: parents of %d: %w", id, err)
	}
	children, err := txIDs(ctx, tx, `SELECT DISTINCT child FROM Nest WHERE parent = ? AND parent != child`, id)
	if err != nil {
		return nil, fmt.Errorf("store: children of %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM Nest WHERE parent = ? OR child = ?`, id, id); err != nil {
		return nil, fmt.Errorf("store: detach %d: %w", id, err)
	}

	var adopted []models.Edge
	for _, p := range parents {
		for _, c := range children {
			if p == c {
				continue
			}
			res, err := tx.ExecContext(ctx, `
				INSERT INTO Nest (parent, child)
				SELECT ?, ? WHERE NOT EXISTS (SELECT 1 FROM Nest WHERE parent = ? AND child = ?)`,
				p, c, p, c)
			if err != nil {
				return nil, fmt.Errorf("store: adopt %d>%d: %w", p, c, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				adopted = append(adopted, models.Edge{Parent: p, Child: c})
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: commit: %w", err)
	}
	sort.Slice(adopted, func(i, j int) bool {
		if adopted[i].Parent != adopted[j].Parent {
			return adopted[i].Parent < adopted[j].Parent
		}
		return adopted[i].Child < adopted[j].Child
	})
	return adopted, nil
}

func txIDs(ctx context.Context, tx *sql.Tx, q string, args ...any) ([]int64, error) {
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
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
