// Package store keeps notes, their nesting and the status reference table in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS Status (
	status_id INTEGER PRIMARY KEY,
	label     TEXT NOT NULL,
	glyph     TEXT NOT NULL DEFAULT ''
);

INSERT OR IGNORE INTO Status (status_id, label, glyph) VALUES
	(1, 'note', '-'),
	(2, 'todo', ' '),
	(3, 'done', 'x'),
	(4, 'drop', '0'),
	(5, 'part', '/');

CREATE TABLE IF NOT EXISTS Notes (
	notes_id    INTEGER PRIMARY KEY AUTOINCREMENT,
	status_id   INTEGER NOT NULL DEFAULT 1 REFERENCES Status(status_id),
	due         TEXT,
	description TEXT NOT NULL DEFAULT '',
	created     TEXT NOT NULL DEFAULT (datetime('now', 'localtime')),
	modified    TEXT NOT NULL DEFAULT (datetime('now', 'localtime')),
	priority    INTEGER,
	alias       TEXT UNIQUE
);

CREATE TABLE IF NOT EXISTS Nest (
	parent INTEGER NOT NULL,
	child  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_nest_parent ON Nest(parent);
CREATE INDEX IF NOT EXISTS idx_nest_child ON Nest(child);
`

// DB wraps a sql.DB with note store operations.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens (or creates) the SQLite database at path and applies the schema.
func Open(ctx context.Context, path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.ExecContext(ctx, schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn, path: path}, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}
