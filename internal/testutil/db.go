// Package testutil builds throwaway entry databases for source and app tests.
package testutil

import (
	"database/sql"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/require"
)

// Schema is the entries table every test database starts with.
const Schema = `
CREATE TABLE entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	body TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// NewTestDB opens an in-memory SQLite database with the entries schema.
// The caller closes it.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openDB(t, ":memory:")
}

// NewFileDB creates a SQLite database file at path with the entries schema,
// for tests that need a database reachable by filename such as the read-only
// store or the file watcher. The caller closes the handle.
func NewFileDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	return openDB(t, "file:"+path)
}

func openDB(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)
	_, err = db.Exec(Schema)
	require.NoError(t, err)
	return db
}
