package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
)

// Builder collects entries and writes them to the database in one Build call.
// Rows land in the order of the With calls, so autoincrement ids line up with
// the sequence the test declared.
type Builder struct {
	t       *testing.T
	db      *sql.DB
	entries []entryData
}

// NewBuilder starts an empty builder against db.
func NewBuilder(t *testing.T, db *sql.DB) *Builder {
	t.Helper()
	return &Builder{t: t, db: db}
}

// WithEntry queues one entry. Options override the defaults.
func (b *Builder) WithEntry(title string, opts ...EntryOption) *Builder {
	e := defaultEntry(title)
	for _, opt := range opts {
		opt(&e)
	}
	b.entries = append(b.entries, e)
	return b
}

// Build writes every queued entry. The statement is prepared once because
// numbered datasets insert thousands of rows.
func (b *Builder) Build() {
	b.t.Helper()
	stmt, err := b.db.Prepare(
		`INSERT INTO entries (title, category, body, created_at) VALUES (?, ?, ?, ?)`)
	require.NoError(b.t, err)
	defer func() { _ = stmt.Close() }()

	for _, e := range b.entries {
		_, err := stmt.Exec(e.title, e.category, e.body, e.createdAt)
		require.NoError(b.t, err)
	}
}
