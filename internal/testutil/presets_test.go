package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWithNumberedEntries(t *testing.T) {
	db := testDB(t)

	NewBuilder(t, db).WithNumberedEntries(50).Build()

	require.Equal(t, 50, entryCount(t, db))

	titles := titlesByID(t, db)
	require.Equal(t, "entry 0000", titles[0])
	require.Equal(t, "entry 0049", titles[49])

	var distinct int
	require.NoError(t, db.QueryRow(`SELECT COUNT(DISTINCT category) FROM entries`).Scan(&distinct))
	require.Equal(t, 3, distinct, "categories rotate through three values")
}

func TestWithNumberedEntries_TimestampsAscend(t *testing.T) {
	db := testDB(t)

	NewBuilder(t, db).WithNumberedEntries(10).Build()

	var first, last time.Time
	require.NoError(t, db.QueryRow(`SELECT created_at FROM entries ORDER BY id LIMIT 1`).Scan(&first))
	require.NoError(t, db.QueryRow(`SELECT created_at FROM entries ORDER BY id DESC LIMIT 1`).Scan(&last))
	require.True(t, first.Before(last), "first %v should predate last %v", first, last)
	require.Equal(t, 9*time.Minute, last.Sub(first))
}

func TestWithReleaseNotes(t *testing.T) {
	db := testDB(t)

	NewBuilder(t, db).WithReleaseNotes().Build()

	require.Equal(t, 4, entryCount(t, db))

	var distinct int
	require.NoError(t, db.QueryRow(`SELECT COUNT(DISTINCT category) FROM entries`).Scan(&distinct))
	require.Equal(t, 4, distinct, "one entry per category")

	var category string
	require.NoError(t, db.QueryRow(`SELECT category FROM entries WHERE title = ?`, "Rotate API keys").Scan(&category))
	require.Equal(t, "security", category)
}
