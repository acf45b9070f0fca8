package testutil

import "time"

// EntryOption adjusts one queued entry before insertion.
type EntryOption func(*entryData)

// Category overrides the default "note" category.
func Category(c string) EntryOption {
	return func(e *entryData) { e.category = c }
}

// Body sets the body text, empty by default.
func Body(body string) EntryOption {
	return func(e *entryData) { e.body = body }
}

// CreatedAt pins the created_at column. It defaults to time.Now, which is
// fine for tests that never order by timestamp.
func CreatedAt(ts time.Time) EntryOption {
	return func(e *entryData) { e.createdAt = ts }
}

// entryData mirrors the entries table columns.
type entryData struct {
	title     string
	category  string
	body      string
	createdAt time.Time
}

func defaultEntry(title string) entryData {
	return entryData{title: title, category: "note", createdAt: time.Now()}
}
