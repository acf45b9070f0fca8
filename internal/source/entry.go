// Package source provides the data backends a windowed list can fetch from:
// an in-memory slice, a SQLite store, a block cache wrapper, and a file
// watcher that reports when a store's backing data changed.
package source

import (
	"fmt"
	"time"
)

// Entry is one logical list row as stored in the entries table.
type Entry struct {
	ID        int64
	Title     string
	Category  string
	Body      string
	CreatedAt time.Time
}

var (
	categories = []string{"infra", "billing", "auth", "search", "mobile", "platform"}

	adjectives = []string{
		"slow", "flaky", "stale", "orphaned", "duplicated", "truncated",
		"misaligned", "unbounded", "leaking", "silent",
	}

	subjects = []string{
		"index rebuild", "session refresh", "quota check", "cache eviction",
		"retry queue", "webhook delivery", "report export", "login redirect",
		"metrics rollup", "backup verification",
	}
)

// GenerateEntries builds n deterministic entries for seeding and demos.
// The same n always yields the same entries, so seeded databases and
// synthetic lists are reproducible.
func GenerateEntries(n int) []Entry {
	base := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

	entries := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		adj := adjectives[i%len(adjectives)]
		subj := subjects[(i/len(adjectives))%len(subjects)]
		cat := categories[i%len(categories)]

		entries = append(entries, Entry{
			ID:       int64(i + 1),
			Title:    fmt.Sprintf("#%04d %s %s", i+1, adj, subj),
			Category: cat,
			Body: fmt.Sprintf(
				"Reported in %s: the %s is %s. Needs a look before the next rollout.",
				cat, subj, adj,
			),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	return entries
}
