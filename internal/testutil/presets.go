package testutil

import (
	"fmt"
	"time"
)

// WithNumberedEntries adds n entries titled "entry 0000".."entry n-1" with
// rotating categories and ascending timestamps. Window tests rely on the
// insertion order matching the title numbering.
func (b *Builder) WithNumberedEntries(n int) *Builder {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	categories := []string{"infra", "api", "ui"}
	for i := 0; i < n; i++ {
		b.WithEntry(fmt.Sprintf("entry %04d", i),
			Category(categories[i%len(categories)]),
			Body(fmt.Sprintf("body for entry %d", i)),
			CreatedAt(base.Add(time.Duration(i)*time.Minute)))
	}
	return b
}

// WithReleaseNotes adds a small fixed dataset with one entry per category.
func (b *Builder) WithReleaseNotes() *Builder {
	day := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	return b.
		WithEntry("Ship dark mode", Category("ui"), Body("Theme tokens landed"), CreatedAt(day)).
		WithEntry("Rotate API keys", Category("security"), Body("Quarterly rotation"), CreatedAt(day.Add(time.Hour))).
		WithEntry("Upgrade postgres", Category("infra"), Body("14 to 16"), CreatedAt(day.Add(2*time.Hour))).
		WithEntry("Fix pagination drift", Category("api"), Body("Offset clamped at total"), CreatedAt(day.Add(3*time.Hour)))
}
