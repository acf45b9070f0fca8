package window

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Row is one materialized list row bound to a logical index.
//
// Lifetime: created when its window is fetched, live while its index stays in
// the current window, flagged obsolete when a newer window lands, removed by
// the reaper once scrolling has been quiet. Obsolete rows are excluded from
// Live and Viewport snapshots, which is what hides them.
type Row struct {
	Index    int
	Top      int
	Lines    []string
	Obsolete bool
}

// rowFactory turns items into Rows: it invokes the caller's RowFunc, pins the
// row at Top = index*rowHeight, and normalizes the content to exactly
// rowHeight lines of at most width visible columns. Every call produces a
// fresh Row; nothing is cached or reused.
type rowFactory[T any] struct {
	rowHeight int
	width     int
	fn        RowFunc[T]
}

func (f rowFactory[T]) row(item T, index int) Row {
	content := f.fn(item, index)

	lines := strings.Split(content, "\n")
	normalized := make([]string, f.rowHeight)
	for i := range normalized {
		if i < len(lines) {
			normalized[i] = ansi.Truncate(lines[i], f.width, "")
		}
	}

	return Row{
		Index: index,
		Top:   index * f.rowHeight,
		Lines: normalized,
	}
}
