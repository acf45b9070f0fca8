// Package window implements the windowed-list engine: given a scroll position
// over a logical list too large to materialize, it decides which contiguous
// row range to render, fetches that range asynchronously from a pluggable
// source, coalesces redundant fetches during fast scrolling, and defers
// removal of superseded rows to a quiet-period reaper.
//
// All geometry is in integer terminal cells. Rows have a uniform height; a
// row for logical index i sits at vertical offset i*RowHeight, and the total
// scrollable extent is RowHeight*totalRows, which is what gives scrollbars
// correct proportions without rendering every row.
package window

import "context"

// Window is the contiguous logical row-index range currently
// requested or rendered.
type Window struct {
	From  int
	Count int
}

// End returns the exclusive end index of the window.
func (w Window) End() int {
	return w.From + w.Count
}

// Contains reports whether logical index i falls inside the window.
func (w Window) Contains(i int) bool {
	return i >= w.From && i < w.End()
}

// IsZero reports an unset window.
func (w Window) IsZero() bool {
	return w.From == 0 && w.Count == 0
}

// Batch is one fetch response: up to the requested number of items starting
// at the requested index, plus the authoritative total list length at the
// time of the call.
type Batch[T any] struct {
	Items []T
	Total int
}

// Source supplies list data. Fetch returns the items for
// [from, from+count) and the current total, or an error. Implementations
// must return exactly once per call; the engine never issues more than one
// Fetch at a time per list.
type Source[T any] interface {
	Fetch(ctx context.Context, from, count int) (Batch[T], error)
}

// RowFunc renders one item into its visual content. The result may span
// multiple lines; the engine normalizes it to exactly RowHeight lines
// truncated to the viewport width.
type RowFunc[T any] func(item T, index int) string

// screenful returns how many whole rows fit in one viewport height,
// never less than one.
func screenful(height, rowHeight int) int {
	n := height / rowHeight
	if n < 1 {
		n = 1
	}
	return n
}
