package window

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRowFactory_PadsShortContent(t *testing.T) {
	f := rowFactory[string]{rowHeight: 3, width: 40, fn: func(item string, _ int) string {
		return item
	}}

	row := f.row("only one line", 7)

	require.Equal(t, 7, row.Index)
	require.Equal(t, 21, row.Top, "row is pinned at index*rowHeight")
	require.Len(t, row.Lines, 3, "content is padded to the row height")
	require.Equal(t, "only one line", row.Lines[0])
	require.Empty(t, row.Lines[1])
	require.Empty(t, row.Lines[2])
	require.False(t, row.Obsolete, "fresh rows start live")
}

func TestRowFactory_CutsExtraLines(t *testing.T) {
	f := rowFactory[string]{rowHeight: 2, width: 40, fn: func(item string, _ int) string {
		return item
	}}

	row := f.row("a\nb\nc\nd", 0)

	require.Len(t, row.Lines, 2, "content beyond the row height is dropped")
	require.Equal(t, []string{"a", "b"}, row.Lines)
}

func TestRowFactory_TruncatesWideLines(t *testing.T) {
	f := rowFactory[string]{rowHeight: 1, width: 10, fn: func(item string, _ int) string {
		return item
	}}

	row := f.row("0123456789abcdef", 0)

	require.Equal(t, "0123456789", row.Lines[0], "lines are cut at the surface width")
}

func TestRowFactory_TruncationPreservesStyling(t *testing.T) {
	f := rowFactory[string]{rowHeight: 1, width: 5, fn: func(item string, _ int) string {
		return item
	}}

	styled := "\x1b[31mredredred\x1b[0m"
	row := f.row(styled, 0)

	// The cut is measured in visible columns, not bytes.
	require.Contains(t, row.Lines[0], "\x1b[31m", "escape sequences survive truncation")
	require.Contains(t, row.Lines[0], "redre", "five visible columns remain")
	require.NotContains(t, row.Lines[0], "redredred", "visible text is shortened")
}

func TestRowFactory_RendersEachIndexIndependently(t *testing.T) {
	calls := make([]int, 0, 3)
	f := rowFactory[int]{rowHeight: 1, width: 40, fn: func(item, index int) string {
		calls = append(calls, index)
		return strings.Repeat("x", item)
	}}

	f.row(1, 240)
	f.row(2, 241)
	f.row(3, 242)

	require.Equal(t, []int{240, 241, 242}, calls, "the renderer sees the logical index")
}

func BenchmarkRowFactory(b *testing.B) {
	f := rowFactory[string]{rowHeight: 2, width: 80, fn: func(item string, _ int) string {
		return item + "\nsecond line"
	}}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.row("some list entry with a reasonable amount of text", i)
	}
}
