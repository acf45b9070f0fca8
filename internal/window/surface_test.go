package window

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// makeRows builds bare rows for the given indexes at the given row height.
func makeRows(rowHeight int, indexes ...int) []Row {
	rows := make([]Row, 0, len(indexes))
	for _, i := range indexes {
		rows = append(rows, Row{Index: i, Top: i * rowHeight})
	}
	return rows
}

func TestSurface_ExtentTracksTotal(t *testing.T) {
	s := NewSurface(20)

	require.Zero(t, s.Extent(), "empty surface has no extent")

	s.SetTotalRows(1000)
	require.Equal(t, 1000, s.TotalRows())
	require.Equal(t, 20000, s.Extent(), "extent is rowHeight times total")

	s.SetTotalRows(2000)
	require.Equal(t, 40000, s.Extent(), "extent resizes when the total changes")

	s.SetTotalRows(1000)
	require.Equal(t, 20000, s.Extent(), "extent shrinks when the total shrinks")
}

func TestSurface_NegativeTotalClamped(t *testing.T) {
	s := NewSurface(20)

	s.SetTotalRows(-5)
	require.Zero(t, s.TotalRows(), "negative totals are treated as empty")
	require.Zero(t, s.Extent())
}

func TestSurface_MountAppends(t *testing.T) {
	s := NewSurface(20)

	s.Mount(makeRows(20, 0, 1, 2))
	require.Equal(t, 3, s.Len())

	s.Mount(makeRows(20, 3, 4))
	require.Equal(t, 5, s.Len(), "mount must not replace earlier rows")
	require.Len(t, s.Live(), 5, "all mounted rows start live")
}

func TestSurface_MarkAllObsoleteHidesRows(t *testing.T) {
	s := NewSurface(20)
	s.Mount(makeRows(20, 0, 1, 2))

	s.MarkAllObsolete()

	require.Equal(t, 3, s.Len(), "marking must not remove rows")
	require.Empty(t, s.Live(), "obsolete rows are excluded from live snapshots")
	require.Empty(t, s.Viewport(0, 200), "obsolete rows are excluded from the viewport")
}

func TestSurface_SupersedeCycle(t *testing.T) {
	// One fetch lands, a newer one supersedes it, the reaper sweeps.
	s := NewSurface(20)

	s.Mount(makeRows(20, 0, 1, 2))
	s.MarkAllObsolete()
	s.Mount(makeRows(20, 240, 241, 242))

	require.Equal(t, 6, s.Len(), "old generation lingers until swept")
	live := s.Live()
	require.Len(t, live, 3)
	require.Equal(t, 240, live[0].Index, "live snapshot holds only the new generation")

	removed := s.Sweep()
	require.Equal(t, 3, removed, "sweep reports how many rows went")
	require.Equal(t, 3, s.Len())
	require.Len(t, s.Live(), 3, "survivors are the live rows")
}

func TestSurface_SweepEmptyIsNoop(t *testing.T) {
	s := NewSurface(20)

	require.Zero(t, s.Sweep(), "sweeping an empty surface removes nothing")

	s.Mount(makeRows(20, 0, 1))
	require.Zero(t, s.Sweep(), "sweeping all-live rows removes nothing")
	require.Equal(t, 2, s.Len())
}

func TestSurface_ViewportIntersection(t *testing.T) {
	s := NewSurface(20)
	s.Mount(makeRows(20, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9))

	// Viewport [50, 130): row 2 spans [40,60) and row 6 spans [120,140),
	// both partially visible; rows 3..5 fully visible.
	rows := s.Viewport(50, 80)
	require.Len(t, rows, 5)
	require.Equal(t, 2, rows[0].Index, "partially visible top row included")
	require.Equal(t, 6, rows[4].Index, "partially visible bottom row included")
}

func TestSurface_ViewportAtExactBoundary(t *testing.T) {
	s := NewSurface(20)
	s.Mount(makeRows(20, 0, 1, 2))

	// Viewport [20, 40) aligns exactly with row 1.
	rows := s.Viewport(20, 20)
	require.Len(t, rows, 1)
	require.Equal(t, 1, rows[0].Index, "rows touching only at the boundary are excluded")
}

func TestSurface_ViewportBeyondRows(t *testing.T) {
	s := NewSurface(20)
	s.Mount(makeRows(20, 0, 1, 2))

	require.Empty(t, s.Viewport(5000, 200), "viewport outside mounted rows sees nothing")
}

func TestSurface_RowsSnapshotIsACopy(t *testing.T) {
	s := NewSurface(20)
	s.Mount(makeRows(20, 0, 1))

	snap := s.Rows()
	snap[0].Obsolete = true

	require.Len(t, s.Live(), 2, "mutating a snapshot must not affect the surface")
}

// ===========================================================================
// Property-Based Tests (using pgregory.net/rapid)
// ===========================================================================

func TestProperty_SurfaceExtentAlwaysRowHeightTimesTotal(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		rowHeight := rapid.IntRange(1, 100).Draw(rt, "rowHeight")
		s := NewSurface(rowHeight)

		steps := rapid.IntRange(1, 50).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			total := rapid.IntRange(-10, 100000).Draw(rt, "total")
			s.SetTotalRows(total)

			want := total
			if want < 0 {
				want = 0
			}
			require.Equal(rt, want, s.TotalRows())
			require.Equal(rt, rowHeight*want, s.Extent(),
				"extent must equal rowHeight*total after every update")
		}
	})
}

func TestProperty_SweepRemovesExactlyObsolete(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := NewSurface(20)

		generations := rapid.IntRange(1, 5).Draw(rt, "generations")
		for g := 0; g < generations; g++ {
			s.MarkAllObsolete()
			n := rapid.IntRange(0, 30).Draw(rt, "rows")
			rows := make([]Row, n)
			for i := range rows {
				rows[i] = Row{Index: g*1000 + i, Top: (g*1000 + i) * 20}
			}
			s.Mount(rows)
		}

		liveBefore := len(s.Live())
		obsolete := s.Len() - liveBefore

		removed := s.Sweep()
		require.Equal(rt, obsolete, removed, "sweep must remove exactly the obsolete rows")
		require.Equal(rt, liveBefore, s.Len(), "sweep must keep exactly the live rows")
		require.Len(rt, s.Live(), liveBefore)
	})
}

// ===========================================================================
// Benchmarks
// ===========================================================================

func BenchmarkSurfaceViewport(b *testing.B) {
	s := NewSurface(20)
	rows := make([]Row, 90)
	for i := range rows {
		rows[i] = Row{Index: 240 + i, Top: (240 + i) * 20, Lines: []string{fmt.Sprintf("row %d", 240+i)}}
	}
	s.Mount(rows)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Viewport(5000, 200)
	}
}

func BenchmarkSurfaceSweep(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		s := NewSurface(20)
		s.Mount(makeRows(20, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9))
		s.MarkAllObsolete()
		s.Mount(makeRows(20, 240, 241, 242))
		b.StartTimer()

		s.Sweep()
	}
}
