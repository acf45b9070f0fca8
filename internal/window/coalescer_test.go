package window

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSettleGate_FirstPositionAlwaysAccepted(t *testing.T) {
	g := newSettleGate(200, 20)

	from, ok := g.accept(0)
	require.True(t, ok, "very first settled position must be accepted")
	require.Equal(t, 0, from, "offset 0 starts the window at row 0")
}

func TestSettleGate_LookaheadSubtraction(t *testing.T) {
	// 200 cells tall, 20 per row: one screenful is 10 rows. A settle at
	// offset 5000 sits at row 250, so the window starts a screenful early.
	g := newSettleGate(200, 20)

	from, ok := g.accept(5000)
	require.True(t, ok)
	require.Equal(t, 240, from, "window should start one screenful above the offset row")
}

func TestSettleGate_SmallDeltaRejected(t *testing.T) {
	g := newSettleGate(200, 20)

	_, ok := g.accept(5000)
	require.True(t, ok, "first settle accepted")

	_, ok = g.accept(5100)
	require.False(t, ok, "a move of half a viewport should be absorbed")

	_, ok = g.accept(4900)
	require.False(t, ok, "rejection applies in both directions")
}

func TestSettleGate_DeltaOfExactlyOneViewportRejected(t *testing.T) {
	g := newSettleGate(200, 20)

	_, ok := g.accept(5000)
	require.True(t, ok)

	_, ok = g.accept(5200)
	require.False(t, ok, "delta equal to the viewport height is not enough")

	from, ok := g.accept(5201)
	require.True(t, ok, "one cell past a full viewport must be accepted")
	require.Equal(t, 250, from)
}

func TestSettleGate_RejectionKeepsReference(t *testing.T) {
	g := newSettleGate(200, 20)

	_, ok := g.accept(5000)
	require.True(t, ok)

	// Creep downward in sub-viewport steps. Each step is within one viewport
	// of the last accepted position, so none of them re-anchor the gate.
	_, ok = g.accept(5150)
	require.False(t, ok)
	_, ok = g.accept(5200)
	require.False(t, ok, "delta still measured against 5000, not the rejected 5150")

	from, ok := g.accept(5300)
	require.True(t, ok, "5300 clears 5000 by more than one viewport")
	require.Equal(t, 255, from)
}

func TestSettleGate_NegativeOffsetClamped(t *testing.T) {
	g := newSettleGate(200, 20)

	from, ok := g.accept(-500)
	require.True(t, ok, "first settle accepted even when reported negative")
	require.Equal(t, 0, from, "negative offsets are treated as the top")
}

func TestSettleGate_FromClampedAtZero(t *testing.T) {
	g := newSettleGate(200, 20)

	// Offset 60 is row 3; subtracting a 10-row screenful would go negative.
	from, ok := g.accept(60)
	require.True(t, ok)
	require.Equal(t, 0, from, "window start never goes below row 0")
}

func TestSettleGate_AcceptRearmsAtNewPosition(t *testing.T) {
	g := newSettleGate(200, 20)

	_, ok := g.accept(5000)
	require.True(t, ok)

	from, ok := g.accept(12000)
	require.True(t, ok)
	require.Equal(t, 590, from)

	// Now 5000 is far from the new reference so it is accepted again.
	from, ok = g.accept(5000)
	require.True(t, ok, "returning to a distant prior position re-anchors")
	require.Equal(t, 240, from)
}

func TestSettleGate_SingleRowViewport(t *testing.T) {
	// Degenerate geometry: viewport shorter than one row still yields a
	// one-row screenful and a usable gate.
	g := newSettleGate(10, 20)

	from, ok := g.accept(100)
	require.True(t, ok)
	require.Equal(t, 4, from, "row 5 minus the minimum one-row screenful")
}

// ===========================================================================
// Property-Based Tests (using pgregory.net/rapid)
// ===========================================================================

func TestProperty_GateAcceptsOnlyBeyondViewport(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		height := rapid.IntRange(1, 500).Draw(rt, "height")
		rowHeight := rapid.IntRange(1, 50).Draw(rt, "rowHeight")
		g := newSettleGate(height, rowHeight)

		ref := -1 // no reference yet
		steps := rapid.IntRange(1, 100).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			offset := rapid.IntRange(0, 100000).Draw(rt, "offset")

			from, ok := g.accept(offset)
			if ref == -1 {
				require.True(rt, ok, "first settle must always be accepted")
			} else {
				delta := offset - ref
				if delta < 0 {
					delta = -delta
				}
				require.Equal(rt, delta > height, ok,
					"acceptance must hinge on exceeding one viewport: delta=%d height=%d", delta, height)
			}

			if ok {
				ref = offset
				want := offset/rowHeight - screenful(height, rowHeight)
				if want < 0 {
					want = 0
				}
				require.Equal(rt, want, from, "window start must match the lookahead rule")
				require.GreaterOrEqual(rt, from, 0, "window start never negative")
			}
		}
	})
}
