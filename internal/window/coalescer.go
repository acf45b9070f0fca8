package window

// settleGate decides whether a settled scroll position warrants a new window.
// The debounce timing lives in the engine loop; the gate holds only the
// accept/reject rule: the very first settled position is always accepted,
// after that a position must differ from the last accepted one by more than
// one viewport height. Smaller deltas are absorbed by the overscan already
// on the surface.
type settleGate struct {
	rowHeight int
	lookahead int // rows per viewport, subtracted for lookahead
	maxDelta  int // one viewport height in cells
	ref       int // last accepted offset
	primed    bool
}

func newSettleGate(height, rowHeight int) settleGate {
	return settleGate{
		rowHeight: rowHeight,
		lookahead: screenful(height, rowHeight),
		maxDelta:  height,
	}
}

// accept evaluates a settled offset. On acceptance it records the offset as
// the new reference position and returns the window start:
// max(0, offset/rowHeight - lookahead).
func (g *settleGate) accept(offset int) (int, bool) {
	if offset < 0 {
		offset = 0
	}

	if g.primed {
		delta := offset - g.ref
		if delta < 0 {
			delta = -delta
		}
		if delta <= g.maxDelta {
			return 0, false
		}
	}

	g.primed = true
	g.ref = offset

	from := offset/g.rowHeight - g.lookahead
	if from < 0 {
		from = 0
	}
	return from, true
}
