package window

import "sync"

// Surface owns the mounted row collection and the scrollable-extent scalar.
// The engine loop is the only writer; the mutex exists so rendering
// goroutines can take consistent snapshots while a fetch lands.
type Surface struct {
	mu        sync.RWMutex
	rowHeight int
	total     int
	extent    int
	rows      []Row
}

// NewSurface creates an empty surface for rows of the given height.
func NewSurface(rowHeight int) *Surface {
	return &Surface{rowHeight: rowHeight}
}

// RowHeight returns the uniform row height in cells.
func (s *Surface) RowHeight() int {
	return s.rowHeight
}

// SetTotalRows records the authoritative list length and resizes the
// scrollable extent to rowHeight*n. Idempotent; safe with an unchanged value.
func (s *Surface) SetTotalRows(n int) {
	if n < 0 {
		n = 0
	}
	s.mu.Lock()
	s.total = n
	s.extent = s.rowHeight * n
	s.mu.Unlock()
}

// TotalRows returns the most recently reported list length.
func (s *Surface) TotalRows() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// Extent returns the total scrollable extent in cells.
func (s *Surface) Extent() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.extent
}

// Mount appends a prepared batch of rows in one operation.
func (s *Surface) Mount(batch []Row) {
	s.mu.Lock()
	s.rows = append(s.rows, batch...)
	s.mu.Unlock()
}

// MarkAllObsolete flags every mounted row as superseded. Obsolete rows stay
// mounted until the reaper sweeps them, so an in-progress scroll gesture is
// never interrupted by wholesale removal.
func (s *Surface) MarkAllObsolete() {
	s.mu.Lock()
	for i := range s.rows {
		s.rows[i].Obsolete = true
	}
	s.mu.Unlock()
}

// Sweep removes every obsolete row and reports how many went.
func (s *Surface) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.rows[:0]
	for _, r := range s.rows {
		if !r.Obsolete {
			kept = append(kept, r)
		}
	}
	removed := len(s.rows) - len(kept)
	s.rows = kept
	return removed
}

// Rows returns a snapshot of every mounted row, obsolete ones included.
func (s *Surface) Rows() []Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// Live returns a snapshot of the non-obsolete rows.
func (s *Surface) Live() []Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Row, 0, len(s.rows))
	for _, r := range s.rows {
		if !r.Obsolete {
			out = append(out, r)
		}
	}
	return out
}

// Viewport returns the live rows whose [Top, Top+rowHeight) span intersects
// the cell range [offset, offset+height).
func (s *Surface) Viewport(offset, height int) []Row {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Row, 0, screenful(height, s.rowHeight)+1)
	for _, r := range s.rows {
		if r.Obsolete {
			continue
		}
		if r.Top+s.rowHeight > offset && r.Top < offset+height {
			out = append(out, r)
		}
	}
	return out
}

// Len reports the mounted row count, obsolete rows included.
func (s *Surface) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}
