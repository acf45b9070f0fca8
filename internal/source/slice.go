package source

import (
	"context"
	"sync"
	"time"

	"github.com/zjrosen/windrow/internal/window"
)

// SliceSource serves a windowed list from an in-memory slice. It exists for
// demos and tests, where the interesting part is the fetch cycle rather than
// the data, and as the fallback when no database is configured.
type SliceSource[T any] struct {
	mu      sync.RWMutex
	items   []T
	latency time.Duration
}

// NewSliceSource creates a source over items. The slice is not copied; the
// caller hands over ownership.
func NewSliceSource[T any](items []T) *SliceSource[T] {
	return &SliceSource[T]{items: items}
}

// SetLatency adds an artificial delay to every fetch, which makes the
// in-flight and pending states of the engine observable in a demo.
func (s *SliceSource[T]) SetLatency(d time.Duration) {
	s.mu.Lock()
	s.latency = d
	s.mu.Unlock()
}

// Replace swaps the entire dataset. Callers pair this with a Refresh on the
// list so the visible window is re-fetched.
func (s *SliceSource[T]) Replace(items []T) {
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

// Len returns the current item count.
func (s *SliceSource[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Fetch returns the items in [from, from+count) clipped to the slice bounds,
// plus the authoritative total.
func (s *SliceSource[T]) Fetch(ctx context.Context, from, count int) (window.Batch[T], error) {
	s.mu.RLock()
	latency := s.latency
	s.mu.RUnlock()

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return window.Batch[T]{}, ctx.Err()
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.items)
	if from < 0 {
		from = 0
	}
	if count < 0 {
		count = 0
	}

	lo := from
	if lo > total {
		lo = total
	}
	hi := from + count
	if hi > total {
		hi = total
	}

	items := make([]T, hi-lo)
	copy(items, s.items[lo:hi])

	return window.Batch[T]{Items: items, Total: total}, nil
}
