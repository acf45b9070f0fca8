package window

// schedState is the fetch state machine position.
type schedState int

const (
	// stateIdle: no fetch in flight, the next request launches immediately.
	stateIdle schedState = iota
	// stateFetching: exactly one fetch in flight, nothing queued.
	stateFetching
	// stateFetchingPending: one fetch in flight plus one remembered window.
	stateFetchingPending
)

// scheduler enforces the at-most-one-in-flight fetch invariant. Requests
// arriving while a fetch is outstanding collapse into a single pending slot
// where the last writer wins; everything in between is dropped. All methods
// run on the engine loop, so no locking.
type scheduler struct {
	state   schedState
	pending int
}

// request records a desired window start and reports whether the caller
// should launch a fetch for it now.
func (s *scheduler) request(from int) bool {
	switch s.state {
	case stateIdle:
		s.state = stateFetching
		return true
	default:
		s.pending = from
		s.state = stateFetchingPending
		return false
	}
}

// complete records that the in-flight fetch finished (successfully or not).
// If a pending window exists it is consumed: complete returns its start and
// true, and the scheduler stays in the fetching state for the launch the
// caller must now perform. Otherwise the scheduler goes idle.
func (s *scheduler) complete() (int, bool) {
	if s.state == stateFetchingPending {
		from := s.pending
		s.pending = 0
		s.state = stateFetching
		return from, true
	}
	s.state = stateIdle
	return 0, false
}

// inFlight reports whether a fetch is outstanding.
func (s *scheduler) inFlight() bool {
	return s.state != stateIdle
}
