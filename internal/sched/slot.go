package sched

import (
	"sync"
	"time"
)

// Slot is a single-slot deferred task. Scheduling a task cancels any task
// still pending in the slot, so only the most recent request's effect fires.
// This is the debounce primitive behind render invalidation and drag hover
// re-evaluation.
type Slot struct {
	clock Clock

	mu    sync.Mutex
	timer Timer
	seq   uint64
}

// NewSlot creates a slot on the given clock.
func NewSlot(clock Clock) *Slot {
	return &Slot{clock: clock}
}

// Schedule replaces any pending task with fn, to run after d.
func (s *Slot) Schedule(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.seq++
	seq := s.seq
	s.timer = s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		// A stale timer that lost the Stop race must not run.
		if seq != s.seq {
			s.mu.Unlock()
			return
		}
		s.timer = nil
		s.mu.Unlock()
		fn()
	})
}

// Cancel drops any pending task.
func (s *Slot) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.seq++
}

// Pending reports whether a task is waiting to fire.
func (s *Slot) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}
