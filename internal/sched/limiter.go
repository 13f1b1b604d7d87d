package sched

import (
	"sync"
	"time"
)

// Limiter rate-limits a recurring maintenance task. A request schedules the
// task once per idle window; further requests while one is outstanding are
// absorbed. When the task comes due it self-skips if it ran less than
// minGap ago. This is not a debounce: requests never push an already
// scheduled run further out.
type Limiter struct {
	clock  Clock
	idle   time.Duration
	minGap time.Duration

	mu      sync.Mutex
	timer   Timer
	lastRun time.Time
}

// NewLimiter creates a limiter that schedules after idle and refuses to run
// twice within minGap.
func NewLimiter(clock Clock, idle, minGap time.Duration) *Limiter {
	return &Limiter{clock: clock, idle: idle, minGap: minGap}
}

// Request asks for fn to run after the idle window. At most one run is
// outstanding at a time.
func (l *Limiter) Request(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.timer != nil {
		return
	}
	l.timer = l.clock.AfterFunc(l.idle, func() {
		l.mu.Lock()
		l.timer = nil
		now := l.clock.Now()
		if !l.lastRun.IsZero() && now.Sub(l.lastRun) < l.minGap {
			l.mu.Unlock()
			return
		}
		l.lastRun = now
		l.mu.Unlock()
		fn()
	})
}

// Cancel drops any outstanding run.
func (l *Limiter) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}

// Pending reports whether a run is outstanding.
func (l *Limiter) Pending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.timer != nil
}
