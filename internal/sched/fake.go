package sched

import (
	"sort"
	"time"
)

// FakeClock is a manually advanced Clock for tests. Timers fire
// synchronously from Advance, in deadline order, so tests are fully
// deterministic and never sleep.
type FakeClock struct {
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *FakeClock
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// NewFakeClock starts at a fixed, arbitrary instant.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *FakeClock) Now() time.Time { return c.now }

func (c *FakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	t := &fakeTimer{clock: c, at: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward, firing every due timer in deadline
// order. Callbacks may schedule new timers; those fire too when they fall
// within the advanced window.
func (c *FakeClock) Advance(d time.Duration) {
	deadline := c.now.Add(d)
	for {
		next := c.nextDue(deadline)
		if next == nil {
			break
		}
		if next.at.After(c.now) {
			c.now = next.at
		}
		next.fired = true
		next.fn()
	}
	c.now = deadline
}

func (c *FakeClock) nextDue(deadline time.Time) *fakeTimer {
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(deadline) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	return due[0]
}
