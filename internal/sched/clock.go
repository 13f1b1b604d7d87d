// Package sched provides the deferral primitives the render pipeline is
// built on: a Clock abstraction, a single-slot deferred task (debounce) and
// a rate limiter. All deferral in the tree view goes through these instead
// of ad hoc timer bookkeeping, which keeps cancel-and-replace semantics in
// one place and makes timing testable with a fake clock.
package sched

import "time"

// Timer is a cancelable pending callback.
type Timer interface {
	// Stop cancels the timer. It reports whether the callback was still
	// pending.
	Stop() bool
}

// Clock abstracts time for scheduling. Production code uses RealClock;
// tests drive a FakeClock manually.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

type realClock struct{}

type realTimer struct{ *time.Timer }

func (t realTimer) Stop() bool { return t.Timer.Stop() }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return realTimer{time.AfterFunc(d, fn)}
}

// RealClock returns the wall clock.
func RealClock() Clock { return realClock{} }
