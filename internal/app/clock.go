package app

import (
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-treeview/internal/sched"
)

// TimerEvent carries an engine timer callback into the tcell event stream,
// so every deferred render, cleanup sweep and hover evaluation runs on the
// main event goroutine. The engine stays single-threaded without locks.
type TimerEvent struct {
	tcell.EventTime
	fn func()
}

// Fire runs the deferred callback.
func (e *TimerEvent) Fire() { e.fn() }

// uiClock is a sched.Clock whose timers hand their callbacks to the event
// loop instead of running them on the timer goroutine.
type uiClock struct {
	post func(tcell.Event)
}

func (c *uiClock) Now() time.Time { return time.Now() }

func (c *uiClock) AfterFunc(d time.Duration, fn func()) sched.Timer {
	t := &uiTimer{}
	wrapped := func() {
		if !t.stopped.Load() {
			fn()
		}
	}
	t.timer = time.AfterFunc(d, func() {
		ev := &TimerEvent{fn: wrapped}
		ev.SetEventNow()
		c.post(ev)
	})
	return t
}

// uiTimer stops in two places: the time.Timer (callback not yet posted) and
// the stopped flag (event already sitting in the queue).
type uiTimer struct {
	timer   *time.Timer
	stopped atomic.Bool
}

func (t *uiTimer) Stop() bool {
	t.stopped.Store(true)
	return t.timer.Stop()
}
