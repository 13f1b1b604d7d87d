package view

import (
	"time"

	"github.com/pstuifzand/tui-treeview/internal/sched"
)

// ScrollDirection is the on/off direction signal the drag controller feeds
// the auto-scroll assist near viewport edges.
type ScrollDirection int

const (
	ScrollNone ScrollDirection = iota
	ScrollUp
	ScrollDown
)

// ScrollableViewport is a Viewport whose offset the assist may adjust.
type ScrollableViewport interface {
	Viewport
	SetScrollTop(offset int)
}

// AutoScroll nudges the viewport scroll offset at a fixed cadence while
// enabled. It is a thin collaborator: the drag controller decides when and
// in which direction, the assist only ticks.
type AutoScroll struct {
	clock    sched.Clock
	viewport ScrollableViewport
	cadence  time.Duration
	step     int

	// maxScroll yields the current scroll ceiling (content height minus
	// viewport height); queried per tick because the tree mutates under us.
	maxScroll func() int
	onScroll  func()

	dir   ScrollDirection
	timer sched.Timer
}

// NewAutoScroll creates a disabled assist. onScroll is invoked after every
// nudge so the windower can react; it may be nil.
func NewAutoScroll(clock sched.Clock, viewport ScrollableViewport, cadence time.Duration, step int, maxScroll func() int, onScroll func()) *AutoScroll {
	if clock == nil {
		clock = sched.RealClock()
	}
	return &AutoScroll{
		clock:     clock,
		viewport:  viewport,
		cadence:   cadence,
		step:      step,
		maxScroll: maxScroll,
		onScroll:  onScroll,
	}
}

// Enable starts (or redirects) the fixed-cadence nudging. Enabling with
// ScrollNone disables.
func (a *AutoScroll) Enable(dir ScrollDirection) {
	if dir == ScrollNone {
		a.Disable()
		return
	}
	if a.dir == dir && a.timer != nil {
		return
	}
	a.Disable()
	a.dir = dir
	a.timer = a.clock.AfterFunc(a.cadence, a.tick)
}

// Disable stops nudging.
func (a *AutoScroll) Disable() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.dir = ScrollNone
}

// Enabled reports whether the assist is currently ticking.
func (a *AutoScroll) Enabled() bool { return a.timer != nil }

func (a *AutoScroll) tick() {
	if a.dir == ScrollNone {
		return
	}
	offset := a.viewport.ScrollTop()
	switch a.dir {
	case ScrollUp:
		offset -= a.step
	case ScrollDown:
		offset += a.step
	}
	if offset < 0 {
		offset = 0
	}
	if a.maxScroll != nil {
		if maxOffset := a.maxScroll(); offset > maxOffset {
			offset = maxOffset
		}
	}
	a.viewport.SetScrollTop(offset)
	if a.onScroll != nil {
		a.onScroll()
	}
	a.timer = a.clock.AfterFunc(a.cadence, a.tick)
}
