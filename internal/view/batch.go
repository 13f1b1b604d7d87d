// Package view implements the windowed rendering side of the tree view: the
// update batcher that coalesces render requests, the viewport windower that
// decides which rows exist at a given scroll position, and the auto-scroll
// assist used during drags.
package view

import (
	"time"

	"github.com/pstuifzand/tui-treeview/internal/sched"
)

// invalidateDelay is the debounce window for non-immediate render requests.
const invalidateDelay = 25 * time.Millisecond

// Batcher coalesces render triggers. BeginUpdate/EndUpdate form a re-entrant
// suspend counter: while the counter is above zero no render happens, and
// when it returns to zero with invalidations pending exactly one render
// runs, reflecting the net effect of all suspended mutations. Outside a
// suspend span, Invalidate debounces through a single-slot deferred task so
// a burst of rapid requests produces one render.
type Batcher struct {
	render  func()
	slot    *sched.Slot
	suspend int
	pending bool
}

// NewBatcher wires the batcher to the function that performs a render pass.
func NewBatcher(clock sched.Clock, render func()) *Batcher {
	return &Batcher{render: render, slot: sched.NewSlot(clock)}
}

// BeginUpdate suspends rendering. Calls nest.
func (b *Batcher) BeginUpdate() { b.suspend++ }

// EndUpdate releases one suspend level; at zero a pending invalidation
// renders immediately (once).
func (b *Batcher) EndUpdate() {
	if b.suspend == 0 {
		panic("view: EndUpdate without matching BeginUpdate")
	}
	b.suspend--
	if b.suspend == 0 && b.pending {
		b.pending = false
		b.slot.Cancel()
		b.render()
	}
}

// Suspended reports whether a BeginUpdate span is open.
func (b *Batcher) Suspended() bool { return b.suspend > 0 }

// Invalidate requests a render. Inside a suspend span it only marks the
// batcher dirty; otherwise it (re)schedules the debounced render, replacing
// any not-yet-fired request.
func (b *Batcher) Invalidate() {
	if b.suspend > 0 {
		b.pending = true
		return
	}
	b.slot.Schedule(invalidateDelay, b.render)
}

// InvalidateNow renders synchronously, dropping any debounced request. A
// suspend span still wins: the render is deferred to the closing EndUpdate.
func (b *Batcher) InvalidateNow() {
	if b.suspend > 0 {
		b.pending = true
		return
	}
	b.slot.Cancel()
	b.render()
}
