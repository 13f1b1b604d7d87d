package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pstuifzand/tui-treeview/internal/sched"
)

func TestInvalidateDebounces(t *testing.T) {
	clock := sched.NewFakeClock()
	renders := 0
	b := NewBatcher(clock, func() { renders++ })

	b.Invalidate()
	clock.Advance(5 * time.Millisecond)
	b.Invalidate()
	clock.Advance(5 * time.Millisecond)
	b.Invalidate()
	assert.Zero(t, renders)

	clock.Advance(50 * time.Millisecond)
	assert.Equal(t, 1, renders, "three requests within the window must render once")
}

func TestSuspendCoalescesToOneRender(t *testing.T) {
	clock := sched.NewFakeClock()
	renders := 0
	b := NewBatcher(clock, func() { renders++ })

	b.BeginUpdate()
	b.Invalidate()
	b.InvalidateNow()
	b.BeginUpdate() // nested
	b.Invalidate()
	b.EndUpdate()
	assert.Zero(t, renders, "still suspended by the outer span")
	b.EndUpdate()
	assert.Equal(t, 1, renders, "exactly one render at counter zero")

	clock.Advance(time.Second)
	assert.Equal(t, 1, renders, "no leftover debounced render")
}

func TestEndUpdateWithoutBeginPanics(t *testing.T) {
	b := NewBatcher(sched.NewFakeClock(), func() {})
	assert.Panics(t, func() { b.EndUpdate() })
}

func TestEndUpdateWithoutPendingDoesNotRender(t *testing.T) {
	clock := sched.NewFakeClock()
	renders := 0
	b := NewBatcher(clock, func() { renders++ })

	b.BeginUpdate()
	b.EndUpdate()
	clock.Advance(time.Second)
	assert.Zero(t, renders)
}

func TestInvalidateNowCancelsDebounced(t *testing.T) {
	clock := sched.NewFakeClock()
	renders := 0
	b := NewBatcher(clock, func() { renders++ })

	b.Invalidate()
	b.InvalidateNow()
	assert.Equal(t, 1, renders)
	clock.Advance(time.Second)
	assert.Equal(t, 1, renders, "the debounced request was replaced, not queued")
}
