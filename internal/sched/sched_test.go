package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlotDebounces(t *testing.T) {
	clock := NewFakeClock()
	slot := NewSlot(clock)

	fired := 0
	for range 3 {
		slot.Schedule(25*time.Millisecond, func() { fired++ })
		clock.Advance(5 * time.Millisecond)
	}
	assert.Zero(t, fired, "nothing due yet")

	clock.Advance(25 * time.Millisecond)
	assert.Equal(t, 1, fired, "three schedules within the window coalesce to one run")
	assert.False(t, slot.Pending())
}

func TestSlotReplacesTask(t *testing.T) {
	clock := NewFakeClock()
	slot := NewSlot(clock)

	var got string
	slot.Schedule(10*time.Millisecond, func() { got = "first" })
	slot.Schedule(10*time.Millisecond, func() { got = "second" })
	clock.Advance(20 * time.Millisecond)
	assert.Equal(t, "second", got, "only the most recent task fires")
}

func TestSlotCancel(t *testing.T) {
	clock := NewFakeClock()
	slot := NewSlot(clock)

	fired := false
	slot.Schedule(10*time.Millisecond, func() { fired = true })
	assert.True(t, slot.Pending())
	slot.Cancel()
	clock.Advance(time.Second)
	assert.False(t, fired)
}

func TestLimiterSingleOutstanding(t *testing.T) {
	clock := NewFakeClock()
	lim := NewLimiter(clock, 300*time.Millisecond, 100*time.Millisecond)

	runs := 0
	for range 5 {
		lim.Request(func() { runs++ })
	}
	clock.Advance(300 * time.Millisecond)
	assert.Equal(t, 1, runs, "requests while outstanding are absorbed")
}

func TestLimiterMinGapSkips(t *testing.T) {
	clock := NewFakeClock()
	lim := NewLimiter(clock, 10*time.Millisecond, 100*time.Millisecond)

	runs := 0
	lim.Request(func() { runs++ })
	clock.Advance(10 * time.Millisecond)
	assert.Equal(t, 1, runs)

	// Comes due only 10ms after the previous run: inside minGap, skipped.
	lim.Request(func() { runs++ })
	clock.Advance(10 * time.Millisecond)
	assert.Equal(t, 1, runs)

	// Past the gap, a new request runs again.
	clock.Advance(100 * time.Millisecond)
	lim.Request(func() { runs++ })
	clock.Advance(10 * time.Millisecond)
	assert.Equal(t, 2, runs)
}

func TestLimiterDoesNotExtendDeadline(t *testing.T) {
	clock := NewFakeClock()
	lim := NewLimiter(clock, 100*time.Millisecond, 10*time.Millisecond)

	runs := 0
	lim.Request(func() { runs++ })
	clock.Advance(90 * time.Millisecond)
	lim.Request(func() { runs++ }) // absorbed, must not push the deadline out
	clock.Advance(10 * time.Millisecond)
	assert.Equal(t, 1, runs)
}

func TestFakeClockFiresInOrder(t *testing.T) {
	clock := NewFakeClock()
	var order []int
	clock.AfterFunc(30*time.Millisecond, func() { order = append(order, 3) })
	clock.AfterFunc(10*time.Millisecond, func() { order = append(order, 1) })
	clock.AfterFunc(20*time.Millisecond, func() { order = append(order, 2) })
	clock.Advance(time.Second)
	assert.Equal(t, []int{1, 2, 3}, order)
}
