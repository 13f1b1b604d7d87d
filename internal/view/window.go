package view

import (
	"time"

	"github.com/pstuifzand/tui-treeview/internal/sched"
	"github.com/pstuifzand/tui-treeview/internal/tree"
)

// Cleanup of off-window rows is rate-limited rather than debounced: a
// request schedules at most once per idle window, and a run self-skips when
// the previous sweep was too recent. Hiding is cheap and happens inline;
// releasing row resources is the expensive part this protects.
const (
	cleanupIdle   = 300 * time.Millisecond
	cleanupMinGap = 100 * time.Millisecond
)

// Viewport is the external scroll container. The windower only reads it;
// scroll events are delivered by the owner calling OnScroll.
type Viewport interface {
	// ScrollTop returns the current scroll offset in pixels.
	ScrollTop() int
	// ViewportHeight returns the visible height in pixels.
	ViewportHeight() int
}

// Row is one materialized row. The caller-provided renderer populates its
// content; the windower owns its lifecycle (materialize, hide, release).
type Row struct {
	// Index is the 0-based visible row index this row was materialized for.
	Index int
	// Node is the tree node shown in this row.
	Node *tree.Node
	// Y is the absolute pixel offset of the row, Index*rowHeight, so the
	// scroll container's own scrollbar reflects total content height.
	Y int
	// Hidden marks rows that left the window and await release.
	Hidden bool

	stale bool
}

// RowRenderer paints a row's contents. It may run repeatedly for the same
// node across scroll events.
type RowRenderer func(n *tree.Node, row *Row)

// RowReleaser is told when a hidden row is actually dropped by the deferred
// cleanup pass, so the host can free whatever it attached to the row.
type RowReleaser func(row *Row)

// Windower decides which rows must exist for the current scroll position.
// It renders a caching margin of three screens' worth of rows around the
// visible range so small scrolls need no re-render, hides rows that leave
// the window immediately, and releases them lazily.
type Windower struct {
	tree      *tree.Tree
	viewport  Viewport
	renderRow RowRenderer
	release   RowReleaser

	rowHeight      int
	freeZoneHeight int

	capacity        int // rows that fit the viewport, rounded up
	cacheMargin     int // capacity * 3
	scrollCacheSize int // capacity * rowHeight

	lastScrollTop int
	rows          map[int]*Row

	batcher *Batcher
	cleanup *sched.Limiter
}

// Config carries the windower's construction parameters.
type Config struct {
	Tree     *tree.Tree
	Viewport Viewport
	Clock    sched.Clock
	// RowHeight is the fixed pixel height of one row. Must be positive.
	RowHeight int
	// FreeZoneHeight is the trailing free-drop zone below the last row,
	// included in ContentHeight. May be zero.
	FreeZoneHeight int
	RenderRow      RowRenderer
	ReleaseRow     RowReleaser
}

// NewWindower builds a windower and subscribes it to tree changes, so every
// structural mutation flows into the (coalesced) render path.
func NewWindower(cfg Config) *Windower {
	if cfg.RowHeight <= 0 {
		panic("view: RowHeight must be positive")
	}
	if cfg.Clock == nil {
		cfg.Clock = sched.RealClock()
	}
	w := &Windower{
		tree:           cfg.Tree,
		viewport:       cfg.Viewport,
		renderRow:      cfg.RenderRow,
		release:        cfg.ReleaseRow,
		rowHeight:      cfg.RowHeight,
		freeZoneHeight: cfg.FreeZoneHeight,
		rows:           make(map[int]*Row),
		cleanup:        sched.NewLimiter(cfg.Clock, cleanupIdle, cleanupMinGap),
	}
	w.batcher = NewBatcher(cfg.Clock, w.renderPass)
	w.recomputeCapacity()
	cfg.Tree.SetChangeListener(w.batcher.Invalidate)
	return w
}

// Batcher exposes the update batcher for transactional callers (the drag
// controller wraps its mutations in BeginUpdate/EndUpdate).
func (w *Windower) Batcher() *Batcher { return w.batcher }

// RowHeight returns the fixed row height in pixels.
func (w *Windower) RowHeight() int { return w.rowHeight }

// ContentHeight returns the scrollable height: all visible rows plus the
// trailing free-drop zone.
func (w *Windower) ContentHeight() int {
	return w.tree.RowCount()*w.rowHeight + w.freeZoneHeight
}

// RowAt returns the materialized row for a 0-based index, or nil.
func (w *Windower) RowAt(index int) *Row { return w.rows[index] }

// MaterializedCount returns how many rows currently exist, hidden ones
// included (they linger until the cleanup pass).
func (w *Windower) MaterializedCount() int { return len(w.rows) }

// VisibleRows returns the materialized, non-hidden rows in index order.
func (w *Windower) VisibleRows() []*Row {
	first, last := w.windowBounds(w.viewport.ScrollTop())
	out := make([]*Row, 0, last-first)
	for i := first; i < last; i++ {
		if r := w.rows[i]; r != nil && !r.Hidden {
			out = append(out, r)
		}
	}
	return out
}

func (w *Windower) recomputeCapacity() {
	h := w.viewport.ViewportHeight()
	w.capacity = (h + w.rowHeight - 1) / w.rowHeight
	if w.capacity < 1 {
		w.capacity = 1
	}
	w.cacheMargin = w.capacity * 3
	w.scrollCacheSize = w.capacity * w.rowHeight
}

// windowBounds computes the 0-based half-open row index range [first, last)
// to materialize for a scroll position.
func (w *Windower) windowBounds(scrollTop int) (int, int) {
	first := scrollTop/w.rowHeight - w.capacity
	if first < 0 {
		first = 0
	}
	last := first + w.cacheMargin
	if rc := w.tree.RowCount(); last > rc {
		last = rc
	}
	return first, last
}

// OnScroll reacts to a viewport scroll event. Scrolls within the cached
// margin need nothing; beyond it the capacity is recomputed (the viewport
// may have been resized) and a full render runs at the new position.
func (w *Windower) OnScroll() {
	scrollTop := w.viewport.ScrollTop()
	delta := scrollTop - w.lastScrollTop
	if delta < 0 {
		delta = -delta
	}
	if delta <= w.scrollCacheSize {
		return
	}
	w.recomputeCapacity()
	w.batcher.InvalidateNow()
}

// Invalidate requests a coalesced render pass.
func (w *Windower) Invalidate() { w.batcher.Invalidate() }

// Render runs a render pass immediately (unless suspended).
func (w *Windower) Render() { w.batcher.InvalidateNow() }

// renderPass materializes exactly the window's index range, each row at its
// absolute offset. Rows that fell out of the range are hidden right away so
// no stale visuals show, and their release is deferred to the rate-limited
// cleanup pass.
func (w *Windower) renderPass() {
	w.recomputeCapacity()
	scrollTop := w.viewport.ScrollTop()
	first, last := w.windowBounds(scrollTop)

	staleLeft := false
	for idx, row := range w.rows {
		if idx < first || idx >= last {
			row.Hidden = true
			row.stale = true
			staleLeft = true
		}
	}

	for rowIndex, n := range w.tree.VisibleRange(first+1, last) {
		idx := rowIndex - 1
		row := w.rows[idx]
		if row == nil {
			row = &Row{Index: idx}
			w.rows[idx] = row
		}
		row.Node = n
		row.Y = idx * w.rowHeight
		row.Hidden = false
		row.stale = false
		if w.renderRow != nil {
			w.renderRow(n, row)
		}
	}

	w.lastScrollTop = scrollTop
	if staleLeft {
		w.cleanup.Request(w.sweep)
	}
}

// sweep releases rows hidden by earlier render passes.
func (w *Windower) sweep() {
	for idx, row := range w.rows {
		if row.stale {
			delete(w.rows, idx)
			if w.release != nil {
				w.release(row)
			}
		}
	}
}
