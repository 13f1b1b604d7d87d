package dnd

import (
	"time"

	"github.com/pstuifzand/tui-treeview/internal/sched"
	"github.com/pstuifzand/tui-treeview/internal/tree"
	"github.com/pstuifzand/tui-treeview/internal/view"
)

// hoverDelay debounces marker re-evaluation per pointer move; a new move
// cancels and replaces the pending one.
const hoverDelay = 25 * time.Millisecond

// Config carries the controller's construction parameters.
type Config struct {
	Tree    *tree.Tree
	Batcher *view.Batcher
	Clock   sched.Clock

	// RowHeight is the rendered row height in pixels, the denominator of
	// zone classification. Must be positive.
	RowHeight int
	// EdgeZoneHeight is the thickness of the above/below bands at the top
	// and bottom of a row. Must be positive and at most half the row height.
	EdgeZoneHeight int

	// Policy is the global inside-drop placement default.
	Policy InsertPolicy
	// PolicyFor overrides Policy per drop target; nil means use the global.
	PolicyFor func(target *tree.Node) InsertPolicy

	// AllowDrop vetoes or narrows a zone's candidacy; nil accepts everything.
	AllowDrop AllowDropFunc
	// OnCommit is notified between the removal and insertion halves of an
	// accepted drop; may be nil.
	OnCommit CommitFunc
	// Markers receives hover feedback; may be nil for headless use.
	Markers MarkerHost

	// AutoScroll, when set, is enabled while the drag pointer sits within
	// ScrollEdge pixels of the viewport's top or bottom edge.
	AutoScroll *view.AutoScroll
	// ScrollEdge is the edge band thickness in pixels; zero disables the
	// assist feed.
	ScrollEdge int
	// Viewport is consulted for the edge-band geometry; required when
	// AutoScroll is set.
	Viewport view.Viewport
}

// Controller owns one drag session at a time: the dragged set, the hover
// bookkeeping, and the transactional commit. All drag state lives on the
// instance and dies with the session.
type Controller struct {
	tree    *tree.Tree
	batcher *view.Batcher
	cfg     Config

	hover *sched.Slot

	dragging bool
	dragged  []*tree.Node

	// hoverTarget is the row the last evaluated marker belongs to; enters
	// counts enter/leave pairs per row so passing into a nested element of
	// the same row does not clear its markers.
	hoverTarget *tree.Node
	enters      map[*tree.Node]int
}

// NewController builds an idle controller. It panics when the geometry
// configuration cannot classify zones.
func NewController(cfg Config) *Controller {
	if cfg.RowHeight <= 0 {
		panic("dnd: RowHeight must be positive")
	}
	if cfg.EdgeZoneHeight <= 0 || cfg.EdgeZoneHeight*2 > cfg.RowHeight {
		panic("dnd: EdgeZoneHeight must be positive and at most half the row height")
	}
	if cfg.Clock == nil {
		cfg.Clock = sched.RealClock()
	}
	return &Controller{
		tree:    cfg.Tree,
		batcher: cfg.Batcher,
		cfg:     cfg,
		hover:   sched.NewSlot(cfg.Clock),
		enters:  make(map[*tree.Node]int),
	}
}

// StartDrag begins a drag session seeded with the given nodes, in order. The
// usual call passes the single node the gesture started on; a multi-select
// host passes its whole selection. Nodes that are descendants of other
// dragged nodes are dropped from the set: they move with their ancestor's
// subtree, and removing them separately at commit time would fail.
// Duplicates are dropped for the same reason.
func (c *Controller) StartDrag(nodes ...*tree.Node) {
	c.EndDrag()
	c.dragging = true
	c.dragged = normalizeDragged(nodes)
}

func normalizeDragged(nodes []*tree.Node) []*tree.Node {
	out := make([]*tree.Node, 0, len(nodes))
	for i, n := range nodes {
		if n == nil {
			continue
		}
		keep := true
		for j, m := range nodes {
			if m == nil || j == i {
				continue
			}
			if n.IsDescendantOf(m) || (m == n && j < i) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, n)
		}
	}
	return out
}

// Dragging reports whether a drag session is live.
func (c *Controller) Dragging() bool { return c.dragging }

// DraggedNodes returns the session's dragged set in drag order.
func (c *Controller) DraggedNodes() []*tree.Node {
	return append([]*tree.Node(nil), c.dragged...)
}

// EndDrag discards the session: dragged set, hover state, pending marker
// evaluation and auto-scroll all stop. Safe to call when idle.
func (c *Controller) EndDrag() {
	c.hover.Cancel()
	if c.cfg.AutoScroll != nil {
		c.cfg.AutoScroll.Disable()
	}
	c.clearHoverMarkers()
	for n := range c.enters {
		delete(c.enters, n)
	}
	c.dragging = false
	c.dragged = nil
}

func (c *Controller) clearHoverMarkers() {
	if c.hoverTarget != nil && c.cfg.Markers != nil {
		c.cfg.Markers.ClearMarkers(c.hoverTarget)
	}
	c.hoverTarget = nil
}

// DragEnterRow records the pointer entering a row (or a nested visual
// element within it).
func (c *Controller) DragEnterRow(target *tree.Node) {
	if !c.dragging || target == nil {
		return
	}
	c.enters[target]++
}

// DragLeaveRow records the pointer leaving a row element. Markers for the
// row are cleared only when the leave balances every enter, so moving into a
// nested element within the same row keeps them.
func (c *Controller) DragLeaveRow(target *tree.Node) {
	if !c.dragging || target == nil {
		return
	}
	c.enters[target]--
	if c.enters[target] > 0 {
		return
	}
	delete(c.enters, target)
	if c.hoverTarget == target {
		c.hover.Cancel()
		c.clearHoverMarkers()
	}
}

// DragOverRow re-evaluates the hover marker for a pointer position within a
// row, debounced so rapid moves cost one evaluation.
func (c *Controller) DragOverRow(target *tree.Node, offsetY int) {
	if !c.dragging {
		return
	}
	c.hover.Schedule(hoverDelay, func() {
		zone, _, _ := c.resolve(target, offsetY)
		c.showMarker(target, zone)
	})
}

// DragOverFreeZone re-evaluates the hover marker for the trailing free drop
// zone below the last row.
func (c *Controller) DragOverFreeZone() {
	if !c.dragging {
		return
	}
	c.hover.Schedule(hoverDelay, func() {
		zone, _, _ := c.resolveFreeZone()
		c.showMarker(c.tree.Root(), zone)
	})
}

func (c *Controller) showMarker(target *tree.Node, zone Zone) {
	if c.hoverTarget != nil && c.hoverTarget != target && c.cfg.Markers != nil {
		c.cfg.Markers.ClearMarkers(c.hoverTarget)
	}
	if c.cfg.Markers != nil {
		c.cfg.Markers.ClearMarkers(target)
		switch zone {
		case ZoneAbove:
			c.cfg.Markers.ShowAboveMarker(target, c.tree.NestLevel(target))
		case ZoneBelow:
			c.cfg.Markers.ShowBelowMarker(target, c.tree.NestLevel(target))
		case ZoneInside:
			c.cfg.Markers.ShowInsideMarker(target)
		}
	}
	if zone == ZoneNone {
		c.hoverTarget = nil
	} else {
		c.hoverTarget = target
	}
}

// PointerMoved feeds the auto-scroll assist: within ScrollEdge pixels of the
// viewport's top or bottom the assist runs in that direction, elsewhere it
// stops. viewportY is relative to the viewport's top edge.
func (c *Controller) PointerMoved(viewportY int) {
	if !c.dragging || c.cfg.AutoScroll == nil || c.cfg.ScrollEdge <= 0 {
		return
	}
	switch {
	case viewportY <= c.cfg.ScrollEdge:
		c.cfg.AutoScroll.Enable(view.ScrollUp)
	case viewportY >= c.cfg.Viewport.ViewportHeight()-c.cfg.ScrollEdge:
		c.cfg.AutoScroll.Enable(view.ScrollDown)
	default:
		c.cfg.AutoScroll.Disable()
	}
}

// DropOnRow resolves the zone for the pointer position and, when one is
// accepted, moves the dragged set there transactionally. It reports whether
// the tree changed. The session ends either way.
func (c *Controller) DropOnRow(target *tree.Node, offsetY int) bool {
	zone, moved, dest := c.resolve(target, offsetY)
	return c.finishDrop(zone, moved, dest)
}

// DropOnFreeZone drops onto the trailing free zone below the last row, which
// appends at the top level (or prepends, per the root's insert policy).
func (c *Controller) DropOnFreeZone() bool {
	zone, moved, dest := c.resolveFreeZone()
	return c.finishDrop(zone, moved, dest)
}

func (c *Controller) finishDrop(zone Zone, moved []*tree.Node, dest destination) bool {
	defer c.EndDrag()
	if zone == ZoneNone || len(moved) == 0 {
		return false
	}
	c.commit(moved, dest)
	return true
}

// resolve classifies the pointer position and gates each geometric candidate
// in above, below, inside order; the first zone that survives validation
// wins. A ZoneNone result leaves the tree untouched.
func (c *Controller) resolve(target *tree.Node, offsetY int) (Zone, []*tree.Node, destination) {
	if !c.baseValid(target) {
		return ZoneNone, nil, destination{}
	}
	edge := c.cfg.EdgeZoneHeight

	if offsetY <= edge {
		dest := destination{parent: target.Parent(), next: target, prev: target.PreviousSibling()}
		if moved := c.gateAbove(target, dest); len(moved) > 0 {
			return ZoneAbove, moved, dest
		}
	}
	if offsetY >= c.cfg.RowHeight-edge && !target.Expanded() {
		dest := destination{parent: target.Parent(), next: target.NextSibling(), prev: target}
		if moved := c.gateBelow(target, dest); len(moved) > 0 {
			return ZoneBelow, moved, dest
		}
	}
	if !target.IsRoot() {
		dest := c.insideDestination(target)
		if moved := c.gateInside(target, dest); len(moved) > 0 {
			return ZoneInside, moved, dest
		}
	}
	return ZoneNone, nil, destination{}
}

// resolveFreeZone treats the free zone as an inside-drop on the root.
func (c *Controller) resolveFreeZone() (Zone, []*tree.Node, destination) {
	root := c.tree.Root()
	if !c.baseValid(root) {
		return ZoneNone, nil, destination{}
	}
	dest := c.insideDestination(root)
	if moved := c.gateInside(root, dest); len(moved) > 0 {
		return ZoneInside, moved, dest
	}
	return ZoneNone, nil, destination{}
}

// baseValid applies the session-wide rejections: no dragged set, self-drop,
// or dropping into a dragged node's own subtree.
func (c *Controller) baseValid(target *tree.Node) bool {
	if !c.dragging || len(c.dragged) == 0 || target == nil {
		return false
	}
	for _, d := range c.dragged {
		if target == d || target.IsDescendantOf(d) {
			return false
		}
	}
	return true
}

func (c *Controller) gateAbove(target *tree.Node, dest destination) []*tree.Node {
	// No-op: the lone dragged node already sits immediately before the target.
	if len(c.dragged) == 1 && c.dragged[0].NextSibling() == target {
		return nil
	}
	return c.consultPolicy(dest)
}

func (c *Controller) gateBelow(target *tree.Node, dest destination) []*tree.Node {
	if target.IsRoot() {
		return nil
	}
	if len(c.dragged) == 1 && c.dragged[0].PreviousSibling() == target {
		return nil
	}
	return c.consultPolicy(dest)
}

func (c *Controller) gateInside(target *tree.Node, dest destination) []*tree.Node {
	// No-op: a lone dragged node already parked where the policy would put it.
	if len(c.dragged) == 1 && c.dragged[0].Parent() == target {
		d := c.dragged[0]
		switch c.policyFor(target) {
		case InsertFirst:
			if target.FirstChild() == d {
				return nil
			}
		case InsertLast:
			if target.LastChild() == d {
				return nil
			}
		}
	}
	return c.consultPolicy(dest)
}

func (c *Controller) policyFor(target *tree.Node) InsertPolicy {
	if c.cfg.PolicyFor != nil {
		return c.cfg.PolicyFor(target)
	}
	return c.cfg.Policy
}

func (c *Controller) insideDestination(target *tree.Node) destination {
	if c.policyFor(target) == InsertFirst {
		return destination{parent: target, next: target.FirstChild()}
	}
	return destination{parent: target, prev: target.LastChild()}
}

// consultPolicy runs the caller's validation over the full dragged set and
// returns the subset it allows, order preserved.
func (c *Controller) consultPolicy(dest destination) []*tree.Node {
	if c.cfg.AllowDrop == nil {
		return c.dragged
	}
	return c.cfg.AllowDrop(dest.parent, dest.next, dest.prev, c.dragged)
}

// commit performs the accepted move as one suspended transaction: every
// removal first, the commit notification against the pre-insertion shape,
// then the insertions in original order. Destination siblings are recomputed
// after the removals, which may have detached them from around the target.
func (c *Controller) commit(moved []*tree.Node, dest destination) {
	c.batcher.BeginUpdate()
	defer c.batcher.EndUpdate()

	// The destination siblings may themselves be in the moved set (a drop
	// right next to another dragged node); skip past them while the sibling
	// links are still intact.
	movedSet := make(map[*tree.Node]bool, len(moved))
	for _, m := range moved {
		movedSet[m] = true
	}
	next, prev := dest.next, dest.prev
	for next != nil && movedSet[next] {
		next = next.NextSibling()
	}
	for prev != nil && movedSet[prev] {
		prev = prev.PreviousSibling()
	}

	for _, m := range moved {
		c.tree.Remove(m)
	}

	if c.cfg.OnCommit != nil {
		c.cfg.OnCommit(dest.parent, next, prev, moved)
	}

	for _, m := range moved {
		if next != nil {
			c.tree.InsertBefore(next, m)
		} else {
			c.tree.Append(dest.parent, m)
		}
	}
}
