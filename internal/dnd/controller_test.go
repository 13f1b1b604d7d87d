package dnd

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tui-treeview/internal/sched"
	"github.com/pstuifzand/tui-treeview/internal/tree"
	"github.com/pstuifzand/tui-treeview/internal/view"
)

const (
	testRowHeight = 30
	testEdge      = 8
	aboveY        = 4  // within the top edge band
	belowY        = 27 // within the bottom edge band
	insideY       = 15 // middle of the row
)

type markerCall struct {
	kind   string
	target *tree.Node
}

type fakeMarkers struct {
	calls []markerCall
}

func (m *fakeMarkers) ShowAboveMarker(t *tree.Node, _ int) {
	m.calls = append(m.calls, markerCall{"above", t})
}

func (m *fakeMarkers) ShowBelowMarker(t *tree.Node, _ int) {
	m.calls = append(m.calls, markerCall{"below", t})
}

func (m *fakeMarkers) ShowInsideMarker(t *tree.Node) {
	m.calls = append(m.calls, markerCall{"inside", t})
}

func (m *fakeMarkers) ClearMarkers(t *tree.Node) {
	m.calls = append(m.calls, markerCall{"clear", t})
}

func (m *fakeMarkers) last() markerCall {
	if len(m.calls) == 0 {
		return markerCall{}
	}
	return m.calls[len(m.calls)-1]
}

type fixture struct {
	tree       *tree.Tree
	clock      *sched.FakeClock
	controller *Controller
	markers    *fakeMarkers
	renders    int
	nodes      map[string]*tree.Node
}

// newFixture builds:
//
//	a (expanded)
//	  a1
//	  a2
//	b
//	c (collapsed)
//	  c1
func newFixture(t *testing.T, mutate func(cfg *Config)) *fixture {
	t.Helper()
	f := &fixture{
		tree:    tree.New(),
		clock:   sched.NewFakeClock(),
		markers: &fakeMarkers{},
		nodes:   make(map[string]*tree.Node),
	}
	add := func(parent *tree.Node, text string) *tree.Node {
		n := tree.NewNode(text)
		f.tree.Append(parent, n)
		f.nodes[text] = n
		return n
	}
	a := add(nil, "a")
	add(a, "a1")
	add(a, "a2")
	add(nil, "b")
	c := add(nil, "c")
	add(c, "c1")
	f.tree.SetExpanded(a, true)

	batcher := view.NewBatcher(f.clock, func() { f.renders++ })
	f.tree.SetChangeListener(batcher.Invalidate)

	cfg := Config{
		Tree:           f.tree,
		Batcher:        batcher,
		Clock:          f.clock,
		RowHeight:      testRowHeight,
		EdgeZoneHeight: testEdge,
		Markers:        f.markers,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	f.controller = NewController(cfg)
	return f
}

func (f *fixture) n(text string) *tree.Node { return f.nodes[text] }

// topLevel returns the labels of the root's children in order.
func (f *fixture) topLevel() []string { return childTexts(f.tree.Root()) }

func childTexts(n *tree.Node) []string {
	var out []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, c.Text)
	}
	return out
}

func TestDropAboveMovesBeforeTarget(t *testing.T) {
	f := newFixture(t, nil)
	f.controller.StartDrag(f.n("c"))

	require.True(t, f.controller.DropOnRow(f.n("b"), aboveY))
	assert.Equal(t, []string{"a", "c", "b"}, f.topLevel())
	assert.False(t, f.controller.Dragging(), "the session ends with the drop")
}

func TestDropBelowMovesAfterTarget(t *testing.T) {
	f := newFixture(t, nil)
	f.controller.StartDrag(f.n("c"))

	require.True(t, f.controller.DropOnRow(f.n("a1"), belowY))
	assert.Equal(t, []string{"a1", "c", "a2"}, childTexts(f.n("a")))
	assert.Equal(t, []string{"a", "b"}, f.topLevel())
}

func TestDropBelowExpandedTargetFallsToInside(t *testing.T) {
	// "a" is expanded, so its bottom edge band is not a below-zone; the
	// candidate falls through to insert-inside.
	f := newFixture(t, nil)
	f.controller.StartDrag(f.n("b"))

	require.True(t, f.controller.DropOnRow(f.n("a"), belowY))
	assert.Equal(t, []string{"a1", "a2", "b"}, childTexts(f.n("a")))
}

func TestDropInsideAppendsByDefault(t *testing.T) {
	f := newFixture(t, nil)
	f.controller.StartDrag(f.n("b"))

	require.True(t, f.controller.DropOnRow(f.n("c"), insideY))
	assert.Equal(t, []string{"c1", "b"}, childTexts(f.n("c")))
}

func TestDropInsidePrependsUnderInsertFirst(t *testing.T) {
	f := newFixture(t, func(cfg *Config) { cfg.Policy = InsertFirst })
	f.controller.StartDrag(f.n("b"))

	require.True(t, f.controller.DropOnRow(f.n("c"), insideY))
	assert.Equal(t, []string{"b", "c1"}, childTexts(f.n("c")))
}

func TestPerTargetPolicyOverridesGlobal(t *testing.T) {
	f := newFixture(t, func(cfg *Config) {
		cfg.Policy = InsertLast
		cfg.PolicyFor = func(target *tree.Node) InsertPolicy {
			if target.Text == "c" {
				return InsertFirst
			}
			return InsertLast
		}
	})
	f.controller.StartDrag(f.n("b"))

	require.True(t, f.controller.DropOnRow(f.n("c"), insideY))
	assert.Equal(t, []string{"b", "c1"}, childTexts(f.n("c")))
}

func TestSelfAndDescendantDropsRejected(t *testing.T) {
	f := newFixture(t, nil)

	f.controller.StartDrag(f.n("a"))
	assert.False(t, f.controller.DropOnRow(f.n("a"), insideY), "self-drop")

	f.controller.StartDrag(f.n("a"))
	assert.False(t, f.controller.DropOnRow(f.n("a2"), aboveY), "drop into own subtree")

	assert.Equal(t, []string{"a", "b", "c"}, f.topLevel())
	assert.Equal(t, []string{"a1", "a2"}, childTexts(f.n("a")))
}

func TestEmptyDraggedSetRejected(t *testing.T) {
	f := newFixture(t, nil)
	f.controller.StartDrag()
	assert.False(t, f.controller.DropOnRow(f.n("b"), aboveY))
}

func TestDropWithoutSessionRejected(t *testing.T) {
	f := newFixture(t, nil)
	assert.False(t, f.controller.DropOnRow(f.n("b"), aboveY))
}

func TestAboveNoOpFallsThroughToInside(t *testing.T) {
	// "a" already sits immediately before "b", so above is a no-op; the
	// middle candidates are skipped geometrically and inside wins.
	f := newFixture(t, nil)
	f.controller.StartDrag(f.n("a"))

	require.True(t, f.controller.DropOnRow(f.n("b"), aboveY))
	assert.Equal(t, []string{"a"}, childTexts(f.n("b")))
}

func TestBelowNoOpFallsThroughToInside(t *testing.T) {
	f := newFixture(t, nil)
	f.controller.StartDrag(f.n("c"))

	require.True(t, f.controller.DropOnRow(f.n("b"), belowY))
	assert.Equal(t, []string{"c"}, childTexts(f.n("b")))
	assert.Equal(t, []string{"a", "b"}, f.topLevel())
}

func TestInsideNoOpRejected(t *testing.T) {
	// "c1" is both first and last child of "c"; inside is a no-op under
	// either policy and no other zone is geometrically available mid-row.
	f := newFixture(t, nil)
	f.controller.StartDrag(f.n("c1"))

	assert.False(t, f.controller.DropOnRow(f.n("c"), insideY))
	assert.Equal(t, []string{"c1"}, childTexts(f.n("c")))
}

func TestInsideNotANoOpWhenPositionDiffers(t *testing.T) {
	// "a1" is the first child of "a"; under the default append-last policy
	// an inside-drop on "a" moves it to the end.
	f := newFixture(t, nil)
	f.controller.StartDrag(f.n("a1"))

	require.True(t, f.controller.DropOnRow(f.n("a"), insideY))
	assert.Equal(t, []string{"a2", "a1"}, childTexts(f.n("a")))
}

func TestMultiNodeMovePreservesOrder(t *testing.T) {
	f := newFixture(t, nil)
	f.controller.StartDrag(f.n("b"), f.n("c"))

	require.True(t, f.controller.DropOnRow(f.n("a"), aboveY))
	assert.Equal(t, []string{"b", "c", "a"}, f.topLevel())
	assert.Equal(t, f.n("c"), f.n("a").PreviousSibling())
	assert.Equal(t, f.n("b"), f.n("c").PreviousSibling())
}

func TestDraggedDescendantsMoveWithTheirAncestor(t *testing.T) {
	// Grabbing "c" together with its child "c1" must behave exactly like
	// grabbing "c" alone: the child travels inside the subtree, and removing
	// it separately would detach an already-detached node.
	f := newFixture(t, nil)
	f.controller.StartDrag(f.n("c"), f.n("c1"))
	assert.Equal(t, []*tree.Node{f.n("c")}, f.controller.DraggedNodes())

	before := f.tree.NodeCount()
	require.True(t, f.controller.DropOnRow(f.n("b"), aboveY))
	assert.Equal(t, []string{"a", "c", "b"}, f.topLevel())
	assert.Equal(t, []string{"c1"}, childTexts(f.n("c")))
	assert.Equal(t, before, f.tree.NodeCount())
}

func TestDraggedSetDropsCoveredAndDuplicateNodes(t *testing.T) {
	f := newFixture(t, nil)

	// Order independent: the descendant goes regardless of position.
	f.controller.StartDrag(f.n("a1"), f.n("b"), f.n("a"))
	assert.Equal(t, []*tree.Node{f.n("b"), f.n("a")}, f.controller.DraggedNodes())

	f.controller.StartDrag(f.n("b"), f.n("b"))
	assert.Equal(t, []*tree.Node{f.n("b")}, f.controller.DraggedNodes())

	require.True(t, f.controller.DropOnRow(f.n("a"), aboveY))
	assert.Equal(t, []string{"b", "a", "c"}, f.topLevel())
}

func TestMovedDestinationSiblingsAreSkipped(t *testing.T) {
	// Dropping [c, b] below "a": the block lands after "a" in the given
	// order even though "b", the natural next sibling, is itself moving.
	f := newFixture(t, nil)
	f.tree.SetExpanded(f.n("a"), false)
	f.controller.StartDrag(f.n("c"), f.n("b"))

	require.True(t, f.controller.DropOnRow(f.n("a"), belowY))
	assert.Equal(t, []string{"a", "c", "b"}, f.topLevel())
}

func TestAllowDropVetoRejectsZone(t *testing.T) {
	f := newFixture(t, func(cfg *Config) {
		cfg.AllowDrop = func(parent, next, prev *tree.Node, dragged []*tree.Node) []*tree.Node {
			return nil
		}
	})
	f.controller.StartDrag(f.n("c"))

	assert.False(t, f.controller.DropOnRow(f.n("b"), aboveY))
	assert.Equal(t, []string{"a", "b", "c"}, f.topLevel())
}

func TestAllowDropNarrowsTheMovedSet(t *testing.T) {
	f := newFixture(t, func(cfg *Config) {
		cfg.AllowDrop = func(parent, next, prev *tree.Node, dragged []*tree.Node) []*tree.Node {
			var out []*tree.Node
			for _, d := range dragged {
				if d.Text != "b" {
					out = append(out, d)
				}
			}
			return out
		}
	})
	f.controller.StartDrag(f.n("b"), f.n("c"))

	require.True(t, f.controller.DropOnRow(f.n("a"), aboveY))
	assert.Equal(t, []string{"c", "a", "b"}, f.topLevel(), "only the narrowed subset moved")
}

func TestAllowDropVetoOfInsideAllowsAboveElsewhere(t *testing.T) {
	// The policy only permits top-level placement: inside-drops are vetoed,
	// above-drops pass.
	f := newFixture(t, func(cfg *Config) {
		cfg.AllowDrop = func(parent, next, prev *tree.Node, dragged []*tree.Node) []*tree.Node {
			if !parent.IsRoot() {
				return nil
			}
			return dragged
		}
	})

	f.controller.StartDrag(f.n("b"))
	assert.False(t, f.controller.DropOnRow(f.n("c"), insideY))

	f.controller.StartDrag(f.n("b"))
	require.True(t, f.controller.DropOnRow(f.n("a"), aboveY))
	assert.Equal(t, []string{"b", "a", "c"}, f.topLevel())
}

func TestCommitObservesPreInsertionShape(t *testing.T) {
	var observed string
	committed := false
	f := newFixture(t, func(cfg *Config) {
		cfg.OnCommit = func(parent, next, prev *tree.Node, moved []*tree.Node) {
			committed = true
			observed = fmt.Sprintf("parent=%v next=%s prev=%s moved=%d",
				parent.IsRoot(), next.Text, prev.Text, len(moved))
		}
	})
	f.controller.StartDrag(f.n("c"))

	require.True(t, f.controller.DropOnRow(f.n("b"), aboveY))
	require.True(t, committed)
	assert.Equal(t, "parent=true next=b prev=a moved=1", observed)
}

func TestCommitRunsBetweenRemovalAndInsertion(t *testing.T) {
	var countAtCommit int
	f := newFixture(t, func(cfg *Config) {
		tr := cfg.Tree
		cfg.OnCommit = func(parent, next, prev *tree.Node, moved []*tree.Node) {
			countAtCommit = tr.NodeCount()
		}
	})
	before := f.tree.NodeCount()
	f.controller.StartDrag(f.n("c")) // subtree of 2 nodes

	require.True(t, f.controller.DropOnRow(f.n("b"), aboveY))
	assert.Equal(t, before-2, countAtCommit, "the dragged subtree is detached at commit time")
	assert.Equal(t, before, f.tree.NodeCount(), "and reattached afterwards")
}

func TestDropIsOneRenderTransaction(t *testing.T) {
	f := newFixture(t, nil)
	f.controller.StartDrag(f.n("b"), f.n("c"))

	require.True(t, f.controller.DropOnRow(f.n("a"), aboveY))
	assert.Equal(t, 1, f.renders, "removals and insertions coalesce into one render")
	f.clock.Advance(time.Second)
	assert.Equal(t, 1, f.renders)
}

func TestFreeZoneDropAppendsAtTopLevel(t *testing.T) {
	f := newFixture(t, nil)
	f.controller.StartDrag(f.n("a1"))

	require.True(t, f.controller.DropOnFreeZone())
	assert.Equal(t, []string{"a", "b", "c", "a1"}, f.topLevel())
}

func TestFreeZoneNoOpRejected(t *testing.T) {
	f := newFixture(t, nil)
	f.controller.StartDrag(f.n("c")) // already the last top-level node

	assert.False(t, f.controller.DropOnFreeZone())
	assert.Equal(t, []string{"a", "b", "c"}, f.topLevel())
}

func TestMoveOutClearsEmptiedParentExpansion(t *testing.T) {
	f := newFixture(t, nil)
	c := f.n("c")
	f.tree.SetExpanded(c, true)
	f.controller.StartDrag(f.n("c1"))

	require.True(t, f.controller.DropOnRow(f.n("b"), aboveY))
	assert.False(t, c.Expanded(), "an emptied parent cannot stay expanded")
}

func TestHoverMarkerDebounces(t *testing.T) {
	f := newFixture(t, nil)
	f.controller.StartDrag(f.n("c"))

	f.controller.DragEnterRow(f.n("b"))
	f.controller.DragOverRow(f.n("b"), aboveY)
	f.controller.DragOverRow(f.n("b"), insideY)
	assert.Empty(t, f.markers.calls, "evaluation waits for the debounce window")

	f.clock.Advance(hoverDelay)
	assert.Equal(t, markerCall{"inside", f.n("b")}, f.markers.last(),
		"only the latest pointer position is evaluated")
}

func TestHoverMarkerMovesBetweenRows(t *testing.T) {
	f := newFixture(t, nil)
	f.controller.StartDrag(f.n("c"))

	f.controller.DragOverRow(f.n("a"), aboveY)
	f.clock.Advance(hoverDelay)
	require.Equal(t, markerCall{"above", f.n("a")}, f.markers.last())

	// Below "b" is a no-op for "c" and falls through to inside.
	f.controller.DragOverRow(f.n("b"), belowY)
	f.clock.Advance(hoverDelay)

	assert.Contains(t, f.markers.calls, markerCall{"clear", f.n("a")})
	assert.Equal(t, markerCall{"inside", f.n("b")}, f.markers.last())
}

func TestHoverOnInvalidTargetShowsNoMarker(t *testing.T) {
	f := newFixture(t, nil)
	f.controller.StartDrag(f.n("a"))

	f.controller.DragOverRow(f.n("a1"), insideY)
	f.clock.Advance(hoverDelay)
	for _, call := range f.markers.calls {
		assert.Equal(t, "clear", call.kind)
	}
}

func TestLeaveClearsMarkersOnlyWhenBalanced(t *testing.T) {
	f := newFixture(t, nil)
	f.controller.StartDrag(f.n("c"))
	b := f.n("b")

	f.controller.DragEnterRow(b)
	f.controller.DragOverRow(b, aboveY)
	f.clock.Advance(hoverDelay)
	require.Equal(t, markerCall{"above", b}, f.markers.last())

	// The pointer moves into a nested element of the same row.
	f.controller.DragEnterRow(b)
	f.controller.DragLeaveRow(b)
	assert.Equal(t, markerCall{"above", b}, f.markers.last(), "unbalanced leave keeps the marker")

	f.controller.DragLeaveRow(b)
	assert.Equal(t, markerCall{"clear", b}, f.markers.last())
}

func TestEndDragClearsEverything(t *testing.T) {
	f := newFixture(t, nil)
	f.controller.StartDrag(f.n("c"))
	f.controller.DragOverRow(f.n("b"), aboveY)
	f.clock.Advance(hoverDelay)

	f.controller.EndDrag()
	assert.False(t, f.controller.Dragging())
	assert.Empty(t, f.controller.DraggedNodes())
	assert.Equal(t, markerCall{"clear", f.n("b")}, f.markers.last())

	// A pending evaluation from the dead session must not fire.
	f.controller.StartDrag(f.n("c"))
	f.controller.DragOverRow(f.n("b"), insideY)
	f.controller.EndDrag()
	calls := len(f.markers.calls)
	f.clock.Advance(time.Second)
	assert.Len(t, f.markers.calls, calls)
}

func TestFailedDropDiscardsSession(t *testing.T) {
	f := newFixture(t, nil)
	f.controller.StartDrag(f.n("a"))
	assert.False(t, f.controller.DropOnRow(f.n("a1"), insideY))
	assert.False(t, f.controller.Dragging())
}

type scrollSpy struct {
	top    int
	height int
}

func (v *scrollSpy) ScrollTop() int      { return v.top }
func (v *scrollSpy) ViewportHeight() int { return v.height }
func (v *scrollSpy) SetScrollTop(o int)  { v.top = o }

func TestPointerNearEdgeDrivesAutoScroll(t *testing.T) {
	vp := &scrollSpy{height: 300}
	clock := sched.NewFakeClock()
	assist := view.NewAutoScroll(clock, vp, 50*time.Millisecond, 10, func() int { return 1000 }, nil)

	f := newFixture(t, func(cfg *Config) {
		cfg.Clock = clock
		cfg.AutoScroll = assist
		cfg.ScrollEdge = 20
		cfg.Viewport = vp
	})
	f.controller.StartDrag(f.n("c"))

	f.controller.PointerMoved(290)
	assert.True(t, assist.Enabled())
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, 20, vp.top)

	f.controller.PointerMoved(150)
	assert.False(t, assist.Enabled())

	f.controller.PointerMoved(5)
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, 0, vp.top, "scrolled back up and clamped")

	f.controller.EndDrag()
	assert.False(t, assist.Enabled(), "ending the drag stops the assist")
}

func TestBadGeometryPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewController(Config{RowHeight: 0, EdgeZoneHeight: 1})
	})
	assert.Panics(t, func() {
		NewController(Config{RowHeight: 30, EdgeZoneHeight: 16})
	})
}
