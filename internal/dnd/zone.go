// Package dnd implements the drag-and-drop reorder state machine: zone
// classification of the pointer position within a row, validity gating with
// a pluggable policy, and the transactional multi-node move.
package dnd

import "github.com/pstuifzand/tui-treeview/internal/tree"

// Zone is the classified meaning of a drop at a given pointer offset within
// a row.
type Zone int

const (
	// ZoneNone means no zone was accepted; the tree stays untouched.
	ZoneNone Zone = iota
	// ZoneAbove inserts the dragged set immediately before the target.
	ZoneAbove
	// ZoneBelow inserts the dragged set immediately after the target. Never
	// offered on an expanded target: a drop after an expanded node lands on
	// its first child's above-zone instead.
	ZoneBelow
	// ZoneInside inserts the dragged set as children of the target.
	ZoneInside
)

func (z Zone) String() string {
	switch z {
	case ZoneAbove:
		return "above"
	case ZoneBelow:
		return "below"
	case ZoneInside:
		return "inside"
	default:
		return "none"
	}
}

// InsertPolicy decides where inside-drops land within the new parent.
type InsertPolicy int

const (
	// InsertLast appends dropped nodes as the parent's last children.
	InsertLast InsertPolicy = iota
	// InsertFirst prepends dropped nodes as the parent's first children.
	InsertFirst
)

// AllowDropFunc is the caller-supplied validation policy, consulted before a
// zone is accepted. It receives the destination (parent plus the siblings
// the moved block would end up between, nil at list edges) and the dragged
// set, and returns the subset allowed to move, in the same relative order.
// Returning nil or an empty slice rejects the zone. A nil AllowDropFunc
// means "always allowed, full set".
type AllowDropFunc func(parent, next, prev *tree.Node, dragged []*tree.Node) []*tree.Node

// CommitFunc is notified of an accepted drop after the dragged set has been
// removed and before it is inserted, so the collaborator observes the
// pre-insertion tree shape alongside the intended destination.
type CommitFunc func(parent, next, prev *tree.Node, moved []*tree.Node)

// MarkerHost paints and clears the hover feedback markers. nestLevel is the
// indentation level the separator should be drawn at.
type MarkerHost interface {
	ShowAboveMarker(target *tree.Node, nestLevel int)
	ShowBelowMarker(target *tree.Node, nestLevel int)
	ShowInsideMarker(target *tree.Node)
	ClearMarkers(target *tree.Node)
}

// destination is a resolved drop position: the parent to insert under and
// the sibling the moved block is inserted before (nil appends at the end).
type destination struct {
	parent *tree.Node
	next   *tree.Node
	prev   *tree.Node
}
