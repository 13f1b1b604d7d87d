package tree

import "fmt"

// Tree owns a distinguished root node and maintains two counters
// incrementally across all mutations:
//
//   - NodeCount: every node reachable from the root, excluding the root.
//   - RowCount: nodes whose proper ancestors (excluding the root) are all
//     expanded, i.e. the currently visible rows, whether or not they are
//     inside the rendered window.
//
// Every structural change (insert, remove, clear, expansion toggle) notifies
// the registered change listener, which is how the render pipeline learns
// that row indices are stale.
type Tree struct {
	root      *Node
	nodeCount int
	rowCount  int
	onChange  func()
}

// New creates an empty tree with an always-expanded root.
func New() *Tree {
	return &Tree{root: newRoot()}
}

func newRoot() *Node {
	return &Node{expanded: true, isRoot: true}
}

// Root returns the distinguished root node. It is never displayed or
// counted; it only owns the top-level nodes.
func (t *Tree) Root() *Node { return t.root }

// NodeCount returns the total number of nodes, excluding the root.
func (t *Tree) NodeCount() int { return t.nodeCount }

// RowCount returns the number of visible rows.
func (t *Tree) RowCount() int { return t.rowCount }

// SetChangeListener registers the single structure-change listener. Passing
// nil removes it.
func (t *Tree) SetChangeListener(fn func()) { t.onChange = fn }

func (t *Tree) notify() {
	if t.onChange != nil {
		t.onChange()
	}
}

// inTree reports whether n is reachable from this tree's root.
func (t *Tree) inTree(n *Node) bool {
	for p := n; p != nil; p = p.parent {
		if p == t.root {
			return true
		}
	}
	return false
}

// IsVisible reports whether every proper ancestor of n (excluding the root)
// is expanded and n is attached to this tree. The root itself is not
// visible.
func (t *Tree) IsVisible(n *Node) bool {
	if n == nil || n.isRoot {
		return false
	}
	for p := n.parent; p != nil; p = p.parent {
		if p == t.root {
			return true
		}
		if !p.expanded {
			return false
		}
	}
	return false
}

// visibleRows counts the rows the subtree rooted at n contributes, assuming
// n itself is visible: n plus every descendant reachable along expanded
// nodes.
func visibleRows(n *Node) int {
	rows := 1
	if n.expanded {
		for c := n.firstChild; c != nil; c = c.next {
			rows += visibleRows(c)
		}
	}
	return rows
}

// SubtreeSize returns the number of nodes in the subtree rooted at n,
// including n itself.
func (t *Tree) SubtreeSize(n *Node) int {
	size := 1
	for c := n.firstChild; c != nil; c = c.next {
		size += t.SubtreeSize(c)
	}
	return size
}

// NestLevel returns the number of proper ancestors of n, excluding the root.
// Top-level nodes are at level 0.
func (t *Tree) NestLevel(n *Node) int {
	level := 0
	for p := n.parent; p != nil && !p.isRoot; p = p.parent {
		level++
	}
	return level
}

// checkDetached panics when n cannot be inserted: insertion requires a
// currently detached node, so passing an attached one is a caller bug.
func checkDetached(op string, n *Node) {
	if n == nil {
		panic(fmt.Sprintf("tree: %s: nil node", op))
	}
	if n.attached() {
		panic(fmt.Sprintf("tree: %s: node %q is already attached; detach it first", op, n.Text))
	}
}

func (t *Tree) checkParent(op string, parent *Node) {
	if !t.inTree(parent) {
		panic(fmt.Sprintf("tree: %s: parent %q is not part of this tree", op, parent.Text))
	}
}

func (t *Tree) checkReference(op string, ref *Node) {
	if ref == nil {
		panic(fmt.Sprintf("tree: %s: nil reference node", op))
	}
	if ref.isRoot {
		panic(fmt.Sprintf("tree: %s: reference must not be the root", op))
	}
	if !t.inTree(ref) {
		panic(fmt.Sprintf("tree: %s: reference %q is not part of this tree", op, ref.Text))
	}
}

// countInserted bumps the counters for a freshly linked subtree.
func (t *Tree) countInserted(n *Node) {
	t.nodeCount += t.SubtreeSize(n)
	if t.IsVisible(n) {
		t.rowCount += visibleRows(n)
	}
	t.notify()
}

// Append attaches the detached node n as the last child of parent. A nil
// parent appends at the top level.
func (t *Tree) Append(parent, n *Node) {
	checkDetached("Append", n)
	if parent == nil {
		parent = t.root
	}
	t.checkParent("Append", parent)

	n.parent = parent
	n.prev = parent.lastChild
	n.next = nil
	if parent.lastChild != nil {
		parent.lastChild.next = n
	} else {
		parent.firstChild = n
	}
	parent.lastChild = n

	t.countInserted(n)
}

// Prepend attaches the detached node n as the first child of parent. A nil
// parent prepends at the top level.
func (t *Tree) Prepend(parent, n *Node) {
	checkDetached("Prepend", n)
	if parent == nil {
		parent = t.root
	}
	t.checkParent("Prepend", parent)

	n.parent = parent
	n.next = parent.firstChild
	n.prev = nil
	if parent.firstChild != nil {
		parent.firstChild.prev = n
	} else {
		parent.lastChild = n
	}
	parent.firstChild = n

	t.countInserted(n)
}

// InsertBefore attaches the detached node n immediately before ref.
func (t *Tree) InsertBefore(ref, n *Node) {
	checkDetached("InsertBefore", n)
	t.checkReference("InsertBefore", ref)

	parent := ref.parent
	n.parent = parent
	n.next = ref
	n.prev = ref.prev
	if ref.prev != nil {
		ref.prev.next = n
	} else {
		parent.firstChild = n
	}
	ref.prev = n

	t.countInserted(n)
}

// InsertAfter attaches the detached node n immediately after ref.
func (t *Tree) InsertAfter(ref, n *Node) {
	checkDetached("InsertAfter", n)
	t.checkReference("InsertAfter", ref)

	parent := ref.parent
	n.parent = parent
	n.prev = ref
	n.next = ref.next
	if ref.next != nil {
		ref.next.prev = n
	} else {
		parent.lastChild = n
	}
	ref.next = n

	t.countInserted(n)
}

// Remove detaches n and its entire subtree from the tree. If the removal
// empties an expanded non-root parent, the parent's expanded flag is cleared
// (it can no longer show an expanded state) before the structure-change
// notification fires.
func (t *Tree) Remove(n *Node) {
	if n == nil {
		panic("tree: Remove: nil node")
	}
	if n.isRoot {
		panic("tree: Remove: cannot remove the root")
	}
	if !t.inTree(n) {
		panic(fmt.Sprintf("tree: Remove: node %q is not part of this tree", n.Text))
	}

	// Count before unlinking; visibility depends on the ancestor chain.
	size := t.SubtreeSize(n)
	rows := 0
	if t.IsVisible(n) {
		rows = visibleRows(n)
	}

	parent := n.parent
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		parent.firstChild = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		parent.lastChild = n.prev
	}
	n.parent = nil
	n.prev = nil
	n.next = nil

	t.nodeCount -= size
	t.rowCount -= rows

	if !parent.isRoot && parent.firstChild == nil && parent.expanded {
		parent.expanded = false
	}
	t.notify()
}

// Clear resets the tree to an empty root in O(1); existing nodes are not
// walked and simply become unreachable.
func (t *Tree) Clear() {
	t.root = newRoot()
	t.nodeCount = 0
	t.rowCount = 0
	t.notify()
}

// SetExpanded flips the expansion flag of n, adjusting RowCount by the
// number of rows the node's visible descendants contribute. Toggling a node
// with no children changes the flag but no counts. The root is ignored; it
// is always expanded.
func (t *Tree) SetExpanded(n *Node, expanded bool) {
	if n == nil || n.isRoot || n.expanded == expanded {
		return
	}
	// Rows contributed by the children when this node shows them. Only
	// matters when the node itself is on a fully expanded ancestor path.
	delta := 0
	if t.IsVisible(n) {
		for c := n.firstChild; c != nil; c = c.next {
			delta += visibleRows(c)
		}
	}
	n.expanded = expanded
	if expanded {
		t.rowCount += delta
	} else {
		t.rowCount -= delta
	}
	t.notify()
}

// ToggleExpanded flips the expansion state of n.
func (t *Tree) ToggleExpanded(n *Node) {
	if n == nil || n.isRoot {
		return
	}
	t.SetExpanded(n, !n.expanded)
}

// ExpandAll expands every node in the subtree rooted at n (the whole tree
// when n is nil or the root).
func (t *Tree) ExpandAll(n *Node) {
	if n == nil {
		n = t.root
	}
	for c := n.firstChild; c != nil; c = c.next {
		t.ExpandAll(c)
	}
	if !n.isRoot && n.firstChild != nil {
		t.SetExpanded(n, true)
	}
}

// CollapseAll collapses every node in the subtree rooted at n (the whole
// tree when n is nil or the root).
func (t *Tree) CollapseAll(n *Node) {
	if n == nil {
		n = t.root
	}
	for c := n.firstChild; c != nil; c = c.next {
		t.CollapseAll(c)
	}
	if !n.isRoot {
		t.SetExpanded(n, false)
	}
}

// ExpandAncestors expands every proper ancestor of n so the node becomes
// visible.
func (t *Tree) ExpandAncestors(n *Node) {
	for p := n.parent; p != nil && !p.isRoot; p = p.parent {
		t.SetExpanded(p, true)
	}
}
