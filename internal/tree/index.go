package tree

import "iter"

// Row indices are 1-based positions among visible nodes in pre-order. They
// are what the windowed renderer addresses rows by; anything cheaper than a
// visible-order walk would have to be rebuilt on every mutation, so lookups
// walk and the windower amortizes them to one per render pass.

// NodeAtRow returns the node at the 1-based visible row index, or nil when
// the index is out of range.
func (t *Tree) NodeAtRow(index int) *Node {
	if index < 1 || index > t.rowCount {
		return nil
	}
	n := t.root.firstChild
	for row := 1; row < index && n != nil; row++ {
		n = t.NextVisible(n)
	}
	return n
}

// RowOf returns the 1-based visible row index of n, or 0 when n is not
// currently visible.
func (t *Tree) RowOf(n *Node) int {
	if !t.IsVisible(n) {
		return 0
	}
	row := 0
	for c := t.root.firstChild; c != nil; c = t.NextVisible(c) {
		row++
		if c == n {
			return row
		}
	}
	return 0
}

// NextVisible returns the next node in visible pre-order: the first child
// when n is expanded, else the next sibling, else the first next sibling
// found while climbing ancestors (stopping at the root). Returns nil past
// the last visible node.
func (t *Tree) NextVisible(n *Node) *Node {
	if n.expanded && n.firstChild != nil {
		return n.firstChild
	}
	if n.next != nil {
		return n.next
	}
	for p := n.parent; p != nil && !p.isRoot; p = p.parent {
		if p.next != nil {
			return p.next
		}
	}
	return nil
}

// VisibleRange iterates the visible nodes for 1-based rows first..last
// inclusive, clamped to the current row count. The by-index lookup happens
// once; subsequent rows advance via NextVisible, so a render pass costs one
// walk rather than one walk per row.
func (t *Tree) VisibleRange(first, last int) iter.Seq2[int, *Node] {
	return func(yield func(int, *Node) bool) {
		if first < 1 {
			first = 1
		}
		if last > t.rowCount {
			last = t.rowCount
		}
		if first > last {
			return
		}
		n := t.NodeAtRow(first)
		for row := first; row <= last && n != nil; row++ {
			if !yield(row, n) {
				return
			}
			n = t.NextVisible(n)
		}
	}
}
