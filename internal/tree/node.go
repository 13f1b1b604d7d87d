// Package tree implements the hierarchical node model for the tree view:
// parent/child/sibling links, expansion state, structural mutation and
// traversal, with incremental node/row counting.
package tree

// Node is one item in the hierarchical collection. Its position is
// determined exclusively by its parent link; siblings form a doubly-linked
// list in display order. All links are owned by the Tree and can only be
// changed through Tree operations, so the linked structure cannot be
// corrupted from outside the package.
type Node struct {
	// Text is the display label. The row renderer decides how (and whether)
	// to paint it.
	Text string

	// Data carries arbitrary caller payload. The tree never inspects it.
	Data any

	expanded bool
	isRoot   bool

	parent     *Node
	prev, next *Node
	firstChild *Node
	lastChild  *Node
}

// NewNode creates a detached node with the given label.
func NewNode(text string) *Node {
	return &Node{Text: text}
}

// Parent returns the node's container, or nil when detached. The root node's
// parent is nil.
func (n *Node) Parent() *Node { return n.parent }

// PreviousSibling returns the preceding sibling, or nil for the first child.
func (n *Node) PreviousSibling() *Node { return n.prev }

// NextSibling returns the following sibling, or nil for the last child.
func (n *Node) NextSibling() *Node { return n.next }

// FirstChild returns the first child, or nil for a leaf.
func (n *Node) FirstChild() *Node { return n.firstChild }

// LastChild returns the last child, or nil for a leaf.
func (n *Node) LastChild() *Node { return n.lastChild }

// Expanded reports whether the node's children are shown. The root is always
// expanded.
func (n *Node) Expanded() bool { return n.expanded }

// HasChildren reports whether the node has at least one child.
func (n *Node) HasChildren() bool { return n.firstChild != nil }

// IsRoot reports whether this is a tree's distinguished root node. The root
// is never displayed or counted.
func (n *Node) IsRoot() bool { return n.isRoot }

// attached reports whether the node currently sits in some tree structure.
// The root counts as attached.
func (n *Node) attached() bool { return n.parent != nil || n.isRoot }

// IsDescendantOf reports whether n is a proper descendant of ancestor.
func (n *Node) IsDescendantOf(ancestor *Node) bool {
	if ancestor == nil {
		return false
	}
	for p := n.parent; p != nil; p = p.parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	count := 0
	for c := n.firstChild; c != nil; c = c.next {
		count++
	}
	return count
}
