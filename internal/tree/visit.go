package tree

// VisitResult is returned by a Visitor to steer traversal. It replaces the
// classic "return false to stop, true to match" convention with an explicit
// enum.
type VisitResult int

const (
	// Continue keeps walking.
	Continue VisitResult = iota
	// Stop aborts the whole traversal (only honored in stop mode; in
	// match-any mode it merely means "no match here").
	Stop
	// Matched marks this node as satisfying the query. In match-any mode the
	// traversal still runs to completion and ORs all matches together.
	Matched
)

// Visitor is called for every node in depth-first pre-order.
type Visitor func(n *Node) VisitResult

// Accept walks the tree depth-first, pre-order, starting at the root's
// children (the root itself is never visited).
//
// visibleOnly restricts descent into a node's children to expanded nodes;
// the node itself is still visited when its own ancestors are expanded.
// reverse visits children last-to-first.
//
// With matchAny=false the first Stop aborts the whole traversal and is
// returned. With matchAny=true the traversal always runs to completion and
// returns Matched when any visit matched; Stop from one node does not
// prevent its siblings or their subtrees from being visited. The two modes
// cover "find first" and "does any descendant satisfy" queries with one
// primitive.
func (t *Tree) Accept(v Visitor, visibleOnly, reverse, matchAny bool) VisitResult {
	return acceptChildren(t.root, v, visibleOnly, reverse, matchAny)
}

// AcceptFrom is Accept limited to the subtree rooted at n; n itself is
// visited first.
func (t *Tree) AcceptFrom(n *Node, v Visitor, visibleOnly, reverse, matchAny bool) VisitResult {
	return acceptNode(n, v, visibleOnly, reverse, matchAny)
}

func acceptNode(n *Node, v Visitor, visibleOnly, reverse, matchAny bool) VisitResult {
	result := v(n)
	if !matchAny && result == Stop {
		return Stop
	}
	if matchAny && result == Stop {
		result = Continue
	}
	if visibleOnly && !n.expanded {
		return result
	}
	childResult := acceptChildren(n, v, visibleOnly, reverse, matchAny)
	if !matchAny && childResult == Stop {
		return Stop
	}
	if childResult == Matched {
		return Matched
	}
	return result
}

func acceptChildren(n *Node, v Visitor, visibleOnly, reverse, matchAny bool) VisitResult {
	result := Continue
	if reverse {
		for c := n.lastChild; c != nil; c = c.prev {
			r := acceptNode(c, v, visibleOnly, reverse, matchAny)
			if !matchAny && r == Stop {
				return Stop
			}
			if r == Matched {
				result = Matched
			}
		}
		return result
	}
	for c := n.firstChild; c != nil; c = c.next {
		r := acceptNode(c, v, visibleOnly, reverse, matchAny)
		if !matchAny && r == Stop {
			return Stop
		}
		if r == Matched {
			result = Matched
		}
	}
	return result
}
