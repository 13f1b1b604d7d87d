package tree

import (
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

var dumpConfig = spew.ConfigState{
	Indent:                  " ",
	DisableMethods:          true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump writes a human-readable rendition of the tree structure to w, one
// line per node with indentation matching nest level. Node payloads are
// rendered with spew so arbitrary Data values stay readable. Intended for
// debug mode only.
func (t *Tree) Dump(w io.Writer) {
	fmt.Fprintf(w, "tree: %d nodes, %d visible rows\n", t.nodeCount, t.rowCount)
	level := 0
	var walk func(n *Node)
	walk = func(n *Node) {
		marker := " "
		if n.HasChildren() {
			if n.expanded {
				marker = "-"
			} else {
				marker = "+"
			}
		}
		fmt.Fprintf(w, "%s%s %q", strings.Repeat("  ", level), marker, n.Text)
		if n.Data != nil {
			fmt.Fprintf(w, " %s", strings.TrimRight(dumpConfig.Sdump(n.Data), "\n"))
		}
		fmt.Fprintln(w)
		level++
		for c := n.firstChild; c != nil; c = c.next {
			walk(c)
		}
		level--
	}
	for c := t.root.firstChild; c != nil; c = c.next {
		walk(c)
	}
}
