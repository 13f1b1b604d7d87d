package locate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tui-treeview/internal/tree"
)

// buildTree:
//
//	notes (collapsed)
//	  meeting notes
//	  groceries
//	projects (collapsed)
//	  tree view engine
//	archive
func buildTree() (*tree.Tree, map[string]*tree.Node) {
	t := tree.New()
	nodes := make(map[string]*tree.Node)
	add := func(parent *tree.Node, text string) *tree.Node {
		n := tree.NewNode(text)
		t.Append(parent, n)
		nodes[text] = n
		return n
	}
	notes := add(nil, "notes")
	add(notes, "meeting notes")
	add(notes, "groceries")
	projects := add(nil, "projects")
	add(projects, "tree view engine")
	add(nil, "archive")
	return t, nodes
}

func TestFindAllSearchesCollapsedSubtrees(t *testing.T) {
	tr, nodes := buildTree()
	found := FindAll(tr, NewTextMatcher("notes"))
	require.Len(t, found, 2)
	assert.Equal(t, nodes["notes"], found[0])
	assert.Equal(t, nodes["meeting notes"], found[1])
}

func TestFindFirstStopsEarly(t *testing.T) {
	tr, nodes := buildTree()
	assert.Equal(t, nodes["notes"], FindFirst(tr, NewTextMatcher("notes")))
	assert.Nil(t, FindFirst(tr, NewTextMatcher("missing")))
}

func TestFuzzyMatcher(t *testing.T) {
	tr, nodes := buildTree()
	assert.Equal(t, nodes["tree view engine"], FindFirst(tr, NewFuzzyMatcher("tve")))
	assert.Nil(t, FindFirst(tr, NewFuzzyMatcher("xyzzy")))
}

func TestRegexMatcher(t *testing.T) {
	tr, nodes := buildTree()
	m, err := NewRegexMatcher(`^gro.*s$`)
	require.NoError(t, err)
	assert.Equal(t, nodes["groceries"], FindFirst(tr, m))

	_, err = NewRegexMatcher(`([`)
	assert.Error(t, err)
}

func TestFindNextAdvancesAndWraps(t *testing.T) {
	tr, nodes := buildTree()
	m := NewTextMatcher("notes")

	next := FindNext(tr, nodes["notes"], m)
	assert.Equal(t, nodes["meeting notes"], next)

	wrapped := FindNext(tr, nodes["meeting notes"], m)
	assert.Equal(t, nodes["notes"], wrapped, "search wraps past the last match")

	assert.Nil(t, FindNext(tr, nodes["notes"], NewTextMatcher("missing")))
}

func TestAnyChecksWholeSubtree(t *testing.T) {
	tr, nodes := buildTree()
	m := NewTextMatcher("engine")
	assert.True(t, Any(tr, nodes["projects"], m))
	assert.False(t, Any(tr, nodes["notes"], m))
}

func TestRevealExpandsAncestors(t *testing.T) {
	tr, nodes := buildTree()
	target := nodes["tree view engine"]
	require.Equal(t, 0, tr.RowOf(target), "hidden before reveal")

	row := Reveal(tr, target)
	assert.Equal(t, 3, row, "notes, projects, tree view engine")
	assert.True(t, nodes["projects"].Expanded())
}
