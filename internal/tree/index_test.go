package tree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextVisibleClimbsAncestors(t *testing.T) {
	tr, nodes := buildSample(t)
	tr.SetExpanded(nodes["C"], true)

	// D is the last visible node inside A; its successor climbs out of C
	// and A to reach E.
	assert.Same(t, nodes["E"], tr.NextVisible(nodes["D"]))
	assert.Nil(t, tr.NextVisible(nodes["E"]))
}

func TestNextVisibleSkipsCollapsedChildren(t *testing.T) {
	tr, nodes := buildSample(t)
	assert.Same(t, nodes["E"], tr.NextVisible(nodes["C"]),
		"collapsed C must not descend into D")
}

func TestRowOf(t *testing.T) {
	tr, nodes := buildSample(t)
	assert.Equal(t, 1, tr.RowOf(nodes["A"]))
	assert.Equal(t, 3, tr.RowOf(nodes["C"]))
	assert.Equal(t, 4, tr.RowOf(nodes["E"]))
	assert.Equal(t, 0, tr.RowOf(nodes["D"]), "hidden node has no row")
}

func TestVisibleRange(t *testing.T) {
	tr, _ := buildSample(t)

	var got []string
	for row, n := range tr.VisibleRange(2, 3) {
		got = append(got, fmt.Sprintf("%d:%s", row, n.Text))
	}
	assert.Equal(t, []string{"2:B", "3:C"}, got)
}

func TestVisibleRangeClamps(t *testing.T) {
	tr, _ := buildSample(t)

	var got []string
	for _, n := range tr.VisibleRange(-5, 100) {
		got = append(got, n.Text)
	}
	assert.Equal(t, []string{"A", "B", "C", "E"}, got)

	count := 0
	for range tr.VisibleRange(10, 20) {
		count++
	}
	assert.Zero(t, count)
}

func TestVisibleRangeEarlyBreak(t *testing.T) {
	tr, _ := buildSample(t)
	count := 0
	for range tr.VisibleRange(1, 4) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestNodeAtRowLargeFlatList(t *testing.T) {
	tr := New()
	for i := range 1000 {
		tr.Append(nil, NewNode(fmt.Sprintf("item %d", i)))
	}
	require.Equal(t, 1000, tr.RowCount())
	assert.Equal(t, "item 0", tr.NodeAtRow(1).Text)
	assert.Equal(t, "item 499", tr.NodeAtRow(500).Text)
	assert.Equal(t, "item 999", tr.NodeAtRow(1000).Text)
}
