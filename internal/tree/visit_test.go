package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect(tr *Tree, visibleOnly, reverse bool) []string {
	var order []string
	tr.Accept(func(n *Node) VisitResult {
		order = append(order, n.Text)
		return Continue
	}, visibleOnly, reverse, false)
	return order
}

func TestAcceptPreOrder(t *testing.T) {
	tr, _ := buildSample(t)

	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, collect(tr, false, false))
	assert.Equal(t, []string{"A", "B", "C", "E"}, collect(tr, true, false),
		"D sits behind collapsed C")
}

func TestAcceptReverse(t *testing.T) {
	tr, _ := buildSample(t)
	assert.Equal(t, []string{"E", "A", "C", "D", "B"}, collect(tr, false, true))
}

func TestAcceptStopAborts(t *testing.T) {
	tr, _ := buildSample(t)

	var visited []string
	result := tr.Accept(func(n *Node) VisitResult {
		visited = append(visited, n.Text)
		if n.Text == "B" {
			return Stop
		}
		return Continue
	}, false, false, false)

	assert.Equal(t, Stop, result)
	assert.Equal(t, []string{"A", "B"}, visited, "Stop must abort the whole traversal")
}

func TestAcceptMatchAnyRunsToCompletion(t *testing.T) {
	tr, _ := buildSample(t)

	var visited []string
	result := tr.Accept(func(n *Node) VisitResult {
		visited = append(visited, n.Text)
		switch n.Text {
		case "B":
			return Stop // must not abort siblings in match-any mode
		case "D":
			return Matched
		}
		return Continue
	}, false, false, true)

	assert.Equal(t, Matched, result)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, visited)
}

func TestAcceptMatchAnyNoMatch(t *testing.T) {
	tr, _ := buildSample(t)
	result := tr.Accept(func(n *Node) VisitResult {
		return Stop
	}, false, false, true)
	assert.Equal(t, Continue, result)
}

func TestAcceptFromSubtree(t *testing.T) {
	tr, nodes := buildSample(t)
	var visited []string
	tr.AcceptFrom(nodes["C"], func(n *Node) VisitResult {
		visited = append(visited, n.Text)
		return Continue
	}, false, false, false)
	assert.Equal(t, []string{"C", "D"}, visited)
}

func TestSubtreeSizeViaAccept(t *testing.T) {
	tr, nodes := buildSample(t)
	count := 0
	tr.AcceptFrom(nodes["A"], func(n *Node) VisitResult {
		count++
		return Continue
	}, false, false, false)
	assert.Equal(t, tr.SubtreeSize(nodes["A"]), count)
}
