package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pstuifzand/tui-treeview/internal/storage"
	"github.com/pstuifzand/tui-treeview/internal/tree"
)

func main() {
	numNodes := flag.Int("nodes", 1000, "Number of nodes to generate")
	output := flag.String("output", "large_test.json", "Output file path")
	depth := flag.Int("depth", 3, "Maximum nesting depth")
	expand := flag.Bool("expand", false, "Mark all branch nodes expanded")
	flag.Parse()

	if *numNodes < 1 {
		fmt.Fprintf(os.Stderr, "nodes must be at least 1\n")
		os.Exit(1)
	}

	t := generateTree(*numNodes, *depth, *expand)

	store := storage.NewJSONStore(*output)
	store.Title = fmt.Sprintf("Generated tree (%d nodes)", t.NodeCount())
	if err := store.Save(t); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write file: %v\n", err)
		os.Exit(1)
	}

	info, err := os.Stat(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to stat file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated tree with %d nodes (%d visible rows)\n", t.NodeCount(), t.RowCount())
	fmt.Printf("Saved to: %s\n", *output)
	fmt.Printf("File size: %.2f MB\n", float64(info.Size())/(1024*1024))
}

func generateTree(totalNodes, maxDepth int, expand bool) *tree.Tree {
	t := tree.New()
	remaining := totalNodes

	// Create a balanced structure until the node count is used up.
	for remaining > 0 {
		generateSubtree(t, nil, &remaining, 0, maxDepth, expand)
	}

	return t
}

func generateSubtree(t *tree.Tree, parent *tree.Node, remaining *int, currentDepth, maxDepth int, expand bool) {
	if *remaining <= 0 {
		return
	}

	n := tree.NewNode(generateUniqueText(*remaining))
	t.Append(parent, n)
	*remaining--

	if currentDepth < maxDepth && *remaining > 0 {
		numChildren := childCount(*remaining, maxDepth-currentDepth)
		for i := 0; i < numChildren && *remaining > 0; i++ {
			generateSubtree(t, n, remaining, currentDepth+1, maxDepth, expand)
		}
		if expand && n.HasChildren() {
			t.SetExpanded(n, true)
		}
	}
}

func childCount(remaining int, depthLeft int) int {
	// Distribute nodes across children based on remaining nodes
	if depthLeft == 1 {
		// Leaf level: create fewer children
		if remaining > 10 {
			return 5
		}
		return remaining / 2
	}
	// Internal levels: create 2-3 children
	if remaining > 50 {
		return 3
	}
	return 2
}

func generateUniqueText(index int) string {
	// Generate unique, descriptive text for each node
	categories := []string{
		"Task", "Note", "Idea", "Bug", "Feature", "Enhancement",
		"Documentation", "Refactor", "Test", "Optimization",
		"Research", "Design", "Implementation", "Review",
	}

	category := categories[index%len(categories)]
	return fmt.Sprintf("%s #%d - %s", category, index,
		generateDescription(index))
}

func generateDescription(index int) string {
	descriptions := []string{
		"Core functionality",
		"User interface",
		"Performance improvement",
		"Bug fix",
		"New capability",
		"API integration",
		"Data validation",
		"Error handling",
		"Caching layer",
		"Database schema",
		"Authentication",
		"Configuration",
		"Logging system",
		"Monitoring",
		"Security audit",
	}

	return descriptions[index%len(descriptions)]
}
