// Package storage persists trees as nested JSON documents.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pstuifzand/tui-treeview/internal/tree"
)

// nodeJSON is the on-disk shape of one node and its subtree.
type nodeJSON struct {
	Text     string      `json:"text"`
	Expanded bool        `json:"expanded,omitempty"`
	Children []*nodeJSON `json:"children,omitempty"`
}

// document is the on-disk shape of a whole file.
type document struct {
	Title string      `json:"title"`
	Nodes []*nodeJSON `json:"nodes"`
}

// JSONStore handles JSON file persistence
type JSONStore struct {
	FilePath string
	Title    string
}

// NewJSONStore creates a new JSON store for the given file path
func NewJSONStore(filePath string) *JSONStore {
	return &JSONStore{
		FilePath: filePath,
	}
}

// Load reads the file and rebuilds the tree through ordinary insertions, so
// all counts and expansion state come out consistent. A missing file yields
// an empty tree.
func (s *JSONStore) Load() (*tree.Tree, error) {
	data, err := os.ReadFile(s.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.Title = "Untitled"
			return tree.New(), nil
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	s.Title = doc.Title

	t := tree.New()
	for _, jn := range doc.Nodes {
		attach(t, nil, jn)
	}
	return t, nil
}

// attach appends one stored node under parent, recursing into children
// before restoring the expansion flag so the row count absorbs the whole
// subtree at once.
func attach(t *tree.Tree, parent *tree.Node, jn *nodeJSON) {
	n := tree.NewNode(jn.Text)
	t.Append(parent, n)
	for _, c := range jn.Children {
		attach(t, n, c)
	}
	if jn.Expanded {
		t.SetExpanded(n, true)
	}
}

// Save writes the tree to the store's file.
func (s *JSONStore) Save(t *tree.Tree) error {
	// Ensure directory exists
	dir := filepath.Dir(s.FilePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	doc := document{Title: s.Title, Nodes: detachJSON(t.Root())}
	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(s.FilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// detachJSON converts the children of n into their storage shape.
func detachJSON(n *tree.Node) []*nodeJSON {
	var out []*nodeJSON
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, &nodeJSON{
			Text:     c.Text,
			Expanded: c.Expanded(),
			Children: detachJSON(c),
		})
	}
	return out
}

// FileExists checks if the tree file exists
func (s *JSONStore) FileExists() bool {
	_, err := os.Stat(s.FilePath)
	return err == nil
}
