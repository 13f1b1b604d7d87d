package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pstuifzand/tui-treeview/internal/tree"
)

func buildTestTree() *tree.Tree {
	t := tree.New()
	projects := tree.NewNode("projects")
	t.Append(nil, projects)
	engine := tree.NewNode("engine")
	t.Append(projects, engine)
	t.Append(engine, tree.NewNode("windowing"))
	t.Append(engine, tree.NewNode("drag and drop"))
	t.Append(nil, tree.NewNode("inbox"))
	t.SetExpanded(projects, true)
	return t
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")

	store := NewJSONStore(path)
	store.Title = "work"
	if err := store.Save(buildTestTree()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := NewJSONStore(path)
	tr, err := loaded.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Title != "work" {
		t.Errorf("Expected title 'work', got '%s'", loaded.Title)
	}
	if tr.NodeCount() != 5 {
		t.Errorf("Expected 5 nodes, got %d", tr.NodeCount())
	}
	// projects expanded, engine collapsed: projects, engine, inbox
	if tr.RowCount() != 3 {
		t.Errorf("Expected 3 visible rows, got %d", tr.RowCount())
	}

	projects := tr.Root().FirstChild()
	if projects.Text != "projects" {
		t.Errorf("Expected first node 'projects', got '%s'", projects.Text)
	}
	if !projects.Expanded() {
		t.Errorf("Expected 'projects' to load expanded")
	}
	engine := projects.FirstChild()
	if engine == nil || engine.Text != "engine" {
		t.Fatalf("Expected 'engine' under 'projects', got %v", engine)
	}
	if engine.Expanded() {
		t.Errorf("Expected 'engine' to load collapsed")
	}
	if engine.ChildCount() != 2 {
		t.Errorf("Expected 2 children under 'engine', got %d", engine.ChildCount())
	}
}

func TestLoadMissingFileGivesEmptyTree(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "nope.json"))
	tr, err := store.Load()
	if err != nil {
		t.Fatalf("Load of missing file should not fail: %v", err)
	}
	if tr.NodeCount() != 0 {
		t.Errorf("Expected empty tree, got %d nodes", tr.NodeCount())
	}
	if store.Title != "Untitled" {
		t.Errorf("Expected title 'Untitled', got '%s'", store.Title)
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewJSONStore(path)
	if _, err := store.Load(); err == nil {
		t.Errorf("Expected a parse error for malformed JSON")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "doc.json")
	store := NewJSONStore(path)
	if err := store.Save(buildTestTree()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !store.FileExists() {
		t.Errorf("Expected the file to exist after Save")
	}
}
