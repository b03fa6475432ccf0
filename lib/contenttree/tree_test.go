// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package contenttree_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/blocks/lib/blockdef"
	"github.com/bureau-foundation/blocks/lib/contenttree"
	"github.com/bureau-foundation/blocks/lib/rendering"
)

const siteYAML = `
nodes:
  - id: 1
    name: home
    type: home
    properties:
      theme: dark
      title: Home
    structures: |
      // site chrome
      [{
        "source": "layout",
        "blocks": [
          { "name": "header", "source": "header" },
          { "name": "sidebar", "source": "sidebar" },
          { "source": "footer" },
        ],
      }]
    children:
      - id: 2
        name: News
        type: list
        properties:
          title: News
        children:
          - id: 3
            name: item
            type: article
            structures: |
              [{ "blocks": [{ "name": "sidebar", "isKill": true }, { "source": "comments" }] }]
  - id: 10
    name: other
    type: home
`

func parseSite(t *testing.T) *contenttree.Tree {
	t.Helper()
	tree, err := contenttree.Parse([]byte(siteYAML), blockdef.Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return tree
}

func TestParseSite(t *testing.T) {
	t.Parallel()

	tree := parseSite(t)
	if tree.Len() != 4 {
		t.Errorf("Len = %d, want 4", tree.Len())
	}
	if roots := tree.Roots(); len(roots) != 2 || roots[0].Name != "home" || roots[1].Name != "other" {
		t.Errorf("Roots = %v, want home and other", roots)
	}

	home, ok := tree.Find(1)
	if !ok {
		t.Fatal("Find(1) not found")
	}
	if len(home.Structures) != 1 || home.Structures[0].Source != "layout" {
		t.Errorf("home.Structures = %+v, want one layout declaration", home.Structures)
	}
	if len(home.Children()) != 1 || home.Children()[0].ID != 2 {
		t.Errorf("home.Children = %v, want [2]", home.Children())
	}
	if _, ok := home.Parent(); ok {
		t.Error("root reports a parent")
	}

	news, _ := tree.Find(2)
	if news.Structures != nil {
		t.Errorf("news.Structures = %+v, want nil", news.Structures)
	}
	if parent, ok := news.Parent(); !ok || parent != rendering.Content(home) {
		t.Errorf("news.Parent = %v, %v; want home", parent, ok)
	}

	if _, ok := tree.Find(99); ok {
		t.Error("Find(99) found a node")
	}
}

func TestFindPath(t *testing.T) {
	t.Parallel()

	tree := parseSite(t)
	tests := []struct {
		path   string
		wantID int64
	}{
		{"home", 1},
		{"/home/news/", 2},
		{"HOME/NEWS/Item", 3},
		{"other", 10},
	}
	for _, test := range tests {
		node, ok := tree.FindPath(test.path)
		if !ok {
			t.Errorf("FindPath(%q) not found", test.path)
			continue
		}
		if node.ID != test.wantID {
			t.Errorf("FindPath(%q) = %d, want %d", test.path, node.ID, test.wantID)
		}
	}

	for _, path := range []string{"missing", "home/missing", "home/news/item/deeper"} {
		if _, ok := tree.FindPath(path); ok {
			t.Errorf("FindPath(%q) found a node", path)
		}
	}
}

func TestNodePathAndProperty(t *testing.T) {
	t.Parallel()

	tree := parseSite(t)
	item, _ := tree.Find(3)

	if got := item.Path(); got != "home/News/item" {
		t.Errorf("Path = %q, want %q", got, "home/News/item")
	}
	if got := item.Property("title", false); got != "" {
		t.Errorf("Property(title, false) = %q, want empty", got)
	}
	if got := item.Property("title", true); got != "News" {
		t.Errorf("Property(title, true) = %q, want News", got)
	}
	if got := item.Property("theme", true); got != "dark" {
		t.Errorf("Property(theme, true) = %q, want dark", got)
	}
	if got := item.Property("missing", true); got != "" {
		t.Errorf("Property(missing, true) = %q, want empty", got)
	}
}

func TestAddRejectsInvalidNodes(t *testing.T) {
	t.Parallel()

	tree := contenttree.NewTree()
	root := &contenttree.Node{ID: 1, Name: "root"}
	if err := tree.Add(nil, root); err != nil {
		t.Fatalf("Add(root): %v", err)
	}

	tests := []struct {
		name   string
		parent *contenttree.Node
		node   *contenttree.Node
		want   string
	}{
		{"zero id", root, &contenttree.Node{Name: "zero"}, "must be positive"},
		{"duplicate id", root, &contenttree.Node{ID: 1, Name: "dup"}, "duplicate id"},
		{"foreign parent", &contenttree.Node{ID: 7}, &contenttree.Node{ID: 8, Name: "orphan"}, "not in the tree"},
	}
	for _, test := range tests {
		err := tree.Add(test.parent, test.node)
		if err == nil || !strings.Contains(err.Error(), test.want) {
			t.Errorf("%s: Add error = %v, want containing %q", test.name, err, test.want)
		}
	}
	if tree.Len() != 1 {
		t.Errorf("Len = %d after rejected adds, want 1", tree.Len())
	}
}

func TestWalkOrder(t *testing.T) {
	t.Parallel()

	tree := parseSite(t)
	var ids []int64
	if err := tree.Walk(func(node *contenttree.Node) error {
		ids = append(ids, node.ID)
		return nil
	}); err != nil {
		t.Fatalf("Walk: %v", err)
	}
	want := []int64{1, 2, 3, 10}
	if len(ids) != len(want) {
		t.Fatalf("Walk visited %v, want %v", ids, want)
	}
	for index := range want {
		if ids[index] != want[index] {
			t.Fatalf("Walk visited %v, want %v", ids, want)
		}
	}

	stop := errors.New("stop")
	err := tree.Walk(func(node *contenttree.Node) error {
		if node.ID == 2 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Errorf("Walk error = %v, want stop", err)
	}
}

func TestParseRejectsBadStructures(t *testing.T) {
	t.Parallel()

	document := `
nodes:
  - id: 1
    name: home
    type: home
    structures: '{"blocks": 5}'
`
	_, err := contenttree.Parse([]byte(document), blockdef.Options{})
	if err == nil {
		t.Fatal("Parse accepted an invalid structures document")
	}
	if !strings.Contains(err.Error(), "node 1 (home)") {
		t.Errorf("error = %v, want node context", err)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "site.yaml")
	if err := os.WriteFile(path, []byte(siteYAML), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	tree, err := contenttree.LoadFile(path, blockdef.Options{})
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if tree.Len() != 4 {
		t.Errorf("Len = %d, want 4", tree.Len())
	}

	if _, err := contenttree.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), blockdef.Options{}); err == nil {
		t.Error("LoadFile succeeded on a missing file")
	}
}

func TestResolveOverTree(t *testing.T) {
	t.Parallel()

	tree := parseSite(t)
	item, _ := tree.FindPath("home/news/item")

	result, err := rendering.Resolve(item, contenttree.Accessor, "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if result.Source != "layout" {
		t.Errorf("Source = %q, want layout", result.Source)
	}
	var got []string
	for _, block := range result.Blocks {
		got = append(got, block.Source)
	}
	if strings.Join(got, ",") != "header,footer,comments" {
		t.Errorf("blocks = %v, want [header footer comments]", got)
	}
	if result.Child("sidebar") != nil {
		t.Error("sidebar was not killed")
	}
}

type foreignContent struct{}

func (foreignContent) ContentType() string                { return "page" }
func (foreignContent) Parent() (rendering.Content, bool) { return nil, false }

func TestAccessorIgnoresForeignContent(t *testing.T) {
	t.Parallel()

	if declarations := contenttree.Accessor(foreignContent{}); declarations != nil {
		t.Errorf("Accessor(foreign) = %v, want nil", declarations)
	}
}
