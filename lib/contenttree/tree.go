// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package contenttree

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/blocks/lib/blockdef"
)

// Tree is an in-memory content tree.
type Tree struct {
	roots []*Node
	byID  map[int64]*Node
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{byID: make(map[int64]*Node)}
}

// Add inserts node under parent, or as a root when parent is nil. The
// node's ID must be positive and unused, and parent must belong to the
// tree.
func (t *Tree) Add(parent, node *Node) error {
	if node.ID <= 0 {
		return fmt.Errorf("node %q: id must be positive, got %d", node.Name, node.ID)
	}
	if _, exists := t.byID[node.ID]; exists {
		return fmt.Errorf("node %q: duplicate id %d", node.Name, node.ID)
	}
	if parent != nil {
		if t.byID[parent.ID] != parent {
			return fmt.Errorf("node %q: parent %d is not in the tree", node.Name, parent.ID)
		}
		node.parent = parent
		parent.children = append(parent.children, node)
	} else {
		node.parent = nil
		t.roots = append(t.roots, node)
	}
	t.byID[node.ID] = node
	return nil
}

// Find returns the node with the given ID.
func (t *Tree) Find(id int64) (*Node, bool) {
	node, ok := t.byID[id]
	return node, ok
}

// FindPath returns the node at a slash-separated path of names from a
// root, compared case-insensitively.
func (t *Tree) FindPath(path string) (*Node, bool) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	candidates := t.roots
	var found *Node
	for _, segment := range segments {
		found = nil
		for _, candidate := range candidates {
			if strings.EqualFold(candidate.Name, segment) {
				found = candidate
				break
			}
		}
		if found == nil {
			return nil, false
		}
		candidates = found.children
	}
	return found, found != nil
}

// Roots returns the root nodes in insertion order.
func (t *Tree) Roots() []*Node {
	return t.roots
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.byID)
}

// Walk calls visit for every node, depth first, parents before
// children. Walk stops at the first error visit returns.
func (t *Tree) Walk(visit func(node *Node) error) error {
	var walk func(nodes []*Node) error
	walk = func(nodes []*Node) error {
		for _, node := range nodes {
			if err := visit(node); err != nil {
				return err
			}
			if err := walk(node.children); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(t.roots)
}

// siteFile is the YAML site description.
type siteFile struct {
	Nodes []nodeFile `yaml:"nodes"`
}

type nodeFile struct {
	ID         int64             `yaml:"id"`
	Name       string            `yaml:"name"`
	Type       string            `yaml:"type"`
	Structures string            `yaml:"structures"`
	Properties map[string]string `yaml:"properties"`
	Children   []nodeFile        `yaml:"children"`
}

// Parse decodes a YAML site description:
//
//	nodes:
//	  - id: 1
//	    name: home
//	    type: home
//	    structures: |
//	      [{ "source": "layout" }]
//	    children:
//	      - id: 2
//	        name: news
//	        type: list
//
// Structures documents are decoded with blockdef.Parse using options.
func Parse(data []byte, options blockdef.Options) (*Tree, error) {
	var site siteFile
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("parsing site: %w", err)
	}

	tree := NewTree()
	var add func(parent *Node, entries []nodeFile) error
	add = func(parent *Node, entries []nodeFile) error {
		for _, entry := range entries {
			node, err := NewNode(entry.ID, entry.Name, entry.Type, entry.Structures, options)
			if err != nil {
				return err
			}
			node.Properties = entry.Properties
			if err := tree.Add(parent, node); err != nil {
				return err
			}
			if err := add(node, entry.Children); err != nil {
				return err
			}
		}
		return nil
	}
	if err := add(nil, site.Nodes); err != nil {
		return nil, err
	}
	return tree, nil
}

// LoadFile reads and parses a YAML site description.
func LoadFile(path string, options blockdef.Options) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	tree, err := Parse(data, options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

// NewNode builds a detached node, decoding its structures document.
func NewNode(id int64, name, contentType, document string, options blockdef.Options) (*Node, error) {
	structures, err := blockdef.Parse([]byte(document), options)
	if err != nil {
		return nil, fmt.Errorf("node %d (%s): %w", id, name, err)
	}
	return &Node{
		ID:         id,
		Name:       name,
		Type:       contentType,
		Document:   document,
		Structures: structures,
	}, nil
}
