// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package contenttree provides the content trees the resolver walks:
// an in-memory [Tree] loaded from a YAML site description, and a
// SQLite-backed [Store] that persists nodes and loads ancestor chains.
//
// A [Node] carries its content type alias, its raw structures document
// (JSONC) and the decoded declarations. Nodes implement
// rendering.Content, and [Accessor] is the rendering.Accessor reading
// their declarations.
package contenttree

import (
	"strings"

	"github.com/bureau-foundation/blocks/lib/rendering"
	"github.com/bureau-foundation/blocks/lib/schema/structure"
)

// Node is one content node.
type Node struct {
	// ID identifies the node. IDs are positive and unique in a tree.
	ID int64

	// Name is the node's path segment.
	Name string

	// Type is the content type alias.
	Type string

	// Document is the raw structures document the declarations were
	// decoded from. Empty when the node carries no declarations.
	Document string

	// Structures are the decoded declarations, nil when none.
	Structures []structure.Declaration

	// Properties are string content properties, used for cache keys.
	Properties map[string]string

	parent   *Node
	children []*Node
}

// ContentType returns the node's content type alias.
func (n *Node) ContentType() string {
	return n.Type
}

// Parent returns the parent node, or false at the root.
func (n *Node) Parent() (rendering.Content, bool) {
	if n.parent == nil {
		return nil, false
	}
	return n.parent, true
}

// ParentNode returns the parent node, nil at the root.
func (n *Node) ParentNode() *Node {
	return n.parent
}

// Children returns the child nodes in insertion order.
func (n *Node) Children() []*Node {
	return n.children
}

// Path returns the slash-separated names from the root to n.
func (n *Node) Path() string {
	var segments []string
	for current := n; current != nil; current = current.parent {
		segments = append(segments, current.Name)
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return strings.Join(segments, "/")
}

// Property returns the value of a content property. With recurse set,
// the lookup continues through the ancestors until a non-empty value
// is found.
func (n *Node) Property(alias string, recurse bool) string {
	for current := n; current != nil; current = current.parent {
		if value := current.Properties[alias]; value != "" {
			return value
		}
		if !recurse {
			break
		}
	}
	return ""
}

// Accessor returns the declarations of a *Node. Other content types
// carry none.
func Accessor(content rendering.Content) []structure.Declaration {
	node, ok := content.(*Node)
	if !ok {
		return nil
	}
	return node.Structures
}
