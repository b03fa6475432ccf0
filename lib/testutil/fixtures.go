// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"testing"

	"github.com/bureau-foundation/blocks/lib/blockdef"
	"github.com/bureau-foundation/blocks/lib/contenttree"
	"github.com/bureau-foundation/blocks/lib/schema/structure"
)

// DefaultContentType is the content type of nodes built by Chain.
const DefaultContentType = "page"

// ParseStructures decodes a JSONC structures document without block
// type presets, failing the test on error.
func ParseStructures(t testing.TB, document string) []structure.Declaration {
	t.Helper()
	declarations, err := blockdef.Parse([]byte(document), blockdef.Options{})
	if err != nil {
		t.Fatalf("parsing structures: %v", err)
	}
	return declarations
}

// Link describes one node of a chain built by ChainOf.
type Link struct {
	// Type is the content type alias. Empty means DefaultContentType.
	Type string

	// Document is the JSONC structures document. Empty means the node
	// carries no declarations.
	Document string
}

// Chain builds a linear chain of nodes of type DefaultContentType from
// structures documents listed from the resolved node to the root, and
// returns the resolved node.
func Chain(t testing.TB, documents ...string) *contenttree.Node {
	t.Helper()
	links := make([]Link, len(documents))
	for index, document := range documents {
		links[index] = Link{Document: document}
	}
	return ChainOf(t, links...)
}

// ChainOf builds a linear chain of nodes listed from the resolved node
// to the root, and returns the resolved node. The root gets ID 1 and
// name "n1"; each descendant the next ID.
func ChainOf(t testing.TB, links ...Link) *contenttree.Node {
	t.Helper()
	if len(links) == 0 {
		t.Fatalf("ChainOf: at least one link is required")
	}

	tree := contenttree.NewTree()
	var parent *contenttree.Node
	for index := len(links) - 1; index >= 0; index-- {
		link := links[index]
		contentType := link.Type
		if contentType == "" {
			contentType = DefaultContentType
		}
		id := int64(len(links) - index)
		node, err := contenttree.NewNode(id, fmt.Sprintf("n%d", id), contentType, link.Document, blockdef.Options{})
		if err != nil {
			t.Fatalf("building chain: %v", err)
		}
		if err := tree.Add(parent, node); err != nil {
			t.Fatalf("building chain: %v", err)
		}
		parent = node
	}
	return parent
}
