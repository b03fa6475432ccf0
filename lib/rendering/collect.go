// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rendering

import (
	"strings"

	"github.com/bureau-foundation/blocks/lib/schema/structure"
)

// Content is a node of the content tree as the resolver sees it.
type Content interface {
	// ContentType returns the node's content type alias.
	ContentType() string

	// Parent returns the node's parent, or false at the root.
	Parent() (Content, bool)
}

// Accessor returns the structure declarations authored on a node, in
// authoring order. A nil result means the node carries none.
type Accessor func(Content) []structure.Declaration

// Leveled pairs a declaration with the relative level of the node that
// carried it: 0 for the resolved node, 1 for its parent, and so on.
type Leveled[T any] struct {
	Item  T
	Level int
}

// Collection is the result of walking the ancestor chain.
type Collection struct {
	// Structures holds the applicable declarations in precedence
	// order: the resolved node first, and within a node the last
	// authored declaration first.
	Structures []Leveled[*structure.Declaration]

	// Reset reports that the walk stopped early on a resetting
	// declaration.
	Reset bool
}

// Collect walks from content to the root and gathers the structure
// declarations applying at each level for the given context. Content
// type filters always compare against content's own type. The walk
// ends at the root or right after an applicable declaration with
// IsReset. Nodes without declarations still count as a level.
func Collect(content Content, accessor Accessor, context string) Collection {
	var collection Collection
	if content == nil {
		return collection
	}

	context = strings.TrimSpace(context)
	contentType := content.ContentType()
	current := content
	for level := 0; ; level++ {
		declarations := accessor(current)
		for i := len(declarations) - 1; i >= 0; i-- {
			declaration := &declarations[i]
			if !structureApplies(declaration, level, context, contentType) {
				continue
			}
			collection.Structures = append(collection.Structures, Leveled[*structure.Declaration]{Item: declaration, Level: level})
			if declaration.IsReset {
				collection.Reset = true
				return collection
			}
		}

		parent, ok := current.Parent()
		if !ok || parent == nil {
			return collection
		}
		current = parent
	}
}
