// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rendering

import (
	"slices"
	"sort"

	"github.com/bureau-foundation/blocks/lib/schema/structure"
)

// workBlock is a block of the working tree built during one
// resolution. It becomes a *Block once the tree is complete.
type workBlock struct {
	name     string
	source   string
	index    int
	data     structure.Data
	fragment *structure.Fragment
	cache    *structure.CacheDirective
	children []*workBlock
}

// namedBlock accumulates every declaration of one named block within
// one scope.
type namedBlock struct {
	work   *workBlock
	killed bool

	// pending holds the child declarations gathered so far, in
	// document order.
	pending []Leveled[*structure.Block]
}

// merger carries the per-call state of a block merge.
type merger struct {
	maxDepth int
}

// structureBlocks flattens the top-level blocks of the collected
// structures into one precedence-ordered list: structures in
// precedence order, each one's level-filtered blocks reversed.
func structureBlocks(structures []Leveled[*structure.Declaration]) []Leveled[*structure.Block] {
	var blocks []Leveled[*structure.Block]
	for _, entry := range structures {
		declared := entry.Item.Blocks
		for i := len(declared) - 1; i >= 0; i-- {
			if blockApplies(&declared[i], entry.Level) {
				blocks = append(blocks, Leveled[*structure.Block]{Item: &declared[i], Level: entry.Level})
			}
		}
	}
	return blocks
}

// appendChildren appends the level-filtered children of a block
// declaration to pending, in authoring order. Children inherit the
// level of the declaration carrying them.
func appendChildren(pending []Leveled[*structure.Block], parent Leveled[*structure.Block]) []Leveled[*structure.Block] {
	for i := range parent.Item.Blocks {
		child := &parent.Item.Blocks[i]
		if blockApplies(child, parent.Level) {
			pending = append(pending, Leveled[*structure.Block]{Item: child, Level: parent.Level})
		}
	}
	return pending
}

// toDocumentOrder converts a precedence-ordered list (closest first)
// into document order (farthest first). It returns a new slice.
func toDocumentOrder[T any](precedence []T) []T {
	documentOrder := slices.Clone(precedence)
	slices.Reverse(documentOrder)
	return documentOrder
}

// toPrecedenceOrder converts a document-ordered list into precedence
// order. It returns a new slice.
func toPrecedenceOrder[T any](document []T) []T {
	precedence := slices.Clone(document)
	slices.Reverse(precedence)
	return precedence
}

// merge resolves one scope of block declarations, given in precedence
// order, into sibling working blocks in rendering order.
func (m *merger) merge(declarations []Leveled[*structure.Block], depth int) ([]*workBlock, error) {
	if len(declarations) == 0 {
		return nil, nil
	}
	if depth > m.maxDepth {
		return nil, &DepthError{Limit: m.maxDepth}
	}

	document := toDocumentOrder(declarations)

	// Group named declarations. Names are already lower-cased by the
	// declaration decoder. Groups are built in document order, which
	// is the order they are folded in.
	groups := make(map[string][]Leveled[*structure.Block])
	var names []string
	for _, entry := range document {
		if !entry.Item.IsNamed() {
			continue
		}
		name := entry.Item.Name
		if _, seen := groups[name]; !seen {
			names = append(names, name)
		}
		groups[name] = append(groups[name], entry)
	}

	named := make(map[string]*namedBlock, len(names))
	for _, name := range names {
		group, err := foldNamed(name, groups[name])
		if err != nil {
			return nil, err
		}
		named[name] = group
	}

	var blocks []*workBlock
	placed := make(map[string]bool, len(names))
	for _, entry := range document {
		if entry.Item.IsNamed() {
			name := entry.Item.Name
			group := named[name]
			if group.killed || placed[name] {
				continue
			}
			placed[name] = true
			children, err := m.merge(toPrecedenceOrder(group.pending), depth+1)
			if err != nil {
				return nil, err
			}
			group.work.children = children
			blocks = append(blocks, group.work)
			continue
		}

		work := newWorkBlock(entry.Item)
		children, err := m.merge(toPrecedenceOrder(appendChildren(nil, entry)), depth+1)
		if err != nil {
			return nil, err
		}
		work.children = children
		blocks = append(blocks, work)
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].index < blocks[j].index
	})
	return blocks, nil
}

func newWorkBlock(block *structure.Block) *workBlock {
	return &workBlock{
		name:     block.Name,
		source:   block.Source,
		index:    block.Index,
		data:     block.Data.Clone(),
		fragment: block.Fragment(),
		cache:    block.Cache,
	}
}

// foldNamed folds the declarations of one named block, given in
// document order. The farthest declaration seeds the block; closer
// declarations may kill it, reset its children, merge data, replace
// its fragment and add children, but may not change its source once
// set, its index, or its cache directive.
func foldNamed(name string, entries []Leveled[*structure.Block]) (*namedBlock, error) {
	seed := entries[0]
	group := &namedBlock{work: newWorkBlock(seed.Item)}
	group.pending = appendChildren(nil, seed)

	for _, entry := range entries[1:] {
		block := entry.Item
		if block.IsKill {
			group.killed = true
			break
		}
		if block.Source != "" {
			if group.work.source != "" {
				return nil, &ConflictError{Block: name, Field: FieldSource, Level: entry.Level}
			}
			group.work.source = block.Source
		}
		if block.Index != structure.DefaultIndex {
			return nil, &ConflictError{Block: name, Field: FieldIndex, Level: entry.Level}
		}
		group.work.data = group.work.data.Merge(block.Data)
		if fragment := block.Fragment(); fragment != nil {
			group.work.fragment = fragment
		}
		if block.Cache != nil {
			if group.work.cache != nil {
				return nil, &ConflictError{Block: name, Field: FieldCache, Level: entry.Level}
			}
			group.work.cache = block.Cache
		}
		if block.IsReset {
			group.pending = nil
		}
		group.pending = appendChildren(group.pending, entry)
	}

	if group.work.source == "" {
		group.work.source = name
	}
	return group, nil
}
