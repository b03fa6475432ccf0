// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rendering

import (
	"fmt"
	"strings"

	"github.com/bureau-foundation/blocks/lib/cacheprofile"
	"github.com/bureau-foundation/blocks/lib/schema/structure"
)

// Block is one resolved block: the view to render, its merged data and
// its ordered children. Blocks are not modified after Resolve returns.
type Block struct {
	// Name is the block name, empty for anonymous blocks and for the
	// structure root.
	Name string `json:"name,omitempty"`

	// Source identifies the view (template) to render.
	Source string `json:"source"`

	// Data holds the merged data, keys lower-cased. Nil when empty.
	Data structure.Data `json:"data,omitempty"`

	// Fragment is the content fragment reference, when declared.
	Fragment *structure.Fragment `json:"fragment,omitempty"`

	// Cache is the resolved cache directive, nil when none applies.
	Cache *structure.CacheDirective `json:"cache,omitempty"`

	// Blocks are the child blocks in rendering order.
	Blocks []*Block `json:"blocks,omitempty"`

	byName map[string]*Block
}

// Child returns the named child block, compared case-insensitively, or
// nil when no such child exists.
func (b *Block) Child(name string) *Block {
	if b == nil {
		return nil
	}
	return b.byName[strings.ToLower(name)]
}

// Walk calls visit for b and every descendant, depth first in
// rendering order, with the nesting depth (0 for b). Walk stops at the
// first error visit returns.
func (b *Block) Walk(visit func(block *Block, depth int) error) error {
	return b.walk(visit, 0)
}

func (b *Block) walk(visit func(block *Block, depth int) error, depth int) error {
	if err := visit(b, depth); err != nil {
		return err
	}
	for _, child := range b.Blocks {
		if err := child.walk(visit, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// reindex rebuilds the by-name lookup of b and its descendants.
func (b *Block) reindex() {
	b.byName = nil
	for _, child := range b.Blocks {
		if child.Name != "" {
			if b.byName == nil {
				b.byName = make(map[string]*Block)
			}
			b.byName[child.Name] = child
		}
		child.reindex()
	}
}

// Structure is the fully resolved rendering structure of one content
// node: the root template and its blocks. The root has no name.
type Structure struct {
	Block
}

// build converts working blocks into output blocks, resolving cache
// profile references.
func build(work []*workBlock, profiles *cacheprofile.Set) ([]*Block, error) {
	if len(work) == 0 {
		return nil, nil
	}
	blocks := make([]*Block, 0, len(work))
	for _, item := range work {
		cache, err := profiles.Resolve(item.cache)
		if err != nil {
			return nil, fmt.Errorf("block %q (source %q): %w", item.name, item.source, err)
		}
		children, err := build(item.children, profiles)
		if err != nil {
			return nil, err
		}
		data := item.data
		if len(data) == 0 {
			data = nil
		}
		blocks = append(blocks, &Block{
			Name:     item.name,
			Source:   item.source,
			Data:     data,
			Fragment: item.fragment,
			Cache:    cache,
			Blocks:   children,
		})
	}
	return blocks, nil
}
