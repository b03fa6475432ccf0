// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rendering

import (
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/blocks/lib/cacheprofile"
	"github.com/bureau-foundation/blocks/lib/schema/structure"
)

// DefaultSource is the template used when no applicable structure
// declaration names one.
const DefaultSource = "default"

// DefaultMaxDepth bounds block nesting when Config.MaxDepth is zero.
const DefaultMaxDepth = 64

// Config holds the parameters for a Resolver.
type Config struct {
	// Profiles resolves cache directives that reference a named
	// profile. Nil is an empty registry: any profile reference fails
	// with *cacheprofile.UnknownProfileError.
	Profiles *cacheprofile.Set

	// MaxDepth bounds block nesting. Zero means DefaultMaxDepth.
	MaxDepth int

	// Logger receives debug output about each resolution. Nil
	// discards.
	Logger *slog.Logger
}

// Resolver computes rendering structures. It is immutable after
// construction and safe for concurrent use.
type Resolver struct {
	profiles *cacheprofile.Set
	maxDepth int
	logger   *slog.Logger
}

// NewResolver creates a Resolver from config.
func NewResolver(config Config) *Resolver {
	maxDepth := config.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		profiles: config.Profiles,
		maxDepth: maxDepth,
		logger:   logger,
	}
}

// Resolve computes the rendering structure of content for the given
// context (empty for none). It walks content's ancestors through
// accessor, selects the template, cache directive and data, and merges
// the block declarations of every applicable structure.
//
// Any conflict aborts the whole resolution; no partial structure is
// returned.
func (r *Resolver) Resolve(content Content, accessor Accessor, context string) (*Structure, error) {
	collection := Collect(content, accessor, context)
	if collection.Reset {
		r.logger.Debug("structure walk stopped by reset",
			"context", context,
			"level", collection.Structures[len(collection.Structures)-1].Level,
		)
	}

	merger := &merger{maxDepth: r.maxDepth}
	work, err := merger.merge(structureBlocks(collection.Structures), 0)
	if err != nil {
		return nil, fmt.Errorf("resolving blocks: %w", err)
	}
	blocks, err := build(work, r.profiles)
	if err != nil {
		return nil, fmt.Errorf("resolving blocks: %w", err)
	}
	cache, err := r.profiles.Resolve(selectCache(collection.Structures))
	if err != nil {
		return nil, fmt.Errorf("resolving structure cache: %w", err)
	}

	result := &Structure{Block: Block{
		Source: selectSource(collection.Structures),
		Data:   mergeStructureData(collection.Structures),
		Cache:  cache,
		Blocks: blocks,
	}}
	result.reindex()

	r.logger.Debug("resolved structure",
		"context", context,
		"structures", len(collection.Structures),
		"source", result.Source,
		"blocks", len(result.Blocks),
	)
	return result, nil
}

// Resolve resolves content with a default Resolver: no cache profiles,
// default depth bound, no logging.
func Resolve(content Content, accessor Accessor, context string) (*Structure, error) {
	return NewResolver(Config{}).Resolve(content, accessor, context)
}

// selectSource returns the first non-empty source, or name, of the
// structures in precedence order.
func selectSource(structures []Leveled[*structure.Declaration]) string {
	for _, entry := range structures {
		if entry.Item.Source != "" {
			return entry.Item.Source
		}
		if entry.Item.Name != "" {
			return entry.Item.Name
		}
	}
	return DefaultSource
}

// selectCache returns the first cache directive of the structures in
// precedence order.
func selectCache(structures []Leveled[*structure.Declaration]) *structure.CacheDirective {
	for _, entry := range structures {
		if entry.Item.Cache != nil {
			return entry.Item.Cache
		}
	}
	return nil
}

// mergeStructureData folds structure data from the farthest declaration
// to the closest, so closer keys win. It returns nil when empty.
func mergeStructureData(structures []Leveled[*structure.Declaration]) structure.Data {
	var data structure.Data
	for _, entry := range toDocumentOrder(structures) {
		data = data.Merge(entry.Item.Data)
	}
	if len(data) == 0 {
		return nil
	}
	return data
}
