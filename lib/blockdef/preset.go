// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package blockdef

import (
	"strings"

	"github.com/bureau-foundation/blocks/lib/schema/structure"
)

// Preset pre-fills block declarations of a given type.
type Preset struct {
	// Source is used when the declaration has none.
	Source string

	// Data is merged under the declared data: declared keys win.
	Data structure.Data

	// Cache is used when the declaration has none.
	Cache *structure.CacheDirective
}

// applyPresets fills blocks carrying a Type from the matching preset,
// recursing into nested blocks.
func applyPresets(blocks []structure.Block, types map[string]Preset) error {
	for index := range blocks {
		block := &blocks[index]
		if block.Type != "" {
			preset, ok := lookupPreset(types, block.Type)
			if !ok {
				return &UnknownBlockTypeError{Type: block.Type, Block: block.Name}
			}
			applyPreset(block, preset)
		}
		if err := applyPresets(block.Blocks, types); err != nil {
			return err
		}
	}
	return nil
}

func lookupPreset(types map[string]Preset, name string) (Preset, bool) {
	if preset, ok := types[name]; ok {
		return preset, true
	}
	for key, preset := range types {
		if strings.EqualFold(key, name) {
			return preset, true
		}
	}
	return Preset{}, false
}

func applyPreset(block *structure.Block, preset Preset) {
	if block.Source == "" {
		block.Source = strings.ToLower(preset.Source)
	}
	if preset.Data != nil {
		block.Data = preset.Data.Clone().Merge(block.Data)
	}
	if block.Cache == nil && preset.Cache != nil {
		cache := *preset.Cache
		block.Cache = &cache
	}
}
