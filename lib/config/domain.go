// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"strings"

	"github.com/bureau-foundation/blocks/lib/blockdef"
	"github.com/bureau-foundation/blocks/lib/cacheprofile"
	"github.com/bureau-foundation/blocks/lib/contenttree"
	"github.com/bureau-foundation/blocks/lib/schema/structure"
)

// CacheProfiles builds the cache profile registry from the cache
// section.
func (c *Config) CacheProfiles() (*cacheprofile.Set, error) {
	directives := make(map[string]structure.CacheDirective, len(c.Cache.Profiles))
	for _, name := range sortedKeys(c.Cache.Profiles) {
		profile := c.Cache.Profiles[name]
		seconds, err := profile.Seconds()
		if err != nil {
			return nil, fmt.Errorf("cache.profiles.%s.duration: %w", name, err)
		}
		directives[name] = structure.CacheDirective{
			Mode:          strings.ToLower(profile.Mode),
			Duration:      seconds,
			ByPage:        profile.ByPage,
			ByMember:      profile.ByMember,
			ByConst:       profile.ByConst,
			ByQueryString: profile.ByQueryString,
			ByProperty:    profile.ByProperty,
			ByCustom:      profile.ByCustom,
		}
	}
	return cacheprofile.NewSet(directives)
}

// BlockOptions builds the declaration decoding options: block type
// presets from block_types and the cache profile registry.
func (c *Config) BlockOptions() (blockdef.Options, error) {
	profiles, err := c.CacheProfiles()
	if err != nil {
		return blockdef.Options{}, err
	}

	var types map[string]blockdef.Preset
	if len(c.BlockTypes) > 0 {
		types = make(map[string]blockdef.Preset, len(c.BlockTypes))
	}
	for name, blockType := range c.BlockTypes {
		preset := blockdef.Preset{
			Source: blockType.Source,
			Data:   structure.Data(blockType.Data).Clone(),
		}
		if blockType.Cache != "" {
			preset.Cache = &structure.CacheDirective{Profile: blockType.Cache}
		}
		types[strings.ToLower(name)] = preset
	}

	return blockdef.Options{Types: types, Profiles: profiles}, nil
}

// ContentStore returns the content store parameters for the store
// section.
func (c *Config) ContentStore(options blockdef.Options) contenttree.StoreConfig {
	return contenttree.StoreConfig{
		Path:     c.Store.Path,
		PoolSize: c.Store.PoolSize,
		Options:  options,
	}
}
