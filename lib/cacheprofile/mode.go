// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cacheprofile

import (
	"fmt"
	"strings"

	"github.com/bureau-foundation/blocks/lib/schema/structure"
)

// Mode is the caching behavior a renderer applies to a block.
type Mode int

const (
	// ModeIgnore renders without touching the cache.
	ModeIgnore Mode = iota

	// ModeCache serves from the cache and fills it on miss.
	ModeCache

	// ModeRefresh renders and overwrites the cached entry.
	ModeRefresh
)

func (m Mode) String() string {
	switch m {
	case ModeIgnore:
		return "ignore"
	case ModeCache:
		return "cache"
	case ModeRefresh:
		return "refresh"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name, case-insensitively.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ignore":
		return ModeIgnore, nil
	case "cache":
		return ModeCache, nil
	case "refresh":
		return ModeRefresh, nil
	default:
		return ModeIgnore, fmt.Errorf("unknown cache mode %q (expected ignore, cache or refresh)", name)
	}
}

// ModeOf returns the mode a resolved directive asks for. A nil
// directive, an unknown mode name and a non-positive duration all
// yield ModeIgnore. An empty mode with a positive duration yields
// ModeCache.
func ModeOf(directive *structure.CacheDirective) Mode {
	if directive == nil || directive.Duration <= 0 {
		return ModeIgnore
	}
	if directive.Mode == "" {
		return ModeCache
	}
	mode, err := ParseMode(directive.Mode)
	if err != nil {
		return ModeIgnore
	}
	return mode
}
