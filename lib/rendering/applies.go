// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rendering

import (
	"strings"

	"github.com/bureau-foundation/blocks/lib/schema/structure"
)

// AppliesByLevel reports whether level lies within [minLevel, maxLevel].
func AppliesByLevel(minLevel, maxLevel, level int) bool {
	return minLevel <= level && level <= maxLevel
}

// AppliesByContext reports whether a declaration listing contexts
// applies to the requested context. An empty context means none was
// requested: the declaration applies when its list is empty or carries
// the null marker. Otherwise an entry must match case-insensitively,
// or end with '*' and be a case-insensitive prefix of the context.
func AppliesByContext(contexts structure.Contexts, context string) bool {
	context = strings.TrimSpace(context)
	if context == "" {
		return len(contexts) == 0 || contexts.HasNullMarker()
	}

	for _, entry := range contexts {
		if entry == "" {
			continue
		}
		if prefix, wildcard := strings.CutSuffix(entry, "*"); wildcard {
			if len(context) >= len(prefix) && strings.EqualFold(context[:len(prefix)], prefix) {
				return true
			}
			continue
		}
		if strings.EqualFold(entry, context) {
			return true
		}
	}
	return false
}

// AppliesByContentType reports whether a declaration restricted to
// contentTypes applies to a node of type alias. An empty list applies
// to every type; negate inverts a non-empty list.
func AppliesByContentType(contentTypes []string, negate bool, alias string) bool {
	if len(contentTypes) == 0 {
		return true
	}
	for _, contentType := range contentTypes {
		if strings.EqualFold(contentType, alias) {
			return !negate
		}
	}
	return negate
}

func structureApplies(declaration *structure.Declaration, level int, context, contentType string) bool {
	return AppliesByLevel(declaration.MinLevel, declaration.MaxLevel, level) &&
		AppliesByContext(declaration.Contexts, context) &&
		AppliesByContentType(declaration.ContentTypes, declaration.ContentTypesNegate, contentType)
}

func blockApplies(block *structure.Block, level int) bool {
	return AppliesByLevel(block.MinLevel, block.MaxLevel, level)
}
