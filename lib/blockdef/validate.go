// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package blockdef

import (
	"fmt"
	"strings"

	"github.com/bureau-foundation/blocks/lib/cacheprofile"
	"github.com/bureau-foundation/blocks/lib/schema/structure"
)

// Validate checks structure declarations for authoring mistakes.
// Returns a list of human-readable issue descriptions. An empty list
// means the declarations are valid.
//
// Checks include:
//   - MinLevel must not exceed MaxLevel (structures and blocks)
//   - A context wildcard '*' is only allowed as the last character
//   - IsKill and IsReset are only meaningful on named blocks
//   - A kill declaration must not set an index
//   - Named blocks may only be nested under named blocks
//   - Cache directives must reference configured profiles and valid modes
//   - Block types must name configured presets
func Validate(declarations []structure.Declaration, options Options) []string {
	var issues []string

	for index := range declarations {
		declaration := &declarations[index]
		prefix := fmt.Sprintf("structures[%d]", index)
		if declaration.Name != "" {
			prefix += fmt.Sprintf(" %q", declaration.Name)
		}

		if declaration.MinLevel > declaration.MaxLevel {
			issues = append(issues, fmt.Sprintf("%s: minLevel %d exceeds maxLevel %d", prefix, declaration.MinLevel, declaration.MaxLevel))
		}
		for _, context := range declaration.Contexts {
			if star := strings.IndexByte(context, '*'); star >= 0 && star != len(context)-1 {
				issues = append(issues, fmt.Sprintf("%s: context %q has a wildcard before its end (only a trailing '*' is supported)", prefix, context))
			}
		}
		issues = append(issues, validateCache(declaration.Cache, prefix, options.Profiles)...)
		issues = append(issues, validateBlocks(declaration.Blocks, prefix, true, options)...)
	}

	return issues
}

// validateBlocks checks one list of blocks. namedAllowed is false when
// the list belongs to an anonymous block.
func validateBlocks(blocks []structure.Block, parent string, namedAllowed bool, options Options) []string {
	var issues []string
	for index := range blocks {
		block := &blocks[index]
		prefix := fmt.Sprintf("%s.blocks[%d]", parent, index)
		if block.IsNamed() {
			prefix += fmt.Sprintf(" %q", block.Name)
		}

		if block.MinLevel > block.MaxLevel {
			issues = append(issues, fmt.Sprintf("%s: minLevel %d exceeds maxLevel %d", prefix, block.MinLevel, block.MaxLevel))
		}
		if !block.IsNamed() {
			if block.IsKill {
				issues = append(issues, fmt.Sprintf("%s: isKill has no effect on an anonymous block", prefix))
			}
			if block.IsReset {
				issues = append(issues, fmt.Sprintf("%s: isReset has no effect on an anonymous block", prefix))
			}
		}
		if block.IsNamed() && !namedAllowed {
			issues = append(issues, fmt.Sprintf("%s: named block nested under an anonymous block", prefix))
		}
		if block.IsKill && block.Index != structure.DefaultIndex {
			issues = append(issues, fmt.Sprintf("%s: index has no effect on a kill declaration", prefix))
		}
		if block.Type != "" && options.Types != nil {
			if _, ok := lookupPreset(options.Types, block.Type); !ok {
				issues = append(issues, fmt.Sprintf("%s: unknown block type %q", prefix, block.Type))
			}
		}
		issues = append(issues, validateCache(block.Cache, prefix, options.Profiles)...)
		issues = append(issues, validateBlocks(block.Blocks, prefix, namedAllowed && block.IsNamed(), options)...)
	}
	return issues
}

func validateCache(directive *structure.CacheDirective, prefix string, profiles *cacheprofile.Set) []string {
	if directive == nil {
		return nil
	}
	var issues []string
	if directive.Profile != "" && profiles != nil {
		if _, ok := profiles.Lookup(directive.Profile); !ok {
			issues = append(issues, fmt.Sprintf("%s: unknown cache profile %q", prefix, directive.Profile))
		}
	}
	if directive.Mode != "" {
		if _, err := cacheprofile.ParseMode(directive.Mode); err != nil {
			issues = append(issues, fmt.Sprintf("%s: %v", prefix, err))
		}
	}
	if directive.Duration < 0 {
		issues = append(issues, fmt.Sprintf("%s: cache duration %d is negative", prefix, directive.Duration))
	}
	return issues
}
