// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package blockdef parses and validates structure declaration
// documents. A document is the JSON stored in a content node's
// structures property: an array of structure declarations, or a single
// declaration object. Documents on disk are JSONC (JSON extended with
// comments and trailing commas); this package accepts both.
//
// The typical flow:
//
//  1. ReadFile or Parse: JSONC bytes → []structure.Declaration, with
//     wire defaults and block type presets applied
//  2. Validate: authoring checks (level bounds, kill and reset on
//     anonymous blocks, cache profile references, etc.)
package blockdef

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/blocks/lib/cacheprofile"
	"github.com/bureau-foundation/blocks/lib/schema/structure"
)

// Options configures parsing and validation.
type Options struct {
	// Types maps block type names to presets. A block declaring a Type
	// absent from this map fails to parse.
	Types map[string]Preset

	// Profiles is consulted by Validate for cache profile references.
	// Nil skips the check.
	Profiles *cacheprofile.Set
}

// Parse strips JSONC comments and trailing commas from data, then
// decodes it as a list of structure declarations. A single object is
// accepted as a one-element list. Blank input yields a nil list: the
// node carries no declarations.
func Parse(data []byte, options Options) ([]structure.Declaration, error) {
	stripped := bytes.TrimSpace(jsonc.ToJSON(data))
	if len(stripped) == 0 || bytes.Equal(stripped, []byte("null")) {
		return nil, nil
	}

	var declarations []structure.Declaration
	if stripped[0] == '{' {
		var single structure.Declaration
		if err := json.Unmarshal(stripped, &single); err != nil {
			return nil, fmt.Errorf("parsing structures: %w", err)
		}
		declarations = []structure.Declaration{single}
	} else if err := json.Unmarshal(stripped, &declarations); err != nil {
		return nil, fmt.Errorf("parsing structures: %w", err)
	}

	for index := range declarations {
		if err := applyPresets(declarations[index].Blocks, options.Types); err != nil {
			return nil, fmt.Errorf("structures[%d]: %w", index, err)
		}
	}
	return declarations, nil
}

// ParseStructure decodes a single structure declaration object.
func ParseStructure(data []byte, options Options) (*structure.Declaration, error) {
	var declaration structure.Declaration
	if err := json.Unmarshal(jsonc.ToJSON(data), &declaration); err != nil {
		return nil, fmt.Errorf("parsing structure: %w", err)
	}
	if err := applyPresets(declaration.Blocks, options.Types); err != nil {
		return nil, err
	}
	return &declaration, nil
}

// ReadFile reads a JSONC structures document from disk and parses it.
func ReadFile(path string, options Options) ([]structure.Declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	declarations, err := Parse(data, options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return declarations, nil
}

// UnknownBlockTypeError reports a block declaring a Type with no
// configured preset.
type UnknownBlockTypeError struct {
	Type  string
	Block string
}

func (e *UnknownBlockTypeError) Error() string {
	if e.Block == "" {
		return fmt.Sprintf("anonymous block has unknown type %q", e.Type)
	}
	return fmt.Sprintf("block %q has unknown type %q", e.Block, e.Type)
}

// IsUnknownBlockType reports whether err (or any error in its chain)
// is an *UnknownBlockTypeError.
func IsUnknownBlockType(err error) bool {
	var target *UnknownBlockTypeError
	return errors.As(err, &target)
}
