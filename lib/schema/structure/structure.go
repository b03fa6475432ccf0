// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package structure

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// MaxLevel is the default upper level bound: the declaration applies
// at any distance from the resolved node.
const MaxLevel = math.MaxInt

// DefaultIndex is the sentinel index of a block that does not request
// an explicit position. It sorts after every meaningful index.
const DefaultIndex = math.MaxInt32

// Declaration is one structure declaration authored on a content node.
type Declaration struct {
	// Name is a friendly identifier. When Source is empty, the name is
	// used as the template source.
	Name string `json:"name,omitempty"`

	// Description is free text for authors.
	Description string `json:"description,omitempty"`

	// Source identifies the template (view) rendering the structure.
	Source string `json:"source,omitempty"`

	// IsReset stops the ancestor walk: declarations on farther
	// ancestors are ignored once this declaration applies.
	IsReset bool `json:"isReset,omitempty"`

	// MinLevel and MaxLevel bound, inclusively, the relative levels at
	// which the declaration applies.
	MinLevel int `json:"minLevel"`
	MaxLevel int `json:"maxLevel"`

	// Data is merged into the resolved structure data, closer
	// declarations winning.
	Data Data `json:"data,omitempty"`

	// Contexts lists the rendering contexts the declaration applies
	// to. An empty list applies only when no context is requested.
	Contexts Contexts `json:"contexts"`

	// ContentTypes restricts the declaration to content type aliases
	// of the resolved node. Empty means any type.
	ContentTypes []string `json:"contentTypes"`

	// ContentTypesNegate inverts the ContentTypes filter.
	ContentTypesNegate bool `json:"contentTypesNegate,omitempty"`

	// Cache is the optional cache directive for the whole structure.
	Cache *CacheDirective `json:"cache,omitempty"`

	// Blocks are the top-level block declarations, in authoring order.
	Blocks []Block `json:"blocks"`
}

// UnmarshalJSON decodes a structure declaration and applies defaults.
func (declaration *Declaration) UnmarshalJSON(data []byte) error {
	type plain Declaration
	decoded := plain{MaxLevel: MaxLevel}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*declaration = Declaration(decoded)
	declaration.normalize()
	return nil
}

func (declaration *Declaration) normalize() {
	declaration.Name = normalizeIdentifier(declaration.Name)
	declaration.Source = normalizeIdentifier(declaration.Source)
	if declaration.Contexts == nil {
		declaration.Contexts = Contexts{}
	}
	if declaration.ContentTypes == nil {
		declaration.ContentTypes = []string{}
	}
	if declaration.Blocks == nil {
		declaration.Blocks = []Block{}
	}
}

// NewDeclaration returns a structure declaration carrying the wire
// defaults, for callers building declarations in code.
func NewDeclaration() Declaration {
	declaration := Declaration{MaxLevel: MaxLevel}
	declaration.normalize()
	return declaration
}

// Block is one block declaration inside a structure's or a block's
// Blocks list.
type Block struct {
	// Name makes the block unique within its scope across the whole
	// ancestor chain. Empty means anonymous.
	Name string `json:"name,omitempty"`

	// Description is free text for authors.
	Description string `json:"description,omitempty"`

	// Type names a configured block preset (see lib/blockdef).
	Type string `json:"type,omitempty"`

	// Source identifies the view rendering the block. A named block
	// without a source renders with its name.
	Source string `json:"source,omitempty"`

	// IsKill removes a named block contributed by farther ancestors.
	IsKill bool `json:"isKill,omitempty"`

	// IsReset discards the children a named block accumulated from
	// farther ancestors.
	IsReset bool `json:"isReset,omitempty"`

	// MinLevel and MaxLevel bound, inclusively, the relative levels at
	// which the block applies.
	MinLevel int `json:"minLevel"`
	MaxLevel int `json:"maxLevel"`

	// Index repositions the block among its siblings. DefaultIndex
	// keeps the natural position.
	Index int `json:"index"`

	// Data is merged into the resolved block data.
	Data Data `json:"data,omitempty"`

	// FragmentType and FragmentData reference externally resolved
	// content. They are passed through to the rendering layer.
	FragmentType string `json:"fragmentType,omitempty"`
	FragmentData Data   `json:"fragmentData,omitempty"`

	// Cache is the optional cache directive for the block.
	Cache *CacheDirective `json:"cache,omitempty"`

	// Blocks are the nested block declarations, in authoring order.
	Blocks []Block `json:"blocks"`
}

// UnmarshalJSON decodes a block declaration and applies defaults.
func (block *Block) UnmarshalJSON(data []byte) error {
	type plain Block
	decoded := plain{MaxLevel: MaxLevel, Index: DefaultIndex}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*block = Block(decoded)
	block.normalize()
	return nil
}

func (block *Block) normalize() {
	block.Name = normalizeIdentifier(block.Name)
	block.Source = normalizeIdentifier(block.Source)
	block.Type = normalizeIdentifier(block.Type)
	if block.Blocks == nil {
		block.Blocks = []Block{}
	}
}

// NewBlock returns a block declaration carrying the wire defaults.
func NewBlock() Block {
	block := Block{MaxLevel: MaxLevel, Index: DefaultIndex}
	block.normalize()
	return block
}

// IsNamed reports whether the block is a named (unique) block.
func (block *Block) IsNamed() bool {
	return block.Name != ""
}

// Fragment returns a copy of the block's content fragment reference,
// or nil when the block declares none.
func (block *Block) Fragment() *Fragment {
	if block.FragmentType == "" {
		return nil
	}
	return &Fragment{Type: block.FragmentType, Data: block.FragmentData.Clone()}
}

// Fragment references content resolved outside the engine.
type Fragment struct {
	Type string `json:"type"`
	Data Data   `json:"data,omitempty"`
}

// Contexts is the list of rendering contexts a structure applies to.
// The empty string entry is the null marker.
type Contexts []string

// UnmarshalJSON decodes a contexts list, keeping null entries as the
// empty string.
func (contexts *Contexts) UnmarshalJSON(data []byte) error {
	var entries []*string
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("decoding contexts: %w", err)
	}
	result := make(Contexts, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			result = append(result, "")
			continue
		}
		result = append(result, *entry)
	}
	*contexts = result
	return nil
}

// HasNullMarker reports whether the list contains the null marker.
func (contexts Contexts) HasNullMarker() bool {
	for _, entry := range contexts {
		if strings.TrimSpace(entry) == "" {
			return true
		}
	}
	return false
}

func normalizeIdentifier(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
