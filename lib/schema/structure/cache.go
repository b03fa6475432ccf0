// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package structure

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CacheDirective describes how a rendered structure or block may be
// cached. It decodes either from a JSON string, which names a
// configured profile, or from an object spelling out the fields.
//
// Profile references are resolved by lib/cacheprofile when the
// rendering structure is built.
type CacheDirective struct {
	// Profile names a configured cache profile. Inline fields, when
	// present alongside, override the profile's values.
	Profile string `json:"profile,omitempty"`

	// Mode selects the caching behavior: "ignore", "cache" or
	// "refresh". Empty means "cache" when Duration is positive.
	Mode string `json:"mode,omitempty"`

	// Duration is the cache lifetime in seconds.
	Duration int `json:"duration,omitempty"`

	// ByPage varies the cache key by the rendered content node.
	ByPage bool `json:"byPage,omitempty"`

	// ByMember varies the cache key by the current member.
	ByMember bool `json:"byMember,omitempty"`

	// ByConst adds a constant discriminator to the cache key.
	ByConst string `json:"byConst,omitempty"`

	// ByQueryString lists query string parameters varying the key.
	ByQueryString []string `json:"byQueryString,omitempty"`

	// ByProperty lists content properties varying the key. A leading
	// underscore requests a recursive lookup up the ancestor chain.
	ByProperty []string `json:"byProperty,omitempty"`

	// ByCustom names a host-provided discriminator.
	ByCustom string `json:"byCustom,omitempty"`
}

// UnmarshalJSON decodes a profile reference or an inline directive.
func (directive *CacheDirective) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var profile string
		if err := json.Unmarshal(trimmed, &profile); err != nil {
			return fmt.Errorf("decoding cache profile reference: %w", err)
		}
		*directive = CacheDirective{Profile: profile}
		return nil
	}

	type plain CacheDirective
	var decoded plain
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return fmt.Errorf("decoding cache directive: %w", err)
	}
	*directive = CacheDirective(decoded)
	return nil
}

// IsProfileReference reports whether the directive only names a
// profile without inline overrides.
func (directive *CacheDirective) IsProfileReference() bool {
	return directive.Profile != "" && directive.Mode == "" && directive.Duration == 0 &&
		!directive.ByPage && !directive.ByMember && directive.ByConst == "" &&
		len(directive.ByQueryString) == 0 && len(directive.ByProperty) == 0 &&
		directive.ByCustom == ""
}
