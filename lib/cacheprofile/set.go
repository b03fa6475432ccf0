// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cacheprofile holds the registry of named cache profiles and
// the cache key construction used by renderers.
//
// A structure or block declaration may reference a profile by name
// (the JSON string form of a cache directive). [Set.Resolve] replaces
// the reference with the profile's directive, applying any inline
// overrides. Referencing a name the set does not hold is an error.
package cacheprofile

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bureau-foundation/blocks/lib/schema/structure"
)

// Set is an immutable registry of named cache profiles. The zero value
// and a nil *Set are empty registries.
type Set struct {
	profiles map[string]structure.CacheDirective
}

// NewSet builds a registry from a name to directive map. Profile
// directives must be inline: a profile may not reference another
// profile.
func NewSet(profiles map[string]structure.CacheDirective) (*Set, error) {
	set := &Set{profiles: make(map[string]structure.CacheDirective, len(profiles))}
	for name, directive := range profiles {
		if name == "" {
			return nil, fmt.Errorf("cache profile with empty name")
		}
		if directive.Profile != "" {
			return nil, fmt.Errorf("cache profile %q references profile %q: profiles cannot be nested", name, directive.Profile)
		}
		if directive.Mode != "" {
			if _, err := ParseMode(directive.Mode); err != nil {
				return nil, fmt.Errorf("cache profile %q: %w", name, err)
			}
		}
		set.profiles[name] = cloneDirective(directive)
	}
	return set, nil
}

// Lookup returns the profile registered under name.
func (s *Set) Lookup(name string) (structure.CacheDirective, bool) {
	if s == nil {
		return structure.CacheDirective{}, false
	}
	directive, ok := s.profiles[name]
	if !ok {
		return structure.CacheDirective{}, false
	}
	return cloneDirective(directive), true
}

// Names returns the registered profile names in sorted order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered profiles.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.profiles)
}

// Resolve returns the effective directive. A nil directive resolves to
// nil. A directive naming a profile starts from the profile's values;
// inline fields set on the directive override them. The returned
// directive keeps the profile name for display and never aliases the
// registry.
func (s *Set) Resolve(directive *structure.CacheDirective) (*structure.CacheDirective, error) {
	if directive == nil {
		return nil, nil
	}
	if directive.Profile == "" {
		resolved := cloneDirective(*directive)
		return &resolved, nil
	}

	resolved, ok := s.Lookup(directive.Profile)
	if !ok {
		return nil, &UnknownProfileError{Profile: directive.Profile}
	}
	resolved.Profile = directive.Profile
	if directive.Mode != "" {
		resolved.Mode = directive.Mode
	}
	if directive.Duration != 0 {
		resolved.Duration = directive.Duration
	}
	if directive.ByPage {
		resolved.ByPage = true
	}
	if directive.ByMember {
		resolved.ByMember = true
	}
	if directive.ByConst != "" {
		resolved.ByConst = directive.ByConst
	}
	if len(directive.ByQueryString) > 0 {
		resolved.ByQueryString = slices.Clone(directive.ByQueryString)
	}
	if len(directive.ByProperty) > 0 {
		resolved.ByProperty = slices.Clone(directive.ByProperty)
	}
	if directive.ByCustom != "" {
		resolved.ByCustom = directive.ByCustom
	}
	return &resolved, nil
}

func cloneDirective(directive structure.CacheDirective) structure.CacheDirective {
	directive.ByQueryString = slices.Clone(directive.ByQueryString)
	directive.ByProperty = slices.Clone(directive.ByProperty)
	return directive
}

// UnknownProfileError reports a cache directive naming a profile the
// registry does not hold.
type UnknownProfileError struct {
	Profile string
}

func (e *UnknownProfileError) Error() string {
	return fmt.Sprintf("unknown cache profile %q", e.Profile)
}

// IsUnknownProfile reports whether err (or any error in its chain) is
// an *UnknownProfileError.
func IsUnknownProfile(err error) bool {
	var target *UnknownProfileError
	return errors.As(err, &target)
}
