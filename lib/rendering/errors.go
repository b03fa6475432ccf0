// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rendering

import (
	"errors"
	"fmt"
)

// Field names reported by ConflictError.
const (
	FieldSource = "source"
	FieldIndex  = "index"
	FieldCache  = "cache"
)

// ConflictError reports a named block declaration that tries to change
// a property only the first declaration of the block may set.
type ConflictError struct {
	// Block is the name of the named block.
	Block string

	// Field is the property in conflict: FieldSource, FieldIndex or
	// FieldCache.
	Field string

	// Level is the relative level of the offending declaration.
	Level int
}

func (e *ConflictError) Error() string {
	switch e.Field {
	case FieldIndex:
		return fmt.Sprintf("block %q: index can only be set by its first declaration (conflict at level %d)", e.Block, e.Level)
	default:
		return fmt.Sprintf("block %q: %s already set by a farther declaration (conflict at level %d)", e.Block, e.Field, e.Level)
	}
}

// IsConflict reports whether err (or any error in its chain) is a
// *ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// DepthError reports block nesting deeper than the resolver allows.
type DepthError struct {
	Limit int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("block nesting exceeds maximum depth %d", e.Limit)
}

// IsDepth reports whether err (or any error in its chain) is a
// *DepthError.
func IsDepth(err error) bool {
	var target *DepthError
	return errors.As(err, &target)
}
