// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package structure defines the declaration types authored on content
// nodes: structure declarations (a template plus a tree of blocks) and
// block declarations. These are the decoded form of the JSON stored in
// a node's structures property.
//
// Values of these types are read-only snapshots. The resolver in
// lib/rendering never mutates them; it folds them into fresh
// accumulators for every resolution.
//
// Decoding applies the wire defaults: MinLevel 0, MaxLevel [MaxLevel],
// Index [DefaultIndex], lower-cased names, sources and types, and
// empty (non-nil) context and content type lists. Field names decode
// case-insensitively, so both "Source" and "source" are accepted.
//
// A JSON null inside a contexts list is kept as the empty string, the
// marker meaning "also applies when no context is requested".
package structure
