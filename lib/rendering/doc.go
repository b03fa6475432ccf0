// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package rendering resolves the rendering structure of a content node
// from the structure declarations authored on it and its ancestors.
//
// Resolution has three stages:
//
//   - [Collect] walks from the node to the root and keeps the
//     declarations that apply at each relative level, for the
//     requested context and the node's content type. The result is in
//     precedence order: closest node first, and within a node the
//     last authored declaration first. A resetting declaration ends
//     the walk.
//   - The resolver picks the template source and cache directive from
//     the first declaration providing one, and folds structure data
//     from the farthest declaration to the closest.
//   - The block merge groups named blocks by name within each scope.
//     The farthest declaration of a named block seeds it and fixes its
//     position; closer declarations may kill it, reset its children,
//     merge data and add children, but may not change its source,
//     index or cache once set. Anonymous blocks are never merged.
//     Siblings render in document order (farthest first), then are
//     stably sorted by Index.
//
// A [Resolver] is immutable and safe for concurrent use. Declarations
// are never modified; every call builds its own working tree and
// returns a fresh [Structure].
//
// [Encode], [Decode] and [Fingerprint] serialize resolved structures
// with the deterministic CBOR configuration of lib/codec.
package rendering
