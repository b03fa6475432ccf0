// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for blocks packages.
//
// [ParseStructures] decodes a JSONC structures document the way the
// content store does. [Chain] and [ChainOf] build a linear ancestor
// chain of content nodes, listed from the resolved node up to the
// root, which is the shape most resolver tests need:
//
//	node := testutil.Chain(t,
//	    `[{"blocks": [{"name": "a", "isKill": true}]}]`, // resolved node
//	    ``,                                              // parent, no declarations
//	    `[{"source": "main", "blocks": [{"name": "a"}]}]`, // root
//	)
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
