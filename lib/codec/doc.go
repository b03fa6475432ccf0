// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR configuration used for resolved
// structure snapshots.
//
// JSON is the authoring and CLI format: structure declarations are
// written as JSON (with comments) and `blocks resolve --json` prints
// JSON. CBOR is the storage format: a rendering layer that persists
// or compares resolved structures encodes them with this package.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// The same resolved structure always produces identical bytes, which
// is what makes fingerprints of snapshots comparable.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Types shared with the JSON output carry only `json` tags;
// fxamacker/cbor reads them as a fallback when `cbor` tags are absent,
// so one tag controls field naming and omitempty for both formats.
package codec
