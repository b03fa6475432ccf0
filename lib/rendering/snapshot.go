// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rendering

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/blocks/lib/codec"
)

// Encode serializes a resolved structure to deterministic CBOR.
func Encode(structure *Structure) ([]byte, error) {
	data, err := codec.Marshal(structure)
	if err != nil {
		return nil, fmt.Errorf("encoding structure: %w", err)
	}
	return data, nil
}

// Decode deserializes a structure produced by Encode and rebuilds its
// by-name lookups.
func Decode(data []byte) (*Structure, error) {
	var structure Structure
	if err := codec.Unmarshal(data, &structure); err != nil {
		return nil, fmt.Errorf("decoding structure: %w", err)
	}
	structure.reindex()
	return &structure, nil
}

// fingerprintDomain is the BLAKE3 key for structure fingerprints: the
// ASCII domain name zero-padded to 32 bytes.
var fingerprintDomain = [32]byte{
	'b', 'u', 'r', 'e', 'a', 'u', '.', 'b', 'l', 'o', 'c', 'k', 's', '.',
	's', 't', 'r', 'u', 'c', 't', 'u', 'r', 'e',
}

// Fingerprint returns the hex-encoded BLAKE3 keyed hash of the
// structure's CBOR encoding. Equal structures have equal fingerprints.
func Fingerprint(structure *Structure) (string, error) {
	data, err := Encode(structure)
	if err != nil {
		return "", err
	}
	hasher, err := blake3.NewKeyed(fingerprintDomain[:])
	if err != nil {
		return "", fmt.Errorf("initializing fingerprint hash: %w", err)
	}
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
