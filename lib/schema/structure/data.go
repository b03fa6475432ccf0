// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package structure

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Data is a block or structure data dictionary. Keys are compared
// case-insensitively and stored folded to lower case.
type Data map[string]any

// UnmarshalJSON decodes a JSON object, folding keys to lower case.
// When two keys fold to the same name, the later one in the document
// wins.
func (data *Data) UnmarshalJSON(raw []byte) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		*data = nil
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	token, err := decoder.Token()
	if err != nil {
		return fmt.Errorf("decoding data: %w", err)
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decoding data: expected object, got %v", token)
	}

	result := make(Data)
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return fmt.Errorf("decoding data: %w", err)
		}
		key, ok := keyToken.(string)
		if !ok {
			return fmt.Errorf("decoding data: expected key, got %v", keyToken)
		}
		var value any
		if err := decoder.Decode(&value); err != nil {
			return fmt.Errorf("decoding data value %q: %w", key, err)
		}
		result[strings.ToLower(key)] = value
	}
	*data = result
	return nil
}

// Get returns the value stored under key, compared case-insensitively.
func (data Data) Get(key string) (any, bool) {
	value, ok := data[strings.ToLower(key)]
	return value, ok
}

// Clone returns a shallow copy of data with folded keys. It returns nil
// for a nil map.
func (data Data) Clone() Data {
	if data == nil {
		return nil
	}
	clone := make(Data, len(data))
	for key, value := range data {
		clone[strings.ToLower(key)] = value
	}
	return clone
}

// Merge copies every entry of other into data, overwriting existing
// keys, and returns the result. A nil receiver allocates a new map. A
// nil other leaves data unchanged, including a nil data.
func (data Data) Merge(other Data) Data {
	if other == nil {
		return data
	}
	if data == nil {
		data = make(Data, len(other))
	}
	for key, value := range other {
		data[strings.ToLower(key)] = value
	}
	return data
}
