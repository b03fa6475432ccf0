// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
)

type sampleBlock struct {
	Name   string         `json:"name,omitempty"`
	Source string         `json:"source"`
	Data   map[string]any `json:"data,omitempty"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	t.Parallel()

	original := sampleBlock{
		Name:   "menu",
		Source: "menu-view",
		Data:   map[string]any{"title": "Home", "items": []any{"a", "b"}},
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleBlock
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Name != "menu" || decoded.Source != "menu-view" {
		t.Errorf("decoded = %+v, want name menu source menu-view", decoded)
	}
	if decoded.Data["title"] != "Home" {
		t.Errorf("Data[title] = %v, want Home", decoded.Data["title"])
	}
	items, ok := decoded.Data["items"].([]any)
	if !ok || len(items) != 2 {
		t.Errorf("Data[items] = %#v, want two items", decoded.Data["items"])
	}
}

func TestMarshalDeterministic(t *testing.T) {
	t.Parallel()

	// Maps iterate in random order; deterministic encoding sorts keys.
	value := map[string]any{"zeta": 1, "alpha": 2, "mid": 3, "beta": 4}
	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for range 20 {
		again, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatal("Marshal produced different bytes for the same map")
		}
	}
}

func TestNestedMapsDecodeAsStringKeyed(t *testing.T) {
	t.Parallel()

	data, err := Marshal(map[string]any{"outer": map[string]any{"inner": "x"}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	top, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded type = %T, want map[string]any", decoded)
	}
	if _, ok := top["outer"].(map[string]any); !ok {
		t.Errorf("outer type = %T, want map[string]any", top["outer"])
	}
}

func TestOmitemptyRespected(t *testing.T) {
	t.Parallel()

	data, err := Marshal(sampleBlock{Source: "s"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded map[string]any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, present := decoded["name"]; present {
		t.Error("empty name was encoded despite omitempty")
	}
	if _, present := decoded["data"]; present {
		t.Error("nil data was encoded despite omitempty")
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	t.Parallel()

	var decoded sampleBlock
	if err := Unmarshal([]byte{0xff, 0xfe}, &decoded); err == nil {
		t.Fatal("expected error for invalid CBOR")
	}
}

func TestDiagnose(t *testing.T) {
	t.Parallel()

	data, err := Marshal(sampleBlock{Source: "main"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	notation, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(notation, `"source"`) || !strings.Contains(notation, `"main"`) {
		t.Errorf("Diagnose = %s, want source and main", notation)
	}
}
