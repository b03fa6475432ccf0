// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cacheprofile

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/blocks/lib/schema/structure"
)

// keyPrefix starts every cache key so block entries can be flushed by
// prefix without touching other cache users.
const keyPrefix = "blocks__"

// PropertyFunc returns the string value of a content property. When
// recurse is true the lookup continues up the ancestor chain until a
// non-empty value is found.
type PropertyFunc func(alias string, recurse bool) string

// KeyInput carries the request-specific values a cache key may vary by.
type KeyInput struct {
	// ContentID identifies the rendered content node (ByPage).
	ContentID int64

	// MemberID identifies the current member, 0 when anonymous
	// (ByMember).
	MemberID int64

	// Query returns the value of a query string parameter
	// (ByQueryString). Nil behaves as an empty query.
	Query func(name string) string

	// Property resolves content properties (ByProperty). Nil behaves as
	// a node without properties.
	Property PropertyFunc

	// Custom is the host-provided discriminator (ByCustom). Hosts
	// compute it from the directive's ByCustom name.
	Custom string
}

// Key builds the cache key for a block rendered from source with the
// given resolved directive. The key is lower-cased. Components appear
// in a fixed order: page, constant, member, query values, property
// values, custom value.
func Key(source string, directive *structure.CacheDirective, input KeyInput) string {
	var builder strings.Builder
	builder.WriteString(keyPrefix)
	builder.WriteString(source)
	if directive == nil {
		return strings.ToLower(builder.String())
	}

	if directive.ByPage {
		builder.WriteString("__p:")
		builder.WriteString(strconv.FormatInt(input.ContentID, 10))
	}
	if strings.TrimSpace(directive.ByConst) != "" {
		builder.WriteString("__c:")
		builder.WriteString(directive.ByConst)
	}
	if directive.ByMember {
		builder.WriteString("__m:")
		builder.WriteString(strconv.FormatInt(input.MemberID, 10))
	}
	for _, name := range directive.ByQueryString {
		builder.WriteString("__")
		if input.Query != nil {
			builder.WriteString(input.Query(name))
		}
	}
	for _, alias := range directive.ByProperty {
		recurse := strings.HasPrefix(alias, "_")
		if recurse {
			alias = alias[1:]
		}
		builder.WriteString("__v:")
		if input.Property != nil {
			builder.WriteString(input.Property(alias, recurse))
		}
	}
	if directive.ByCustom != "" {
		builder.WriteString("__x:")
		builder.WriteString(input.Custom)
	}
	return strings.ToLower(builder.String())
}

// keyDomain is the BLAKE3 key for cache key digests: the ASCII domain
// name zero-padded to 32 bytes.
var keyDomain = [32]byte{
	'b', 'u', 'r', 'e', 'a', 'u', '.', 'b', 'l', 'o', 'c', 'k', 's', '.',
	'c', 'a', 'c', 'h', 'e', 'k', 'e', 'y',
}

// Digest returns the hex-encoded BLAKE3 keyed hash of a cache key, a
// fixed-length form for stores that bound key size.
func Digest(key string) string {
	hasher, err := blake3.NewKeyed(keyDomain[:])
	if err != nil {
		panic("cacheprofile: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write([]byte(key))
	return hex.EncodeToString(hasher.Sum(nil))
}
