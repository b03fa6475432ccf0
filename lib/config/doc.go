// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the blocks
// tools.
//
// Configuration is loaded from a single file specified by either the
// BLOCKS_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no ~/.config discovery,
// and no automatic file search.
//
// The file configures the resolver (nesting bound, default context),
// named cache profiles, block type presets, the SQLite content store
// and log level. Environment-specific sections (development, staging,
// production) override base values when [Config].Environment matches;
// production defaults to warn-level logging.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${BLOCKS_ROOT}, and ${VAR:-default} patterns are expanded.
// No other environment variables override config values.
//
// This package depends on no other blocks packages; commands convert
// cache profiles and block types into their library forms.
package config
