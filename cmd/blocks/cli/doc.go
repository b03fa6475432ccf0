// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the blocks tool.
//
// The central type is [Command]: a named subcommand with optional nested
// [Command.Subcommands], a [pflag.FlagSet] factory and a Run function.
// Commands are assembled into a tree by the commands package and
// dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing and help output with examples.
//
// Parameter structs declare their flags with struct tags bound by
// [FlagsFromParams]; embedding [JSONOutput] adds --json. Unknown
// subcommands and flags get a "did you mean" suggestion based on
// Levenshtein distance.
//
// [NewCommandLogger] builds the slog logger commands use for
// diagnostics: text on a terminal, JSON otherwise.
package cli
