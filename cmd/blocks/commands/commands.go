// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the blocks CLI command tree.
//
// Every command reads the blocks configuration (--config, else
// $BLOCKS_CONFIG, else built-in defaults) for cache profiles, block
// type presets, resolver bounds and the content store location.
// Commands that act on a content node read it either from a YAML site
// description (--tree) or from the SQLite content store (--db, else
// store.path).
package commands

import (
	"io"

	"github.com/bureau-foundation/blocks/cmd/blocks/cli"
)

// Root builds the blocks command tree. Command output is written to
// stdout; help and diagnostics go to stderr.
func Root(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name: "blocks",
		Description: `blocks: resolve block structures of content trees.

Content nodes carry structure declarations that name a template and the
blocks to render inside it. A node's rendering structure is computed by
walking its ancestors, filtering declarations by level, context and
content type, and merging named blocks across levels.`,
		Subcommands: []*cli.Command{
			resolveCommand(stdout),
			keyCommand(stdout),
			validateCommand(stdout),
			importCommand(stdout),
			profilesCommand(stdout),
		},
		Examples: []cli.Example{
			{
				Description: "Resolve a page from a site description",
				Command:     "blocks resolve --tree site.yaml home/news/item",
			},
			{
				Description: "Load a site into the content store and resolve from it",
				Command:     "blocks import --tree site.yaml && blocks resolve home/news/item",
			},
		},
	}
}
