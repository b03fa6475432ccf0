// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/blocks/cmd/blocks/cli"
	"github.com/bureau-foundation/blocks/lib/contenttree"
)

type importParams struct {
	ConfigParams
	SourceParams
}

func importCommand(stdout io.Writer) *cli.Command {
	var params importParams

	return &cli.Command{
		Name:    "import",
		Summary: "Load a site description into the content store",
		Description: `Store every node of a YAML site description in the SQLite content store,
in one transaction. Existing nodes with the same id are replaced. Every
structures document must parse with the configured block types.`,
		Usage: "blocks import --tree <site.yaml> [flags]",
		Examples: []cli.Example{
			{
				Description: "Import into the configured store",
				Command:     "blocks import --tree site.yaml",
			},
			{
				Description: "Import into a scratch database",
				Command:     "blocks import --tree site.yaml --db /tmp/site.db",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("import", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("import takes no positional arguments, got %q", args[0])
			}
			if params.TreePath == "" {
				return fmt.Errorf("--tree is required")
			}
			env, err := params.load()
			if err != nil {
				return err
			}

			tree, err := contenttree.LoadFile(params.TreePath, env.options)
			if err != nil {
				return err
			}
			store, err := env.openStore(params.StorePath)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Import(context.Background(), tree); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "imported %d nodes from %s\n", tree.Len(), params.TreePath)
			return nil
		},
	}
}
