// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/blocks/cmd/blocks/cli"
	"github.com/bureau-foundation/blocks/lib/codec"
	"github.com/bureau-foundation/blocks/lib/contenttree"
	"github.com/bureau-foundation/blocks/lib/rendering"
)

type resolveParams struct {
	ConfigParams
	SourceParams
	cli.JSONOutput
	Context string `json:"context" flag:"context" desc:"rendering context (default: resolver.default_context)"`
	CBOR    bool   `json:"cbor"    flag:"cbor"    desc:"write the structure as deterministic CBOR (diagnostic notation on a terminal)"`
}

// resolveResult is the --json output of "blocks resolve".
type resolveResult struct {
	Node        string               `json:"node"`
	Context     string               `json:"context,omitempty"`
	Fingerprint string               `json:"fingerprint"`
	Structure   *rendering.Structure `json:"structure"`
}

func resolveCommand(stdout io.Writer) *cli.Command {
	var params resolveParams

	return &cli.Command{
		Name:    "resolve",
		Summary: "Resolve the rendering structure of a content node",
		Description: `Compute the rendering structure of one content node: the template to
render and the tree of blocks inside it.

The node is named by its slash-separated path from a root (names compare
case-insensitively) or by "#<id>". It is read from the site description
given with --tree, or from the content store.

Declarations are filtered by level, by the rendering context (--context)
and by the node's content type, then merged from the root down. Named
blocks collapse across levels; a source, index or cache conflict between
levels fails the whole resolution.`,
		Usage: "blocks resolve [flags] <path | #id>",
		Examples: []cli.Example{
			{
				Description: "Resolve a page from a site description",
				Command:     "blocks resolve --tree site.yaml home/news/item",
			},
			{
				Description: "Resolve the print rendering from the content store as JSON",
				Command:     "blocks resolve --context print --json home/news/item",
			},
			{
				Description: "Inspect the deterministic encoding",
				Command:     "blocks resolve --tree site.yaml --cbor '#3'",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("resolve", &params)
		},
		Run: func(args []string) error {
			ref, err := singleArgument(args, "node path")
			if err != nil {
				return err
			}
			if params.CBOR && params.OutputJSON {
				return fmt.Errorf("--cbor and --json are mutually exclusive")
			}
			env, err := params.load()
			if err != nil {
				return err
			}

			node, err := params.loadNode(context.Background(), env, ref)
			if err != nil {
				return err
			}
			renderContext := env.renderContext(params.Context)
			resolved, err := env.resolver().Resolve(node, contenttree.Accessor, renderContext)
			if err != nil {
				return fmt.Errorf("resolving %s: %w", node.Path(), err)
			}

			if params.CBOR {
				return writeCBOR(stdout, resolved)
			}

			fingerprint, err := rendering.Fingerprint(resolved)
			if err != nil {
				return err
			}
			result := resolveResult{
				Node:        node.Path(),
				Context:     renderContext,
				Fingerprint: fingerprint,
				Structure:   resolved,
			}
			if done, err := params.EmitJSON(stdout, result); done {
				return err
			}

			fmt.Fprintln(stdout, faintStyle.Render(fmt.Sprintf("%s  %s", result.Node, fingerprint[:16])))
			return writeStructure(stdout, resolved)
		},
	}
}

// writeCBOR writes the structure's deterministic CBOR encoding to w,
// or its diagnostic notation when w is a terminal.
func writeCBOR(w io.Writer, resolved *rendering.Structure) error {
	data, err := rendering.Encode(resolved)
	if err != nil {
		return err
	}
	if !cli.IsTerminal(w) {
		_, err := w.Write(data)
		return err
	}
	notation, err := codec.Diagnose(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, notation)
	return err
}
