// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/blocks/cmd/blocks/cli"
	"github.com/bureau-foundation/blocks/lib/cacheprofile"
	"github.com/bureau-foundation/blocks/lib/contenttree"
	"github.com/bureau-foundation/blocks/lib/rendering"
)

type keyParams struct {
	ConfigParams
	SourceParams
	cli.JSONOutput
	Context string   `json:"context" flag:"context" desc:"rendering context (default: resolver.default_context)"`
	Member  int64    `json:"member"  flag:"member"  desc:"member id for member-varying keys (0 for anonymous)"`
	Query   []string `json:"query"   flag:"query"   desc:"query string parameter as name=value (repeatable)"`
	Custom  string   `json:"custom"  flag:"custom"  desc:"host discriminator for custom-varying keys"`
}

// cacheKeyEntry is one cached block of a resolved structure.
type cacheKeyEntry struct {
	Block  string `json:"block"`
	Mode   string `json:"mode"`
	TTL    int    `json:"ttl"`
	Key    string `json:"key"`
	Digest string `json:"digest"`
}

func keyCommand(stdout io.Writer) *cli.Command {
	var params keyParams

	return &cli.Command{
		Name:    "key",
		Summary: "Print the cache keys of a node's cached blocks",
		Description: `Resolve a content node and print the cache key of every block (and of
the structure itself) that carries a cache directive.

Keys vary by the directive's settings: the node id (page), the member
(--member), query string values (--query), content properties read from
the node and, for properties starting with "_", its ancestors, and the
host discriminator (--custom). The digest is a fixed-length hash of the
key for stores with key length limits.`,
		Usage: "blocks key [flags] <path | #id>",
		Examples: []cli.Example{
			{
				Description: "Keys for page 2 of a list as member 42",
				Command:     "blocks key --tree site.yaml --member 42 --query page=2 home/news",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("key", &params)
		},
		Run: func(args []string) error {
			ref, err := singleArgument(args, "node path")
			if err != nil {
				return err
			}
			query, err := parseQuery(params.Query)
			if err != nil {
				return err
			}
			env, err := params.load()
			if err != nil {
				return err
			}

			node, err := params.loadNode(context.Background(), env, ref)
			if err != nil {
				return err
			}
			resolved, err := env.resolver().Resolve(node, contenttree.Accessor, env.renderContext(params.Context))
			if err != nil {
				return fmt.Errorf("resolving %s: %w", node.Path(), err)
			}

			input := cacheprofile.KeyInput{
				ContentID: node.ID,
				MemberID:  params.Member,
				Query:     func(name string) string { return query[strings.ToLower(name)] },
				Property:  node.Property,
				Custom:    params.Custom,
			}
			entries, err := cacheKeys(resolved, input)
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(stdout, entries); done {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintf(stdout, "no cached blocks in %s\n", node.Path())
				return nil
			}
			tw := tabwriter.NewWriter(stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "BLOCK\tMODE\tTTL\tKEY\tDIGEST")
			for _, entry := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", entry.Block, entry.Mode, entry.TTL, entry.Key, entry.Digest[:16])
			}
			return tw.Flush()
		},
	}
}

// cacheKeys lists the cache keys of every block of resolved with a
// cache directive, depth first in rendering order.
func cacheKeys(resolved *rendering.Structure, input cacheprofile.KeyInput) ([]cacheKeyEntry, error) {
	var entries []cacheKeyEntry
	err := resolved.Walk(func(block *rendering.Block, depth int) error {
		if block.Cache == nil {
			return nil
		}
		key := cacheprofile.Key(block.Source, block.Cache, input)
		label := block.Source
		if block.Name != "" {
			label += "#" + block.Name
		}
		entries = append(entries, cacheKeyEntry{
			Block:  strings.Repeat("  ", depth) + label,
			Mode:   cacheprofile.ModeOf(block.Cache).String(),
			TTL:    block.Cache.Duration,
			Key:    key,
			Digest: cacheprofile.Digest(key),
		})
		return nil
	})
	return entries, err
}

// parseQuery turns name=value pairs into a lookup map with folded
// names.
func parseQuery(pairs []string) (map[string]string, error) {
	query := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --query %q: expected name=value", pair)
		}
		query[strings.ToLower(name)] = value
	}
	return query, nil
}
