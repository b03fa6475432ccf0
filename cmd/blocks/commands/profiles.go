// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/blocks/cmd/blocks/cli"
	"github.com/bureau-foundation/blocks/lib/cacheprofile"
	"github.com/bureau-foundation/blocks/lib/schema/structure"
)

type profilesParams struct {
	ConfigParams
	cli.JSONOutput
}

// profileEntry is one configured cache profile.
type profileEntry struct {
	Name      string                   `json:"name"`
	Mode      string                   `json:"mode"`
	Directive structure.CacheDirective `json:"directive"`
}

func profilesCommand(stdout io.Writer) *cli.Command {
	var params profilesParams

	return &cli.Command{
		Name:    "profiles",
		Summary: "List the configured cache profiles",
		Description: `List the cache profiles of the configuration (cache.profiles). Block and
structure declarations reference a profile by name with the string form
of "cache", and may override its fields inline.`,
		Usage: "blocks profiles [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("profiles", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("profiles takes no positional arguments, got %q", args[0])
			}
			env, err := params.load()
			if err != nil {
				return err
			}

			profiles := env.options.Profiles
			var entries []profileEntry
			for _, name := range profiles.Names() {
				directive, _ := profiles.Lookup(name)
				entries = append(entries, profileEntry{
					Name:      name,
					Mode:      cacheprofile.ModeOf(&directive).String(),
					Directive: directive,
				})
			}

			if done, err := params.EmitJSON(stdout, entries); done {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(stdout, "no cache profiles configured")
				return nil
			}
			tw := tabwriter.NewWriter(stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tMODE\tVARY")
			for _, entry := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", entry.Name, entry.Mode, describeCache(&entry.Directive))
			}
			return tw.Flush()
		},
	}
}
