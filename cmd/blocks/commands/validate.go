// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/blocks/cmd/blocks/cli"
	"github.com/bureau-foundation/blocks/lib/blockdef"
	"github.com/bureau-foundation/blocks/lib/contenttree"
)

type validateParams struct {
	ConfigParams
	cli.JSONOutput
	TreePath string `json:"tree" flag:"tree" desc:"YAML site description: check every node and resolve it"`
}

// validationIssue is one problem found by "blocks validate".
type validationIssue struct {
	Location string `json:"location"`
	Problem  string `json:"problem"`
}

func validateCommand(stdout io.Writer) *cli.Command {
	var params validateParams

	return &cli.Command{
		Name:    "validate",
		Summary: "Check structures documents for authoring mistakes",
		Description: `Check JSONC structures documents for authoring mistakes: level bounds,
misplaced context wildcards, kill and reset on anonymous blocks, named
blocks under anonymous ones, unknown block types and cache profiles.

With --tree, every node of the site description is checked and then
resolved, which also reports conflicts between levels.

Exits with status 1 when any problem is found.`,
		Usage: "blocks validate [flags] [file...]",
		Examples: []cli.Example{
			{
				Description: "Check a structures document",
				Command:     "blocks validate layout.jsonc",
			},
			{
				Description: "Check a whole site",
				Command:     "blocks validate --tree site.yaml",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("validate", &params)
		},
		Run: func(args []string) error {
			if len(args) == 0 && params.TreePath == "" {
				return fmt.Errorf("no structures documents given (pass files or --tree)")
			}
			env, err := params.load()
			if err != nil {
				return err
			}

			var issues []validationIssue
			checked := 0
			for _, path := range args {
				checked++
				declarations, err := blockdef.ReadFile(path, env.options)
				if err != nil {
					issues = append(issues, validationIssue{Location: path, Problem: err.Error()})
					continue
				}
				for _, problem := range blockdef.Validate(declarations, env.options) {
					issues = append(issues, validationIssue{Location: path, Problem: problem})
				}
			}

			if params.TreePath != "" {
				tree, err := contenttree.LoadFile(params.TreePath, env.options)
				if err != nil {
					return err
				}
				resolver := env.resolver()
				err = tree.Walk(func(node *contenttree.Node) error {
					checked++
					for _, problem := range blockdef.Validate(node.Structures, env.options) {
						issues = append(issues, validationIssue{Location: node.Path(), Problem: problem})
					}
					if _, err := resolver.Resolve(node, contenttree.Accessor, env.config.Resolver.DefaultContext); err != nil {
						issues = append(issues, validationIssue{Location: node.Path(), Problem: err.Error()})
					}
					return nil
				})
				if err != nil {
					return err
				}
			}

			if done, err := params.EmitJSON(stdout, issues); done {
				if err == nil && len(issues) > 0 {
					return &cli.ExitError{Code: 1}
				}
				return err
			}
			for _, issue := range issues {
				fmt.Fprintf(stdout, "%s: %s\n", issue.Location, issue.Problem)
			}
			if len(issues) > 0 {
				fmt.Fprintf(stdout, "%d problem(s) in %d checked\n", len(issues), checked)
				return &cli.ExitError{Code: 1}
			}
			fmt.Fprintf(stdout, "ok: %d checked\n", checked)
			return nil
		},
	}
}
