// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is one node of the blocks command tree. A command either runs
// (Run) or dispatches its first positional argument to a subcommand.
type Command struct {
	// Name is what the user types to select the command ("resolve").
	Name string

	// Summary is the one-liner listed in the parent's help.
	Summary string

	// Description is the long form shown by the command's own help.
	// Summary is used when it is empty.
	Description string

	// Usage overrides the synthesized usage line, for example
	// "blocks resolve [flags] <path|#id>".
	Usage string

	// Examples are listed at the end of the help output.
	Examples []Example

	// Flags builds a fresh flag set each time it is called. Nil means
	// the command takes no flags.
	Flags func() *pflag.FlagSet

	// Subcommands are selected by the first positional argument.
	Subcommands []*Command

	// Run receives the positional arguments left after flag parsing.
	// When Subcommands is also set, Run handles arguments that name no
	// subcommand.
	Run func(args []string) error

	// HelpOutput receives help text. Only the root's value is used;
	// nil means os.Stderr.
	HelpOutput io.Writer

	parent *Command
}

// Example is a command line listed in help output.
type Example struct {
	Description string
	Command     string
}

// Execute runs the command tree against args, which exclude the
// program name.
func (c *Command) Execute(args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(c.helpOutput())
		return nil
	}

	if len(c.Subcommands) > 0 {
		if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
			return c.dispatch(args[0], args[1:])
		}
		if c.Run == nil {
			c.PrintHelp(c.helpOutput())
			if len(args) == 0 {
				return fmt.Errorf("subcommand required")
			}
			return fmt.Errorf("subcommand required (got flag %q)", args[0])
		}
	}

	positional, err := c.parseFlags(args)
	if err != nil {
		return err
	}
	if c.Run == nil {
		c.PrintHelp(c.helpOutput())
		return fmt.Errorf("no action defined for %q", c.fullName())
	}
	return c.Run(positional)
}

func (c *Command) dispatch(name string, rest []string) error {
	for _, sub := range c.Subcommands {
		if sub.Name == name {
			sub.parent = c
			return sub.Execute(rest)
		}
	}

	hint := ""
	if suggestion := suggestCommand(name, c.Subcommands); suggestion != "" {
		hint = fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	return fmt.Errorf("unknown command %q%s\n\nRun '%s --help' for usage.", name, hint, c.fullName())
}

// parseFlags parses args against the command's flag set and returns the
// positional arguments. pflag's own error output is discarded in favor
// of messages carrying a suggestion and a pointer to --help.
func (c *Command) parseFlags(args []string) ([]string, error) {
	if c.Flags == nil {
		return args, nil
	}

	flagSet := c.Flags()
	flagSet.SetOutput(io.Discard)
	err := flagSet.Parse(args)
	if err == nil {
		return flagSet.Args(), nil
	}

	message := err.Error()
	hint := ""
	if strings.Contains(message, "unknown flag") || strings.Contains(message, "unknown shorthand") {
		// The failed parse may have consumed state, so suggestions are
		// drawn from a fresh flag set.
		if suggestion := suggestFlag(args, c.Flags()); suggestion != "" {
			hint = fmt.Sprintf(" (did you mean %s?)", suggestion)
		}
	}
	return nil, fmt.Errorf("%s%s\n\nRun '%s --help' for usage.", message, hint, c.fullName())
}

// PrintHelp writes the command's help to w.
func (c *Command) PrintHelp(w io.Writer) {
	name := c.fullName()

	if text := c.Description; text != "" {
		fmt.Fprintf(w, "%s\n\n", text)
	} else if c.Summary != "" {
		fmt.Fprintf(w, "%s\n\n", c.Summary)
	}

	usage := c.Usage
	if usage == "" {
		usage = name + " [flags]"
		if len(c.Subcommands) > 0 {
			usage = name + " <command> [flags]"
		}
	}
	fmt.Fprintf(w, "Usage:\n  %s\n", usage)

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nCommands:\n")
		table := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(table, "  %s\t%s\n", sub.Name, sub.Summary)
		}
		table.Flush()
	}

	if c.Flags != nil {
		var defaults strings.Builder
		flagSet := c.Flags()
		flagSet.SetOutput(&defaults)
		flagSet.PrintDefaults()
		if defaults.Len() > 0 {
			fmt.Fprintf(w, "\nFlags:\n%s", defaults.String())
		}
	}

	c.printExamples(w)

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nRun '%s <command> --help' for more information on a command.\n", name)
	}
}

func (c *Command) printExamples(w io.Writer) {
	if len(c.Examples) == 0 {
		return
	}
	fmt.Fprintf(w, "\nExamples:\n")
	for _, example := range c.Examples {
		if example.Description == "" {
			fmt.Fprintf(w, "  %s\n", example.Command)
			continue
		}
		fmt.Fprintf(w, "  # %s\n  %s\n\n", example.Description, example.Command)
	}
}

// fullName is the space-separated path from the root ("blocks key").
func (c *Command) fullName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.fullName() + " " + c.Name
}

func (c *Command) helpOutput() io.Writer {
	root := c
	for root.parent != nil {
		root = root.parent
	}
	if root.HelpOutput != nil {
		return root.HelpOutput
	}
	return os.Stderr
}

func isHelpFlag(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	}
	return false
}
