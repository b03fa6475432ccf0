// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Command blocks resolves and inspects block structures of content
// trees. See "blocks --help".
package main

import (
	"fmt"
	"os"

	"github.com/bureau-foundation/blocks/cmd/blocks/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output (like validate) return an
		// ExitError with the desired exit code. Don't print a redundant
		// "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return commands.Root(os.Stdout).Execute(os.Args[1:])
}
