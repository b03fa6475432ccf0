// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/bureau-foundation/blocks/cmd/blocks/cli"
	"github.com/bureau-foundation/blocks/lib/blockdef"
	"github.com/bureau-foundation/blocks/lib/config"
	"github.com/bureau-foundation/blocks/lib/contenttree"
	"github.com/bureau-foundation/blocks/lib/rendering"
)

// ConfigParams selects the configuration file.
type ConfigParams struct {
	ConfigPath string `json:"config" flag:"config" desc:"configuration file (default: $BLOCKS_CONFIG, else built-in defaults)"`
}

// SourceParams selects where content nodes are read from.
type SourceParams struct {
	TreePath  string `json:"tree" flag:"tree" desc:"YAML site description to read nodes from"`
	StorePath string `json:"db"   flag:"db"   desc:"content store database (default: store.path)"`
}

// environment is the loaded configuration of one command run.
type environment struct {
	config  *config.Config
	options blockdef.Options
	logger  *slog.Logger
}

// load reads and validates the configuration and builds the decoding
// options and logger from it.
func (p ConfigParams) load() (*environment, error) {
	var cfg *config.Config
	var err error
	switch {
	case p.ConfigPath != "":
		cfg, err = config.LoadFile(p.ConfigPath)
	case os.Getenv("BLOCKS_CONFIG") != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := cli.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	options, err := cfg.BlockOptions()
	if err != nil {
		return nil, err
	}

	return &environment{
		config:  cfg,
		options: options,
		logger:  cli.NewCommandLogger(level),
	}, nil
}

// resolver returns a resolver configured from the environment.
func (e *environment) resolver() *rendering.Resolver {
	return rendering.NewResolver(rendering.Config{
		Profiles: e.options.Profiles,
		MaxDepth: e.config.Resolver.MaxDepth,
		Logger:   e.logger,
	})
}

// renderContext returns the rendering context to use: the flag value, else
// the configured default.
func (e *environment) renderContext(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return e.config.Resolver.DefaultContext
}

// openStore opens the content store at path, or at store.path when
// path is empty.
func (e *environment) openStore(path string) (*contenttree.Store, error) {
	storeConfig := e.config.ContentStore(e.options)
	storeConfig.Logger = e.logger
	if path != "" {
		storeConfig.Path = path
	} else if err := e.config.EnsureStoreDirectory(); err != nil {
		return nil, err
	}
	return contenttree.OpenStore(storeConfig)
}

// loadNode finds the node named by ref (a slash-separated path, or
// "#<id>") with its ancestor chain, from the site description when
// --tree is set and from the content store otherwise.
func (p SourceParams) loadNode(ctx context.Context, env *environment, ref string) (*contenttree.Node, error) {
	id, byID, err := parseNodeRef(ref)
	if err != nil {
		return nil, err
	}

	if p.TreePath != "" {
		tree, err := contenttree.LoadFile(p.TreePath, env.options)
		if err != nil {
			return nil, err
		}
		var node *contenttree.Node
		var found bool
		if byID {
			node, found = tree.Find(id)
		} else {
			node, found = tree.FindPath(ref)
		}
		if !found {
			return nil, fmt.Errorf("%w: %s in %s", contenttree.ErrNodeNotFound, ref, p.TreePath)
		}
		return node, nil
	}

	store, err := env.openStore(p.StorePath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if !byID {
		id, err = store.FindPath(ctx, ref)
		if err != nil {
			return nil, err
		}
	}
	return store.LoadChain(ctx, id)
}

// parseNodeRef splits a node reference into an ID ("#12") or a path.
func parseNodeRef(ref string) (int64, bool, error) {
	if ref == "" {
		return 0, false, fmt.Errorf("node path required")
	}
	if ref[0] != '#' {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(ref[1:], 10, 64)
	if err != nil || id <= 0 {
		return 0, false, fmt.Errorf("invalid node id %q", ref)
	}
	return id, true, nil
}

// singleArgument returns the only positional argument.
func singleArgument(args []string, what string) (string, error) {
	switch len(args) {
	case 0:
		return "", fmt.Errorf("%s required", what)
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("expected one %s, got %d arguments", what, len(args))
	}
}
