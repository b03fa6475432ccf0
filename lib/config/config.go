// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local authoring.
	Development Environment = "development"
	// Staging is for pre-production sites.
	Staging Environment = "staging"
	// Production is for production sites.
	Production Environment = "production"
)

// Config is the configuration for the blocks resolver and its tools.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	// Root is the base directory for blocks data. Available to path
	// fields as ${BLOCKS_ROOT}.
	Root string `yaml:"root"`

	// Resolver configures structure resolution.
	Resolver ResolverConfig `yaml:"resolver"`

	// Cache configures named cache profiles.
	Cache CacheConfig `yaml:"cache"`

	// BlockTypes maps block type names to presets applied when a
	// block declaration carries that type.
	BlockTypes map[string]BlockTypeConfig `yaml:"block_types"`

	// Store configures the SQLite content store.
	Store StoreConfig `yaml:"store"`

	// Logging configures log output.
	Logging LoggingConfig `yaml:"logging"`

	// EnvironmentOverrides contains per-environment overrides.
	// These are applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Root     string          `yaml:"root,omitempty"`
	Resolver *ResolverConfig `yaml:"resolver,omitempty"`
	Store    *StoreConfig    `yaml:"store,omitempty"`
	Logging  *LoggingConfig  `yaml:"logging,omitempty"`
}

// ResolverConfig configures structure resolution.
type ResolverConfig struct {
	// MaxDepth bounds block nesting.
	// Default: 64
	MaxDepth int `yaml:"max_depth"`

	// DefaultContext is the rendering context used when a command is
	// not given one. Empty means no context.
	DefaultContext string `yaml:"default_context"`
}

// CacheConfig configures cache profiles.
type CacheConfig struct {
	// Profiles maps profile names to cache directives. Declarations
	// reference them with the string form of "cache".
	Profiles map[string]CacheProfileConfig `yaml:"profiles"`
}

// CacheProfileConfig is one named cache profile.
type CacheProfileConfig struct {
	// Duration is the cache lifetime as a Go duration ("10m", "24h").
	Duration string `yaml:"duration"`

	// Mode is "ignore", "cache" or "refresh". Empty means "cache".
	Mode string `yaml:"mode"`

	ByPage        bool     `yaml:"by_page"`
	ByMember      bool     `yaml:"by_member"`
	ByConst       string   `yaml:"by_const"`
	ByQueryString []string `yaml:"by_query_string"`
	ByProperty    []string `yaml:"by_property"`
	ByCustom      string   `yaml:"by_custom"`
}

// Seconds returns the profile duration in whole seconds. An empty
// duration is zero.
func (p CacheProfileConfig) Seconds() (int, error) {
	if p.Duration == "" {
		return 0, nil
	}
	duration, err := time.ParseDuration(p.Duration)
	if err != nil {
		return 0, err
	}
	return int(duration / time.Second), nil
}

// BlockTypeConfig is a block preset.
type BlockTypeConfig struct {
	// Source is used when the declaration has none.
	Source string `yaml:"source"`

	// Data is merged under the declared data.
	Data map[string]any `yaml:"data"`

	// Cache names a cache profile used when the declaration has no
	// cache directive.
	Cache string `yaml:"cache"`
}

// StoreConfig configures the SQLite content store.
type StoreConfig struct {
	// Path is the database file.
	// Default: ${BLOCKS_ROOT}/content.db
	Path string `yaml:"path"`

	// PoolSize is the number of pooled connections.
	// Default: 4
	PoolSize int `yaml:"pool_size"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	// Default: info (development), warn (production)
	Level string `yaml:"level"`
}

// Default returns the default configuration.
// These defaults are used as a base before loading the config file.
// They exist primarily to ensure all fields have sensible zero-values,
// not as a fallback - the config file is required.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Environment: Development,
		Root:        filepath.Join(homeDir, ".cache", "blocks"),
		Resolver: ResolverConfig{
			MaxDepth: 64,
		},
		Store: StoreConfig{
			Path:     "${BLOCKS_ROOT}/content.db",
			PoolSize: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the BLOCKS_CONFIG environment variable.
//
// There are no fallbacks or defaults - if BLOCKS_CONFIG is not set, this fails.
func Load() (*Config, error) {
	configPath := os.Getenv("BLOCKS_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("BLOCKS_CONFIG environment variable not set; " +
			"set it to the path of your blocks.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment variables do not
// override config values. The only expansion performed is ${BLOCKS_ROOT},
// ${HOME} and ${VAR:-default} in path fields.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		// Production defaults: quieter logging.
		if overrides == nil {
			overrides = &ConfigOverrides{
				Logging: &LoggingConfig{Level: "warn"},
			}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Root != "" {
		c.Root = overrides.Root
	}

	if overrides.Resolver != nil {
		if overrides.Resolver.MaxDepth != 0 {
			c.Resolver.MaxDepth = overrides.Resolver.MaxDepth
		}
		if overrides.Resolver.DefaultContext != "" {
			c.Resolver.DefaultContext = overrides.Resolver.DefaultContext
		}
	}

	if overrides.Store != nil {
		if overrides.Store.Path != "" {
			c.Store.Path = overrides.Store.Path
		}
		if overrides.Store.PoolSize != 0 {
			c.Store.PoolSize = overrides.Store.PoolSize
		}
	}

	if overrides.Logging != nil && overrides.Logging.Level != "" {
		c.Logging.Level = overrides.Logging.Level
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"BLOCKS_ROOT": c.Root,
		"HOME":        os.Getenv("HOME"),
	}

	c.Root = expandVars(c.Root, vars)
	vars["BLOCKS_ROOT"] = c.Root // Update for dependent paths.

	c.Store.Path = expandVars(c.Store.Path, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

var cacheModes = []string{"", "ignore", "cache", "refresh"}

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Resolver.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("resolver.max_depth must be positive, got %d", c.Resolver.MaxDepth))
	}

	for _, name := range sortedKeys(c.Cache.Profiles) {
		profile := c.Cache.Profiles[name]
		seconds, err := profile.Seconds()
		if err != nil {
			errs = append(errs, fmt.Errorf("cache.profiles.%s.duration: %w", name, err))
		} else if seconds < 0 {
			errs = append(errs, fmt.Errorf("cache.profiles.%s.duration must not be negative", name))
		}
		if !slices.Contains(cacheModes, strings.ToLower(profile.Mode)) {
			errs = append(errs, fmt.Errorf("cache.profiles.%s.mode must be one of: %v", name, cacheModes[1:]))
		}
	}

	for _, name := range sortedKeys(c.BlockTypes) {
		blockType := c.BlockTypes[name]
		if blockType.Cache == "" {
			continue
		}
		if _, ok := c.Cache.Profiles[blockType.Cache]; !ok {
			errs = append(errs, fmt.Errorf("block_types.%s.cache references unknown profile %q", name, blockType.Cache))
		}
	}

	if c.Store.PoolSize <= 0 {
		errs = append(errs, fmt.Errorf("store.pool_size must be positive, got %d", c.Store.PoolSize))
	}

	if !slices.Contains(logLevels, strings.ToLower(c.Logging.Level)) {
		errs = append(errs, fmt.Errorf("logging.level must be one of: %v", logLevels))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EnsureStoreDirectory creates the directory holding the store file.
func (c *Config) EnsureStoreDirectory() error {
	if c.Store.Path == "" {
		return nil
	}
	directory := filepath.Dir(c.Store.Path)
	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", directory, err)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
