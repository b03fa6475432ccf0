// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "blocks.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return configPath
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Environment != Development {
		t.Errorf("expected environment=development, got %s", cfg.Environment)
	}

	if cfg.Resolver.MaxDepth != 64 {
		t.Errorf("expected max_depth=64, got %d", cfg.Resolver.MaxDepth)
	}

	if cfg.Store.PoolSize != 4 {
		t.Errorf("expected pool_size=4, got %d", cfg.Store.PoolSize)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected level=info, got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoad_RequiresBlocksConfig(t *testing.T) {
	t.Setenv("BLOCKS_CONFIG", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when BLOCKS_CONFIG not set, got nil")
	}

	expectedMsg := "BLOCKS_CONFIG environment variable not set"
	if !strings.HasPrefix(err.Error(), expectedMsg) {
		t.Errorf("expected error message to start with %q, got %q", expectedMsg, err.Error())
	}
}

func TestLoad_WithBlocksConfig(t *testing.T) {
	configPath := writeConfig(t, `
environment: staging
root: /test/root
`)
	t.Setenv("BLOCKS_CONFIG", configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Environment != Staging {
		t.Errorf("expected environment=staging, got %s", cfg.Environment)
	}

	if cfg.Store.Path != "/test/root/content.db" {
		t.Errorf("expected store path under root, got %s", cfg.Store.Path)
	}
}

func TestLoadFile(t *testing.T) {
	configPath := writeConfig(t, `
environment: staging
root: /custom/root

resolver:
  max_depth: 16
  default_context: ajax-list

cache:
  profiles:
    forever:
      duration: 24h
      by_page: true
    listing:
      duration: 90s
      mode: refresh
      by_query_string: [page, sort]
      by_property: [_title]

block_types:
  menu:
    source: shared/menu
    data:
      depth: 2
    cache: forever

store:
  path: ${BLOCKS_ROOT}/site.db
  pool_size: 2

logging:
  level: debug
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Resolver.MaxDepth != 16 {
		t.Errorf("expected max_depth=16, got %d", cfg.Resolver.MaxDepth)
	}
	if cfg.Resolver.DefaultContext != "ajax-list" {
		t.Errorf("expected default_context=ajax-list, got %s", cfg.Resolver.DefaultContext)
	}

	forever := cfg.Cache.Profiles["forever"]
	seconds, err := forever.Seconds()
	if err != nil {
		t.Fatalf("Seconds: %v", err)
	}
	if seconds != 86400 || !forever.ByPage {
		t.Errorf("forever = %+v (%ds), want 24h by_page", forever, seconds)
	}

	listing := cfg.Cache.Profiles["listing"]
	if listing.Mode != "refresh" || len(listing.ByQueryString) != 2 || listing.ByProperty[0] != "_title" {
		t.Errorf("listing = %+v", listing)
	}

	menu := cfg.BlockTypes["menu"]
	if menu.Source != "shared/menu" || menu.Cache != "forever" || menu.Data["depth"] != 2 {
		t.Errorf("menu = %+v", menu)
	}

	if cfg.Store.Path != "/custom/root/site.db" {
		t.Errorf("expected store path=/custom/root/site.db, got %s", cfg.Store.Path)
	}
	if cfg.Store.PoolSize != 2 {
		t.Errorf("expected pool_size=2, got %d", cfg.Store.PoolSize)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level=debug, got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	configPath := writeConfig(t, "resolver: [not, a, map]\n")

	if _, err := LoadFile(configPath); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	configPath := writeConfig(t, `
environment: production
root: /default/root

resolver:
  max_depth: 32

production:
  root: /prod/root
  resolver:
    default_context: print
  store:
    pool_size: 8
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Root != "/prod/root" {
		t.Errorf("expected root=/prod/root, got %s", cfg.Root)
	}
	if cfg.Store.Path != "/prod/root/content.db" {
		t.Errorf("expected store path under production root, got %s", cfg.Store.Path)
	}
	if cfg.Resolver.MaxDepth != 32 {
		t.Errorf("expected max_depth=32 kept from base, got %d", cfg.Resolver.MaxDepth)
	}
	if cfg.Resolver.DefaultContext != "print" {
		t.Errorf("expected default_context=print, got %s", cfg.Resolver.DefaultContext)
	}
	if cfg.Store.PoolSize != 8 {
		t.Errorf("expected pool_size=8, got %d", cfg.Store.PoolSize)
	}
	// An explicit production section replaces the built-in production defaults.
	if cfg.Logging.Level != "info" {
		t.Errorf("expected level=info, got %s", cfg.Logging.Level)
	}
}

func TestProductionDefaults(t *testing.T) {
	configPath := writeConfig(t, "environment: production\n")

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected level=warn in production, got %s", cfg.Logging.Level)
	}
}

func TestEnvVarsDoNotOverride(t *testing.T) {
	t.Setenv("BLOCKS_ENVIRONMENT", "staging")
	t.Setenv("BLOCKS_STORE_PATH", "/env/content.db")

	configPath := writeConfig(t, `
environment: development
store:
  path: /file/content.db
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Environment != Development {
		t.Errorf("expected environment=development from file, got %s (env vars should not override)", cfg.Environment)
	}
	if cfg.Store.Path != "/file/content.db" {
		t.Errorf("expected store path from file, got %s (env vars should not override)", cfg.Store.Path)
	}
}

func TestExpandVars(t *testing.T) {
	tests := []struct {
		input    string
		vars     map[string]string
		expected string
	}{
		{
			input:    "${HOME}/blocks",
			vars:     map[string]string{"HOME": "/home/user"},
			expected: "/home/user/blocks",
		},
		{
			input:    "${BLOCKS_TEST_MISSING:-default}",
			vars:     map[string]string{},
			expected: "default",
		},
		{
			input:    "${PRESENT:-default}",
			vars:     map[string]string{"PRESENT": "value"},
			expected: "value",
		},
		{
			input:    "${A}/${B}",
			vars:     map[string]string{"A": "first", "B": "second"},
			expected: "first/second",
		},
		{
			input:    "no variables here",
			vars:     map[string]string{},
			expected: "no variables here",
		},
	}

	for _, tt := range tests {
		result := expandVars(tt.input, tt.vars)
		if result != tt.expected {
			t.Errorf("expandVars(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "valid default config",
			modify: func(c *Config) {},
		},
		{
			name: "invalid environment",
			modify: func(c *Config) {
				c.Environment = "invalid"
			},
			wantErr: "invalid environment",
		},
		{
			name: "zero max depth",
			modify: func(c *Config) {
				c.Resolver.MaxDepth = 0
			},
			wantErr: "resolver.max_depth",
		},
		{
			name: "bad profile duration",
			modify: func(c *Config) {
				c.Cache.Profiles = map[string]CacheProfileConfig{"x": {Duration: "soon"}}
			},
			wantErr: "cache.profiles.x.duration",
		},
		{
			name: "bad profile mode",
			modify: func(c *Config) {
				c.Cache.Profiles = map[string]CacheProfileConfig{"x": {Mode: "later"}}
			},
			wantErr: "cache.profiles.x.mode",
		},
		{
			name: "block type with unknown profile",
			modify: func(c *Config) {
				c.BlockTypes = map[string]BlockTypeConfig{"menu": {Cache: "missing"}}
			},
			wantErr: `block_types.menu.cache references unknown profile "missing"`,
		},
		{
			name: "zero pool size",
			modify: func(c *Config) {
				c.Store.PoolSize = 0
			},
			wantErr: "store.pool_size",
		},
		{
			name: "bad log level",
			modify: func(c *Config) {
				c.Logging.Level = "loud"
			},
			wantErr: "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want one containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnsureStoreDirectory(t *testing.T) {
	cfg := Default()
	cfg.Store.Path = filepath.Join(t.TempDir(), "nested", "dir", "content.db")

	if err := cfg.EnsureStoreDirectory(); err != nil {
		t.Fatalf("EnsureStoreDirectory failed: %v", err)
	}

	info, err := os.Stat(filepath.Dir(cfg.Store.Path))
	if err != nil {
		t.Fatalf("directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("store parent is not a directory")
	}
}
