// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/blocks/cmd/blocks/cli"
	"github.com/bureau-foundation/blocks/lib/contenttree"
	"github.com/bureau-foundation/blocks/lib/rendering"
)

const testConfig = `
environment: development
logging:
  level: error
cache:
  profiles:
    daily:
      duration: 24h
      by_page: true
block_types:
  menu:
    source: navigation
    cache: daily
`

const testSite = `
nodes:
  - id: 1
    name: home
    type: home
    properties:
      section: main
    structures: |
      [{
        "source": "layout",
        "cache": {"duration": 60, "byPage": true},
        "blocks": [
          {"name": "menu", "type": "menu"},
          {"source": "footer"},
        ],
      }]
    children:
      - id: 2
        name: news
        type: list
        structures: |
          [{"blocks": [{"name": "list", "source": "news-list",
            "cache": {"duration": 30, "byMember": true, "byQueryString": ["page"], "byProperty": ["_section"]}}]}]
`

// fixture holds the files a command test runs against.
type fixture struct {
	config string
	site   string
	dir    string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		config: filepath.Join(dir, "blocks.yaml"),
		site:   filepath.Join(dir, "site.yaml"),
		dir:    dir,
	}
	writeFile(t, f.config, testConfig)
	writeFile(t, f.site, testSite)
	return f
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// execute runs the command tree with args and returns what it wrote
// to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, help bytes.Buffer
	root := Root(&stdout)
	root.HelpOutput = &help
	err := root.Execute(args)
	return stdout.String(), err
}

func TestResolveText(t *testing.T) {
	f := newFixture(t)

	output, err := execute(t, "resolve", "--config", f.config, "--tree", f.site, "HOME/News")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for _, want := range []string{"home/news", "layout", "navigation", "#menu", "footer", "news-list", "#list", "cache[daily 86400s page]"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
	if strings.Index(output, "footer") > strings.Index(output, "news-list") {
		t.Errorf("farther blocks should precede closer ones:\n%s", output)
	}
}

func TestResolveJSON(t *testing.T) {
	f := newFixture(t)

	output, err := execute(t, "resolve", "--config", f.config, "--tree", f.site, "--json", "#2")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	var result resolveResult
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, output)
	}
	if result.Node != "home/news" || len(result.Fingerprint) != 64 {
		t.Errorf("unexpected result header: %+v", result)
	}
	if result.Structure.Source != "layout" || len(result.Structure.Blocks) != 3 {
		t.Fatalf("unexpected structure: %+v", result.Structure)
	}
	if cache := result.Structure.Cache; cache == nil || cache.Duration != 60 {
		t.Errorf("structure cache = %+v, want duration 60", cache)
	}
}

func TestResolveCBOR(t *testing.T) {
	f := newFixture(t)

	output, err := execute(t, "resolve", "--config", f.config, "--tree", f.site, "--cbor", "home/news")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	decoded, err := rendering.Decode([]byte(output))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Child("list") == nil || decoded.Child("list").Source != "news-list" {
		t.Errorf("decoded structure lacks the list block: %+v", decoded.Blocks)
	}

	if _, err := execute(t, "resolve", "--config", f.config, "--tree", f.site, "--cbor", "--json", "home"); err == nil {
		t.Error("--cbor with --json succeeded")
	}
}

func TestResolveErrors(t *testing.T) {
	f := newFixture(t)

	_, err := execute(t, "resolve", "--config", f.config, "--tree", f.site, "home/missing")
	if !errors.Is(err, contenttree.ErrNodeNotFound) {
		t.Errorf("missing node error = %v, want ErrNodeNotFound", err)
	}

	if _, err := execute(t, "resolve", "--config", f.config, "--tree", f.site); err == nil || !strings.Contains(err.Error(), "node path required") {
		t.Errorf("no argument error = %v", err)
	}

	if _, err := execute(t, "resolve", "--config", f.config, "--tree", f.site, "#x"); err == nil || !strings.Contains(err.Error(), "invalid node id") {
		t.Errorf("bad id error = %v", err)
	}

	conflicting := filepath.Join(f.dir, "conflict.yaml")
	writeFile(t, conflicting, `
nodes:
  - id: 1
    name: root
    type: page
    structures: '[{"blocks": [{"name": "b", "source": "one"}]}]'
    children:
      - id: 2
        name: child
        type: page
        structures: '[{"blocks": [{"name": "b", "source": "two"}]}]'
`)
	_, err = execute(t, "resolve", "--config", f.config, "--tree", conflicting, "root/child")
	if !rendering.IsConflict(err) {
		t.Errorf("conflict error = %v, want ConflictError", err)
	}
}

func TestImportThenResolveFromStore(t *testing.T) {
	f := newFixture(t)
	database := filepath.Join(f.dir, "content.db")

	output, err := execute(t, "import", "--config", f.config, "--tree", f.site, "--db", database)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(output, "imported 2 nodes") {
		t.Errorf("import output = %q", output)
	}

	output, err = execute(t, "resolve", "--config", f.config, "--db", database, "home/news")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !strings.Contains(output, "news-list") || !strings.Contains(output, "navigation") {
		t.Errorf("resolve from store output:\n%s", output)
	}

	if _, err := execute(t, "import", "--config", f.config, "--db", database); err == nil {
		t.Error("import without --tree succeeded")
	}
}

func TestKey(t *testing.T) {
	f := newFixture(t)

	output, err := execute(t, "key", "--config", f.config, "--tree", f.site, "--json",
		"--member", "7", "--query", "Page=3", "home/news")
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	var entries []cacheKeyEntry
	if err := json.Unmarshal([]byte(output), &entries); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, output)
	}

	want := []string{
		"blocks__layout__p:2",
		"blocks__navigation__p:2",
		"blocks__news-list__m:7__3__v:main",
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(entries), len(want), entries)
	}
	for index, entry := range entries {
		if entry.Key != want[index] {
			t.Errorf("entries[%d].Key = %q, want %q", index, entry.Key, want[index])
		}
		if len(entry.Digest) != 64 || entry.Mode != "cache" {
			t.Errorf("entries[%d] = %+v", index, entry)
		}
	}

	if _, err := execute(t, "key", "--config", f.config, "--tree", f.site, "--query", "novalue", "home"); err == nil {
		t.Error("malformed --query accepted")
	}
}

func TestValidate(t *testing.T) {
	f := newFixture(t)

	good := filepath.Join(f.dir, "good.jsonc")
	writeFile(t, good, `// layout
[{"source": "layout", "blocks": [{"name": "menu", "type": "menu"}]}]`)
	output, err := execute(t, "validate", "--config", f.config, good)
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, output)
	}
	if !strings.Contains(output, "ok: 1 checked") {
		t.Errorf("output = %q", output)
	}

	output, err = execute(t, "validate", "--config", f.config, "--tree", f.site)
	if err != nil {
		t.Fatalf("validate --tree: %v\n%s", err, output)
	}

	bad := filepath.Join(f.dir, "bad.jsonc")
	writeFile(t, bad, `[{"blocks": [{"source": "x", "isKill": true, "cache": "weekly"}, {"type": "carousel"}]}]`)
	output, err = execute(t, "validate", "--config", f.config, bad)
	var exitError *cli.ExitError
	if !errors.As(err, &exitError) || exitError.Code != 1 {
		t.Fatalf("validate error = %v, want exit code 1", err)
	}
	if !strings.Contains(output, `unknown type "carousel"`) {
		t.Errorf("output missing parse problem:\n%s", output)
	}

	issuesFile := filepath.Join(f.dir, "issues.jsonc")
	writeFile(t, issuesFile, `[{"blocks": [{"source": "x", "isKill": true, "cache": "weekly"}]}]`)
	output, err = execute(t, "validate", "--config", f.config, "--json", issuesFile)
	if !errors.As(err, &exitError) {
		t.Fatalf("validate --json error = %v, want exit error", err)
	}
	var issues []validationIssue
	if err := json.Unmarshal([]byte(output), &issues); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, output)
	}
	if len(issues) != 2 {
		t.Errorf("got %d issues, want 2 (anonymous kill, unknown profile): %+v", len(issues), issues)
	}

	if _, err := execute(t, "validate", "--config", f.config); err == nil {
		t.Error("validate without input succeeded")
	}
}

func TestProfiles(t *testing.T) {
	f := newFixture(t)

	output, err := execute(t, "profiles", "--config", f.config, "--json")
	if err != nil {
		t.Fatalf("profiles: %v", err)
	}
	var entries []profileEntry
	if err := json.Unmarshal([]byte(output), &entries); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, output)
	}
	if len(entries) != 1 || entries[0].Name != "daily" || entries[0].Directive.Duration != 86400 {
		t.Errorf("entries = %+v", entries)
	}

	output, err = execute(t, "profiles", "--config", f.config)
	if err != nil {
		t.Fatalf("profiles: %v", err)
	}
	if !strings.Contains(output, "daily") || !strings.Contains(output, "86400s") {
		t.Errorf("text output = %q", output)
	}
}

func TestInvalidConfig(t *testing.T) {
	f := newFixture(t)
	broken := filepath.Join(f.dir, "broken.yaml")
	writeFile(t, broken, "environment: moon\n")

	if _, err := execute(t, "profiles", "--config", broken); err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("error = %v, want invalid configuration", err)
	}
}
