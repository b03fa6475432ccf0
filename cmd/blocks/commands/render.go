// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/blocks/lib/cacheprofile"
	"github.com/bureau-foundation/blocks/lib/rendering"
	"github.com/bureau-foundation/blocks/lib/schema/structure"
)

// Styles for the text rendering of a structure. Colors are ANSI 256
// codes; lipgloss drops them when stdout is not a terminal.
var (
	sourceStyle   = lipgloss.NewStyle().Bold(true)
	nameStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	fragmentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	cacheStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	faintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	treeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// writeStructure writes the structure as an indented tree, one block
// per line.
func writeStructure(w io.Writer, resolved *rendering.Structure) error {
	return resolved.Walk(func(block *rendering.Block, depth int) error {
		indent := ""
		if depth > 0 {
			indent = treeStyle.Render(strings.Repeat("  ", depth-1) + "└ ")
		}
		_, err := fmt.Fprintln(w, indent+describeBlock(block))
		return err
	})
}

// describeBlock renders one block line: source, name, fragment, cache
// and data.
func describeBlock(block *rendering.Block) string {
	parts := []string{sourceStyle.Render(block.Source)}
	if block.Name != "" {
		parts = append(parts, nameStyle.Render("#"+block.Name))
	}
	if block.Fragment != nil {
		parts = append(parts, fragmentStyle.Render("fragment:"+block.Fragment.Type))
	}
	if block.Cache != nil {
		parts = append(parts, cacheStyle.Render(describeCache(block.Cache)))
	}
	if len(block.Data) > 0 {
		parts = append(parts, faintStyle.Render(describeData(block.Data)))
	}
	return strings.Join(parts, " ")
}

// describeCache summarizes a resolved cache directive, e.g.
// "cache[daily 86400s page query=p]".
func describeCache(directive *structure.CacheDirective) string {
	var fields []string
	if directive.Profile != "" {
		fields = append(fields, directive.Profile)
	}
	mode := cacheprofile.ModeOf(directive)
	if mode != cacheprofile.ModeCache {
		fields = append(fields, mode.String())
	}
	if directive.Duration > 0 {
		fields = append(fields, fmt.Sprintf("%ds", directive.Duration))
	}
	if directive.ByPage {
		fields = append(fields, "page")
	}
	if directive.ByMember {
		fields = append(fields, "member")
	}
	if directive.ByConst != "" {
		fields = append(fields, "const="+directive.ByConst)
	}
	for _, name := range directive.ByQueryString {
		fields = append(fields, "query="+name)
	}
	for _, alias := range directive.ByProperty {
		fields = append(fields, "property="+alias)
	}
	if directive.ByCustom != "" {
		fields = append(fields, "custom="+directive.ByCustom)
	}
	return "cache[" + strings.Join(fields, " ") + "]"
}

// describeData renders data entries sorted by key.
func describeData(data structure.Data) string {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	entries := make([]string, len(keys))
	for index, key := range keys {
		entries[index] = fmt.Sprintf("%s=%v", key, data[key])
	}
	return "{" + strings.Join(entries, " ") + "}"
}
