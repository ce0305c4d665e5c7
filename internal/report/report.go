// Package report renders a context snapshot as deterministic text for
// humans and LLM prompts, or as stable-field JSON for machines. Pure
// functions of (snapshot, options): no clock, no randomness, so output
// is snapshot-testable byte for byte.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mvp-joe/editor-context/internal/layout"
	"github.com/mvp-joe/editor-context/internal/selection"
	"github.com/mvp-joe/editor-context/internal/snapshot"
)

// Options are the independent, composable rendering knobs.
type Options struct {
	// IncludeTerminals lists terminal tabs alongside file tabs.
	IncludeTerminals bool
	// IncludeContent prints materialized selection text when present.
	IncludeContent bool
	// LegacySelections uses the old (line,col)-(line,col) range syntax.
	LegacySelections bool
	// Compact annotates pins inline, drops the separate pinned section,
	// and omits empty categories entirely.
	Compact bool
}

// Render produces the text report.
func Render(ctx snapshot.Context, opts Options) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Workspace: %s (id %s)\n", ctx.Workspace.FolderPath, ctx.Workspace.ID)

	if ctx.ActiveTabPath != "" {
		fmt.Fprintf(&b, "Active file: %s\n", ctx.ActiveTabPath)
	} else if !opts.Compact {
		b.WriteString("Active file: none\n")
	}

	tabs := visibleTabs(ctx.Tabs, opts.IncludeTerminals)
	if len(tabs) > 0 || !opts.Compact {
		fmt.Fprintf(&b, "\nOpen tabs (%d):\n", len(tabs))
		for i, tab := range tabs {
			line := fmt.Sprintf("  %d. %s", i+1, tab.Path)
			if tab.Pinned && opts.Compact {
				line += " [pinned]"
			}
			b.WriteString(line + "\n")
		}
	}

	if !opts.Compact {
		pinned := visibleTabs(ctx.PinnedTabs, opts.IncludeTerminals)
		fmt.Fprintf(&b, "\nPinned tabs (%d):\n", len(pinned))
		for i, tab := range pinned {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, tab.Path)
		}
	}

	if len(ctx.Selections) > 0 || !opts.Compact {
		fmt.Fprintf(&b, "\nSelections (%d):\n", len(ctx.Selections))
		for _, sel := range ctx.Selections {
			writeSelection(&b, sel, opts)
		}
	}

	return b.String()
}

// RenderJSON serializes the snapshot verbatim for machine consumption.
func RenderJSON(ctx snapshot.Context) (string, error) {
	data, err := json.MarshalIndent(ctx, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return string(data) + "\n", nil
}

// RenderSelections renders only the per-file selection blocks, without
// the surrounding snapshot sections. Used by the selections subcommand.
func RenderSelections(sels []snapshot.SelectionReport, opts Options) string {
	var b strings.Builder
	for _, sel := range sels {
		writeSelection(&b, sel, opts)
	}
	return b.String()
}

// visibleTabs filters terminals out unless requested.
func visibleTabs(tabs []snapshot.Tab, includeTerminals bool) []snapshot.Tab {
	if includeTerminals {
		return tabs
	}
	var files []snapshot.Tab
	for _, tab := range tabs {
		if tab.Kind != layout.KindTerminal {
			files = append(files, tab)
		}
	}
	return files
}

// writeSelection prints one file's selection block.
func writeSelection(b *strings.Builder, sel snapshot.SelectionReport, opts Options) {
	fmt.Fprintf(b, "  %s\n", sel.Path)

	contentByRange := make(map[selection.Range]selection.RangeContent, len(sel.Content))
	for _, rc := range sel.Content {
		contentByRange[rc.Range] = rc
	}

	for _, r := range sel.Ranges {
		fmt.Fprintf(b, "    %s\n", formatRange(r, opts.LegacySelections))
		if !opts.IncludeContent {
			continue
		}
		if rc, ok := contentByRange[r]; ok {
			for _, line := range strings.Split(rc.Text, "\n") {
				fmt.Fprintf(b, "      | %s\n", line)
			}
		}
	}
}

// formatRange renders a range in either syntax:
// modern L8:C1-L10:C5, legacy (8,1)-(10,5).
func formatRange(r selection.Range, legacy bool) string {
	if legacy {
		return fmt.Sprintf("(%d,%d)-(%d,%d)", r.StartLine, r.StartCol, r.EndLine, r.EndCol)
	}
	return fmt.Sprintf("L%d:C%d-L%d:C%d", r.StartLine, r.StartCol, r.EndLine, r.EndCol)
}
