// Package snapshot assembles the request-scoped context aggregate: the
// resolved workspace, its open tabs, the active file, and any recorded
// selections. Everything is built fresh per invocation and never cached.
package snapshot

import (
	"sync"

	"github.com/mvp-joe/editor-context/internal/layout"
	"github.com/mvp-joe/editor-context/internal/refresh"
	"github.com/mvp-joe/editor-context/internal/selection"
	"github.com/mvp-joe/editor-context/internal/statedb"
	"github.com/mvp-joe/editor-context/internal/workspace"
)

// Store keys consumed from the workspace state database. The documents
// behind them are owned by the editor; we only reverse-engineer them.
const (
	LayoutKey     = "memento/workbench.parts.editor"
	SelectionsKey = "memento/workbench.editors.files.textFileEditor"
)

// Tab is an open tab annotated with any selection ranges recorded for
// its file.
type Tab struct {
	layout.Tab
	Selections []selection.Range `json:"selections,omitempty"`
}

// SelectionReport is one file's selections, optionally materialized
// against the live file content.
type SelectionReport struct {
	selection.FileSelections
	Content []selection.RangeContent `json:"content,omitempty"`
}

// Context is the root aggregate handed to the formatters. Field names
// are the stable machine-readable contract for --json output.
type Context struct {
	Workspace     workspace.Workspace `json:"workspace"`
	Tabs          []Tab               `json:"tabs"`
	PinnedTabs    []Tab               `json:"pinned_tabs"`
	ActiveTabPath string              `json:"active_tab_path,omitempty"`
	Selections    []SelectionReport   `json:"selections"`
}

// Options controls how a snapshot is built.
type Options struct {
	// IncludeContent materializes selection text from the live files.
	IncludeContent bool
	// ActiveFileOnly restricts selections to the active file. When the
	// active tab is not a file, no selections are reported.
	ActiveFileOnly bool
	// Refresher, if non-nil, is poked once before the store is read.
	Refresher refresh.Refresher
	// CwdResolver resolves live terminal working directories. May be nil.
	CwdResolver layout.CwdResolver
}

// Build reads the workspace's persisted state and assembles the context
// aggregate. The three store lookups are independent keys with no
// ordering dependency, so they fan out concurrently and join before the
// parse stage. Missing or unparseable documents degrade to empty
// sections; partial success is the normal case.
func Build(ws workspace.Workspace, opts Options) Context {
	if opts.Refresher != nil {
		opts.Refresher.AttemptStateRefresh()
	}

	var (
		wg                                  sync.WaitGroup
		layoutRaw, activeRaw, selectionsRaw string
		layoutOK, activeOK, selectionsOK    bool
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		layoutRaw, layoutOK = statedb.ReadKey(ws.StorePath, LayoutKey)
	}()
	go func() {
		defer wg.Done()
		activeRaw, activeOK = statedb.ReadKey(ws.StorePath, LayoutKey)
	}()
	go func() {
		defer wg.Done()
		selectionsRaw, selectionsOK = statedb.ReadKey(ws.StorePath, SelectionsKey)
	}()
	wg.Wait()

	ctx := Context{Workspace: ws}

	var activePath string
	if activeOK {
		if path, ok := layout.ResolveActiveTab(activeRaw); ok {
			activePath = path
		}
	}
	ctx.ActiveTabPath = activePath

	var fileSelections []selection.FileSelections
	if selectionsOK {
		fileSelections = selection.Parse(selectionsRaw)
	}
	if opts.ActiveFileOnly {
		fileSelections = scopeToFile(fileSelections, activePath)
	}

	rangesByPath := make(map[string][]selection.Range, len(fileSelections))
	for _, fs := range fileSelections {
		rangesByPath[fs.Path] = fs.Ranges
	}

	if layoutOK {
		for _, tab := range layout.ParseOpenTabs(layoutRaw, opts.CwdResolver) {
			annotated := Tab{Tab: tab, Selections: rangesByPath[tab.Path]}
			ctx.Tabs = append(ctx.Tabs, annotated)
			if tab.Pinned {
				ctx.PinnedTabs = append(ctx.PinnedTabs, annotated)
			}
		}
	}

	for _, fs := range fileSelections {
		report := SelectionReport{FileSelections: fs}
		if opts.IncludeContent {
			if content, ok := selection.ExtractContent(fs.Path, fs.Ranges); ok {
				report.Content = content
			}
		}
		ctx.Selections = append(ctx.Selections, report)
	}

	return ctx
}

// scopeToFile keeps only the selections recorded for path. An empty path
// (no active file) scopes everything away.
func scopeToFile(all []selection.FileSelections, path string) []selection.FileSelections {
	if path == "" {
		return nil
	}
	var scoped []selection.FileSelections
	for _, fs := range all {
		if fs.Path == path {
			scoped = append(scoped, fs)
		}
	}
	return scoped
}
