package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/viper"

	"github.com/mvp-joe/editor-context/internal/layout"
	"github.com/mvp-joe/editor-context/internal/procinfo"
	"github.com/mvp-joe/editor-context/internal/refresh"
	"github.com/mvp-joe/editor-context/internal/report"
	"github.com/mvp-joe/editor-context/internal/snapshot"
	"github.com/mvp-joe/editor-context/internal/workspace"
)

// storageRoot returns the configured storage root, falling back to the
// platform default.
func storageRoot() string {
	if root := viper.GetString("storage-root"); root != "" {
		return root
	}
	return workspace.DefaultStorageRoot()
}

// resolveWorkspace discovers workspaces and finds the one owning path.
// Its two error cases (missing storage root, no owning workspace) are
// the tool's only fatal failures.
func resolveWorkspace(path string) (workspace.Workspace, error) {
	workspaces, err := workspace.Discover(storageRoot())
	if err != nil {
		return workspace.Workspace{}, err
	}
	return workspace.FindForFile(path, workspaces)
}

// buildSnapshot resolves the workspace for path and builds a fresh
// context snapshot using the global flag configuration.
func buildSnapshot(path string) (snapshot.Context, error) {
	ws, err := resolveWorkspace(path)
	if err != nil {
		return snapshot.Context{}, err
	}

	var refresher refresh.Refresher
	if !viper.GetBool("no-refresh") {
		refresher = refresh.FocusSwitcher{}
	}

	return snapshot.Build(ws, snapshot.Options{
		IncludeContent: viper.GetBool("content"),
		ActiveFileOnly: !viper.GetBool("all-selections"),
		Refresher:      refresher,
		CwdResolver:    procinfo.Resolver{},
	}), nil
}

// renderOptions assembles formatter options from the global flags.
func renderOptions() report.Options {
	return report.Options{
		IncludeTerminals: viper.GetBool("terminals"),
		IncludeContent:   viper.GetBool("content"),
		LegacySelections: viper.GetBool("legacy-selections"),
		Compact:          viper.GetBool("compact"),
	}
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// printTabs lists tabs one per line, annotating pins. Terminals are
// filtered unless the terminals flag is set.
func printTabs(tabs []snapshot.Tab) {
	includeTerminals := viper.GetBool("terminals")
	for _, tab := range tabs {
		if tab.Kind == layout.KindTerminal && !includeTerminals {
			continue
		}
		if tab.Pinned {
			fmt.Printf("%s [pinned]\n", tab.Path)
		} else {
			fmt.Println(tab.Path)
		}
	}
}
