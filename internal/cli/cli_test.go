package cli

// Test plan for the CLI commands:
// 1. workspace command resolves and prints the owning workspace
// 2. open command lists tabs with pin annotations, hiding terminals
// 3. pinned command lists only pinned tabs
// 4. raw --json emits the stable snapshot fields
// 5. selections command prints normalized ranges
// 6. commands fail with an error when no workspace owns the file

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/editor-context/internal/snapshot"
)

// captureStdout runs fn while redirecting os.Stdout to a buffer.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	runErr := fn()

	require.NoError(t, w.Close())
	os.Stdout = old

	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)

	return buf.String(), runErr
}

// setupStorage builds a storage root holding one workspace whose store
// has a two-tab layout (README.md pinned, main.go active with one
// selection) and points the CLI flags at it.
func setupStorage(t *testing.T) (folder string) {
	t.Helper()

	root := t.TempDir()
	folder = t.TempDir()

	mainGo := filepath.Join(folder, "main.go")
	require.NoError(t, os.WriteFile(mainGo, []byte("package main\n\nfunc main() {}\n"), 0644))

	wsDir := filepath.Join(root, "deadbeef")
	require.NoError(t, os.MkdirAll(wsDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(wsDir, "workspace.json"),
		[]byte(`{"folder":"file://`+folder+`"}`), 0644))

	readmeValue, err := json.Marshal(map[string]any{
		"resourceJSON": map[string]any{"fsPath": filepath.Join(folder, "README.md"), "scheme": "file"},
	})
	require.NoError(t, err)
	mainValue, err := json.Marshal(map[string]any{
		"resourceJSON": map[string]any{"fsPath": mainGo, "scheme": "file"},
	})
	require.NoError(t, err)

	layoutRaw, err := json.Marshal(map[string]any{
		"serializedGrid": map[string]any{
			"root": map[string]any{
				"type": "leaf",
				"data": map[string]any{
					"id": 1,
					"editors": []map[string]any{
						{"id": "workbench.editors.files.fileEditorInput", "value": string(readmeValue)},
						{"id": "workbench.editors.files.fileEditorInput", "value": string(mainValue)},
					},
					"mru":    []int{1, 0},
					"sticky": 1,
				},
			},
		},
		"activeGroup": 1,
	})
	require.NoError(t, err)

	selectionsRaw, err := json.Marshal(map[string]any{
		"textEditorViewState": []any{
			[]any{"file://" + mainGo, map[string]any{
				"0": map[string]any{"cursorState": []map[string]any{{
					"inSelectionMode": true,
					"selectionStart":  map[string]any{"lineNumber": 3, "column": 6},
					"position":        map[string]any{"lineNumber": 3, "column": 10},
				}}},
			}},
		},
	})
	require.NoError(t, err)

	dbPath := filepath.Join(wsDir, "state.vscdb")
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(`CREATE TABLE ItemTable (key TEXT UNIQUE ON CONFLICT REPLACE, value BLOB)`)
	require.NoError(t, err)
	for key, value := range map[string]string{
		snapshot.LayoutKey:     string(layoutRaw),
		snapshot.SelectionsKey: string(selectionsRaw),
	} {
		_, err = sq.Insert("ItemTable").Columns("key", "value").Values(key, value).RunWith(db).Exec()
		require.NoError(t, err)
	}

	viper.Set("storage-root", root)
	viper.Set("no-refresh", true)
	t.Cleanup(func() {
		viper.Set("storage-root", "")
		viper.Set("no-refresh", false)
		viper.Set("json", false)
	})

	return folder
}

func TestWorkspaceCommand(t *testing.T) {
	// Note: Cannot use t.Parallel() because tests manipulate os.Stdout
	// and shared viper state.

	folder := setupStorage(t)

	out, err := captureStdout(t, func() error {
		return runWorkspace(workspaceCmd, []string{filepath.Join(folder, "main.go")})
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Workspace: "+folder)
	assert.Contains(t, out, "ID:        deadbeef")
}

func TestOpenCommand(t *testing.T) {
	folder := setupStorage(t)

	out, err := captureStdout(t, func() error {
		return runOpen(openCmd, []string{filepath.Join(folder, "main.go")})
	})
	require.NoError(t, err)
	assert.Contains(t, out, "README.md [pinned]")
	assert.Contains(t, out, "main.go")
}

func TestPinnedCommand(t *testing.T) {
	folder := setupStorage(t)

	out, err := captureStdout(t, func() error {
		return runPinned(pinnedCmd, []string{filepath.Join(folder, "main.go")})
	})
	require.NoError(t, err)
	assert.Contains(t, out, "README.md [pinned]")
	assert.NotContains(t, out, "main.go")
}

func TestRawJSONCommand(t *testing.T) {
	folder := setupStorage(t)
	viper.Set("json", true)

	out, err := captureStdout(t, func() error {
		return runRaw(rawCmd, []string{filepath.Join(folder, "main.go")})
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Contains(t, decoded, "workspace")
	assert.Contains(t, decoded, "tabs")
	assert.Contains(t, decoded, "pinned_tabs")
	assert.Contains(t, decoded, "selections")
}

func TestSelectionsCommand(t *testing.T) {
	folder := setupStorage(t)

	out, err := captureStdout(t, func() error {
		return runSelections(selectionsCmd, []string{filepath.Join(folder, "main.go")})
	})
	require.NoError(t, err)
	assert.Contains(t, out, "main.go")
	assert.Contains(t, out, "L3:C6-L3:C10")
}

func TestNoWorkspaceForFile(t *testing.T) {
	setupStorage(t)

	_, err := captureStdout(t, func() error {
		return runOpen(openCmd, []string{"/somewhere/else/entirely.go"})
	})
	assert.Error(t, err)
}

func TestMissingStorageRoot(t *testing.T) {
	viper.Set("storage-root", filepath.Join(t.TempDir(), "nope"))
	viper.Set("no-refresh", true)
	t.Cleanup(func() {
		viper.Set("storage-root", "")
		viper.Set("no-refresh", false)
	})

	_, err := captureStdout(t, func() error {
		return runWorkspace(workspaceCmd, []string{"/any/file.go"})
	})
	assert.Error(t, err)
}
