package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrNotFound is returned when no discovered workspace owns a given file.
var ErrNotFound = errors.New("no workspace found for file")

// Workspace is one folder root tracked by the editor, together with the
// location of its persisted UI state. Rebuilt fresh on every invocation;
// nothing is cached across runs.
type Workspace struct {
	ID         string `json:"id"`          // storage subdirectory name (opaque hash)
	FolderPath string `json:"folder_path"` // absolute path of the workspace folder
	StorePath  string `json:"store_path"`  // absolute path of the state.vscdb store
}

// workspaceMeta mirrors the editor's workspace.json mapping document.
// Multi-root workspaces carry a "workspace" key instead of "folder";
// those have no single folder path and are skipped by Discover.
type workspaceMeta struct {
	Folder string `json:"folder"`
}

// DefaultStorageRoot returns the editor's workspaceStorage directory for
// the current platform. The result may not exist; Discover reports that.
func DefaultStorageRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Cursor", "User", "workspaceStorage")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Cursor", "User", "workspaceStorage")
	default:
		return filepath.Join(home, ".config", "Cursor", "User", "workspaceStorage")
	}
}

// Discover scans the storage root and returns one Workspace per
// subdirectory that carries both a parseable folder mapping and a state
// store. Entries that fail to load are skipped, never fatal. A missing
// root is the only error: it means there is nothing to inspect at all.
// Order follows directory enumeration order and is not part of the
// contract.
func Discover(root string) ([]Workspace, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage root %s: %w", root, err)
	}

	var workspaces []Workspace
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		dir := filepath.Join(root, entry.Name())
		folder, ok := loadFolderMapping(filepath.Join(dir, "workspace.json"))
		if !ok {
			continue
		}

		storePath := filepath.Join(dir, "state.vscdb")
		if _, err := os.Stat(storePath); err != nil {
			continue
		}

		workspaces = append(workspaces, Workspace{
			ID:         entry.Name(),
			FolderPath: folder,
			StorePath:  storePath,
		})
	}

	return workspaces, nil
}

// FindForFile resolves path to absolute form and returns the first
// workspace whose folder path is a textual prefix of it.
//
// The match is purely textual with no separator-boundary check: a
// workspace at /a/b also claims files under /a/bc/. This mirrors the
// editor's own matching behavior and is kept as observed; see DESIGN.md.
func FindForFile(path string, workspaces []Workspace) (Workspace, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	for _, ws := range workspaces {
		if strings.HasPrefix(abs, ws.FolderPath) {
			return ws, nil
		}
	}

	return Workspace{}, fmt.Errorf("%w: %s", ErrNotFound, abs)
}

// loadFolderMapping reads a workspace.json document and extracts the
// folder path from its file:// URI. Returns false for missing files,
// malformed JSON, multi-root workspaces, and non-file URIs alike.
func loadFolderMapping(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	var meta workspaceMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return "", false
	}
	if meta.Folder == "" {
		return "", false
	}

	return folderURIToPath(meta.Folder)
}

// folderURIToPath converts a file:// URI to a filesystem path,
// decoding percent escapes (spaces in folder names are common).
func folderURIToPath(uri string) (string, bool) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return "", false
	}
	if u.Path == "" {
		return "", false
	}
	return u.Path, true
}
