package selection

// Test Plan:
// - Parse records a range only for inSelectionMode with anchor != position
// - backward selections normalize so start <= end lexicographically
// - swapping anchor and position yields identical output
// - multiple view states for one file contribute multiple ranges, in
//   deterministic order
// - malformed documents and non-file URIs degrade to nothing
// - ExtractContent round-trips known ranges against a fixture file
// - stale ranges and whitespace-only slices are dropped
// - unreadable files return absent

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// selectionEntry builds one [uri, viewStates] pair for the fixture doc.
func selectionEntry(uri string, views map[string]any) []any {
	return []any{uri, views}
}

// cursor builds a cursorState payload.
func cursor(inSelection bool, anchorLine, anchorCol, posLine, posCol int) map[string]any {
	return map[string]any{
		"inSelectionMode": inSelection,
		"selectionStart":  map[string]any{"lineNumber": anchorLine, "column": anchorCol},
		"position":        map[string]any{"lineNumber": posLine, "column": posCol},
	}
}

// view wraps cursor states into a view state.
func view(cursors ...map[string]any) map[string]any {
	return map[string]any{"cursorState": cursors}
}

// selectionDoc marshals entries into the textFileEditor memento shape.
func selectionDoc(t *testing.T, entries ...[]any) string {
	t.Helper()
	data, err := json.Marshal(map[string]any{"textEditorViewState": entries})
	require.NoError(t, err)
	return string(data)
}

func TestParseForwardSelection(t *testing.T) {
	t.Parallel()

	raw := selectionDoc(t, selectionEntry("file:///repo/a.go", map[string]any{
		"0": view(cursor(true, 2, 1, 4, 10)),
	}))

	result := Parse(raw)
	require.Len(t, result, 1)
	assert.Equal(t, "/repo/a.go", result[0].Path)
	require.Len(t, result[0].Ranges, 1)
	assert.Equal(t, Range{StartLine: 2, StartCol: 1, EndLine: 4, EndCol: 10}, result[0].Ranges[0])
}

func TestParseBackwardSelectionNormalized(t *testing.T) {
	t.Parallel()

	// Anchor (10,5), position (8,1): user dragged upward.
	raw := selectionDoc(t, selectionEntry("file:///repo/a.go", map[string]any{
		"0": view(cursor(true, 10, 5, 8, 1)),
	}))

	result := Parse(raw)
	require.Len(t, result, 1)
	require.Len(t, result[0].Ranges, 1)
	assert.Equal(t, Range{StartLine: 8, StartCol: 1, EndLine: 10, EndCol: 5}, result[0].Ranges[0])
}

func TestParseDirectionIndependence(t *testing.T) {
	t.Parallel()

	forward := selectionDoc(t, selectionEntry("file:///repo/a.go", map[string]any{
		"0": view(cursor(true, 3, 2, 7, 9)),
	}))
	backward := selectionDoc(t, selectionEntry("file:///repo/a.go", map[string]any{
		"0": view(cursor(true, 7, 9, 3, 2)),
	}))

	assert.Equal(t, Parse(forward), Parse(backward))
}

func TestParseSameLineBackward(t *testing.T) {
	t.Parallel()

	raw := selectionDoc(t, selectionEntry("file:///repo/a.go", map[string]any{
		"0": view(cursor(true, 5, 20, 5, 3)),
	}))

	result := Parse(raw)
	require.Len(t, result, 1)
	assert.Equal(t, Range{StartLine: 5, StartCol: 3, EndLine: 5, EndCol: 20}, result[0].Ranges[0])
}

func TestParseExcludesCursorOnly(t *testing.T) {
	t.Parallel()

	raw := selectionDoc(t,
		// Anchor equals position: a caret, not a selection.
		selectionEntry("file:///repo/caret.go", map[string]any{
			"0": view(cursor(true, 4, 7, 4, 7)),
		}),
		// Not in selection mode at all.
		selectionEntry("file:///repo/nomode.go", map[string]any{
			"0": view(cursor(false, 1, 1, 9, 9)),
		}),
	)

	assert.Empty(t, Parse(raw))
}

func TestParseMultipleViewStates(t *testing.T) {
	t.Parallel()

	raw := selectionDoc(t, selectionEntry("file:///repo/a.go", map[string]any{
		"1": view(cursor(true, 20, 1, 22, 5)),
		"0": view(cursor(true, 2, 1, 3, 4)),
	}))

	result := Parse(raw)
	require.Len(t, result, 1)
	require.Len(t, result[0].Ranges, 2)
	// View ids are visited in sorted order.
	assert.Equal(t, Range{StartLine: 2, StartCol: 1, EndLine: 3, EndCol: 4}, result[0].Ranges[0])
	assert.Equal(t, Range{StartLine: 20, StartCol: 1, EndLine: 22, EndCol: 5}, result[0].Ranges[1])
}

func TestParseDegradesToNothing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "{{{"},
		{name: "empty object", raw: "{}"},
		{name: "empty string", raw: ""},
		{name: "wrong shape", raw: `{"textEditorViewState":"nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Empty(t, Parse(tt.raw))
		})
	}
}

func TestParseSkipsNonFileURIs(t *testing.T) {
	t.Parallel()

	raw := selectionDoc(t,
		selectionEntry("untitled:Untitled-1", map[string]any{
			"0": view(cursor(true, 1, 1, 2, 2)),
		}),
		selectionEntry("file:///repo/kept.go", map[string]any{
			"0": view(cursor(true, 1, 1, 2, 2)),
		}),
	)

	result := Parse(raw)
	require.Len(t, result, 1)
	assert.Equal(t, "/repo/kept.go", result[0].Path)
}

// writeFixture writes a five-line Go-ish file used by the slicing tests.
func writeFixture(t *testing.T) string {
	t.Helper()
	content := "package main\n" +
		"\n" +
		"func main() {\n" +
		"\tfmt.Println(\"hello\")\n" +
		"}\n"
	path := filepath.Join(t.TempDir(), "main.go")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExtractContentSingleLine(t *testing.T) {
	t.Parallel()

	path := writeFixture(t)
	result, ok := ExtractContent(path, []Range{
		{StartLine: 4, StartCol: 2, EndLine: 4, EndCol: 12},
	})
	require.True(t, ok)
	require.Len(t, result, 1)
	assert.Equal(t, "fmt.Println", result[0].Text)
	assert.Equal(t, 1, result[0].LineCount)
}

func TestExtractContentMultiLine(t *testing.T) {
	t.Parallel()

	path := writeFixture(t)
	result, ok := ExtractContent(path, []Range{
		{StartLine: 3, StartCol: 1, EndLine: 5, EndCol: 1},
	})
	require.True(t, ok)
	require.Len(t, result, 1)
	assert.Equal(t, "func main() {\n\tfmt.Println(\"hello\")\n}", result[0].Text)
	assert.Equal(t, 3, result[0].LineCount)
}

func TestExtractContentDropsStaleAndBlank(t *testing.T) {
	t.Parallel()

	path := writeFixture(t)
	result, ok := ExtractContent(path, []Range{
		// Beyond the end of the file: stale range from an older revision.
		{StartLine: 40, StartCol: 1, EndLine: 42, EndCol: 1},
		// Covers only the blank line 2.
		{StartLine: 2, StartCol: 1, EndLine: 2, EndCol: 1},
		// Survives.
		{StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 7},
	})
	require.True(t, ok)
	require.Len(t, result, 1)
	assert.Equal(t, "package", result[0].Text)
}

func TestExtractContentUnreadableFile(t *testing.T) {
	t.Parallel()

	_, ok := ExtractContent(filepath.Join(t.TempDir(), "gone.go"), []Range{
		{StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 2},
	})
	assert.False(t, ok)
}

func TestExtractContentColumnClamping(t *testing.T) {
	t.Parallel()

	path := writeFixture(t)
	// End column far past the end of line 1: clamp to the line length.
	result, ok := ExtractContent(path, []Range{
		{StartLine: 1, StartCol: 9, EndLine: 1, EndCol: 500},
	})
	require.True(t, ok)
	require.Len(t, result, 1)
	assert.Equal(t, "main", result[0].Text)
}
