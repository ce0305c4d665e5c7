// Package selection decodes the editor's persisted per-file cursor state
// into normalized selection ranges and, on demand, slices the selected
// text out of the live file.
package selection

import (
	"encoding/json"
	"net/url"
	"os"
	"sort"
	"strings"
)

// Range is a selected span in 1-based line/column coordinates, inclusive
// of the end column's character. After normalization the start never
// sorts after the end.
type Range struct {
	StartLine int `json:"start_line"`
	StartCol  int `json:"start_col"`
	EndLine   int `json:"end_line"`
	EndCol    int `json:"end_col"`
}

// FileSelections groups the selection ranges recorded for one file.
type FileSelections struct {
	Path   string  `json:"path"`
	Ranges []Range `json:"ranges"`
}

// RangeContent is a range materialized against the current file content.
type RangeContent struct {
	Range     Range  `json:"range"`
	Text      string `json:"text"`
	LineCount int    `json:"line_count"`
}

// position is the editor's persisted caret coordinate.
type position struct {
	LineNumber int `json:"lineNumber"`
	Column     int `json:"column"`
}

// cursorState is one persisted cursor descriptor. A real selection
// requires inSelectionMode and an anchor that differs from the position;
// equal anchor and position is just a caret.
type cursorState struct {
	InSelectionMode bool     `json:"inSelectionMode"`
	SelectionStart  position `json:"selectionStart"`
	Position        position `json:"position"`
}

// viewState is one named editor-view state for a file.
type viewState struct {
	CursorState []cursorState `json:"cursorState"`
}

// selectionDocument is the textFileEditor memento: a list of
// [uri, {viewId: viewState}] pairs.
type selectionDocument struct {
	TextEditorViewState []json.RawMessage `json:"textEditorViewState"`
}

// Parse decodes the raw selection-state document into per-file range
// lists. Files whose entries are malformed are skipped; a fully
// malformed document yields nil. Ranges are normalized so start <= end
// regardless of drag direction, and caret-only entries are excluded.
func Parse(raw string) []FileSelections {
	var doc selectionDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil
	}

	var result []FileSelections
	for _, entry := range doc.TextEditorViewState {
		fs, ok := parseEntry(entry)
		if !ok {
			continue
		}
		result = append(result, fs)
	}
	return result
}

// parseEntry decodes one [uri, viewStates] pair. All view states for the
// file contribute ranges, visited in sorted view-id order so output is
// deterministic.
func parseEntry(entry json.RawMessage) (FileSelections, bool) {
	var pair []json.RawMessage
	if err := json.Unmarshal(entry, &pair); err != nil || len(pair) != 2 {
		return FileSelections{}, false
	}

	var uri string
	if err := json.Unmarshal(pair[0], &uri); err != nil {
		return FileSelections{}, false
	}
	path, ok := fileURIToPath(uri)
	if !ok {
		return FileSelections{}, false
	}

	var views map[string]viewState
	if err := json.Unmarshal(pair[1], &views); err != nil {
		return FileSelections{}, false
	}

	viewIDs := make([]string, 0, len(views))
	for id := range views {
		viewIDs = append(viewIDs, id)
	}
	sort.Strings(viewIDs)

	var ranges []Range
	for _, id := range viewIDs {
		for _, cs := range views[id].CursorState {
			if r, ok := normalizeCursor(cs); ok {
				ranges = append(ranges, r)
			}
		}
	}
	if len(ranges) == 0 {
		return FileSelections{}, false
	}

	return FileSelections{Path: path, Ranges: ranges}, true
}

// normalizeCursor turns a cursor descriptor into a normalized range.
// Returns false for caret-only descriptors.
func normalizeCursor(cs cursorState) (Range, bool) {
	if !cs.InSelectionMode {
		return Range{}, false
	}
	anchor, pos := cs.SelectionStart, cs.Position
	if anchor == pos {
		return Range{}, false
	}

	start, end := anchor, pos
	if lessPosition(pos, anchor) {
		start, end = pos, anchor
	}

	return Range{
		StartLine: start.LineNumber,
		StartCol:  start.Column,
		EndLine:   end.LineNumber,
		EndCol:    end.Column,
	}, true
}

// lessPosition orders positions lexicographically by (line, column).
func lessPosition(a, b position) bool {
	if a.LineNumber != b.LineNumber {
		return a.LineNumber < b.LineNumber
	}
	return a.Column < b.Column
}

// ExtractContent re-reads the file and slices out the text each range
// covers. Ranges that fall outside the current file length and ranges
// whose text is empty or whitespace-only are dropped. Returns false only
// when the file itself cannot be read.
func ExtractContent(path string, ranges []Range) ([]RangeContent, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	lines := strings.Split(string(data), "\n")

	var result []RangeContent
	for _, r := range ranges {
		text, ok := sliceRange(lines, r)
		if !ok || strings.TrimSpace(text) == "" {
			continue
		}
		result = append(result, RangeContent{
			Range:     r,
			Text:      text,
			LineCount: r.EndLine - r.StartLine + 1,
		})
	}
	return result, true
}

// sliceRange extracts a range's text from the file's lines. Single-line
// ranges take a column substring; multi-line ranges join the tail of the
// start line, the interior lines, and the head of the end line. Columns
// are clamped to the current line lengths; lines beyond the file are a
// stale range and fail the slice.
func sliceRange(lines []string, r Range) (string, bool) {
	if r.StartLine < 1 || r.EndLine < r.StartLine || r.EndLine > len(lines) {
		return "", false
	}

	if r.StartLine == r.EndLine {
		line := lines[r.StartLine-1]
		lo := clamp(r.StartCol-1, 0, len(line))
		hi := clamp(r.EndCol, 0, len(line))
		if lo >= hi {
			return "", false
		}
		return line[lo:hi], true
	}

	parts := make([]string, 0, r.EndLine-r.StartLine+1)

	first := lines[r.StartLine-1]
	parts = append(parts, first[clamp(r.StartCol-1, 0, len(first)):])

	for i := r.StartLine; i < r.EndLine-1; i++ {
		parts = append(parts, lines[i])
	}

	last := lines[r.EndLine-1]
	parts = append(parts, last[:clamp(r.EndCol, 0, len(last))])

	return strings.Join(parts, "\n"), true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// fileURIToPath converts a file:// URI to a filesystem path.
func fileURIToPath(uri string) (string, bool) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" || u.Path == "" {
		return "", false
	}
	return u.Path, true
}
