// Package layout decodes the editor's persisted grid layout: a recursive
// tree of groups where every branch holds child groups and every leaf
// holds an ordered list of open tabs. The serialized form is owned by the
// editor and loosely structured, so parsing degrades per-entry instead of
// rejecting whole documents.
package layout

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// TabKind discriminates the tab payload variants we understand. Anything
// else the editor invents later falls into KindUnknown and is skipped.
type TabKind string

const (
	KindFile     TabKind = "file"
	KindTerminal TabKind = "terminal"
	KindUnknown  TabKind = "unknown"
)

// Editor input ids as persisted in the grid document.
const (
	fileEditorInputID = "workbench.editors.files.fileEditorInput"
	terminalEditorID  = "terminalEditor"
)

// Tab is one open entry in the editor layout, flattened out of its group.
type Tab struct {
	Path       string  `json:"path"` // file path, or a synthetic descriptor for terminals
	Kind       TabKind `json:"kind"`
	Pinned     bool    `json:"pinned"`
	GroupID    int64   `json:"group_id"`
	OrderIndex int     `json:"order_index"`
}

// CwdResolver resolves the current working directory of a live process.
// Implementations are best-effort and must not block for long; absent is
// the normal answer for processes that no longer exist.
type CwdResolver interface {
	ResolveProcessWorkingDirectory(pid int) (string, bool)
}

// editorPartState is the top level of the editorpart memento document.
type editorPartState struct {
	SerializedGrid struct {
		Root json.RawMessage `json:"root"`
	} `json:"serializedGrid"`
	ActiveGroup int64 `json:"activeGroup"`
}

// gridNode is the branch/leaf variant: branches carry child nodes in
// data, leaves carry a leafData payload.
type gridNode struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// leafData is one editor group: its tabs in display order, the group's
// most-recently-used index order, and the count of sticky (pinned) tabs
// at the front of the display order.
type leafData struct {
	ID      int64              `json:"id"`
	Editors []editorDescriptor `json:"editors"`
	MRU     []int              `json:"mru"`
	Sticky  int                `json:"sticky"`
}

// editorDescriptor wraps one tab: a kind id plus a separately-encoded
// JSON payload whose shape depends on the kind.
type editorDescriptor struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// ParseOpenTabs flattens the serialized grid into one ordered tab list.
// Leaves contribute their tabs in display order; branches contribute
// their children depth-first, left to right. Malformed documents and
// malformed individual entries both degrade to "fewer tabs", never to an
// error.
//
// resolver may be nil; terminal tabs then fall back to their recorded
// working directory.
func ParseOpenTabs(raw string, resolver CwdResolver) []Tab {
	root, ok := gridRoot(raw)
	if !ok {
		return nil
	}
	return flattenNode(root, resolver)
}

// ResolveActiveTab returns the file path of the currently focused tab:
// the head of the active group's MRU order. Terminal and unknown active
// tabs yield absent, since callers use this only to scope file
// selections.
func ResolveActiveTab(raw string) (string, bool) {
	var state editorPartState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return "", false
	}
	if len(state.SerializedGrid.Root) == 0 {
		return "", false
	}

	var rootNode gridNode
	if err := json.Unmarshal(state.SerializedGrid.Root, &rootNode); err != nil {
		return "", false
	}

	leaf, ok := findLeaf(rootNode, state.ActiveGroup)
	if !ok || len(leaf.MRU) == 0 {
		return "", false
	}

	activeIndex := leaf.MRU[0]
	if activeIndex < 0 || activeIndex >= len(leaf.Editors) {
		return "", false
	}

	desc := leaf.Editors[activeIndex]
	if kindForEditorID(desc.ID) != KindFile {
		return "", false
	}

	path := filePathFromPayload(desc.Value)
	if path == "" {
		return "", false
	}
	return path, true
}

// gridRoot unwraps the serializedGrid root node from the raw document.
func gridRoot(raw string) (gridNode, bool) {
	var state editorPartState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return gridNode{}, false
	}
	if len(state.SerializedGrid.Root) == 0 {
		return gridNode{}, false
	}

	var root gridNode
	if err := json.Unmarshal(state.SerializedGrid.Root, &root); err != nil {
		return gridNode{}, false
	}
	return root, true
}

// flattenNode traverses one node depth-first. Flattening a branch equals
// concatenating the flattened results of its children in order.
func flattenNode(node gridNode, resolver CwdResolver) []Tab {
	switch node.Type {
	case "branch":
		var children []gridNode
		if err := json.Unmarshal(node.Data, &children); err != nil {
			return nil
		}
		var tabs []Tab
		for _, child := range children {
			tabs = append(tabs, flattenNode(child, resolver)...)
		}
		return tabs

	case "leaf":
		var leaf leafData
		if err := json.Unmarshal(node.Data, &leaf); err != nil {
			return nil
		}
		return leafTabs(leaf, resolver)

	default:
		// Unknown node shapes never abort parsing.
		return nil
	}
}

// leafTabs converts one group's editor descriptors to tabs. A tab is
// pinned iff its display index is strictly below the group's sticky
// count.
func leafTabs(leaf leafData, resolver CwdResolver) []Tab {
	var tabs []Tab
	for i, desc := range leaf.Editors {
		tab, ok := tabFromDescriptor(desc, resolver)
		if !ok {
			continue
		}
		tab.GroupID = leaf.ID
		tab.OrderIndex = i
		tab.Pinned = i < leaf.Sticky
		tabs = append(tabs, tab)
	}
	return tabs
}

// tabFromDescriptor decodes a single tab payload. Unknown kinds and
// payloads missing their essential fields are skipped.
func tabFromDescriptor(desc editorDescriptor, resolver CwdResolver) (Tab, bool) {
	switch kindForEditorID(desc.ID) {
	case KindFile:
		path := filePathFromPayload(desc.Value)
		if path == "" {
			return Tab{}, false
		}
		return Tab{Path: path, Kind: KindFile}, true

	case KindTerminal:
		return terminalTab(desc.Value, resolver)

	default:
		return Tab{}, false
	}
}

// kindForEditorID maps the persisted editor input id to a closed variant.
func kindForEditorID(id string) TabKind {
	switch id {
	case fileEditorInputID:
		return KindFile
	case terminalEditorID:
		return KindTerminal
	default:
		return KindUnknown
	}
}

// filePathFromPayload digs the absolute path out of a file tab's
// separately-encoded resource descriptor. The field has moved around
// between editor versions, so several locations are tried.
func filePathFromPayload(payload string) string {
	if !gjson.Valid(payload) {
		return ""
	}
	for _, key := range []string{"resourceJSON.fsPath", "resourceJSON.path", "resource.fsPath"} {
		if v := gjson.Get(payload, key); v.Exists() && v.Str != "" {
			return v.Str
		}
	}
	return ""
}

// terminalTab builds the synthetic descriptor for a terminal tab. The
// live working directory of the shell process is preferred over the one
// recorded at serialization time, since the user may have cd'd since.
func terminalTab(payload string, resolver CwdResolver) (Tab, bool) {
	if !gjson.Valid(payload) {
		return Tab{}, false
	}

	title := gjson.Get(payload, "title").Str
	if title == "" {
		title = "terminal"
	}

	cwd := gjson.Get(payload, "cwd").Str
	if pid := gjson.Get(payload, "pid"); pid.Exists() && pid.Int() > 0 && resolver != nil {
		if live, ok := resolver.ResolveProcessWorkingDirectory(int(pid.Int())); ok {
			cwd = live
		}
	}

	path := "[terminal] " + title
	if cwd != "" {
		path = fmt.Sprintf("[terminal] %s (%s)", title, cwd)
	}
	return Tab{Path: path, Kind: KindTerminal}, true
}

// findLeaf locates the leaf with the given group id, depth-first.
func findLeaf(node gridNode, groupID int64) (leafData, bool) {
	switch node.Type {
	case "branch":
		var children []gridNode
		if err := json.Unmarshal(node.Data, &children); err != nil {
			return leafData{}, false
		}
		for _, child := range children {
			if leaf, ok := findLeaf(child, groupID); ok {
				return leaf, true
			}
		}
		return leafData{}, false

	case "leaf":
		var leaf leafData
		if err := json.Unmarshal(node.Data, &leaf); err != nil {
			return leafData{}, false
		}
		if leaf.ID != groupID {
			return leafData{}, false
		}
		return leaf, true

	default:
		return leafData{}, false
	}
}
