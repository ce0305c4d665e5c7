package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/editor-context/internal/procinfo"
	"github.com/mvp-joe/editor-context/internal/report"
	"github.com/mvp-joe/editor-context/internal/snapshot"
	"github.com/mvp-joe/editor-context/internal/workspace"
)

// AddEditorContextTool registers the editor_context tool with an MCP
// server. Composable with other tool registrations.
func AddEditorContextTool(s *server.MCPServer, storageRoot string) {
	tool := mcp.NewTool(
		"editor_context",
		mcp.WithDescription("Inspect the editor's current UI state for the workspace owning a file: open tabs, pinned tabs, the active file, and text selections. Returns a JSON snapshot."),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Absolute path of a file inside the workspace to inspect")),
		mcp.WithBoolean("include_content",
			mcp.Description("Materialize selected text from the live files (default: false)")),
		mcp.WithBoolean("all_selections",
			mcp.Description("Report selections for every open file instead of only the active one (default: false)")),
	)

	s.AddTool(tool, createEditorContextHandler(storageRoot))
}

// createEditorContextHandler creates the handler for editor_context.
func createEditorContextHandler(storageRoot string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		file, ok := argsMap["file"].(string)
		if !ok || file == "" {
			return mcp.NewToolResultError("file parameter is required"), nil
		}

		includeContent, _ := argsMap["include_content"].(bool)
		allSelections, _ := argsMap["all_selections"].(bool)

		workspaces, err := workspace.Discover(storageRoot)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		ws, err := workspace.FindForFile(file, workspaces)
		if err != nil {
			if errors.Is(err, workspace.ErrNotFound) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return nil, err
		}

		snap := snapshot.Build(ws, snapshot.Options{
			IncludeContent: includeContent,
			ActiveFileOnly: !allSelections,
			CwdResolver:    procinfo.Resolver{},
		})

		jsonData, err := report.RenderJSON(snap)
		if err != nil {
			return nil, err
		}

		return mcp.NewToolResultText(jsonData), nil
	}
}
