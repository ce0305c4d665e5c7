package cli

import (
	"github.com/spf13/cobra"

	"github.com/mvp-joe/editor-context/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve editor context over MCP on stdio",
	Long: `Mcp starts a Model Context Protocol server on stdio exposing the
editor_context tool, so AI assistants can query the editor's UI state
directly. Each tool call re-reads the state fresh; nothing is cached
between calls.

Example Claude Desktop / MCP client configuration:
  { "command": "edctx", "args": ["mcp"] }
`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	server := mcp.NewServer(storageRoot())
	return server.Serve(cmd.Context())
}
