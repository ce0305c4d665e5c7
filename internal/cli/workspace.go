package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// workspaceCmd represents the workspace command
var workspaceCmd = &cobra.Command{
	Use:   "workspace <file>",
	Short: "Show the workspace owning a file",
	Long: `Workspace resolves which of the editor's tracked workspaces owns the
given file and prints its id, folder path, and state store location.

Example:
  edctx workspace ./main.go
`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkspace,
}

func init() {
	rootCmd.AddCommand(workspaceCmd)
}

func runWorkspace(cmd *cobra.Command, args []string) error {
	ws, err := resolveWorkspace(args[0])
	if err != nil {
		return err
	}

	if viper.GetBool("json") {
		return printJSON(ws)
	}

	fmt.Printf("Workspace: %s\n", ws.FolderPath)
	fmt.Printf("ID:        %s\n", ws.ID)
	fmt.Printf("Store:     %s\n", ws.StorePath)
	return nil
}
