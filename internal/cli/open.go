package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// openCmd represents the open command
var openCmd = &cobra.Command{
	Use:   "open <file>",
	Short: "List open tabs in the workspace owning a file",
	Long: `Open lists every tab the editor currently has open in the workspace
that owns the given file, in layout order. Pinned tabs are annotated.
Terminal tabs are hidden unless --terminals is set.

Examples:
  # Open tabs for the workspace containing main.go
  edctx open ./main.go

  # Include terminal tabs, machine-readable
  edctx open --terminals --json ./main.go
`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	snap, err := buildSnapshot(args[0])
	if err != nil {
		return err
	}

	if viper.GetBool("json") {
		return printJSON(snap.Tabs)
	}

	printTabs(snap.Tabs)
	return nil
}
