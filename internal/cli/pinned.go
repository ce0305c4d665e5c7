package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// pinnedCmd represents the pinned command
var pinnedCmd = &cobra.Command{
	Use:   "pinned <file>",
	Short: "List pinned tabs in the workspace owning a file",
	Long: `Pinned lists only the tabs the user has pinned (the sticky tabs at the
front of each editor group).

Example:
  edctx pinned ./main.go
`,
	Args: cobra.ExactArgs(1),
	RunE: runPinned,
}

func init() {
	rootCmd.AddCommand(pinnedCmd)
}

func runPinned(cmd *cobra.Command, args []string) error {
	snap, err := buildSnapshot(args[0])
	if err != nil {
		return err
	}

	if viper.GetBool("json") {
		return printJSON(snap.PinnedTabs)
	}

	printTabs(snap.PinnedTabs)
	return nil
}
