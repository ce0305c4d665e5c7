package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mvp-joe/editor-context/internal/report"
)

// selectionsCmd represents the selections command
var selectionsCmd = &cobra.Command{
	Use:   "selections <file>",
	Short: "Show recorded text selections",
	Long: `Selections shows the text selections the editor has recorded, scoped to
the active file by default. Ranges are 1-based line/column spans.

Examples:
  # Selections in the currently active file
  edctx selections ./main.go

  # Selections in every open file, with the selected text inlined
  edctx selections --all-selections --content ./main.go
`,
	Args: cobra.ExactArgs(1),
	RunE: runSelections,
}

func init() {
	rootCmd.AddCommand(selectionsCmd)
}

func runSelections(cmd *cobra.Command, args []string) error {
	snap, err := buildSnapshot(args[0])
	if err != nil {
		return err
	}

	if viper.GetBool("json") {
		return printJSON(snap.Selections)
	}

	fmt.Print(report.RenderSelections(snap.Selections, renderOptions()))
	return nil
}
