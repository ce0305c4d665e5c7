package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mvp-joe/editor-context/internal/report"
)

// rawCmd represents the raw command
var rawCmd = &cobra.Command{
	Use:   "raw <file>",
	Short: "Show the full context snapshot",
	Long: `Raw builds the complete context snapshot for the workspace owning the
given file: workspace, open tabs, pinned tabs, active file, and
selections. Text by default; --json emits the stable machine-readable
form.

Examples:
  # Human/LLM-readable report
  edctx raw ./main.go

  # Full snapshot for a script
  edctx raw --json --all-selections --content ./main.go
`,
	Args: cobra.ExactArgs(1),
	RunE: runRaw,
}

func init() {
	rootCmd.AddCommand(rawCmd)
}

func runRaw(cmd *cobra.Command, args []string) error {
	snap, err := buildSnapshot(args[0])
	if err != nil {
		return err
	}

	if viper.GetBool("json") {
		out, err := report.RenderJSON(snap)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}

	fmt.Print(report.Render(snap, renderOptions()))
	return nil
}
