package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "edctx",
	Short: "Inspect the editor's persisted workspace state",
	Long: `edctx reads the editor's persisted UI state (open tabs, pinned tabs,
text selections, active file) for the workspace owning a given file and
renders it as text or JSON for AI assistants and scripts.

It is read-only and best-effort: state the editor has not flushed yet, or
documents it has changed the shape of, degrade to empty sections rather
than errors.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.edctx.yaml)")
	rootCmd.PersistentFlags().String("storage-root", "", "editor workspaceStorage directory (default: per-OS location)")
	rootCmd.PersistentFlags().Bool("json", false, "emit the machine-readable JSON snapshot")
	rootCmd.PersistentFlags().Bool("content", false, "include the selected text, read from the live files")
	rootCmd.PersistentFlags().Bool("terminals", false, "include terminal tabs in listings")
	rootCmd.PersistentFlags().Bool("legacy-selections", false, "use the old (line,col)-(line,col) range syntax")
	rootCmd.PersistentFlags().Bool("all-selections", false, "report selections for every open file, not just the active one")
	rootCmd.PersistentFlags().Bool("compact", false, "annotate pins inline and omit empty sections")
	rootCmd.PersistentFlags().Bool("no-refresh", false, "skip nudging the editor to flush state before reading")

	for _, flag := range []string{
		"storage-root", "json", "content", "terminals",
		"legacy-selections", "all-selections", "compact", "no-refresh",
	} {
		viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".edctx")
	}

	viper.SetEnvPrefix("EDCTX")
	viper.AutomaticEnv()

	// Config file is optional; ignore a missing one.
	_ = viper.ReadInConfig()
}
