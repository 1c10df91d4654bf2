package main

import (
	"fmt"
	"os"

	"github.com/aretw0/deepwatch/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "deepwatch",
	Short: "deepwatch observes nested documents and reports every change",
	Long: `deepwatch wraps YAML or JSON documents in a deep observer, applies mutation
scripts to them and prints one event per change with its full path.`,
	Run: func(cmd *cobra.Command, args []string) {
		noColor, _ := cmd.Flags().GetBool("no-color")
		if !noColor {
			tui.PrintBanner(cmd.OutOrStdout())
		}
		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("debug", false, "Log observer bookkeeping to stderr")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.SilenceUsage = true
}
