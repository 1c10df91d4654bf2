package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/deepwatch"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of deepwatch",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "deepwatch version %s\n", strings.TrimSpace(deepwatch.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
