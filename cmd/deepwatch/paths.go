package main

import (
	"github.com/aretw0/deepwatch/internal/cli"
	"github.com/spf13/cobra"
)

var pathsCmd = &cobra.Command{
	Use:   "paths <document>",
	Short: "List the path of every container in a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mermaid, _ := cmd.Flags().GetBool("mermaid")
		return cli.Paths(args[0], cmd.OutOrStdout(), mermaid)
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)

	pathsCmd.Flags().Bool("mermaid", false, "Print a Mermaid flowchart instead of a list")
}
