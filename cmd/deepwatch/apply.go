package main

import (
	"context"

	"github.com/aretw0/deepwatch/internal/cli"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply <document> <script>",
	Short: "Apply a mutation script to a document",
	Long: `Observes a YAML or JSON document, runs the operations of a YAML script against
it and prints one line per change event, followed by the final document.

Script operations: set, silent, delete, push, pop, shift, unshift, splice,
reverse, length.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		noColor, _ := cmd.Flags().GetBool("no-color")
		quiet, _ := cmd.Flags().GetBool("quiet")
		format, _ := cmd.Flags().GetString("format")
		metrics, _ := cmd.Flags().GetBool("metrics")
		graph, _ := cmd.Flags().GetBool("graph")

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		return cli.Apply(ctx, cli.ApplyOptions{
			DocumentPath: args[0],
			ScriptPath:   args[1],
			Debug:        debug,
			Quiet:        quiet,
			NoColor:      noColor,
			Format:       cli.OutputFormat(format),
			Metrics:      metrics,
			Graph:        graph,
		}, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().BoolP("quiet", "q", false, "Do not print events, only the final document")
	applyCmd.Flags().StringP("format", "f", string(cli.FormatYAML), "Output format of the final document (yaml, json)")
	applyCmd.Flags().Bool("metrics", false, "Print Prometheus metrics to stderr when done")
	applyCmd.Flags().Bool("graph", false, "Append a Mermaid graph highlighting changed containers")
}
