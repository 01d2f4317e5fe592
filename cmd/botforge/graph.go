package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/botforge"
	"github.com/aretw0/botforge/internal/adapters/file"
	"github.com/aretw0/botforge/internal/assembler"
	"github.com/aretw0/botforge/internal/cli"
	"github.com/aretw0/botforge/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <project>",
	Short: "Export the flow graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the bot flow. Nodes that fail to compile are highlighted.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		project, err := cli.LoadProject(cmd.Context(), file.NewLoader(args[0]), cfg)
		if err != nil {
			return err
		}

		overlay := &graph.GraphOverlay{}
		overlay.Selected, _ = cmd.Flags().GetString("highlight")
		if _, err := botforge.New(botforge.WithLogger(logger)).Validate(cmd.Context(), *project); err != nil {
			var agg *assembler.AggregateError
			if errors.As(err, &agg) {
				overlay.FailedNodes = agg.NodeIDs()
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(*project, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("highlight", "", "Node id to highlight")
}
