package main

import (
	"fmt"

	"github.com/aretw0/botforge"
	"github.com/aretw0/botforge/internal/adapters/file"
	"github.com/aretw0/botforge/internal/assembler"
	"github.com/aretw0/botforge/internal/cli"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <project> <node-id>",
	Short: "Print the generated block of one node",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		project, err := cli.LoadProject(cmd.Context(), file.NewLoader(args[0]), cfg)
		if err != nil {
			return err
		}

		res, err := botforge.New(botforge.WithLogger(logger)).Generate(cmd.Context(), *project)
		if err != nil {
			return err
		}
		block, err := assembler.ExtractBlock(res.Source, args[1])
		if err != nil {
			return fmt.Errorf("node %s: %w", args[1], err)
		}
		fmt.Fprint(cmd.OutOrStdout(), block)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
