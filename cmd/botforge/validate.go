package main

import (
	"fmt"

	"github.com/aretw0/botforge"
	"github.com/aretw0/botforge/internal/adapters/file"
	"github.com/aretw0/botforge/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <project>",
	Short: "Check that every node of the project compiles",
	Long:  `Compiles the project without writing it and reports failing nodes, dangling connections and unresolved auto-transitions.`,
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

		warnings, err := botforge.New(botforge.WithLogger(logger)).Validate(cmd.Context(), *project)
		for _, w := range warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
		}
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Project is valid! ✅ (%d nodes)\n", len(project.Nodes))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
