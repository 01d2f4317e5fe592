package main

import (
	"github.com/aretw0/botforge/internal/cli"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <project>",
	Short: "Generate the Python bot program",
	Long: `Compiles the project into a Python program. The program is printed to
stdout unless --out is given. With --watch the program is regenerated on every
change of the project file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("out")
		watch, _ := cmd.Flags().GetBool("watch")
		report, _ := cmd.Flags().GetBool("report")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		gen, closeCache, err := cli.NewGenerator(ctx, cfg, logger, nil)
		if err != nil {
			return err
		}
		defer closeCache()

		opts := cli.GenerateOptions{
			ProjectPath: args[0],
			OutPath:     out,
			Report:      report,
			Stdout:      cmd.OutOrStdout(),
			ReportOut:   cmd.ErrOrStderr(),
		}
		if watch {
			return cli.RunWatch(ctx, gen, cfg, opts, logger)
		}
		_, err = cli.RunGenerate(ctx, gen, cfg, opts, logger)
		return err
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringP("out", "o", "", "Write the program to this file instead of stdout")
	generateCmd.Flags().BoolP("watch", "w", false, "Regenerate when the project file changes (requires --out)")
	generateCmd.Flags().Bool("report", false, "Print a generation report to stderr")
	generateCmd.MarkFlagsRequiredTogether("watch", "out")
}
