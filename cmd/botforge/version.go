package main

import (
	"fmt"
	"os"

	"github.com/aretw0/botforge"
	"github.com/aretw0/botforge/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of botforge",
	Run: func(cmd *cobra.Command, args []string) {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			tui.PrintBanner(cmd.OutOrStdout(), botforge.Version)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "botforge version %s\n", botforge.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
