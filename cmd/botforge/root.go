package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/botforge/internal/cli"
	"github.com/aretw0/botforge/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "botforge",
	Short: "botforge compiles visual Telegram bot flows into Python programs",
	Long: `botforge reads a bot project (nodes, connections and options, as JSON or YAML)
and generates a single aiogram 3 Python program with one marked block per node.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a botforge.yaml config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only log warnings and errors")
}

// setup loads the config and builds the logger shared by every command.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	quiet, _ := cmd.Flags().GetBool("quiet")
	logger, err := cli.NewLogger(cfg, quiet)
	if err != nil {
		return cfg, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}
