package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aretw0/botforge"
	"github.com/aretw0/botforge/internal/adapters/file"
	"github.com/aretw0/botforge/internal/adapters/mcp"
	"github.com/aretw0/botforge/internal/cli"
	"github.com/aretw0/botforge/pkg/ports"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp [project]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes botforge as MCP tools (generate_bot, validate_project, render_graph,
extract_block). When a project path is given it becomes the default project and
is also published as the botforge://project and botforge://program resources.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		gen, closeCache, err := cli.NewGenerator(ctx, cfg, logger, nil)
		if err != nil {
			return err
		}
		defer closeCache()

		var loader ports.ProjectLoader
		if len(args) > 0 {
			loader = file.NewLoader(args[0])
		}
		srv := mcp.NewServer(gen, loader, botforge.Version)

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			slog.Info("Starting botforge MCP Server (Stdio)...")
			return srv.ServeStdio()
		case "sse":
			slog.Info("Starting botforge MCP Server (SSE)", "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			slog.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
