// Package mcp exposes the generator as Model Context Protocol tools so that
// assistants can build, check and inspect bot projects.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/botforge/internal/adapters/file"
	"github.com/aretw0/botforge/internal/assembler"
	"github.com/aretw0/botforge/internal/presentation/graph"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ProjectURI is the resource holding the loaded project.
const ProjectURI = "botforge://project"

// ProgramURI is the resource holding the program generated from the loaded project.
const ProgramURI = "botforge://program"

// ProjectArgs are the arguments shared by every tool. When Project is empty
// the server falls back to its loader.
type ProjectArgs struct {
	Project string `json:"project,omitempty"`
	NodeID  string `json:"node_id,omitempty"`
}

// ValidateResponse is the structured result of validate_project.
type ValidateResponse struct {
	Valid    bool        `json:"valid" jsonschema_description:"True when every node compiles"`
	Warnings []string    `json:"warnings,omitempty" jsonschema_description:"Non-fatal problems such as dangling connections"`
	Failures []NodeIssue `json:"failures,omitempty" jsonschema_description:"Nodes that could not be compiled"`
}

// NodeIssue describes one node that failed to compile.
type NodeIssue struct {
	ID      string `json:"id"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

// Server wraps a generator and exposes it as an MCP Server.
type Server struct {
	gen       ports.BotGenerator
	loader    ports.ProjectLoader
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. loader may be nil, in which
// case every tool call must carry a project.
func NewServer(gen ports.BotGenerator, loader ports.ProjectLoader, version string) *Server {
	s := &Server{
		gen:    gen,
		loader: loader,
		mcpServer: server.NewMCPServer("botforge-mcp", version,
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	s.registerTools()
	if loader != nil {
		s.registerResources()
	}
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx is canceled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	projectArg := mcp.WithString("project",
		mcp.Description("Project document as JSON. Defaults to the project the server was started with."))

	s.mcpServer.AddTool(mcp.NewTool("generate_bot",
		mcp.WithDescription("Compile a bot project into a Python aiogram program."),
		projectArg,
		mcp.WithOutputSchema[ports.Generation](),
	), mcp.NewStructuredToolHandler(s.handleGenerate))

	s.mcpServer.AddTool(mcp.NewTool("validate_project",
		mcp.WithDescription("Check that every node of a bot project compiles, listing failures and warnings."),
		projectArg,
		mcp.WithOutputSchema[ValidateResponse](),
	), mcp.NewStructuredToolHandler(s.handleValidate))

	s.mcpServer.AddTool(mcp.NewTool("render_graph",
		mcp.WithDescription("Render the flow of a bot project as a Mermaid flowchart."),
		projectArg,
		mcp.WithString("node_id", mcp.Description("Node to highlight (optional)")),
	), mcp.NewTypedToolHandler(s.handleGraph))

	s.mcpServer.AddTool(mcp.NewTool("extract_block",
		mcp.WithDescription("Return the generated Python block of a single node."),
		projectArg,
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Node whose block to return")),
	), mcp.NewTypedToolHandler(s.handleExtract))
}

func (s *Server) project(ctx context.Context, raw string) (*domain.Project, error) {
	if raw != "" {
		return file.Decode([]byte(raw), false)
	}
	if s.loader == nil {
		return nil, fmt.Errorf("no project given and no default project loaded")
	}
	return s.loader.Load(ctx)
}

func (s *Server) handleGenerate(ctx context.Context, _ mcp.CallToolRequest, args ProjectArgs) (ports.Generation, error) {
	project, err := s.project(ctx, args.Project)
	if err != nil {
		return ports.Generation{}, err
	}
	res, err := s.gen.Generate(ctx, *project)
	if err != nil {
		return ports.Generation{}, err
	}
	return *res, nil
}

func (s *Server) handleValidate(ctx context.Context, _ mcp.CallToolRequest, args ProjectArgs) (ValidateResponse, error) {
	project, err := s.project(ctx, args.Project)
	if err != nil {
		return ValidateResponse{}, err
	}

	warnings, err := s.gen.Validate(ctx, *project)
	if err == nil {
		return ValidateResponse{Valid: true, Warnings: warnings}, nil
	}

	var agg *assembler.AggregateError
	if errors.As(err, &agg) {
		resp := ValidateResponse{Warnings: warnings}
		for _, ne := range agg.Errors {
			resp.Failures = append(resp.Failures, NodeIssue{ID: ne.NodeID, Kind: string(ne.Kind), Message: ne.Err.Error()})
		}
		return resp, nil
	}
	if ids := domain.ErrorNodeIDs(err); len(ids) > 0 {
		resp := ValidateResponse{}
		for _, id := range ids {
			resp.Failures = append(resp.Failures, NodeIssue{ID: id, Message: err.Error()})
		}
		return resp, nil
	}
	return ValidateResponse{}, err
}

func (s *Server) handleGraph(ctx context.Context, _ mcp.CallToolRequest, args ProjectArgs) (*mcp.CallToolResult, error) {
	project, err := s.project(ctx, args.Project)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("load failed", err), nil
	}
	var overlay *graph.GraphOverlay
	if args.NodeID != "" {
		overlay = &graph.GraphOverlay{Selected: args.NodeID}
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(*project, overlay)), nil
}

func (s *Server) handleExtract(ctx context.Context, _ mcp.CallToolRequest, args ProjectArgs) (*mcp.CallToolResult, error) {
	project, err := s.project(ctx, args.Project)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("load failed", err), nil
	}
	res, err := s.gen.Generate(ctx, *project)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("generation failed", err), nil
	}
	block, err := assembler.ExtractBlock(res.Source, args.NodeID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("extract failed", err), nil
	}
	return mcp.NewToolResultText(block), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(ProjectURI, "Loaded bot project",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		project, err := s.loader.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load project: %w", err)
		}
		data, err := json.Marshal(project)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: ProjectURI, MIMEType: "application/json", Text: string(data)},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource(ProgramURI, "Generated Python program",
		mcp.WithMIMEType("text/x-python"),
	), func(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		project, err := s.loader.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load project: %w", err)
		}
		res, err := s.gen.Generate(ctx, *project)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: ProgramURI, MIMEType: "text/x-python", Text: res.Source},
		}, nil
	})
}
