package ports

import (
	"context"

	"github.com/aretw0/botforge/pkg/domain"
)

// Generation is the outcome of one successful generation pass.
type Generation struct {
	// RunID identifies the pass in logs and reports.
	RunID string `json:"runId"`
	// Source is the complete Python program.
	Source string `json:"source"`
	// Warnings lists recoverable problems (dangling connections, unknown
	// auto-transition targets). They never change Source.
	Warnings []string `json:"warnings,omitempty"`
	// Nodes is the number of compiled node blocks.
	Nodes int `json:"nodes"`
	// Cached reports whether Source came from a Cache.
	Cached bool `json:"cached"`
}

// BotGenerator is the primary port used by adapters (HTTP, MCP, CLI).
type BotGenerator interface {
	// Generate compiles project into a program. On failure no source is returned.
	Generate(ctx context.Context, project domain.Project) (*Generation, error)

	// Validate runs the full compilation but discards the program, returning
	// only the warnings.
	Validate(ctx context.Context, project domain.Project) ([]string, error)
}
