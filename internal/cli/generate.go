// Package cli implements the botforge commands on top of the generator, the
// file adapter and the terminal presentation.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/botforge/internal/adapters/file"
	"github.com/aretw0/botforge/internal/config"
	"github.com/aretw0/botforge/internal/presentation/tui"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/ports"
	"golang.org/x/term"
)

// GenerateOptions configures one generate run.
type GenerateOptions struct {
	ProjectPath string
	// OutPath is written atomically. Empty means Stdout.
	OutPath string
	// Report prints a markdown summary to ReportOut after each run.
	Report bool

	Stdout    io.Writer
	ReportOut io.Writer
}

func (o *GenerateOptions) defaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.ReportOut == nil {
		o.ReportOut = os.Stderr
	}
}

// RunGenerate loads the project, generates the program and writes it.
func RunGenerate(ctx context.Context, gen ports.BotGenerator, cfg config.Config, opts GenerateOptions, logger *slog.Logger) (*ports.Generation, error) {
	opts.defaults()
	project, err := LoadProject(ctx, file.NewLoader(opts.ProjectPath), cfg)
	if err != nil {
		return nil, err
	}
	return generateAndWrite(ctx, gen, project, opts, logger)
}

// LoadProject loads a project and fills its empty options from cfg.
func LoadProject(ctx context.Context, loader ports.ProjectLoader, cfg config.Config) (*domain.Project, error) {
	project, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults(project)
	return project, nil
}

func generateAndWrite(ctx context.Context, gen ports.BotGenerator, project *domain.Project, opts GenerateOptions, logger *slog.Logger) (*ports.Generation, error) {
	res, err := gen.Generate(ctx, *project)
	if opts.Report {
		printReport(opts.ReportOut, *project, res, err)
	}
	if err != nil {
		return nil, err
	}

	if opts.OutPath == "" {
		if _, err := io.WriteString(opts.Stdout, res.Source); err != nil {
			return nil, fmt.Errorf("failed to write program: %w", err)
		}
		return res, nil
	}
	if err := file.WriteAtomic(opts.OutPath, []byte(res.Source), 0o644); err != nil {
		return nil, err
	}
	logger.Info("Program written", "path", opts.OutPath, "bytes", len(res.Source), "cached", res.Cached)
	return res, nil
}

// printReport renders the markdown report with glamour when w is a terminal.
func printReport(w io.Writer, project domain.Project, res *ports.Generation, err error) {
	md := tui.Report(project, res, err)
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		width, _, sizeErr := term.GetSize(int(f.Fd()))
		if sizeErr != nil || width <= 0 {
			width = 80
		}
		if out, renderErr := tui.NewRenderer(width)(md); renderErr == nil {
			md = out
		}
	}
	fmt.Fprint(w, md)
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}
