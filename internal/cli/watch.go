package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/botforge/internal/adapters/file"
	"github.com/aretw0/botforge/internal/config"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/ports"
)

// RunWatch regenerates the program every time the project file changes,
// until ctx is canceled. Generation errors are reported and the watcher
// keeps waiting for a fix.
func RunWatch(ctx context.Context, gen ports.BotGenerator, cfg config.Config, opts GenerateOptions, logger *slog.Logger) error {
	opts.defaults()
	loader := file.NewLoader(opts.ProjectPath)

	changes, err := loader.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", opts.ProjectPath, err)
	}
	logger.Info("Starting Watcher", "path", opts.ProjectPath)

	var last string
	for {
		last = runWatchIteration(ctx, gen, loader, cfg, opts, last, logger)
		printSystemMessage(opts.ReportOut, "Waiting for changes...")

		select {
		case <-ctx.Done():
			logger.Info("Stopping watcher")
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			printSystemMessage(opts.ReportOut, "Change detected in '%s'.", opts.ProjectPath)
		}
	}
}

// runWatchIteration returns the program now on disk, which is last when the
// run failed.
func runWatchIteration(ctx context.Context, gen ports.BotGenerator, loader ports.ProjectLoader, cfg config.Config, opts GenerateOptions, last string, logger *slog.Logger) string {
	project, err := LoadProject(ctx, loader, cfg)
	if err != nil {
		logger.Error("Project load failed", "err", err)
		return last
	}

	res, err := generateAndWrite(ctx, gen, project, opts, logger)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Error("Generation failed", "code", domain.ErrorCode(err), "nodes", domain.ErrorNodeIDs(err), "err", err)
		}
		return last
	}

	if last != "" {
		diff := DiffBlocks(last, res.Source)
		if diff.Empty() {
			logger.Info("No node blocks changed")
		} else {
			logger.Info("Node blocks changed", "added", diff.Added, "removed", diff.Removed, "changed", diff.Changed)
		}
	}
	return res.Source
}
