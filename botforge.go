package botforge

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/botforge/internal/assembler"
	"github.com/aretw0/botforge/internal/logging"
	"github.com/aretw0/botforge/internal/resolver"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/observability"
	"github.com/aretw0/botforge/pkg/ports"
	"github.com/rs/xid"
)

// Result is the outcome of a successful generation.
type Result = ports.Generation

// Generator is the high-level entry point for the botforge library.
// It is safe for concurrent use: every call resolves the project afresh and
// only reads the generator's configuration.
type Generator struct {
	assembler *assembler.Assembler
	cache     ports.Cache
	cacheTTL  time.Duration
	hooks     domain.GenerationHooks
	logger    *slog.Logger
}

var _ ports.BotGenerator = (*Generator)(nil)

// Option defines a functional option for configuring the Generator.
type Option func(*Generator)

// WithLogger sets a custom structured logger for the generator.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithCache stores generated programs in cache, keyed by CacheKey.
// A zero ttl keeps entries until the cache evicts them.
func WithCache(cache ports.Cache, ttl time.Duration) Option {
	return func(g *Generator) {
		g.cache = cache
		g.cacheTTL = ttl
	}
}

// WithHooks registers observability hooks. Calling it more than once chains
// the hooks in order.
func WithHooks(hooks domain.GenerationHooks) Option {
	return func(g *Generator) {
		g.hooks = observability.Chain(g.hooks, hooks)
	}
}

// WithMetrics records every pass on m.
func WithMetrics(m *observability.Metrics) Option {
	return WithHooks(m.Hooks())
}

// New initializes a Generator with the built-in node compilers.
func New(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}

	// Ensure logger is initialized so the assembler never gets nil
	if g.logger == nil {
		g.logger = logging.NewNop()
	}
	g.assembler = assembler.New(assembler.WithLogger(g.logger))

	return g
}

// Generate turns project into a Python aiogram program.
//
// Fatal graph errors (duplicate or colliding ids) are returned as they come
// from the resolver. Per-node failures are returned together as an
// *assembler.AggregateError. In both cases no source is produced.
func (g *Generator) Generate(ctx context.Context, project domain.Project) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := time.Now()
	runID := xid.New().String()
	logger := g.logger.With("run", runID)
	event := &domain.GenerationEvent{
		EventBase: domain.EventBase{Timestamp: started, Type: domain.EventGenerationStart, RunID: runID},
		Project:   project.Name,
		Nodes:     len(project.Nodes),
	}
	if g.hooks.OnGenerationStart != nil {
		g.hooks.OnGenerationStart(ctx, event)
	}

	res, err := g.generate(ctx, logger, project)

	done := *event
	done.Type = domain.EventGenerationDone
	done.Duration = time.Since(started)
	done.Err = err
	if res != nil {
		res.RunID = runID
		done.Warnings = len(res.Warnings)
		done.Cached = res.Cached
	}
	if g.hooks.OnGenerationDone != nil {
		g.hooks.OnGenerationDone(ctx, &done)
	}

	if err != nil {
		logger.Warn("generation failed", "project", project.Name, "code", domain.ErrorCode(err), "err", err)
		return nil, err
	}
	logger.Info("generation finished",
		"project", project.Name,
		"nodes", res.Nodes,
		"warnings", len(res.Warnings),
		"cached", res.Cached,
		"duration", done.Duration,
	)
	return res, nil
}

func (g *Generator) generate(ctx context.Context, logger *slog.Logger, project domain.Project) (*Result, error) {
	// 1. Resolve the graph (fatal id problems stop here)
	c, err := resolver.Resolve(project)
	if err != nil {
		return nil, err
	}
	for _, conn := range c.Dangling() {
		logger.Warn("dangling connection skipped", "source", conn.Source, "target", conn.Target)
	}
	res := &Result{Warnings: c.Warnings(), Nodes: len(c.Nodes())}

	// 2. Try the cache
	var key string
	if g.cache != nil {
		if key, err = CacheKey(project); err != nil {
			return nil, err
		}
		source, err := g.cache.Get(ctx, key)
		switch {
		case err == nil:
			res.Source = source
			res.Cached = true
			return res, nil
		case !errors.Is(err, domain.ErrCacheMiss):
			logger.Warn("cache lookup failed", "key", key, "err", err)
		}
	}

	// 3. Compile every node and assemble the program
	source, err := g.assembler.Assemble(c)
	if err != nil {
		return nil, err
	}
	res.Source = source

	// 4. Remember it
	if g.cache != nil {
		if err := g.cache.Set(ctx, key, source, g.cacheTTL); err != nil {
			logger.Warn("cache store failed", "key", key, "err", err)
		}
	}
	return res, nil
}

// Validate runs the full compilation without keeping the program or touching
// the cache. It returns the warnings a Generate call would report.
func (g *Generator) Validate(ctx context.Context, project domain.Project) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := resolver.Resolve(project)
	if err != nil {
		return nil, err
	}
	if _, err := g.assembler.Assemble(c); err != nil {
		return nil, err
	}
	return c.Warnings(), nil
}

// CacheKey returns the content hash identifying the program generated from
// project by this release.
// Canvas positions do not affect the program and are left out.
func CacheKey(project domain.Project) (string, error) {
	nodes := make([]domain.Node, len(project.Nodes))
	for i, n := range project.Nodes {
		n.Position = domain.Position{}
		nodes[i] = n
	}
	project.Nodes = nodes

	doc, err := json.Marshal(project)
	if err != nil {
		return "", fmt.Errorf("failed to hash project: %w", err)
	}
	sum := sha256.New()
	sum.Write([]byte(Version))
	sum.Write([]byte{0})
	sum.Write(doc)
	return hex.EncodeToString(sum.Sum(nil)), nil
}
