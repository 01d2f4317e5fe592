// Package assembler builds the complete bot program: fixed sections around
// the compiled node blocks.
package assembler

import (
	"log/slog"

	"github.com/aretw0/botforge/internal/compiler"
	"github.com/aretw0/botforge/internal/fragments"
	"github.com/aretw0/botforge/internal/logging"
	"github.com/aretw0/botforge/internal/resolver"
	"github.com/aretw0/botforge/pkg/pyemit"
)

// Assembler concatenates the program sections in a fixed order.
type Assembler struct {
	registry *compiler.Registry
	logger   *slog.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithRegistry sets the compiler registry. Defaults to compiler.Default().
func WithRegistry(r *compiler.Registry) Option {
	return func(a *Assembler) {
		a.registry = r
	}
}

// WithLogger sets the logger used for per-node debug output.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) {
		a.logger = l
	}
}

// New creates an Assembler.
func New(opts ...Option) *Assembler {
	a := &Assembler{}
	for _, opt := range opts {
		opt(a)
	}
	if a.registry == nil {
		a.registry = compiler.Default()
	}
	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	return a
}

// Registry returns the compiler registry in use.
func (a *Assembler) Registry() *compiler.Registry { return a.registry }

// Assemble compiles every node of c and returns the program text. Sections, in
// order: header and imports, configuration, runtime helpers, logging
// middleware (when enabled), node blocks in input order, registry population,
// generic input handler (when the graph asks for input), entry point.
//
// Every node is compiled even after a failure so that the returned
// *AggregateError names all failing nodes; no text is returned with it.
func (a *Assembler) Assemble(c *resolver.Context) (string, error) {
	var blocks []string
	var failures []*NodeError
	for _, n := range c.Nodes() {
		lines, err := a.registry.Compile(n, c)
		if err != nil {
			a.logger.Debug("node failed", "node", n.ID, "kind", n.Kind, "err", err)
			failures = append(failures, &NodeError{NodeID: n.ID, Kind: n.Kind, Err: err})
			continue
		}
		a.logger.Debug("node compiled", "node", n.ID, "kind", n.Kind, "lines", len(lines))
		if len(blocks) > 0 {
			blocks = append(blocks, "", "")
		}
		blocks = append(blocks, lines...)
	}
	if len(failures) > 0 {
		return "", &AggregateError{Errors: failures}
	}

	sections := [][]string{
		header(c),
		config(c),
		runtime(c),
		fragments.LoggingMiddleware(c, ""),
		blocks,
		registryPopulation(c, a.registry),
		genericInput(c),
		entryPoint(c),
	}

	var out pyemit.Lines
	for _, s := range sections {
		if len(s) == 0 {
			continue
		}
		if len(out) > 0 {
			out.Add("", "")
		}
		out.Add(s...)
	}
	return out.String(), nil
}
