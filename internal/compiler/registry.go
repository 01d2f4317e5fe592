// Package compiler turns one node into its block of Python source. Each node
// kind has a Definition: the schema of its data bag and the function that
// emits its handlers. Definitions live in a Registry keyed by kind.
package compiler

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/botforge/internal/resolver"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/pyemit"
	"github.com/aretw0/botforge/pkg/schema"
)

// Unit is the input of a compile function: the node, its decoded data and the
// generation context.
type Unit struct {
	Node domain.Node
	Data domain.NodeData
	Ctx  *resolver.Context
}

// ID returns the node id.
func (u Unit) ID() string { return u.Node.ID }

// Definition describes how one node kind is compiled.
type Definition struct {
	Kind   domain.NodeKind
	Schema schema.Schema

	// View reports whether the block defines show_node_<id>, reachable
	// through goto_node.
	View bool
	// Handler reports whether the block defines the node's callback handler,
	// reachable through NODE_HANDLERS.
	Handler bool

	Compile func(u Unit) ([]string, error)
}

// Registry maps node kinds to their definitions. It is safe for concurrent
// use; in practice it is filled once and then only read.
type Registry struct {
	mu   sync.RWMutex
	defs map[domain.NodeKind]Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[domain.NodeKind]Definition)}
}

// Register adds a definition. Registering a kind twice is an error.
func (r *Registry) Register(def Definition) error {
	if def.Kind == "" {
		return fmt.Errorf("node kind cannot be empty")
	}
	if def.Compile == nil {
		return fmt.Errorf("node kind %s has no compile function", def.Kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.Kind]; exists {
		return fmt.Errorf("node kind %s is already registered", def.Kind)
	}
	r.defs[def.Kind] = def
	return nil
}

// Lookup returns the definition of kind.
func (r *Registry) Lookup(kind domain.NodeKind) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[kind]
	return def, ok
}

// Kinds returns the registered kinds, sorted.
func (r *Registry) Kinds() []domain.NodeKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]domain.NodeKind, 0, len(r.defs))
	for k := range r.defs {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Compile emits the block of one node, wrapped in its begin/end markers.
// Unknown kinds, data that does not match the kind's schema and configurations
// that cannot produce correct code are reported as go-errors carrying the node
// id.
func (r *Registry) Compile(node domain.Node, c *resolver.Context) ([]string, error) {
	// 1. Kind
	def, ok := r.Lookup(node.Kind)
	if !ok {
		return nil, domain.NodeErr(domain.ErrUnknownNodeKind,
			fmt.Sprintf("node %q: unknown node kind %q", node.ID, node.Kind), node.ID)
	}

	// 2. Data bag
	if err := schema.Validate(def.Schema, node.Data); err != nil {
		return nil, domain.InvalidConfig(node.ID, "%v", err)
	}
	data, err := c.Data(node.ID)
	if err != nil {
		return nil, domain.InvalidConfig(node.ID, "%v", err)
	}

	// 3. References
	u := Unit{Node: node, Data: data, Ctx: c}
	if err := r.checkTargets(u); err != nil {
		return nil, err
	}

	// 4. Emit
	lines, err := def.Compile(u)
	if err != nil {
		return nil, err
	}
	return pyemit.Wrap(node.ID, lines), nil
}

// checkTargets rejects references to nodes whose kind emits nothing the
// reference could reach. Inline buttons need the target's callback handler;
// reply buttons, conditional branches and multi-select continue buttons go
// through goto_node and need its view. Unknown targets are left to the kind
// compilers.
func (r *Registry) checkTargets(u Unit) error {
	switch {
	case u.Ctx.IsMultiSelect(u.ID()):
		if next, ok := continueTarget(u); ok {
			if err := r.reachable(u, next, false, "continue button"); err != nil {
				return err
			}
		}
	case u.Data.KeyboardType != domain.KeyboardNone:
		needHandler := !replyKeyboard(u.Data)
		for i, b := range u.Data.Buttons {
			if b.Action == domain.ActionURL || b.Action == domain.ActionCommand {
				continue
			}
			if err := r.reachable(u, b.Target, needHandler, fmt.Sprintf("button %d (%q)", i, b.Text)); err != nil {
				return err
			}
		}
	}

	if u.Node.Kind == domain.KindConditional {
		for i, cond := range u.Data.Conditions {
			if err := r.reachable(u, cond.Target, false, fmt.Sprintf("condition %d", i)); err != nil {
				return err
			}
		}
		target := u.Data.DefaultTarget
		if target == "" {
			if out := u.Ctx.Outgoing(u.ID()); len(out) > 0 {
				target = out[0].Target
			}
		}
		if err := r.reachable(u, target, false, "default branch"); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) reachable(u Unit, target string, needHandler bool, what string) error {
	n, ok := u.Ctx.Node(target)
	if !ok {
		return nil
	}
	def, ok := r.Lookup(n.Kind)
	if ok && ((needHandler && def.Handler) || (!needHandler && def.View)) {
		return nil
	}
	return domain.InvalidConfig(u.ID(), "%s targets %s node %q, which cannot be entered", what, n.Kind, target)
}

// Default returns a registry holding every built-in node kind.
func Default() *Registry {
	r := NewRegistry()
	for _, def := range builtins() {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
	return r
}

func builtins() []Definition {
	return []Definition{
		startDefinition(),
		commandDefinition(),
		messageDefinition(domain.KindMessage, ""),
		messageDefinition(domain.KindPhoto, "imageUrl"),
		messageDefinition(domain.KindVideo, "videoUrl"),
		messageDefinition(domain.KindAudio, "audioUrl"),
		messageDefinition(domain.KindDocument, "documentUrl"),
		keyboardDefinition(),
		inputDefinition(),
		conditionalDefinition(),
		broadcastDefinition(),
		adminDefinition(),
	}
}
