package resolver

import (
	"strings"

	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/pyemit"
)

// ProjectName returns the name of the resolved project.
func (c *Context) ProjectName() string { return c.projectName }

// Options returns the generation options.
func (c *Context) Options() domain.Options { return c.options }

// LoggingEnabled reports whether outbound messages must be persisted through
// the logging middleware.
func (c *Context) LoggingEnabled() bool { return c.options.EnableLogging }

// Nodes returns every node in input order. Callers must not modify it.
func (c *Context) Nodes() []domain.Node { return c.nodes }

// Connections returns the connections whose endpoints both resolved.
func (c *Context) Connections() []domain.Connection { return c.connections }

// Node looks a node up by id.
func (c *Context) Node(id string) (domain.Node, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Node{}, false
	}
	return c.nodes[i], true
}

// Has reports whether id names a node.
func (c *Context) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Data returns the decoded data bag of a node.
func (c *Context) Data(id string) (domain.NodeData, error) {
	if err, failed := c.dataErrs[id]; failed {
		return domain.NodeData{}, err
	}
	return c.data[id], nil
}

// Outgoing returns the resolved connections leaving id, in input order.
func (c *Context) Outgoing(id string) []domain.Connection { return c.outgoing[id] }

// IsMultiSelect reports whether the node's keyboard works in multi-select mode.
func (c *Context) IsMultiSelect(id string) bool { return c.multiSelect[id] }

// AutoTransition returns the node id reached automatically after id sends its
// message: the explicit autoTransitionTo target, or the single outgoing
// connection when auto-transition is enabled without a target.
func (c *Context) AutoTransition(id string) (string, bool) {
	next, ok := c.autoNext[id]
	return next, ok
}

// HandlerName returns the Python callback handler name of a node.
func (c *Context) HandlerName(id string) string { return pyemit.HandlerName(id) }

// RegistryKey returns the key under which a node's handler is registered in
// the generated NODE_HANDLERS mapping.
func (c *Context) RegistryKey(id string) string { return pyemit.Sanitize(id) }

// Dangling returns connections whose source or target is unknown.
func (c *Context) Dangling() []domain.Connection { return c.dangling }

// Warnings returns the non-fatal problems found while resolving.
func (c *Context) Warnings() []string { return c.warnings }

// BroadcastSet returns the message nodes a broadcast node sends: message-like
// nodes flagged enableBroadcast whose broadcastTargetNode is empty, "all" or
// the broadcast node's own id. It is computed on first use and memoised.
func (c *Context) BroadcastSet(broadcastID string) []domain.Node {
	c.mu.Lock()
	defer c.mu.Unlock()

	if set, ok := c.broadcastSets[broadcastID]; ok {
		return set
	}

	set := []domain.Node{}
	for _, n := range c.nodes {
		if n.ID == broadcastID || !n.Kind.IsMessageLike() {
			continue
		}
		d, ok := c.data[n.ID]
		if !ok || !d.EnableBroadcast {
			continue
		}
		switch d.BroadcastTargetNode {
		case "", domain.BroadcastTargetAll, broadcastID:
			set = append(set, n)
		}
	}
	c.broadcastSets[broadcastID] = set
	return set
}

// CommandNode returns the id of the start or command node answering the slash
// command name ("/help" and "help" are equivalent).
func (c *Context) CommandNode(name string) (string, bool) {
	name = strings.TrimPrefix(strings.TrimSpace(name), "/")
	for _, n := range c.nodes {
		switch n.Kind {
		case domain.KindStart:
			if name == "start" {
				return n.ID, true
			}
		case domain.KindCommand:
			if strings.TrimPrefix(c.data[n.ID].Command, "/") == name {
				return n.ID, true
			}
		}
	}
	return "", false
}
