package fragments

import (
	"github.com/aretw0/botforge/internal/resolver"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/pyemit"
)

// InputVariable is the user variable an input node stores its answer in.
func InputVariable(nodeID string, d domain.NodeData) string {
	if d.InputVariable != "" {
		return d.InputVariable
	}
	return "input_" + pyemit.Sanitize(nodeID)
}

// InputNext is the node shown after an input node receives its answer: the
// auto-transition target, else the first outgoing connection.
func InputNext(nodeID string, c *resolver.Context) (string, bool) {
	if next, ok := c.AutoTransition(nodeID); ok {
		return next, true
	}
	if out := c.Outgoing(nodeID); len(out) > 0 {
		return out[0].Target, true
	}
	return "", false
}

// PendingInputScope is the scope of PendingInput; it introduces no names.
func PendingInputScope(prefix string) Scope { return scope("input", prefix) }

// PendingInput records that the next text message of the user answers
// nodeID. The generic input handler stores the answer and continues.
func PendingInput(nodeID string, d domain.NodeData, t Target, c *resolver.Context, indent string) []string {
	next := "None"
	if id, ok := InputNext(nodeID, c); ok {
		next = pyemit.StringLiteral(c.RegistryKey(id))
	}
	return []string{
		indent + "await set_pending_input(" + t.User + ", " + pyemit.StringLiteral(InputVariable(nodeID, d)) +
			", " + pyemit.StringLiteral(nodeID) + ", " + next + ")",
	}
}
