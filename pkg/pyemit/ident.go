package pyemit

import (
	"fmt"
	"strings"
)

// HandlerPrefix is prepended to every node callback handler name.
const HandlerPrefix = "handle_callback_"

// Sanitize turns a node id into an identifier fragment. ASCII letters, digits
// and '_' are kept, other ASCII characters become '_', and non-ASCII runes are
// spelled out as u<hex> so that ids written in other scripts stay distinct.
// Distinct ids can still collide (e.g. "a-b" and "a_b"); the resolver rejects
// those graphs.
func Sanitize(id string) string {
	var sb strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		case r < 0x80:
			sb.WriteByte('_')
		default:
			fmt.Fprintf(&sb, "u%04x", r)
		}
	}
	return sb.String()
}

// HandlerName is the deterministic callback handler name of a node.
func HandlerName(nodeID string) string {
	return HandlerPrefix + Sanitize(nodeID)
}
