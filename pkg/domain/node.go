package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NodeKind is the closed tag set of node types the generator understands.
type NodeKind string

// Node kinds.
const (
	// KindStart answers /start and is the usual entry point of a flow.
	KindStart NodeKind = "start"
	// KindCommand answers an arbitrary slash command.
	KindCommand NodeKind = "command"
	// KindMessage sends text (and optional media/keyboard) when reached.
	KindMessage NodeKind = "message"
	// KindPhoto, KindVideo, KindAudio and KindDocument are message variants
	// whose main payload is a static media URL.
	KindPhoto    NodeKind = "photo"
	KindVideo    NodeKind = "video"
	KindAudio    NodeKind = "audio"
	KindDocument NodeKind = "document"
	// KindKeyboard is a message that must carry at least one button.
	KindKeyboard NodeKind = "keyboard"
	// KindInput prompts the user and stores the answer in a variable.
	KindInput NodeKind = "input"
	// KindConditional routes on user variables.
	KindConditional NodeKind = "conditional"
	// KindBroadcast sends every eligible message node to every known user.
	KindBroadcast NodeKind = "broadcast"
	// KindAdminAction performs a moderation action in a group chat.
	KindAdminAction NodeKind = "admin-action"
)

// Kinds lists every supported kind in a stable order.
var Kinds = []NodeKind{
	KindStart, KindCommand, KindMessage, KindPhoto, KindVideo, KindAudio,
	KindDocument, KindKeyboard, KindInput, KindConditional, KindBroadcast,
	KindAdminAction,
}

// Position is the canvas location of a node. It is irrelevant to generation.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Node represents one vertex of the visual bot flow.
// ID is stable across edits and is the only identifier other nodes may reference.
type Node struct {
	ID       string   `json:"id" yaml:"id"`
	Kind     NodeKind `json:"type" yaml:"type"`
	Position Position `json:"position" yaml:"position"`

	// Data is the kind-specific configuration bag exactly as the UI stored it.
	// Use Decode to obtain the typed view.
	Data map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// ValidID reports whether id can be embedded verbatim in a block marker:
// non-blank, valid UTF-8 and free of control characters.
func ValidID(id string) bool {
	if strings.TrimSpace(id) == "" || !utf8.ValidString(id) {
		return false
	}
	return strings.IndexFunc(id, unicode.IsControl) < 0
}

// IsMessageLike reports whether nodes of this kind deliver a message body and
// may therefore take part in broadcasts and auto-transitions.
func (k NodeKind) IsMessageLike() bool {
	switch k {
	case KindStart, KindCommand, KindMessage, KindPhoto, KindVideo,
		KindAudio, KindDocument, KindKeyboard, KindInput:
		return true
	}
	return false
}
