// Package fragments holds the fragment generators: small functions that each
// emit the Python lines for one concern (message text, keyboard, media
// dispatch, recipients, broadcast loop, auto-transition, logging, state).
//
// Fragments are pasted into one function body, so each one owns a documented
// set of names it may introduce (its Scope). Names are namespaced with a
// caller-chosen prefix so the same fragment can appear twice in one body (for
// example the media dispatch of a node and of its auto-transition target).
// Every fragment may read the names in HandlerContract.
package fragments

import "github.com/aretw0/botforge/pkg/pyemit"

// HandlerContract lists the names every node view defines before any
// fragment runs: the user's id, the chat to answer in and the user's
// variables.
var HandlerContract = []string{"user_id", "chat_id", "user_vars"}

// Scope documents the names a fragment introduces into the shared function
// body.
type Scope struct {
	Fragment string
	Declares []string
}

func scope(fragment, prefix string, names ...string) Scope {
	s := Scope{Fragment: fragment, Declares: make([]string, len(names))}
	for i, n := range names {
		s.Declares[i] = prefix + n
	}
	return s
}

// Target describes where a message goes and which expressions hold its parts.
// Prefix namespaces every name the fragments introduce.
type Target struct {
	Prefix    string // namespace for introduced names, e.g. "next_"
	NodeID    string // node whose content is sent (used in log lines)
	User      string // user id expression
	Recipient string // chat id expression
	Vars      string // variables dict expression
}

// TextVar is the name holding the rendered message text.
func (t Target) TextVar() string { return t.Prefix + "text" }

// KeyboardVar is the name holding the reply markup.
func (t Target) KeyboardVar() string { return t.Prefix + "keyboard" }

// ViewTarget is the target of a node's own view function.
func ViewTarget(nodeID string) Target {
	return Target{NodeID: nodeID, User: "user_id", Recipient: "chat_id", Vars: "user_vars"}
}

// Next is the target used to resend the content of node next to the same
// recipient.
func (t Target) Next(next string) Target {
	t.Prefix += "next_"
	t.NodeID = next
	return t
}

func indented(lines []string, indent string) []string {
	return pyemit.IndentBlock(lines, indent)
}
