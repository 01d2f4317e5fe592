package fragments

import (
	"github.com/aretw0/botforge/internal/resolver"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/pyemit"
)

// IgnorableTransitionErrors are the error messages a handler may raise when it
// is invoked with a simulated event. Anything else is re-raised.
var IgnorableTransitionErrors = []string{
	"is not mounted to a any bot instance",
}

// TransitionScope is the scope of AutoTransition.
func TransitionScope(prefix string) Scope {
	s := scope("auto-transition", prefix, "next_handler", "next_error")
	next := prefix + "next_"
	for _, sub := range []Scope{TextScope(next), KeyboardScope(next), MediaScope(next), PendingInputScope(next)} {
		s.Declares = append(s.Declares, sub.Declares...)
	}
	return s
}

// AutoTransition continues from the node just sent to its auto-transition
// target, if it has one. It follows exactly one hop: the target's own
// auto-transition is never expanded here.
//
// Message-like targets are reached along two paths. The target's callback
// handler is looked up in NODE_HANDLERS and invoked with a simulated callback;
// the errors listed in IgnorableTransitionErrors are tolerated. Then the
// target's text, keyboard and media are sent again directly, so the
// transition stays visible when the handler could not act on the simulated
// event. Conditional and broadcast targets are entered through goto_node.
func AutoTransition(fromID string, t Target, c *resolver.Context, indent string) ([]string, error) {
	next, ok := c.AutoTransition(fromID)
	if !ok {
		return nil, nil
	}
	node, _ := c.Node(next)
	key := pyemit.StringLiteral(c.RegistryKey(next))

	var l pyemit.Lines
	l.Add(pyemit.Banner("auto-transition", fromID+" -> "+next))
	l.Add(StatusLog(StatusTransition, "Auto-transition %s -> %s for %s", "",
		pyemit.StringLiteral(fromID), pyemit.StringLiteral(next), t.User))

	switch {
	case node.Kind == domain.KindConditional || node.Kind == domain.KindBroadcast:
		l.Addf("await goto_node(%s, %s, %s)", key, t.User, t.Recipient)
		return indented(l, indent), nil
	case !node.Kind.IsMessageLike():
		return nil, domain.InvalidConfig(fromID, "auto-transition target %q (%s) cannot be entered automatically", next, node.Kind)
	}

	d, err := c.Data(next)
	if err != nil {
		return nil, domain.InvalidConfig(fromID, "auto-transition target %q has invalid data: %v", next, err)
	}

	handler, failure := t.Prefix+"next_handler", t.Prefix+"next_error"
	l.Addf("%s = NODE_HANDLERS.get(%s)", handler, key)
	l.Addf("if %s is not None:", handler)
	l.Add(pyemit.Indent + "try:")
	l.Addf("%sawait %s(make_simulated_callback(%s, %s, %s))", pyemit.Indent+pyemit.Indent,
		handler, t.User, t.Recipient, pyemit.StringLiteral(pyemit.CallbackData(next)))
	l.Addf("%sexcept Exception as %s:", pyemit.Indent, failure)
	l.Addf("%sif not is_ignorable_transition_error(%s):", pyemit.Indent+pyemit.Indent, failure)
	l.Add(pyemit.Indent + pyemit.Indent + pyemit.Indent + "raise")
	l.Add(StatusLog("ℹ️", "Handler of %s skipped on simulated event: %s", pyemit.Indent+pyemit.Indent,
		pyemit.StringLiteral(next), failure))
	l.Add("else:")
	l.Add(StatusLog(StatusWarning, "No handler registered for node %s", pyemit.Indent, pyemit.StringLiteral(next)))

	nt := t.Next(next)
	l.Add(MessageText(BodyText(d), nt, "")...)
	l.Add(Keyboard(next, d, nt, c, "")...)
	l.Add(MediaDispatch(d, nt, c, "")...)
	if node.Kind == domain.KindInput {
		l.Add(PendingInput(next, d, nt, c, "")...)
	}
	return indented(l, indent), nil
}
