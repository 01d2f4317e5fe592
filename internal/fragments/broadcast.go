package fragments

import (
	"strings"

	"github.com/aretw0/botforge/internal/resolver"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/pyemit"
)

const (
	defaultReportTitle = "📢 Broadcast finished"
	nothingToBroadcast = "📭 Nothing to broadcast: no message is enabled for this broadcast."
	noRecipients       = "📭 Broadcast skipped: there are no recipients."
)

// BroadcastTarget is where one broadcast message goes inside the recipient
// loop.
func BroadcastTarget(nodeID string) Target {
	return Target{Prefix: "bc_", NodeID: nodeID, User: "recipient_id", Recipient: "recipient_id", Vars: "recipient_vars"}
}

// BroadcastScope is the scope of BroadcastDispatch. The enclosing function
// provides report_chat_id.
func BroadcastScope() Scope {
	s := scope("broadcast", "", "sent_count", "error_count", "recipient_id", "recipient_vars",
		"send_error", "transition_error")
	s.Declares = append(s.Declares, RecipientsScope().Declares...)
	for _, sub := range []Scope{TextScope("bc_"), KeyboardScope("bc_"), MediaScope("bc_"), TransitionScope("bc_")} {
		s.Declares = append(s.Declares, sub.Declares...)
	}
	return s
}

// ReportTitle is the first line of the report sent when a broadcast ends.
func ReportTitle(d domain.NodeData) string {
	if d.BroadcastMessage != "" {
		return d.BroadcastMessage
	}
	return defaultReportTitle
}

// BroadcastDispatch emits the body of a broadcast run. It resolves the
// recipients, then sends every message of the broadcast set to every
// recipient. Each send is isolated: a failure increments error_count and the
// loop moves on. The run ends by reporting both counters to report_chat_id and
// returning them. An empty broadcast set or audience reports zero sends.
func BroadcastDispatch(broadcastID string, d domain.NodeData, c *resolver.Context, indent string) ([]string, error) {
	var l pyemit.Lines
	id := pyemit.StringLiteral(broadcastID)

	l.Add(Recipients(d, c, "")...)

	set := c.BroadcastSet(broadcastID)
	if len(set) == 0 {
		l.Add(pyemit.Banner("broadcast", "empty broadcast set"))
		l.Add(StatusLog(StatusWarning, "Broadcast %s: nothing to broadcast", "", id))
		l.Addf("await bot.send_message(report_chat_id, %s + %s)", pyemit.StringLiteral(nothingToBroadcast), zeroCounters)
		l.Add(`return {"sent": 0, "errors": 0}`)
		return indented(l, indent), nil
	}

	ids := make([]string, len(set))
	for i, n := range set {
		ids[i] = n.ID
	}
	l.Add(pyemit.Banner("broadcast", "messages: "+strings.Join(ids, ", ")))
	l.Add("if not recipient_ids:")
	l.Add(StatusLog(StatusWarning, "Broadcast %s: no recipients", pyemit.Indent, id))
	l.Addf("%sawait bot.send_message(report_chat_id, %s + %s)", pyemit.Indent, pyemit.StringLiteral(noRecipients), zeroCounters)
	l.Add(pyemit.Indent + `return {"sent": 0, "errors": 0}`)
	l.Add("sent_count = 0", "error_count = 0")
	l.Add("for recipient_id in recipient_ids:")

	var loop pyemit.Lines
	if RecipientSource(d) == domain.RecipientsGroupMembers {
		// Group chats are not users: read without creating an entry.
		loop.Add("recipient_vars = user_data.get(recipient_id, {})")
	} else {
		loop.Add("recipient_vars = await get_user_variables(recipient_id)")
	}
	for _, n := range set {
		md, err := c.Data(n.ID)
		if err != nil {
			return nil, domain.InvalidConfig(broadcastID, "broadcast message %q has invalid data: %v", n.ID, err)
		}
		t := BroadcastTarget(n.ID)
		msgID := pyemit.StringLiteral(n.ID)

		loop.Add(pyemit.Comment(n.ID))
		loop.Add("try:")
		var send pyemit.Lines
		send.Add(MessageText(BodyText(md), t, "")...)
		send.Add(Keyboard(n.ID, md, t, c, "")...)
		send.Add(MediaDispatch(md, t, c, "")...)
		send.Add("sent_count += 1")
		loop.Add(indented(send, pyemit.Indent)...)
		loop.Add("except Exception as send_error:")
		loop.Add(pyemit.Indent + "error_count += 1")
		loop.Add(StatusLog(StatusError, "Broadcast of %s to %s failed: %s", pyemit.Indent, msgID, "recipient_id", "send_error"))

		transition, err := AutoTransition(n.ID, t, c, "")
		if err != nil {
			return nil, err
		}
		if len(transition) > 0 {
			loop.Add("else:")
			loop.Add(pyemit.Indent + "try:")
			loop.Add(indented(transition, pyemit.Indent+pyemit.Indent)...)
			loop.Add(pyemit.Indent + "except Exception as transition_error:")
			loop.Add(StatusLog(StatusError, "Auto-transition after %s for %s failed: %s", pyemit.Indent+pyemit.Indent,
				msgID, "recipient_id", "transition_error"))
		}
	}
	l.Add(indented(loop, pyemit.Indent)...)

	l.Add(StatusLog(StatusBroadcast, "Broadcast %s finished: %s sent, %s errors", "", id, "sent_count", "error_count"))
	l.Addf(`await bot.send_message(report_chat_id, %s + "\n%s Sent: " + str(sent_count) + "\n%s Errors: " + str(error_count))`,
		pyemit.StringLiteral(ReportTitle(d)), StatusSent, StatusError)
	l.Add(`return {"sent": sent_count, "errors": error_count}`)
	return indented(l, indent), nil
}

const zeroCounters = `"\n` + StatusSent + ` Sent: 0\n` + StatusError + ` Errors: 0"`
