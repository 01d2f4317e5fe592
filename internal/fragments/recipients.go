package fragments

import (
	"github.com/aretw0/botforge/internal/resolver"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/pyemit"
)

// RecipientsScope is the scope of Recipients.
func RecipientsScope() Scope {
	return scope("recipients", "", "recipient_ids", "recipients_error")
}

// RecipientSource returns the broadcast's recipient source, bot_users when
// unset.
func RecipientSource(d domain.NodeData) string {
	if d.RecipientSource == "" {
		return domain.RecipientsBotUsers
	}
	return d.RecipientSource
}

// Recipients resolves the broadcast audience into recipient_ids. bot_users
// asks the runtime user store; group_members posts into every configured
// group chat. A failing lookup leaves the list empty.
func Recipients(d domain.NodeData, c *resolver.Context, indent string) []string {
	var l pyemit.Lines
	source := RecipientSource(d)
	l.Add(pyemit.Banner("recipients", source))
	if source == domain.RecipientsGroupMembers {
		ids := make([]int64, 0, len(c.Options().Groups))
		for _, g := range c.Options().Groups {
			ids = append(ids, g.ChatID)
		}
		l.Addf("recipient_ids = %s", pyemit.IntList(ids))
		return indented(l, indent)
	}
	l.Add(
		"recipient_ids = []",
		"try:",
		pyemit.Indent+"recipient_ids = await get_all_bot_user_ids()",
		"except Exception as recipients_error:",
		StatusLog(StatusError, "Could not load broadcast recipients: %s", pyemit.Indent, "recipients_error"),
	)
	return indented(l, indent)
}
