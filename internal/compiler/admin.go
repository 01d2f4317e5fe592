package compiler

import (
	"sort"
	"strconv"

	"github.com/aretw0/botforge/internal/fragments"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/pyemit"
)

const (
	adminDenied   = "⛔ This command is for chat administrators only."
	adminNeedsMsg = "↩️ Reply to a message to use this command."
)

// adminAction describes one moderation action.
type adminAction struct {
	command    string
	needsReply bool
	done       string
	calls      func(d domain.NodeData) []string
}

var adminActions = map[string]adminAction{
	domain.AdminBan: {
		command: "ban", needsReply: true, done: "🚫 User banned.",
		calls: func(domain.NodeData) []string {
			return []string{"await bot.ban_chat_member(message.chat.id, target_user.id)"}
		},
	},
	domain.AdminUnban: {
		command: "unban", needsReply: true, done: "✅ User unbanned.",
		calls: func(domain.NodeData) []string {
			return []string{"await bot.unban_chat_member(message.chat.id, target_user.id, only_if_banned=True)"}
		},
	},
	domain.AdminKick: {
		command: "kick", needsReply: true, done: "👢 User removed from the chat.",
		calls: func(domain.NodeData) []string {
			return []string{
				"await bot.ban_chat_member(message.chat.id, target_user.id)",
				"await bot.unban_chat_member(message.chat.id, target_user.id, only_if_banned=True)",
			}
		},
	},
	domain.AdminMute: {
		command: "mute", needsReply: true, done: "🔇 User muted.",
		calls: func(d domain.NodeData) []string {
			call := "await bot.restrict_chat_member(message.chat.id, target_user.id, permissions=types.ChatPermissions(can_send_messages=False)"
			if d.MuteDuration > 0 {
				call += ", until_date=datetime.now() + timedelta(seconds=" + strconv.Itoa(d.MuteDuration) + ")"
			}
			return []string{call + ")"}
		},
	},
	domain.AdminUnmute: {
		command: "unmute", needsReply: true, done: "🔊 User can write again.",
		calls: func(domain.NodeData) []string {
			return []string{"await bot.restrict_chat_member(message.chat.id, target_user.id, permissions=types.ChatPermissions(" +
				"can_send_messages=True, can_send_other_messages=True, can_add_web_page_previews=True))"}
		},
	},
	domain.AdminPin: {
		command: "pin", needsReply: true, done: "📌 Message pinned.",
		calls: func(domain.NodeData) []string {
			return []string{"await bot.pin_chat_message(message.chat.id, message.reply_to_message.message_id)"}
		},
	},
	domain.AdminUnpin: {
		command: "unpin", done: "📍 Message unpinned.",
		calls: func(domain.NodeData) []string {
			return []string{
				"pinned_id = message.reply_to_message.message_id if message.reply_to_message else None",
				"await bot.unpin_chat_message(message.chat.id, message_id=pinned_id)",
			}
		},
	},
	domain.AdminDelete: {
		command: "del", needsReply: true, done: "🗑️ Message deleted.",
		calls: func(domain.NodeData) []string {
			return []string{
				"await bot.delete_message(message.chat.id, message.reply_to_message.message_id)",
			}
		},
	},
	domain.AdminPromote: {
		command: "promote", needsReply: true, done: "⭐ User promoted.",
		calls: func(domain.NodeData) []string {
			return []string{"await bot.promote_chat_member(message.chat.id, target_user.id, " +
				"can_delete_messages=True, can_restrict_members=True, can_pin_messages=True, can_invite_users=True)"}
		},
	},
	domain.AdminDemote: {
		command: "demote", needsReply: true, done: "⬇️ User demoted.",
		calls: func(domain.NodeData) []string {
			return []string{"await bot.promote_chat_member(message.chat.id, target_user.id, " +
				"can_delete_messages=False, can_restrict_members=False, can_pin_messages=False, can_invite_users=False)"}
		},
	},
}

func adminActionNames() []string {
	names := make([]string, 0, len(adminActions))
	for name := range adminActions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// admin-action nodes answer a slash command in a group by moderating the
// replied-to user or message. Only chat administrators (or the configured
// adminIds) may use them.
func adminDefinition() Definition {
	return Definition{
		Kind:   domain.KindAdminAction,
		Schema: adminSchema,
		Compile: func(u Unit) ([]string, error) {
			id := u.ID()
			action, ok := adminActions[u.Data.AdminAction]
			if !ok {
				return nil, domain.InvalidConfig(id, "unknown admin action %q", u.Data.AdminAction)
			}
			raw := u.Data.Command
			if raw == "" {
				raw = action.command
			}
			name, err := validCommand(id, raw)
			if err != nil {
				return nil, err
			}
			done := u.Data.MessageText
			if done == "" {
				done = action.done
			}
			actionLit := pyemit.StringLiteral(u.Data.AdminAction)

			body := pyemit.Lines{
				"if not await is_chat_admin(message):",
				pyemit.Indent + "await message.reply(" + pyemit.StringLiteral(adminDenied) + ")",
				pyemit.Indent + "return",
			}
			if action.needsReply {
				body.Add(
					"if message.reply_to_message is None:",
					pyemit.Indent+"await message.reply("+pyemit.StringLiteral(adminNeedsMsg)+")",
					pyemit.Indent+"return",
					"target_user = message.reply_to_message.from_user",
				)
			}
			body.Add("try:")
			body.Add(pyemit.IndentBlock(action.calls(u.Data), pyemit.Indent)...)
			body.Add("except Exception as admin_error:")
			body.Add(fragments.StatusLog(fragments.StatusError, "Admin action %s failed: %s", pyemit.Indent, actionLit, "admin_error"))
			body.Add(pyemit.Indent + "await message.reply(\"❌ \" + str(admin_error))")
			body.Add(pyemit.Indent + "return")
			body.Add(fragments.StatusLog(fragments.StatusAdmin, "Admin action %s by %s in %s", "", actionLit,
				"message.from_user.id", "message.chat.id"))
			body.Addf("await message.reply(%s)", pyemit.StringLiteral(done))

			var l pyemit.Lines
			l.Addf("@dp.message(Command(%s))", pyemit.StringLiteral(name))
			l.Add(def("async def admin_action_"+pyemit.Sanitize(id)+"(message: types.Message):", body)...)
			return l, nil
		},
	}
}
