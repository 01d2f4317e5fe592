package compiler

import (
	"github.com/aretw0/botforge/internal/fragments"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/pyemit"
)

const (
	defaultBroadcastCommand = "broadcast"
	broadcastDenied         = "⛔ Only bot administrators can start a broadcast."
)

// RunName is the coroutine performing one run of a broadcast node.
func RunName(id string) string {
	return "run_broadcast_" + pyemit.Sanitize(id)
}

// broadcast nodes send every message of their broadcast set to every
// recipient. The view checks that the user may broadcast and runs it,
// reporting to the chat it was started from.
func broadcastDefinition() Definition {
	return Definition{
		Kind:    domain.KindBroadcast,
		Schema:  broadcastSchema,
		View:    true,
		Handler: true,
		Compile: func(u Unit) ([]string, error) {
			id := u.ID()
			raw := u.Data.Command
			if raw == "" {
				raw = defaultBroadcastCommand
			}
			name, err := validCommand(id, raw)
			if err != nil {
				return nil, err
			}

			run, err := fragments.BroadcastDispatch(id, u.Data, u.Ctx, "")
			if err != nil {
				return nil, err
			}

			var l pyemit.Lines
			l.Add(def("async def "+RunName(id)+"(report_chat_id):", run)...)
			l.Add(blank...)
			l.Add(def("async def "+ViewName(id)+"(user_id, chat_id):", []string{
				"if not is_broadcast_allowed(user_id):",
				pyemit.Indent + "await bot.send_message(chat_id, " + pyemit.StringLiteral(broadcastDenied) + ")",
				pyemit.Indent + `return {"sent": 0, "errors": 0}`,
				fragments.StatusLog(fragments.StatusBroadcast, "Broadcast %s started by %s", "", pyemit.StringLiteral(id), "user_id"),
				"return await " + RunName(id) + "(chat_id)",
			})...)
			l.Add(blank...)
			l.Add(callbackDecorator(id))
			l.Add(callbackHandler(u)...)
			l.Add(blank...)
			l.Add(commandHandler(u, "Command("+pyemit.StringLiteral(name)+")", "broadcast_command_")...)
			return l, nil
		},
	}
}
