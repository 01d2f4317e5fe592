package compiler

import (
	"strconv"

	"github.com/aretw0/botforge/internal/fragments"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/pyemit"
)

// ViewName is the coroutine that shows a node to a user.
func ViewName(id string) string {
	return "show_node_" + pyemit.Sanitize(id)
}

// blank separates top-level Python definitions.
var blank = []string{"", ""}

func def(header string, body []string) []string {
	out := []string{header}
	return append(out, pyemit.IndentBlock(body, pyemit.Indent)...)
}

// view emits show_node_<id>(user_id, chat_id) for a message-like node: text,
// keyboard and media, then state, status line and either the pending input
// record (input nodes) or the auto-transition.
func view(u Unit) ([]string, error) {
	id := u.ID()
	t := fragments.ViewTarget(id)

	body := pyemit.Lines{"user_vars = await get_user_variables(user_id)"}
	body.Add(fragments.MessageText(fragments.BodyText(u.Data), t, "")...)
	body.Add(fragments.Keyboard(id, u.Data, t, u.Ctx, "")...)
	body.Add(fragments.MediaDispatch(u.Data, t, u.Ctx, "")...)
	body.Add(fragments.PersistState(id, "")...)
	body.Add(fragments.StatusLog(fragments.StatusSent, "Node %s sent to %s", "", pyemit.StringLiteral(id), "user_id"))

	if u.Node.Kind == domain.KindInput {
		body.Add(fragments.PendingInput(id, u.Data, t, u.Ctx, "")...)
	} else {
		transition, err := fragments.AutoTransition(id, t, u.Ctx, "")
		if err != nil {
			return nil, err
		}
		body.Add(transition...)
	}
	return def("async def "+ViewName(id)+"(user_id, chat_id):", body), nil
}

// callbackHandler emits the callback handler reached by buttons pointing at
// the node and by auto-transitions.
func callbackHandler(u Unit) []string {
	id := u.ID()
	return def(
		"async def "+u.Ctx.HandlerName(id)+"(callback_query: types.CallbackQuery):",
		[]string{
			"await callback_query.answer()",
			"await clear_pending_input(callback_query.from_user.id)",
			"await " + ViewName(id) + "(callback_query.from_user.id, callback_query.message.chat.id)",
		},
	)
}

func callbackDecorator(id string) string {
	return "@dp.callback_query(F.data == " + pyemit.StringLiteral(pyemit.CallbackData(id)) + ")"
}

// messageBlock is the block shared by every message-like kind: the view, the
// callback handler and, for multi-select keyboards, the selection handlers.
func messageBlock(u Unit) ([]string, error) {
	id := u.ID()
	if err := validateMessage(u); err != nil {
		return nil, err
	}

	var l pyemit.Lines
	if u.Ctx.IsMultiSelect(id) {
		l.Add(fragments.KeyboardBuilder(id, u.Data)...)
		l.Add(blank...)
	}
	v, err := view(u)
	if err != nil {
		return nil, err
	}
	l.Add(v...)
	l.Add(blank...)
	l.Add(callbackDecorator(id))
	l.Add(callbackHandler(u)...)
	if u.Ctx.IsMultiSelect(id) {
		l.Add(blank...)
		l.Add(multiSelectHandlers(u)...)
	}
	if replyKeyboard(u.Data) {
		l.Add(replyButtonHandlers(u)...)
	}
	return l, nil
}

func validateMessage(u Unit) error {
	id := u.ID()
	if err := fragments.ValidateButtons(id, u.Data.Buttons, u.Ctx); err != nil {
		return err
	}
	if t := u.Data.ContinueButtonTarget; t != "" && !u.Ctx.Has(t) {
		return domain.InvalidConfig(id, "continue button targets unknown node %q", t)
	}
	if u.Ctx.IsMultiSelect(id) && len(u.Data.Buttons) == 0 {
		return domain.InvalidConfig(id, "multiple selection needs at least one option button")
	}
	if replyKeyboard(u.Data) {
		for i, b := range u.Data.Buttons {
			if b.Action == domain.ActionURL {
				return domain.InvalidConfig(id, "button %d (%q) opens a url, which needs an inline keyboard", i, b.Text)
			}
		}
	}
	return nil
}

func replyKeyboard(d domain.NodeData) bool {
	return d.KeyboardType == domain.KeyboardReply && len(d.Buttons) > 0 && !d.AllowMultipleSelection
}

// replyButtonHandlers route the text a reply keyboard button sends to the
// node the button points at.
func replyButtonHandlers(u Unit) []string {
	var l pyemit.Lines
	sid := pyemit.Sanitize(u.ID())
	for i, b := range u.Data.Buttons {
		target := b.Target
		if b.Action == domain.ActionCommand {
			target, _ = u.Ctx.CommandNode(b.Target)
		}
		l.Add(blank...)
		l.Addf("@dp.message(F.text == %s)", pyemit.StringLiteral(b.Text))
		l.Add(def("async def reply_button_"+sid+"_"+strconv.Itoa(i)+"(message: types.Message):", []string{
			"await clear_pending_input(message.from_user.id)",
			"await goto_node(" + pyemit.StringLiteral(u.Ctx.RegistryKey(target)) + ", message.from_user.id, message.chat.id)",
		})...)
	}
	return l
}

// multiSelectHandlers toggles options in the selection variable and, on the
// continue button, moves to the continue target (or the first outgoing
// connection).
func multiSelectHandlers(u Unit) []string {
	id := u.ID()
	sid := pyemit.Sanitize(id)
	options := "MULTI_SELECT_OPTIONS_" + sid
	variable := pyemit.StringLiteral(fragments.SelectionVariable(id, u.Data))

	var l pyemit.Lines
	l.Addf("%s = {", options)
	for i, b := range u.Data.Buttons {
		l.Addf("%s%s: %s,", pyemit.Indent, pyemit.StringLiteral(pyemit.ToggleData(id, i)), pyemit.StringLiteral(b.Text))
	}
	l.Add("}")
	l.Add(blank...)

	l.Addf("@dp.callback_query(F.data.in_(%s))", options)
	l.Add(def("async def toggle_option_"+sid+"(callback_query: types.CallbackQuery):", []string{
		"await callback_query.answer()",
		"user_id = callback_query.from_user.id",
		"user_vars = await get_user_variables(user_id)",
		"option = " + options + "[callback_query.data]",
		"selected = as_selection(user_vars.get(" + variable + "))",
		"if option in selected:",
		pyemit.Indent + "selected.remove(option)",
		"else:",
		pyemit.Indent + "selected.append(option)",
		"await set_user_variable(user_id, " + variable + ", selected)",
		"await callback_query.message.edit_reply_markup(reply_markup=" + fragments.KeyboardBuilderName(id) + "(selected))",
	})...)
	l.Add(blank...)

	body := []string{
		"await callback_query.answer()",
		"user_id = callback_query.from_user.id",
		"chat_id = callback_query.message.chat.id",
		"user_vars = await get_user_variables(user_id)",
		"selected = as_selection(user_vars.get(" + variable + "))",
		fragments.StatusLog(fragments.StatusInput, "Node %s: %s selected %s", "", pyemit.StringLiteral(id), "user_id", "selected"),
	}
	if next, ok := continueTarget(u); ok {
		body = append(body, "await goto_node("+pyemit.StringLiteral(u.Ctx.RegistryKey(next))+", user_id, chat_id)")
	} else {
		body = append(body, "await bot.send_message(chat_id, \"✅ \" + \", \".join(selected))")
	}
	l.Addf("@dp.callback_query(F.data == %s)", pyemit.StringLiteral(pyemit.DoneData(id)))
	l.Add(def("async def finish_selection_"+sid+"(callback_query: types.CallbackQuery):", body)...)
	return l
}

func continueTarget(u Unit) (string, bool) {
	if u.Data.ContinueButtonTarget != "" {
		return u.Data.ContinueButtonTarget, true
	}
	if out := u.Ctx.Outgoing(u.ID()); len(out) > 0 {
		return out[0].Target, true
	}
	return "", false
}
