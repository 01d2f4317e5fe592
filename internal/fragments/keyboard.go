package fragments

import (
	"strings"

	"github.com/aretw0/botforge/internal/resolver"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/pyemit"
)

// KeyboardBuilderName is the module-level function that renders the
// multi-select keyboard of nodeID for a list of selected options.
func KeyboardBuilderName(nodeID string) string {
	return "build_keyboard_" + pyemit.Sanitize(nodeID)
}

// KeyboardScope is the scope of Keyboard.
func KeyboardScope(prefix string) Scope {
	return scope("keyboard", prefix, "keyboard", "builder")
}

// ValidateButtons checks that every button can be rendered: goto buttons need
// an existing target, url buttons need a URL.
func ValidateButtons(nodeID string, buttons []domain.Button, c *resolver.Context) error {
	for i, b := range buttons {
		switch b.Action {
		case domain.ActionURL:
			if strings.TrimSpace(b.Link()) == "" {
				return domain.InvalidConfig(nodeID, "button %d (%q) has action url but no url", i, b.Text)
			}
		case domain.ActionCommand:
			if _, ok := c.CommandNode(b.Target); !ok {
				return domain.InvalidConfig(nodeID, "button %d (%q) runs unknown command %q", i, b.Text, b.Target)
			}
		default:
			if b.Target == "" {
				return domain.InvalidConfig(nodeID, "button %d (%q) has no target", i, b.Text)
			}
			if !c.Has(b.Target) {
				return domain.InvalidConfig(nodeID, "button %d (%q) targets unknown node %q", i, b.Text, b.Target)
			}
		}
	}
	return nil
}

// Keyboard assigns the target's keyboard variable. Nodes without buttons, or
// with keyboardType "none", get None. Multi-select nodes call their
// module-level builder with the user's current selection.
func Keyboard(nodeID string, d domain.NodeData, t Target, c *resolver.Context, indent string) []string {
	var l pyemit.Lines
	kb := t.KeyboardVar()
	switch {
	case len(d.Buttons) == 0 || d.KeyboardType == domain.KeyboardNone:
		l.Addf("%s = None", kb)
	case c.IsMultiSelect(nodeID):
		l.Add(pyemit.Banner("keyboard", "multi-select"))
		l.Addf("%s = %s(as_selection(%s.get(%s)))", kb, KeyboardBuilderName(nodeID), t.Vars,
			pyemit.StringLiteral(SelectionVariable(nodeID, d)))
	case d.KeyboardType == domain.KeyboardReply:
		l.Add(pyemit.Banner("keyboard", "reply"))
		l.Add(replyKeyboard(kb, t.Prefix+"builder", d)...)
	default:
		l.Add(pyemit.Banner("keyboard", "inline"))
		l.Add(inlineKeyboard(kb, t.Prefix+"builder", d.Buttons, c)...)
	}
	return indented(l, indent)
}

func inlineKeyboard(kb, builder string, buttons []domain.Button, c *resolver.Context) []string {
	var l pyemit.Lines
	l.Addf("%s = InlineKeyboardBuilder()", builder)
	for _, row := range domain.Rows(buttons) {
		cells := make([]string, len(row))
		for i, b := range row {
			cells[i] = inlineButton(b, c)
		}
		l.Addf("%s.row(%s)", builder, strings.Join(cells, ", "))
	}
	l.Addf("%s = %s.as_markup()", kb, builder)
	return l
}

// Command buttons call back into the node answering the command.
func inlineButton(b domain.Button, c *resolver.Context) string {
	text := pyemit.StringLiteral(b.Text)
	switch b.Action {
	case domain.ActionURL:
		return "InlineKeyboardButton(text=" + text + ", url=" + pyemit.StringLiteral(b.Link()) + ")"
	case domain.ActionCommand:
		target, _ := c.CommandNode(b.Target)
		return "InlineKeyboardButton(text=" + text + ", callback_data=" + pyemit.StringLiteral(pyemit.CallbackData(target)) + ")"
	}
	return "InlineKeyboardButton(text=" + text + ", callback_data=" + pyemit.StringLiteral(pyemit.CallbackData(b.Target)) + ")"
}

func replyKeyboard(kb, builder string, d domain.NodeData) []string {
	var l pyemit.Lines
	l.Addf("%s = ReplyKeyboardBuilder()", builder)
	for _, row := range domain.Rows(d.Buttons) {
		cells := make([]string, len(row))
		for i, b := range row {
			cells[i] = "KeyboardButton(text=" + pyemit.StringLiteral(b.Text) + ")"
		}
		l.Addf("%s.row(%s)", builder, strings.Join(cells, ", "))
	}
	l.Addf("%s = %s.as_markup(resize_keyboard=%s, one_time_keyboard=%s)", kb, builder,
		pyemit.Bool(d.ResizeKeyboard), pyemit.Bool(d.OneTimeKeyboard))
	return l
}

// SelectionVariable is the user variable collecting a multi-select answer.
func SelectionVariable(nodeID string, d domain.NodeData) string {
	if d.MultiSelectVariable != "" {
		return d.MultiSelectVariable
	}
	return "selected_" + pyemit.Sanitize(nodeID)
}

// ContinueText is the label of the multi-select continue button.
func ContinueText(d domain.NodeData) string {
	if d.ContinueButtonText != "" {
		return d.ContinueButtonText
	}
	return "Done"
}

// KeyboardBuilder emits the module-level function rendering a multi-select
// keyboard. Options are the node's buttons; selected ones are prefixed with a
// check mark. The continue button is always the last row.
func KeyboardBuilder(nodeID string, d domain.NodeData) []string {
	var l pyemit.Lines
	l.Addf("def %s(selected):", KeyboardBuilderName(nodeID))
	body := pyemit.Lines{"builder = InlineKeyboardBuilder()"}
	for i, b := range d.Buttons {
		text := pyemit.StringLiteral(b.Text)
		body.Addf("builder.row(InlineKeyboardButton(text=(\"✅ \" if %s in selected else \"\") + %s, callback_data=%s))",
			text, text, pyemit.StringLiteral(pyemit.ToggleData(nodeID, i)))
	}
	body.Addf("builder.row(InlineKeyboardButton(text=%s, callback_data=%s))",
		pyemit.StringLiteral(ContinueText(d)), pyemit.StringLiteral(pyemit.DoneData(nodeID)))
	body.Add("return builder.as_markup()")
	l.Add(indented(body, pyemit.Indent)...)
	return l
}
