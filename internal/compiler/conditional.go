package compiler

import (
	"strconv"

	"github.com/aretw0/botforge/internal/fragments"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/pyemit"
)

const noBranchText = "🤷 Nothing matched your answers."

// ConditionExpr renders the Python test of one condition against user_vars.
func ConditionExpr(cond domain.Condition) (string, bool) {
	variable := pyemit.StringLiteral(cond.Variable)
	value := pyemit.StringLiteral(cond.Value)
	current := "str(user_vars.get(" + variable + ", \"\"))"
	switch cond.Operator {
	case domain.OpEquals:
		return current + " == " + value, true
	case domain.OpNotEquals:
		return current + " != " + value, true
	case domain.OpContains:
		return value + " in " + current, true
	case domain.OpExists:
		return "user_vars.get(" + variable + ") not in (None, \"\")", true
	case domain.OpNotExists:
		return "user_vars.get(" + variable + ") in (None, \"\")", true
	}
	return "", false
}

// conditional nodes route the user to the first rule that matches their
// variables, else to the default target (or the first outgoing connection),
// else they send a notice.
func conditionalDefinition() Definition {
	return Definition{
		Kind:    domain.KindConditional,
		Schema:  conditionalSchema,
		View:    true,
		Handler: true,
		Compile: func(u Unit) ([]string, error) {
			id := u.ID()
			body := pyemit.Lines{"user_vars = await get_user_variables(user_id)"}
			if len(u.Data.Conditions) > 0 {
				body.Add(pyemit.Banner("conditional", strconv.Itoa(len(u.Data.Conditions))+" rules"))
			}
			for i, cond := range u.Data.Conditions {
				expr, ok := ConditionExpr(cond)
				if !ok {
					return nil, domain.InvalidConfig(id, "condition %d has unknown operator %q", i, cond.Operator)
				}
				if !u.Ctx.Has(cond.Target) {
					return nil, domain.InvalidConfig(id, "condition %d targets unknown node %q", i, cond.Target)
				}
				body.Addf("if %s:", expr)
				body.Add(fragments.StatusLog("🔀", "Node %s matched rule %s for %s", pyemit.Indent,
					pyemit.StringLiteral(id), strconv.Itoa(i+1), "user_id"))
				body.Addf("%sawait goto_node(%s, user_id, chat_id)", pyemit.Indent, pyemit.StringLiteral(u.Ctx.RegistryKey(cond.Target)))
				body.Add(pyemit.Indent + "return")
			}

			fallback, err := conditionalFallback(u)
			if err != nil {
				return nil, err
			}
			body.Add(fallback...)

			var l pyemit.Lines
			l.Add(def("async def "+ViewName(id)+"(user_id, chat_id):", body)...)
			l.Add(blank...)
			l.Add(callbackDecorator(id))
			l.Add(callbackHandler(u)...)
			return l, nil
		},
	}
}

func conditionalFallback(u Unit) ([]string, error) {
	target := u.Data.DefaultTarget
	if target != "" && !u.Ctx.Has(target) {
		return nil, domain.InvalidConfig(u.ID(), "default target %q is unknown", target)
	}
	if target == "" {
		if out := u.Ctx.Outgoing(u.ID()); len(out) > 0 {
			target = out[0].Target
		}
	}
	if target != "" {
		return []string{"await goto_node(" + pyemit.StringLiteral(u.Ctx.RegistryKey(target)) + ", user_id, chat_id)"}, nil
	}

	text := u.Data.MessageText
	if text == "" {
		text = noBranchText
	}
	l := pyemit.Lines(fragments.MessageText(text, fragments.ViewTarget(u.ID()), ""))
	l.Add("await bot.send_message(chat_id, text)")
	return l, nil
}
