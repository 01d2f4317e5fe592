package assembler

import (
	"github.com/aretw0/botforge/internal/compiler"
	"github.com/aretw0/botforge/internal/fragments"
	"github.com/aretw0/botforge/internal/resolver"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/pyemit"
)

// registryPopulation is section 6: every compiled handler and view is added
// to its registry once, after all of them are defined.
func registryPopulation(c *resolver.Context, r *compiler.Registry) []string {
	var handlers, views pyemit.Lines
	for _, n := range c.Nodes() {
		def, _ := r.Lookup(n.Kind)
		key := pyemit.StringLiteral(c.RegistryKey(n.ID))
		if def.Handler {
			handlers.Addf("%s%s: %s,", pyemit.Indent, key, c.HandlerName(n.ID))
		}
		if def.View {
			views.Addf("%s%s: %s,", pyemit.Indent, key, compiler.ViewName(n.ID))
		}
	}

	l := pyemit.Lines{pyemit.Banner("registry")}
	l.Add("NODE_HANDLERS.update({")
	l.Add(handlers...)
	l.Add("})")
	l.Add("NODE_VIEWS.update({")
	l.Add(views...)
	l.Add("})")
	return l
}

const inputHandler = `
@dp.message(F.text)
async def handle_user_input(message: types.Message):
    user_id = message.from_user.id
    pending = pending_inputs.get(user_id)
    if pending is None:
        return
    await clear_pending_input(user_id)
    await set_user_variable(user_id, pending["variable"], message.text)
    logging.info("📝 Saved %s from node %s for %s", pending["variable"], pending["node"], user_id)
    if pending["next"]:
        await goto_node(pending["next"], user_id, message.chat.id)
`

// genericInput is section 7. It is registered after every node handler so
// commands and reply buttons win over a pending answer. Nothing is emitted
// when the graph has no input node.
func genericInput(c *resolver.Context) []string {
	for _, n := range c.Nodes() {
		if n.Kind == domain.KindInput {
			l := pyemit.Lines{pyemit.Banner("input", "stores answers to input nodes")}
			return append(l, block(inputHandler)...)
		}
	}
	return nil
}

// entryPoint is section 8: command menu, startup and polling.
func entryPoint(c *resolver.Context) []string {
	db := c.Options().UserDatabaseEnabled

	l := pyemit.Lines{pyemit.Banner("main")}
	l.Add("BOT_COMMANDS = [")
	for _, n := range c.Nodes() {
		d, err := c.Data(n.ID)
		if err != nil || d.Description == "" {
			continue
		}
		name := "start"
		switch n.Kind {
		case domain.KindStart:
		case domain.KindCommand:
			name = compiler.CommandName(d.Command)
		default:
			continue
		}
		l.Addf("%stypes.BotCommand(command=%s, description=%s),", pyemit.Indent,
			pyemit.StringLiteral(name), pyemit.StringLiteral(d.Description))
	}
	l.Add("]", "", "")

	l.Add("async def main():")
	if db {
		l.Add(pyemit.Indent + "await init_database()")
	}
	l.Add(
		pyemit.Indent+"if BOT_COMMANDS:",
		pyemit.Indent+pyemit.Indent+"await bot.set_my_commands(BOT_COMMANDS)",
		fragments.StatusLog("🚀", "%s is starting", pyemit.Indent, "BOT_NAME"),
		pyemit.Indent+"try:",
		pyemit.Indent+pyemit.Indent+"await dp.start_polling(bot)",
		pyemit.Indent+"finally:",
	)
	if db {
		l.Add(
			pyemit.Indent+pyemit.Indent+"if db_pool is not None:",
			pyemit.Indent+pyemit.Indent+pyemit.Indent+"await db_pool.close()",
		)
	}
	l.Add(
		pyemit.Indent+pyemit.Indent+"await bot.session.close()",
		"",
		"",
		`if __name__ == "__main__":`,
		pyemit.Indent+"asyncio.run(main())",
	)
	return l
}
