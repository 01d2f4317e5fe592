package assembler_test

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/aretw0/botforge/internal/assembler"
	"github.com/aretw0/botforge/internal/resolver"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id string, kind domain.NodeKind, data map[string]any) domain.Node {
	return domain.Node{ID: id, Kind: kind, Data: data}
}

func assemble(t *testing.T, project domain.Project) (string, error) {
	t.Helper()
	c, err := resolver.Resolve(project)
	require.NoError(t, err)
	return assembler.New().Assemble(c)
}

// fullProject uses every node kind and every option.
func fullProject() domain.Project {
	projectID := 7
	return domain.Project{
		Name: "Coffee shop",
		Nodes: []domain.Node{
			node("start", domain.KindStart, map[string]any{
				"messageText": "Welcome, {first_name}!",
				"description": "Open the menu",
				"buttons": []any{
					map[string]any{"text": "Menu", "action": "goto", "target": "menu", "rowPosition": 0},
					map[string]any{"text": "Site", "action": "url", "url": "https://example.com", "rowPosition": 0},
					map[string]any{"text": "Help", "action": "command", "target": "/help"},
				},
			}),
			node("help", domain.KindCommand, map[string]any{"command": "/help", "description": "How it works", "messageText": "Use the menu."}),
			node("menu", domain.KindKeyboard, map[string]any{
				"messageText":            "Pick your extras",
				"allowMultipleSelection": true,
				"multiSelectVariable":    "extras",
				"continueButtonTarget":   "ask-name",
				"buttons": []any{
					map[string]any{"text": "Milk", "action": "goto", "target": "ask-name"},
					map[string]any{"text": "Sugar \"raw\"", "action": "goto", "target": "ask-name"},
				},
			}),
			node("ask-name", domain.KindInput, map[string]any{"inputPrompt": "Name for the order?", "inputVariable": "name"}),
			node("route", domain.KindConditional, map[string]any{
				"conditions": []any{
					map[string]any{"variable": "extras", "operator": "contains", "value": "Milk", "target": "photo"},
				},
				"defaultTarget": "done",
			}),
			node("photo", domain.KindPhoto, map[string]any{
				"messageText":      "Here is your latte, {name}",
				"imageUrl":         "https://example.com/latte.png",
				"attachedMedia":    []any{"latte_photo"},
				"autoTransitionTo": "done",
				"formatMode":       "html",
			}),
			node("done", domain.KindMessage, map[string]any{
				"messageText": "Thanks!\nSee you soon.",
				"keyboardType": "reply",
				"buttons": []any{map[string]any{"text": "Again", "action": "goto", "target": "start"}},
			}),
			node("promo", domain.KindVideo, map[string]any{"messageText": "Promo", "videoUrl": "https://example.com/p.mp4", "enableBroadcast": true}),
			node("voice", domain.KindAudio, map[string]any{"audioUrl": "https://example.com/a.ogg", "enableBroadcast": true, "broadcastTargetNode": "news"}),
			node("menu-pdf", domain.KindDocument, map[string]any{"documentUrl": "https://example.com/menu.pdf"}),
			node("news", domain.KindBroadcast, map[string]any{"command": "/news", "broadcastMessage": "News sent"}),
			node("ban", domain.KindAdminAction, map[string]any{"adminAction": "ban_user"}),
			node("mute", domain.KindAdminAction, map[string]any{"adminAction": "mute_user", "muteDuration": 600}),
		},
		Connections: []domain.Connection{
			{ID: "c1", Source: "start", Target: "menu"},
			{ID: "c2", Source: "ask-name", Target: "route"},
			{ID: "c3", Source: "done", Target: "ghost"},
		},
		Options: domain.Options{
			BotName:             "Barista",
			Groups:              []domain.Group{{ID: "g1", Name: "Regulars", ChatID: -1001}},
			UserDatabaseEnabled: true,
			ProjectID:           &projectID,
			EnableLogging:       true,
			AdminIDs:            []int64{42},
		},
	}
}

func TestAssemble_Deterministic(t *testing.T) {
	first, err := assemble(t, fullProject())
	require.NoError(t, err)
	second, err := assemble(t, fullProject())
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("generation is not deterministic (-first +second):\n%s", diff)
	}
}

func TestAssemble_CommentsStayPlainText(t *testing.T) {
	out, err := assemble(t, domain.Project{
		Name: "Cafe\x00\xfe",
		Nodes: []domain.Node{
			node("m1", domain.KindMessage, map[string]any{"messageText": "Hi {na\x00me} {x\xffy}"}),
		},
	})
	require.NoError(t, err)

	assert.True(t, utf8.ValidString(out))
	assert.NotContains(t, out, "\x00")
	assert.Contains(t, out, `# Bot: Cafe\x00\udcfe`)
	assert.Contains(t, out, `# [botforge:text] variables: na\x00me, x\udcffy`)
}

func TestAssemble_SectionOrder(t *testing.T) {
	out, err := assemble(t, fullProject())
	require.NoError(t, err)

	anchors := []string{
		`"""Telegram bot generated by botforge."""`,
		"import asyncpg",
		"BOT_TOKEN = os.getenv(\"BOT_TOKEN\")",
		"def replace_variables_in_text(text, variables):",
		"async def init_database():",
		"async def save_message_to_api(",
		"IGNORABLE_TRANSITION_ERRORS = (",
		"NODE_HANDLERS = {}",
		"bot.send_message = send_message_with_logging",
		"# @@BOTFORGE:BEGIN start@@",
		"# @@BOTFORGE:END mute@@",
		"NODE_HANDLERS.update({",
		"async def handle_user_input(message: types.Message):",
		"async def main():",
		"asyncio.run(main())",
	}
	last := -1
	for _, a := range anchors {
		idx := strings.Index(out, a)
		require.GreaterOrEqual(t, idx, 0, "missing %q", a)
		assert.Greater(t, idx, last, "%q is out of order", a)
		last = idx
	}
	assert.True(t, strings.HasSuffix(out, "    asyncio.run(main())\n"))
}

func TestAssemble_EveryNodeHasOneBlock(t *testing.T) {
	project := fullProject()
	out, err := assemble(t, project)
	require.NoError(t, err)

	var ids []string
	for _, n := range project.Nodes {
		ids = append(ids, n.ID)
		assert.Equal(t, 1, strings.Count(out, "# @@BOTFORGE:BEGIN "+n.ID+"@@\n"), n.ID)
		assert.Equal(t, 1, strings.Count(out, "# @@BOTFORGE:END "+n.ID+"@@\n"), n.ID)
	}
	assert.Equal(t, ids, assembler.BlockIDs(out), "blocks follow input order")
}

func TestAssemble_Registry(t *testing.T) {
	out, err := assemble(t, fullProject())
	require.NoError(t, err)

	assert.Contains(t, out, `    "ask_name": handle_callback_ask_name,`)
	assert.Contains(t, out, `    "ask_name": show_node_ask_name,`)
	assert.Contains(t, out, `    "news": show_node_news,`)
	assert.NotContains(t, out, `"ban": `, "admin actions are not registered")
}

func TestAssemble_HelloScenario(t *testing.T) {
	out, err := assemble(t, domain.Project{
		Nodes: []domain.Node{
			node("start", domain.KindStart, map[string]any{"messageText": "Hi"}),
			node("m1", domain.KindMessage, map[string]any{"messageText": "Hello {name}"}),
		},
		Connections: []domain.Connection{{ID: "c1", Source: "start", Target: "m1"}},
	})
	require.NoError(t, err)

	m1, err := assembler.ExtractBlock(out, "m1")
	require.NoError(t, err)
	assert.Contains(t, m1, `text = replace_variables_in_text("Hello {name}", user_vars)`)
	assert.Contains(t, m1, "await bot.send_message(chat_id, text, reply_markup=keyboard)")
	for _, media := range []string{"media_sent", "send_photo", "send_video", "send_audio", "send_document"} {
		assert.NotContains(t, m1, media)
	}

	assert.NotContains(t, out, "save_message_to_api", "logging is off")
	assert.NotContains(t, out, "asyncpg", "the user database is off")
	assert.NotContains(t, out, "handle_user_input", "there is no input node")
}

func TestAssemble_MediaPriority(t *testing.T) {
	out, err := assemble(t, domain.Project{Nodes: []domain.Node{
		node("both", domain.KindMessage, map[string]any{"attachedMedia": []any{"voice_note"}, "audioUrl": "https://x/a.ogg"}),
		node("static", domain.KindMessage, map[string]any{"videoUrl": "https://x/v.mp4", "imageUrl": "https://x/i.png"}),
	}})
	require.NoError(t, err)

	both, err := assembler.ExtractBlock(out, "both")
	require.NoError(t, err)
	variable := strings.Index(both, `media_value = user_vars.get(media_var)`)
	static := strings.Index(both, `await bot.send_audio(chat_id, "https://x/a.ogg"`)
	require.GreaterOrEqual(t, variable, 0)
	assert.Greater(t, static, variable)
	assert.Contains(t, both, "    if not media_sent:\n        await bot.send_audio(chat_id, \"https://x/a.ogg\"")

	st, err := assembler.ExtractBlock(out, "static")
	require.NoError(t, err)
	assert.Contains(t, st, `await bot.send_video(chat_id, "https://x/v.mp4"`)
	assert.NotContains(t, st, "i.png")
}

func TestAssemble_EmptyBroadcastSet(t *testing.T) {
	out, err := assemble(t, domain.Project{Nodes: []domain.Node{
		node("bc", domain.KindBroadcast, nil),
		node("m1", domain.KindMessage, map[string]any{"messageText": "Quiet"}),
	}})
	require.NoError(t, err)

	bc, err := assembler.ExtractBlock(out, "bc")
	require.NoError(t, err)
	assert.Contains(t, bc, "Nothing to broadcast")
	assert.Contains(t, bc, `return {"sent": 0, "errors": 0}`)
	assert.Contains(t, bc, "@dp.message(Command(\"broadcast\"))")
}

func TestAssemble_DanglingConnection(t *testing.T) {
	out, err := assemble(t, domain.Project{
		Nodes: []domain.Node{
			node("m1", domain.KindMessage, map[string]any{"messageText": "A", "enableAutoTransition": true}),
		},
		Connections: []domain.Connection{{ID: "c1", Source: "m1", Target: "ghost"}},
	})
	require.NoError(t, err)
	assert.NotContains(t, out, "ghost")
}

func TestAssemble_AggregatesFailures(t *testing.T) {
	c, err := resolver.Resolve(domain.Project{Nodes: []domain.Node{
		node("ok", domain.KindMessage, map[string]any{"messageText": "fine"}),
		node("k1", domain.KindKeyboard, nil),
		node("x1", "sticker", nil),
	}})
	require.NoError(t, err)

	out, err := assembler.New().Assemble(c)
	require.Error(t, err)
	assert.Empty(t, out)

	var agg *assembler.AggregateError
	require.True(t, errors.As(err, &agg))
	assert.Equal(t, []string{"k1", "x1"}, agg.NodeIDs())
	assert.Equal(t, domain.CodeGenerationFailed, agg.Code())
	assert.Equal(t, domain.CodeInvalidNodeConfig, domain.ErrorCode(agg.Errors[0]))
	assert.Equal(t, domain.CodeUnknownNodeKind, domain.ErrorCode(agg.Errors[1]))
	assert.Contains(t, err.Error(), "2 nodes could not be compiled")
}
