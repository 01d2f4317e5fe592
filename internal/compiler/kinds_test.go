package compiler_test

import (
	"testing"

	"github.com/aretw0/botforge/internal/compiler"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_Start(t *testing.T) {
	out, err := compile(t, domain.Project{Nodes: []domain.Node{
		node("start", domain.KindStart, map[string]any{"messageText": "Hello {first_name}"}),
	}}, "start")
	require.NoError(t, err)

	assert.Contains(t, out, "async def show_node_start(user_id, chat_id):")
	assert.Contains(t, out, `    text = replace_variables_in_text("Hello {first_name}", user_vars)`)
	assert.Contains(t, out, `    await update_user_state(user_id, "start")`)
	assert.Contains(t, out, "@dp.callback_query(F.data == \"start\")\nasync def handle_callback_start(callback_query: types.CallbackQuery):")
	assert.Contains(t, out, "@dp.message(CommandStart())\nasync def start_handler_start(message: types.Message):")
	assert.Contains(t, out, "    await register_user(message.from_user)")
}

func TestCompile_Command(t *testing.T) {
	project := domain.Project{Nodes: []domain.Node{
		node("help", domain.KindCommand, map[string]any{"command": "/help", "messageText": "Help"}),
		node("bad", domain.KindCommand, map[string]any{"command": "/no spaces"}),
	}}

	out, err := compile(t, project, "help")
	require.NoError(t, err)
	assert.Contains(t, out, "@dp.message(Command(\"help\"))\nasync def command_handler_help(message: types.Message):")

	_, err = compile(t, project, "bad")
	require.Error(t, err)
	assert.Equal(t, domain.CodeInvalidNodeConfig, domain.ErrorCode(err))
}

func TestCompile_MediaKindsNeedMedia(t *testing.T) {
	tests := []struct {
		kind domain.NodeKind
		key  string
	}{
		{domain.KindPhoto, "imageUrl"},
		{domain.KindVideo, "videoUrl"},
		{domain.KindAudio, "audioUrl"},
		{domain.KindDocument, "documentUrl"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			_, err := compile(t, domain.Project{Nodes: []domain.Node{node("n", tt.kind, nil)}}, "n")
			assert.Equal(t, domain.CodeInvalidNodeConfig, domain.ErrorCode(err))

			_, err = compile(t, domain.Project{Nodes: []domain.Node{node("n", tt.kind, map[string]any{tt.key: "https://x"})}}, "n")
			assert.NoError(t, err)

			_, err = compile(t, domain.Project{Nodes: []domain.Node{node("n", tt.kind, map[string]any{"attachedMedia": []any{"photo"}})}}, "n")
			assert.NoError(t, err)
		})
	}
}

func TestCompile_KeyboardNeedsButtons(t *testing.T) {
	_, err := compile(t, domain.Project{Nodes: []domain.Node{node("k", domain.KindKeyboard, nil)}}, "k")
	assert.Equal(t, domain.CodeInvalidNodeConfig, domain.ErrorCode(err))
}

func TestCompile_InvalidButtonTarget(t *testing.T) {
	_, err := compile(t, domain.Project{Nodes: []domain.Node{
		node("k", domain.KindKeyboard, map[string]any{
			"buttons": []any{map[string]any{"text": "Go", "action": "goto", "target": "missing"}},
		}),
	}}, "k")
	require.Error(t, err)
	assert.Equal(t, domain.CodeInvalidNodeConfig, domain.ErrorCode(err))
	assert.Equal(t, []string{"k"}, domain.ErrorNodeIDs(err))
}

func TestCompile_TargetsMustBeEnterable(t *testing.T) {
	ban := node("ban", domain.KindAdminAction, map[string]any{"adminAction": "ban_user"})
	goButton := []any{map[string]any{"text": "Ban", "action": "goto", "target": "ban"}}

	tests := []struct {
		name string
		node domain.Node
	}{
		{"inline button", node("m1", domain.KindMessage, map[string]any{"buttons": goButton})},
		{"reply button", node("m1", domain.KindMessage, map[string]any{"buttons": goButton, "keyboardType": "reply"})},
		{"condition", node("m1", domain.KindConditional, map[string]any{
			"conditions": []any{map[string]any{"variable": "x", "operator": "exists", "target": "ban"}},
		})},
		{"default target", node("m1", domain.KindConditional, map[string]any{"defaultTarget": "ban"})},
		{"continue button", node("m1", domain.KindKeyboard, map[string]any{
			"allowMultipleSelection": true,
			"continueButtonTarget":   "ban",
			"buttons":                []any{map[string]any{"text": "A", "action": "goto", "target": "m1"}},
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compile(t, domain.Project{Nodes: []domain.Node{tt.node, ban}}, "m1")
			require.Error(t, err)
			assert.Equal(t, domain.CodeInvalidNodeConfig, domain.ErrorCode(err))
			assert.Equal(t, []string{"m1"}, domain.ErrorNodeIDs(err))
			assert.Contains(t, err.Error(), `"ban"`)
		})
	}

	_, err := compile(t, domain.Project{
		Nodes:       []domain.Node{node("m1", domain.KindConditional, nil), ban},
		Connections: []domain.Connection{{ID: "c1", Source: "m1", Target: "ban"}},
	}, "m1")
	assert.Equal(t, domain.CodeInvalidNodeConfig, domain.ErrorCode(err), "first outgoing connection is the fallback")
}

func TestCompile_ReplyKeyboardRoutesButtonText(t *testing.T) {
	out, err := compile(t, domain.Project{Nodes: []domain.Node{
		node("k", domain.KindKeyboard, map[string]any{
			"keyboardType": "reply",
			"buttons":      []any{map[string]any{"text": "Yes", "action": "goto", "target": "m-2"}},
		}),
		node("m-2", domain.KindMessage, nil),
	}}, "k")
	require.NoError(t, err)

	assert.Contains(t, out, "@dp.message(F.text == \"Yes\")\nasync def reply_button_k_0(message: types.Message):")
	assert.Contains(t, out, `    await goto_node("m_2", message.from_user.id, message.chat.id)`)
}

func TestCompile_MultiSelect(t *testing.T) {
	out, err := compile(t, domain.Project{
		Nodes: []domain.Node{
			node("pick", domain.KindKeyboard, map[string]any{
				"allowMultipleSelection": true,
				"multiSelectVariable":    "toppings",
				"buttons": []any{
					map[string]any{"text": "Cheese", "action": "goto", "target": "done"},
					map[string]any{"text": "Ham", "action": "goto", "target": "done"},
				},
			}),
			node("done", domain.KindMessage, nil),
		},
		Connections: []domain.Connection{{ID: "c1", Source: "pick", Target: "done"}},
	}, "pick")
	require.NoError(t, err)

	assert.Contains(t, out, "def build_keyboard_pick(selected):")
	assert.Contains(t, out, `    "ms:pick:1": "Ham",`)
	assert.Contains(t, out, "@dp.callback_query(F.data.in_(MULTI_SELECT_OPTIONS_pick))")
	assert.Contains(t, out, `    await set_user_variable(user_id, "toppings", selected)`)
	assert.Contains(t, out, "@dp.callback_query(F.data == \"ms_done:pick\")")
	assert.Contains(t, out, `    await goto_node("done", user_id, chat_id)`)
}

func TestCompile_Input(t *testing.T) {
	out, err := compile(t, domain.Project{
		Nodes: []domain.Node{
			node("ask", domain.KindInput, map[string]any{"inputPrompt": "Your name?", "inputVariable": "name", "autoTransitionTo": "hi"}),
			node("hi", domain.KindMessage, map[string]any{"messageText": "Hello {name}"}),
		},
	}, "ask")
	require.NoError(t, err)

	assert.Contains(t, out, `    text = "Your name?"`)
	assert.Contains(t, out, `    await set_pending_input(user_id, "name", "ask", "hi")`)
	assert.NotContains(t, out, "NODE_HANDLERS", "input nodes continue after the answer, not immediately")
}

func TestConditionExpr(t *testing.T) {
	tests := []struct {
		op   string
		want string
	}{
		{domain.OpEquals, `str(user_vars.get("age", "")) == "18"`},
		{domain.OpNotEquals, `str(user_vars.get("age", "")) != "18"`},
		{domain.OpContains, `"18" in str(user_vars.get("age", ""))`},
		{domain.OpExists, `user_vars.get("age") not in (None, "")`},
		{domain.OpNotExists, `user_vars.get("age") in (None, "")`},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			got, ok := compiler.ConditionExpr(domain.Condition{Variable: "age", Operator: tt.op, Value: "18"})
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
	_, ok := compiler.ConditionExpr(domain.Condition{Operator: "gt"})
	assert.False(t, ok)
}

func TestCompile_Conditional(t *testing.T) {
	project := domain.Project{Nodes: []domain.Node{
		node("route", domain.KindConditional, map[string]any{
			"conditions": []any{
				map[string]any{"variable": "lang", "operator": "equals", "value": "en", "target": "en"},
				map[string]any{"variable": "lang", "operator": "exists", "target": "other"},
			},
			"defaultTarget": "other",
		}),
		node("en", domain.KindMessage, nil),
		node("other", domain.KindMessage, nil),
	}}

	out, err := compile(t, project, "route")
	require.NoError(t, err)
	assert.Contains(t, out, "    if str(user_vars.get(\"lang\", \"\")) == \"en\":\n        logging.info(")
	assert.Contains(t, out, "        await goto_node(\"en\", user_id, chat_id)\n        return")
	assert.Contains(t, out, "    await goto_node(\"other\", user_id, chat_id)\n\n\n@dp.callback_query")

	project.Nodes[0].Data["defaultTarget"] = "nowhere"
	_, err = compile(t, project, "route")
	assert.Equal(t, domain.CodeInvalidNodeConfig, domain.ErrorCode(err))
}

func TestCompile_ConditionalNotice(t *testing.T) {
	out, err := compile(t, domain.Project{Nodes: []domain.Node{node("route", domain.KindConditional, nil)}}, "route")
	require.NoError(t, err)
	assert.Contains(t, out, "    await bot.send_message(chat_id, text)")
}

func TestCompile_Broadcast(t *testing.T) {
	out, err := compile(t, domain.Project{Nodes: []domain.Node{
		node("news", domain.KindBroadcast, map[string]any{"command": "/news"}),
		node("m1", domain.KindMessage, map[string]any{"messageText": "Big news", "enableBroadcast": true}),
	}}, "news")
	require.NoError(t, err)

	assert.Contains(t, out, "async def run_broadcast_news(report_chat_id):")
	assert.Contains(t, out, "    if not is_broadcast_allowed(user_id):")
	assert.Contains(t, out, "    return await run_broadcast_news(chat_id)")
	assert.Contains(t, out, "@dp.message(Command(\"news\"))\nasync def broadcast_command_news(message: types.Message):")
	assert.Contains(t, out, `bc_text = "Big news"`)
}

func TestCompile_AdminAction(t *testing.T) {
	project := domain.Project{Nodes: []domain.Node{
		node("mute", domain.KindAdminAction, map[string]any{"adminAction": "mute_user", "muteDuration": 3600}),
		node("unpin", domain.KindAdminAction, map[string]any{"adminAction": "unpin_message", "command": "/clearpin"}),
	}}

	out, err := compile(t, project, "mute")
	require.NoError(t, err)
	assert.Contains(t, out, "@dp.message(Command(\"mute\"))\nasync def admin_action_mute(message: types.Message):")
	assert.Contains(t, out, "    if not await is_chat_admin(message):")
	assert.Contains(t, out, "    target_user = message.reply_to_message.from_user")
	assert.Contains(t, out, "until_date=datetime.now() + timedelta(seconds=3600)")
	assert.NotContains(t, out, "show_node_mute", "admin actions have no view")

	out, err = compile(t, project, "unpin")
	require.NoError(t, err)
	assert.Contains(t, out, "Command(\"clearpin\")")
	assert.NotContains(t, out, "target_user")
}
