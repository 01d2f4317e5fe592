package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/botforge/internal/resolver"
	"github.com/aretw0/botforge/pkg/domain"
)

func msg(id string, data map[string]any) domain.Node {
	return domain.Node{ID: id, Kind: domain.KindMessage, Data: data}
}

func TestResolve_Index(t *testing.T) {
	project := domain.Project{
		Nodes: []domain.Node{
			{ID: "start", Kind: domain.KindStart},
			msg("m1", map[string]any{"messageText": "Hello"}),
		},
		Connections: []domain.Connection{{Source: "start", Target: "m1"}},
	}

	ctx, err := resolver.Resolve(project)
	require.NoError(t, err)

	n, ok := ctx.Node("m1")
	require.True(t, ok)
	assert.Equal(t, domain.KindMessage, n.Kind)
	assert.False(t, ctx.Has("missing"))
	assert.Len(t, ctx.Outgoing("start"), 1)
	assert.Empty(t, ctx.Dangling())
	assert.Equal(t, "handle_callback_m1", ctx.HandlerName("m1"))

	d, err := ctx.Data("m1")
	require.NoError(t, err)
	assert.Equal(t, "Hello", d.MessageText)
}

func TestResolve_DuplicateIDs(t *testing.T) {
	project := domain.Project{
		Nodes: []domain.Node{msg("dup", nil), msg("ok", nil), msg("dup", nil)},
	}

	ctx, err := resolver.Resolve(project)
	require.Error(t, err)
	assert.Nil(t, ctx)
	assert.Equal(t, domain.CodeDuplicateNodeID, domain.ErrorCode(err))
	assert.Equal(t, []string{"dup"}, domain.ErrorNodeIDs(err))
}

func TestResolve_IdentifierCollision(t *testing.T) {
	project := domain.Project{
		Nodes: []domain.Node{msg("step-1", nil), msg("step_1", nil)},
	}

	_, err := resolver.Resolve(project)
	require.Error(t, err)
	assert.Equal(t, domain.CodeIdentifierCollision, domain.ErrorCode(err))
	assert.ElementsMatch(t, []string{"step-1", "step_1"}, domain.ErrorNodeIDs(err))
}

func TestResolve_CallbackDataCollision(t *testing.T) {
	pick := domain.Node{ID: "pick", Kind: domain.KindKeyboard, Data: map[string]any{
		"allowMultipleSelection": true,
		"buttons":                []any{map[string]any{"text": "A", "action": "goto", "target": "pick"}},
	}}

	tests := []struct {
		name  string
		other string
	}{
		{"continue button", "ms_done:pick"},
		{"option", "ms:pick:0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.Resolve(domain.Project{Nodes: []domain.Node{pick, msg(tt.other, nil)}})
			require.Error(t, err)
			assert.Equal(t, domain.CodeIdentifierCollision, domain.ErrorCode(err))
			assert.ElementsMatch(t, []string{"pick", tt.other}, domain.ErrorNodeIDs(err))
		})
	}

	// Without multi-select the prefixed id is just another node.
	plain := domain.Node{ID: "pick", Kind: domain.KindMessage}
	_, err := resolver.Resolve(domain.Project{Nodes: []domain.Node{plain, msg("ms_done:pick", nil)}})
	assert.NoError(t, err)
}

func TestResolve_InvalidIDs(t *testing.T) {
	for _, id := range []string{"", "  ", "two\nlines", "m\x001", "tab\tid", "bad\xffutf8"} {
		_, err := resolver.Resolve(domain.Project{Nodes: []domain.Node{msg(id, nil)}})
		require.Error(t, err, "id %q", id)
		assert.Equal(t, domain.CodeInvalidNodeID, domain.ErrorCode(err))
	}
}

func TestResolve_DanglingConnections(t *testing.T) {
	project := domain.Project{
		Nodes: []domain.Node{msg("a", nil), msg("b", nil)},
		Connections: []domain.Connection{
			{Source: "a", Target: "b"},
			{Source: "a", Target: "ghost"},
			{Source: "phantom", Target: "b"},
		},
	}

	ctx, err := resolver.Resolve(project)
	require.NoError(t, err)

	assert.Len(t, ctx.Connections(), 1)
	assert.Equal(t, []domain.Connection{{Source: "a", Target: "b"}}, ctx.Outgoing("a"))
	assert.Empty(t, ctx.Outgoing("phantom"))
	assert.Len(t, ctx.Dangling(), 2)
	assert.Len(t, ctx.Warnings(), 2)
	for _, conn := range ctx.Connections() {
		assert.NotEqual(t, "ghost", conn.Target)
	}
}

func TestResolve_BroadcastSet(t *testing.T) {
	project := domain.Project{
		Nodes: []domain.Node{
			{ID: "bc", Kind: domain.KindBroadcast},
			{ID: "bc2", Kind: domain.KindBroadcast},
			msg("unset", map[string]any{"enableBroadcast": true}),
			msg("all", map[string]any{"enableBroadcast": true, "broadcastTargetNode": "all"}),
			msg("mine", map[string]any{"enableBroadcast": true, "broadcastTargetNode": "bc"}),
			msg("theirs", map[string]any{"enableBroadcast": true, "broadcastTargetNode": "bc2"}),
			msg("off", map[string]any{"enableBroadcast": false}),
			{ID: "cond", Kind: domain.KindConditional, Data: map[string]any{"enableBroadcast": true}},
		},
	}

	ctx, err := resolver.Resolve(project)
	require.NoError(t, err)

	ids := func(nodes []domain.Node) []string {
		var out []string
		for _, n := range nodes {
			out = append(out, n.ID)
		}
		return out
	}

	assert.Equal(t, []string{"unset", "all", "mine"}, ids(ctx.BroadcastSet("bc")))
	assert.Equal(t, []string{"unset", "all", "theirs"}, ids(ctx.BroadcastSet("bc2")))
	// memoised result is stable
	assert.Equal(t, ids(ctx.BroadcastSet("bc")), ids(ctx.BroadcastSet("bc")))
}

func TestResolve_BroadcastSetEmpty(t *testing.T) {
	ctx, err := resolver.Resolve(domain.Project{
		Nodes: []domain.Node{{ID: "bc", Kind: domain.KindBroadcast}, msg("m", nil)},
	})
	require.NoError(t, err)
	assert.NotNil(t, ctx.BroadcastSet("bc"))
	assert.Empty(t, ctx.BroadcastSet("bc"))
}

func TestResolve_MultiSelectAndAutoTransition(t *testing.T) {
	project := domain.Project{
		Nodes: []domain.Node{
			msg("pick", map[string]any{"allowMultipleSelection": true}),
			msg("explicit", map[string]any{"autoTransitionTo": "next"}),
			msg("implicit", map[string]any{"enableAutoTransition": true}),
			msg("ambiguous", map[string]any{"enableAutoTransition": true}),
			msg("broken", map[string]any{"autoTransitionTo": "nowhere"}),
			msg("next", nil),
		},
		Connections: []domain.Connection{
			{Source: "implicit", Target: "next"},
			{Source: "ambiguous", Target: "next"},
			{Source: "ambiguous", Target: "pick"},
		},
	}

	ctx, err := resolver.Resolve(project)
	require.NoError(t, err)

	assert.True(t, ctx.IsMultiSelect("pick"))
	assert.False(t, ctx.IsMultiSelect("next"))

	next, ok := ctx.AutoTransition("explicit")
	assert.True(t, ok)
	assert.Equal(t, "next", next)

	next, ok = ctx.AutoTransition("implicit")
	assert.True(t, ok)
	assert.Equal(t, "next", next)

	_, ok = ctx.AutoTransition("ambiguous")
	assert.False(t, ok)
	_, ok = ctx.AutoTransition("broken")
	assert.False(t, ok)
	assert.Contains(t, ctx.Warnings()[0], "nowhere")
}

func TestResolve_DataDecodeError(t *testing.T) {
	ctx, err := resolver.Resolve(domain.Project{
		Nodes: []domain.Node{msg("bad", map[string]any{"enableBroadcast": "yes"})},
	})
	require.NoError(t, err)

	_, err = ctx.Data("bad")
	assert.Error(t, err)
}

func TestResolve_OptionsThreaded(t *testing.T) {
	ctx, err := resolver.Resolve(domain.Project{Options: domain.Options{EnableLogging: true}})
	require.NoError(t, err)
	assert.True(t, ctx.LoggingEnabled())

	ctx, err = resolver.Resolve(domain.Project{})
	require.NoError(t, err)
	assert.False(t, ctx.LoggingEnabled())
}
