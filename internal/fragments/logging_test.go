package fragments_test

import (
	"strings"
	"testing"

	"github.com/aretw0/botforge/internal/fragments"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestLoggingMiddleware(t *testing.T) {
	off := resolve(t, domain.Project{})
	assert.Nil(t, fragments.LoggingMiddleware(off, ""))
	assert.Nil(t, fragments.LogOutbound(off, "chat_id", "text", "m1", "audio", ""))

	on := resolve(t, domain.Project{Options: domain.Options{EnableLogging: true}})
	out := strings.Join(fragments.LoggingMiddleware(on, ""), "\n")

	assert.Equal(t, 1, strings.Count(out, "bot.send_message = send_message_with_logging"))
	assert.Equal(t, 1, strings.Count(out, "bot.send_photo = send_photo_with_logging"))
	assert.Equal(t, 2, strings.Count(out, "    return result"), "wrappers return the original result")
	assert.Less(t, strings.Index(out, "_original_send_message = bot.send_message"),
		strings.Index(out, "bot.send_message = send_message_with_logging"))
}

func TestStatusLog(t *testing.T) {
	tests := []struct {
		emoji string
		want  string
	}{
		{fragments.StatusSent, `  logging.info("✅ Node %s sent to %s", "m1", user_id)`},
		{fragments.StatusWarning, `  logging.warning("⚠️ Node %s sent to %s", "m1", user_id)`},
		{fragments.StatusError, `  logging.error("❌ Node %s sent to %s", "m1", user_id)`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fragments.StatusLog(tt.emoji, "Node %s sent to %s", "  ", `"m1"`, "user_id"))
	}
}

func TestMessageText(t *testing.T) {
	vt := fragments.ViewTarget("m1")

	assert.Equal(t, []string{
		"    # [botforge:text] variables: name",
		`    text = replace_variables_in_text("Hello {name}", user_vars)`,
	}, fragments.MessageText("Hello {name}", vt, "    "))
	assert.Equal(t, []string{`text = "Line\nTwo"`}, fragments.MessageText("Line\nTwo", vt, ""))
	assert.Equal(t, []string{"name", "age"}, fragments.Variables("{name} is {age}, {name}"))
}

func TestPersistState(t *testing.T) {
	assert.Equal(t, []string{`    await update_user_state(user_id, "m\"1")`}, fragments.PersistState(`m"1`, "    "))
}
