package fragments

import (
	"strings"

	"github.com/aretw0/botforge/internal/resolver"
	"github.com/aretw0/botforge/pkg/pyemit"
)

// wrappedMethods are the Bot API methods rebound by LoggingMiddleware. Sends
// through any other method need an explicit LogOutbound.
var wrappedMethods = map[string]bool{
	"send_message": true,
	"send_photo":   true,
}

// LoggingMiddlewareScope is the scope of LoggingMiddleware (module level).
func LoggingMiddlewareScope() Scope {
	return scope("logging", "", "_original_send_message", "_original_send_photo",
		"send_message_with_logging", "send_photo_with_logging", "log_incoming_message")
}

// LoggingMiddleware emits the module-level wrappers that persist every
// outbound text and photo message, and an outer middleware persisting incoming
// messages. bot.send_message and bot.send_photo are rebound exactly once; the
// wrappers return whatever the original call returned. Nothing is emitted
// when logging is disabled.
func LoggingMiddleware(c *resolver.Context, indent string) []string {
	if !c.LoggingEnabled() {
		return nil
	}
	l := pyemit.Lines{
		pyemit.Banner("logging", "persist outbound text and photo messages"),
		"_original_send_message = bot.send_message",
		"_original_send_photo = bot.send_photo",
		"",
		"",
		"async def send_message_with_logging(chat_id, text, *args, **kwargs):",
		"    result = await _original_send_message(chat_id, text, *args, **kwargs)",
		"    await save_message_to_api(chat_id, \"bot\", text)",
		"    return result",
		"",
		"",
		"async def send_photo_with_logging(chat_id, photo, *args, **kwargs):",
		"    result = await _original_send_photo(chat_id, photo, *args, **kwargs)",
		"    await save_message_to_api(chat_id, \"bot\", kwargs.get(\"caption\") or \"\", None, {\"mediaType\": \"photo\"})",
		"    return result",
		"",
		"",
		"bot.send_message = send_message_with_logging",
		"bot.send_photo = send_photo_with_logging",
		"",
		"",
		"@dp.message.outer_middleware()",
		"async def log_incoming_message(handler, event, data):",
		"    if event.from_user is not None:",
		"        await save_message_to_api(event.from_user.id, \"user\", event.text or event.caption or \"\")",
		"    return await handler(event, data)",
	}
	return indented(l, indent)
}

// LogOutbound persists one outbound message that bypasses the middleware.
// recipient and text are Python expressions; mediaKind may be empty.
func LogOutbound(c *resolver.Context, recipient, text, nodeID, mediaKind, indent string) []string {
	if !c.LoggingEnabled() {
		return nil
	}
	extra := "None"
	if mediaKind != "" {
		extra = "{\"mediaType\": " + pyemit.StringLiteral(mediaKind) + "}"
	}
	line := "await save_message_to_api(" + recipient + ", \"bot\", " + text + ", " +
		pyemit.StringLiteral(nodeID) + ", " + extra + ")"
	return []string{indent + line}
}

// Status line levels and their emoji.
const (
	StatusSent       = "✅"
	StatusTransition = "⏭️"
	StatusBroadcast  = "📢"
	StatusInput      = "📝"
	StatusAdmin      = "🛡️"
	StatusWarning    = "⚠️"
	StatusError      = "❌"
)

// StatusLog emits one emoji-prefixed log line. format uses %s placeholders
// filled by the Python expressions in args, through the logging module's own
// formatting. Warnings and errors are logged at their level, everything else
// at info.
func StatusLog(emoji, format string, indent string, args ...string) string {
	level := "info"
	switch emoji {
	case StatusWarning:
		level = "warning"
	case StatusError:
		level = "error"
	}
	call := "logging." + level + "(" + pyemit.StringLiteral(emoji+" "+format)
	if len(args) > 0 {
		call += ", " + strings.Join(args, ", ")
	}
	return indent + call + ")"
}

// PersistState records that the user reached nodeID.
func PersistState(nodeID, indent string) []string {
	return []string{indent + "await update_user_state(user_id, " + pyemit.StringLiteral(nodeID) + ")"}
}
