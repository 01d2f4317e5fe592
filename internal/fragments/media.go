package fragments

import (
	"github.com/aretw0/botforge/internal/resolver"
	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/pyemit"
)

// mediaRule maps a kind of media to the Bot API method sending it.
type mediaRule struct {
	kind   string
	method string
	url    func(domain.NodeData) string
}

// variableRules decide at runtime how a media variable is sent: the first rule
// whose kind occurs in the variable name wins, the last rule is the default.
var variableRules = []mediaRule{
	{kind: "audio", method: "send_audio"},
	{kind: "video", method: "send_video"},
	{kind: "document", method: "send_document"},
	{kind: "photo", method: "send_photo"},
}

// staticRules are the configured URLs in priority order.
var staticRules = []mediaRule{
	{kind: "audio", method: "send_audio", url: func(d domain.NodeData) string { return d.AudioURL }},
	{kind: "video", method: "send_video", url: func(d domain.NodeData) string { return d.VideoURL }},
	{kind: "document", method: "send_document", url: func(d domain.NodeData) string { return d.DocumentURL }},
	{kind: "image", method: "send_photo", url: func(d domain.NodeData) string { return d.ImageURL }},
}

// StaticMedia returns the kind and URL of the static media a node sends when
// no media variable resolves, or ok=false when none is configured.
func StaticMedia(d domain.NodeData) (kind, url string, ok bool) {
	if r, ok := staticRule(d); ok {
		return r.kind, r.url(d), true
	}
	return "", "", false
}

func staticRule(d domain.NodeData) (mediaRule, bool) {
	for _, r := range staticRules {
		if r.url(d) != "" {
			return r, true
		}
	}
	return mediaRule{}, false
}

// MediaScope is the scope of MediaDispatch.
func MediaScope(prefix string) Scope {
	return scope("media", prefix, "media_sent", "media_var", "media_value", "media_key")
}

// MediaDispatch sends the target's text and keyboard, with media when the node
// has any. Tiers, in order: attached media variables that hold a value for the
// user (sent by the kind named in the variable), the configured static URL,
// plain text. Only the tiers the node configures are emitted.
//
// Sends the logging middleware does not wrap are followed by LogOutbound when
// logging is enabled.
func MediaDispatch(d domain.NodeData, t Target, c *resolver.Context, indent string) []string {
	var l pyemit.Lines
	sent := t.Prefix + "media_sent"
	extra := parseModeArg(d)
	textArgs := ", caption=" + t.TextVar() + ", reply_markup=" + t.KeyboardVar() + extra

	static, hasStatic := staticRule(d)
	if !d.HasMedia() {
		l.Addf("await bot.send_message(%s, %s, reply_markup=%s%s)", t.Recipient, t.TextVar(), t.KeyboardVar(), extra)
		return indented(l, indent)
	}
	l.Add(pyemit.Banner("media", "variable -> static -> text"))

	if len(d.AttachedMedia) > 0 {
		name, value, key := t.Prefix+"media_var", t.Prefix+"media_value", t.Prefix+"media_key"
		l.Addf("%s = False", sent)
		l.Addf("for %s in %s:", name, pyemit.StringList(d.AttachedMedia))
		var loop pyemit.Lines
		loop.Addf("%s = %s.get(%s)", value, t.Vars, name)
		loop.Addf("if not %s:", value)
		loop.Add(pyemit.Indent + "continue")
		loop.Addf("%s = %s.lower()", key, name)
		for i, r := range variableRules {
			switch {
			case i == len(variableRules)-1:
				loop.Add("else:")
			case i == 0:
				loop.Addf("if %s in %s:", pyemit.StringLiteral(r.kind), key)
			default:
				loop.Addf("elif %s in %s:", pyemit.StringLiteral(r.kind), key)
			}
			send := pyemit.Lines{}
			send.Addf("await bot.%s(%s, %s%s)", r.method, t.Recipient, value, textArgs)
			send.Add(logUnwrapped(r.method, r.kind, t, c)...)
			loop.Add(indented(send, pyemit.Indent)...)
		}
		loop.Addf("%s = True", sent)
		loop.Add("break")
		l.Add(indented(loop, pyemit.Indent)...)
		l.Addf("if not %s:", sent)
	}

	var tail pyemit.Lines
	if hasStatic {
		tail.Addf("await bot.%s(%s, %s%s)", static.method, t.Recipient, pyemit.StringLiteral(static.url(d)), textArgs)
		tail.Add(logUnwrapped(static.method, static.kind, t, c)...)
	} else {
		tail.Addf("await bot.send_message(%s, %s, reply_markup=%s%s)", t.Recipient, t.TextVar(), t.KeyboardVar(), extra)
	}
	if len(d.AttachedMedia) > 0 {
		l.Add(indented(tail, pyemit.Indent)...)
	} else {
		l.Add(tail...)
	}
	return indented(l, indent)
}

func logUnwrapped(method, kind string, t Target, c *resolver.Context) []string {
	if wrappedMethods[method] {
		return nil
	}
	return LogOutbound(c, t.Recipient, t.TextVar(), t.NodeID, kind, "")
}

func parseModeArg(d domain.NodeData) string {
	switch d.FormatMode {
	case "html", "HTML":
		return ", parse_mode=ParseMode.HTML"
	case "markdown", "Markdown":
		return ", parse_mode=ParseMode.MARKDOWN"
	}
	return ""
}
