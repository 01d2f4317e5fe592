package compiler

import (
	"regexp"
	"strings"

	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/pyemit"
)

var commandPattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,32}$`)

// CommandName normalises a slash command ("/Help " -> "Help").
func CommandName(raw string) string {
	return strings.TrimPrefix(strings.TrimSpace(raw), "/")
}

func validCommand(id, raw string) (string, error) {
	name := CommandName(raw)
	if !commandPattern.MatchString(name) {
		return "", domain.InvalidConfig(id, "command %q must be 1-32 letters, digits or underscores", raw)
	}
	return name, nil
}

// commandHandler emits a message handler answering filter by showing the
// node.
func commandHandler(u Unit, filter, prefix string) []string {
	var l pyemit.Lines
	l.Addf("@dp.message(%s)", filter)
	l.Add(def("async def "+prefix+pyemit.Sanitize(u.ID())+"(message: types.Message):", []string{
		"await register_user(message.from_user)",
		"await clear_pending_input(message.from_user.id)",
		"await " + ViewName(u.ID()) + "(message.from_user.id, message.chat.id)",
	})...)
	return l
}

func startDefinition() Definition {
	return Definition{
		Kind:    domain.KindStart,
		Schema:  messageSchema,
		View:    true,
		Handler: true,
		Compile: func(u Unit) ([]string, error) {
			block, err := messageBlock(u)
			if err != nil {
				return nil, err
			}
			block = append(block, blank...)
			return append(block, commandHandler(u, "CommandStart()", "start_handler_")...), nil
		},
	}
}

func commandDefinition() Definition {
	return Definition{
		Kind:    domain.KindCommand,
		Schema:  commandSchema,
		View:    true,
		Handler: true,
		Compile: func(u Unit) ([]string, error) {
			name, err := validCommand(u.ID(), u.Data.Command)
			if err != nil {
				return nil, err
			}
			block, err := messageBlock(u)
			if err != nil {
				return nil, err
			}
			block = append(block, blank...)
			filter := "Command(" + pyemit.StringLiteral(name) + ")"
			return append(block, commandHandler(u, filter, "command_handler_")...), nil
		},
	}
}

// messageDefinition covers message and the media kinds. Media kinds need the
// URL named by mediaKey or at least one attached media variable.
func messageDefinition(kind domain.NodeKind, mediaKey string) Definition {
	return Definition{
		Kind:    kind,
		Schema:  messageSchema,
		View:    true,
		Handler: true,
		Compile: func(u Unit) ([]string, error) {
			if mediaKey != "" && !hasMedia(u.Data, mediaKey) {
				return nil, domain.InvalidConfig(u.ID(), "%s node needs %s or attachedMedia", kind, mediaKey)
			}
			return messageBlock(u)
		},
	}
}

func hasMedia(d domain.NodeData, key string) bool {
	if len(d.AttachedMedia) > 0 {
		return true
	}
	switch key {
	case "imageUrl":
		return d.ImageURL != ""
	case "videoUrl":
		return d.VideoURL != ""
	case "audioUrl":
		return d.AudioURL != ""
	case "documentUrl":
		return d.DocumentURL != ""
	}
	return false
}

func keyboardDefinition() Definition {
	return Definition{
		Kind:    domain.KindKeyboard,
		Schema:  messageSchema,
		View:    true,
		Handler: true,
		Compile: func(u Unit) ([]string, error) {
			if len(u.Data.Buttons) == 0 {
				return nil, domain.InvalidConfig(u.ID(), "keyboard node needs at least one button")
			}
			if u.Data.KeyboardType == domain.KeyboardNone {
				return nil, domain.InvalidConfig(u.ID(), "keyboard node cannot use keyboardType %q", domain.KeyboardNone)
			}
			return messageBlock(u)
		},
	}
}

// input nodes send their prompt and record a pending answer; the generic input
// handler stores the reply and continues.
func inputDefinition() Definition {
	return Definition{
		Kind:    domain.KindInput,
		Schema:  inputSchema,
		View:    true,
		Handler: true,
		Compile: messageBlock,
	}
}
