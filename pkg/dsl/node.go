package dsl

import (
	"maps"

	"github.com/aretw0/botforge/pkg/domain"
)

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    domain.Node
	builder *Builder
}

func (n *NodeBuilder) kind(k domain.NodeKind, text string) *NodeBuilder {
	n.node.Kind = k
	if text != "" {
		n.node.Data["messageText"] = text
	}
	return n
}

// Start makes the node answer /start.
func (n *NodeBuilder) Start(text string) *NodeBuilder {
	return n.kind(domain.KindStart, text)
}

// Command makes the node answer a slash command.
func (n *NodeBuilder) Command(command, text string) *NodeBuilder {
	n.node.Data["command"] = command
	return n.kind(domain.KindCommand, text)
}

// Message makes the node a plain message.
func (n *NodeBuilder) Message(text string) *NodeBuilder {
	return n.kind(domain.KindMessage, text)
}

// Photo sends an image with an optional caption.
func (n *NodeBuilder) Photo(url, caption string) *NodeBuilder {
	n.node.Data["imageUrl"] = url
	return n.kind(domain.KindPhoto, caption)
}

// Video sends a video with an optional caption.
func (n *NodeBuilder) Video(url, caption string) *NodeBuilder {
	n.node.Data["videoUrl"] = url
	return n.kind(domain.KindVideo, caption)
}

// Audio sends an audio file with an optional caption.
func (n *NodeBuilder) Audio(url, caption string) *NodeBuilder {
	n.node.Data["audioUrl"] = url
	return n.kind(domain.KindAudio, caption)
}

// Document sends a document with an optional caption.
func (n *NodeBuilder) Document(url, caption string) *NodeBuilder {
	n.node.Data["documentUrl"] = url
	return n.kind(domain.KindDocument, caption)
}

// Keyboard makes the node a keyboard message. Add buttons with Button.
func (n *NodeBuilder) Keyboard(text string) *NodeBuilder {
	return n.kind(domain.KindKeyboard, text)
}

// Input prompts the user and saves the answer to variable.
func (n *NodeBuilder) Input(prompt, variable string) *NodeBuilder {
	n.node.Data["inputPrompt"] = prompt
	n.node.Data["inputVariable"] = variable
	return n.kind(domain.KindInput, "")
}

// Conditional routes on user variables. Add rules with Branch and Default.
func (n *NodeBuilder) Conditional() *NodeBuilder {
	return n.kind(domain.KindConditional, "")
}

// Broadcast makes the node a broadcast trigger answering command. An empty
// recipients means bot users.
func (n *NodeBuilder) Broadcast(command, recipients string) *NodeBuilder {
	n.node.Data["command"] = command
	if recipients != "" {
		n.node.Data["recipientSource"] = recipients
	}
	return n.kind(domain.KindBroadcast, "")
}

// Admin makes the node run a moderation action.
func (n *NodeBuilder) Admin(action, command string) *NodeBuilder {
	n.node.Data["adminAction"] = action
	if command != "" {
		n.node.Data["command"] = command
	}
	return n.kind(domain.KindAdminAction, "")
}

func (n *NodeBuilder) addButton(b map[string]any) *NodeBuilder {
	buttons, _ := n.node.Data["buttons"].([]any)
	n.node.Data["buttons"] = append(buttons, b)
	return n
}

// Button adds a button leading to target.
func (n *NodeBuilder) Button(text, target string) *NodeBuilder {
	return n.addButton(map[string]any{"text": text, "action": string(domain.ActionGoto), "target": target})
}

// URLButton adds a button opening url.
func (n *NodeBuilder) URLButton(text, url string) *NodeBuilder {
	return n.addButton(map[string]any{"text": text, "action": string(domain.ActionURL), "url": url})
}

// CommandButton adds a button triggering a slash command.
func (n *NodeBuilder) CommandButton(text, command string) *NodeBuilder {
	return n.addButton(map[string]any{"text": text, "action": string(domain.ActionCommand), "target": command})
}

// Row places the last added button in keyboard row pos.
func (n *NodeBuilder) Row(pos int) *NodeBuilder {
	buttons, _ := n.node.Data["buttons"].([]any)
	if len(buttons) > 0 {
		buttons[len(buttons)-1].(map[string]any)["rowPosition"] = pos
	}
	return n
}

// Reply switches the keyboard to a reply keyboard.
func (n *NodeBuilder) Reply() *NodeBuilder {
	n.node.Data["keyboardType"] = domain.KeyboardReply
	return n
}

// MultiSelect lets the user toggle several buttons, storing the choices in
// variable until the continue button leads to target.
func (n *NodeBuilder) MultiSelect(variable, continueText, target string) *NodeBuilder {
	n.node.Data["allowMultipleSelection"] = true
	n.node.Data["multiSelectVariable"] = variable
	n.node.Data["continueButtonText"] = continueText
	n.node.Data["continueButtonTarget"] = target
	return n
}

// Media attaches extra media URLs.
func (n *NodeBuilder) Media(urls ...string) *NodeBuilder {
	media, _ := n.node.Data["attachedMedia"].([]any)
	for _, u := range urls {
		media = append(media, u)
	}
	n.node.Data["attachedMedia"] = media
	return n
}

// Go adds a connection to the target node.
func (n *NodeBuilder) Go(target string) *NodeBuilder {
	n.builder.Connect(n.node.ID, target)
	return n
}

// AutoTransition moves to target right after the message is shown.
func (n *NodeBuilder) AutoTransition(target string) *NodeBuilder {
	n.node.Data["enableAutoTransition"] = true
	n.node.Data["autoTransitionTo"] = target
	return n
}

// BroadcastTo makes the message eligible for broadcast nodes. Use
// domain.BroadcastTargetAll or a broadcast node id.
func (n *NodeBuilder) BroadcastTo(target string) *NodeBuilder {
	n.node.Data["enableBroadcast"] = true
	n.node.Data["broadcastTargetNode"] = target
	return n
}

// Branch adds a conditional rule.
func (n *NodeBuilder) Branch(variable, operator, value, target string) *NodeBuilder {
	conditions, _ := n.node.Data["conditions"].([]any)
	n.node.Data["conditions"] = append(conditions, map[string]any{
		"variable": variable,
		"operator": operator,
		"value":    value,
		"target":   target,
	})
	return n
}

// Default sets the target used when no rule matches.
func (n *NodeBuilder) Default(target string) *NodeBuilder {
	n.node.Data["defaultTarget"] = target
	return n
}

// Set stores a raw data key.
func (n *NodeBuilder) Set(key string, value any) *NodeBuilder {
	n.node.Data[key] = value
	return n
}

// At sets the canvas position.
func (n *NodeBuilder) At(x, y float64) *NodeBuilder {
	n.node.Position = domain.Position{X: x, Y: y}
	return n
}

// Build returns a copy of the underlying domain.Node.
func (n *NodeBuilder) Build() domain.Node {
	node := n.node
	node.Data = maps.Clone(n.node.Data)
	return node
}
