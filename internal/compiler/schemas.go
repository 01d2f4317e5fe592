package compiler

import (
	"maps"

	"github.com/aretw0/botforge/pkg/domain"
	"github.com/aretw0/botforge/pkg/schema"
)

var buttonSchema = schema.Schema{
	"id":          schema.Optional(schema.String()),
	"text":        schema.Required(schema.String()),
	"action":      schema.Optional(schema.Enum("", string(domain.ActionGoto), string(domain.ActionCommand), string(domain.ActionURL))),
	"target":      schema.Optional(schema.String()),
	"url":         schema.Optional(schema.String()),
	"style":       schema.Optional(schema.String()),
	"rowPosition": schema.Optional(schema.Int()),
}

var conditionSchema = schema.Schema{
	"variable": schema.Required(schema.String()),
	"operator": schema.Required(schema.Enum(domain.OpEquals, domain.OpNotEquals, domain.OpContains, domain.OpExists, domain.OpNotExists)),
	"value":    schema.Optional(schema.String()),
	"target":   schema.Required(schema.String()),
}

// messageSchema covers the keys every message-like node understands.
var messageSchema = schema.Schema{
	"messageText": schema.Optional(schema.String()),
	"formatMode":  schema.Optional(schema.Enum("", "none", "html", "HTML", "markdown", "Markdown")),

	"buttons":                schema.Optional(schema.Slice(schema.Object(buttonSchema))),
	"keyboardType":           schema.Optional(schema.Enum("", domain.KeyboardInline, domain.KeyboardReply, domain.KeyboardNone)),
	"resizeKeyboard":         schema.Optional(schema.Bool()),
	"oneTimeKeyboard":        schema.Optional(schema.Bool()),
	"allowMultipleSelection": schema.Optional(schema.Bool()),
	"multiSelectVariable":    schema.Optional(schema.String()),
	"continueButtonText":     schema.Optional(schema.String()),
	"continueButtonTarget":   schema.Optional(schema.String()),

	"imageUrl":      schema.Optional(schema.String()),
	"videoUrl":      schema.Optional(schema.String()),
	"audioUrl":      schema.Optional(schema.String()),
	"documentUrl":   schema.Optional(schema.String()),
	"attachedMedia": schema.Optional(schema.Slice(schema.String())),

	"enableBroadcast":     schema.Optional(schema.Bool()),
	"broadcastTargetNode": schema.Optional(schema.String()),

	"enableAutoTransition": schema.Optional(schema.Bool()),
	"autoTransitionTo":     schema.Optional(schema.String()),

	"command":     schema.Optional(schema.String()),
	"description": schema.Optional(schema.String()),
}

func extend(base schema.Schema, extra schema.Schema) schema.Schema {
	out := maps.Clone(base)
	maps.Copy(out, extra)
	return out
}

var (
	commandSchema = extend(messageSchema, schema.Schema{
		"command": schema.Required(schema.String()),
	})

	inputSchema = extend(messageSchema, schema.Schema{
		"inputVariable": schema.Optional(schema.String()),
		"inputPrompt":   schema.Optional(schema.String()),
	})

	conditionalSchema = schema.Schema{
		"messageText":   schema.Optional(schema.String()),
		"conditions":    schema.Optional(schema.Slice(schema.Object(conditionSchema))),
		"defaultTarget": schema.Optional(schema.String()),
	}

	broadcastSchema = schema.Schema{
		"command":          schema.Optional(schema.String()),
		"description":      schema.Optional(schema.String()),
		"broadcastMessage": schema.Optional(schema.String()),
		"recipientSource":  schema.Optional(schema.Enum(domain.RecipientsBotUsers, domain.RecipientsGroupMembers)),
	}

	adminSchema = schema.Schema{
		"adminAction":  schema.Required(schema.Enum(adminActionNames()...)),
		"command":      schema.Optional(schema.String()),
		"messageText":  schema.Optional(schema.String()),
		"muteDuration": schema.Optional(schema.Int()),
	}
)
