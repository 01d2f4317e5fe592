package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Condition is one rule of a conditional node.
type Condition struct {
	Variable string `json:"variable" mapstructure:"variable"`
	Operator string `json:"operator" mapstructure:"operator"`
	Value    string `json:"value,omitempty" mapstructure:"value"`
	Target   string `json:"target" mapstructure:"target"`
}

// NodeData is the typed view of Node.Data. Each kind reads the fields it needs;
// the keys are the camelCase names the builder UI writes.
type NodeData struct {
	MessageText string `mapstructure:"messageText"`
	FormatMode  string `mapstructure:"formatMode"`

	Buttons                []Button `mapstructure:"buttons"`
	KeyboardType           string   `mapstructure:"keyboardType"`
	ResizeKeyboard         bool     `mapstructure:"resizeKeyboard"`
	OneTimeKeyboard        bool     `mapstructure:"oneTimeKeyboard"`
	AllowMultipleSelection bool     `mapstructure:"allowMultipleSelection"`
	MultiSelectVariable    string   `mapstructure:"multiSelectVariable"`
	ContinueButtonText     string   `mapstructure:"continueButtonText"`
	ContinueButtonTarget   string   `mapstructure:"continueButtonTarget"`

	ImageURL      string   `mapstructure:"imageUrl"`
	VideoURL      string   `mapstructure:"videoUrl"`
	AudioURL      string   `mapstructure:"audioUrl"`
	DocumentURL   string   `mapstructure:"documentUrl"`
	AttachedMedia []string `mapstructure:"attachedMedia"`

	EnableBroadcast     bool   `mapstructure:"enableBroadcast"`
	BroadcastTargetNode string `mapstructure:"broadcastTargetNode"`
	BroadcastMessage    string `mapstructure:"broadcastMessage"`
	RecipientSource     string `mapstructure:"recipientSource"`

	EnableAutoTransition bool   `mapstructure:"enableAutoTransition"`
	AutoTransitionTo     string `mapstructure:"autoTransitionTo"`

	InputVariable string `mapstructure:"inputVariable"`
	InputPrompt   string `mapstructure:"inputPrompt"`

	Command     string `mapstructure:"command"`
	Description string `mapstructure:"description"`

	Conditions    []Condition `mapstructure:"conditions"`
	DefaultTarget string      `mapstructure:"defaultTarget"`

	AdminAction  string `mapstructure:"adminAction"`
	MuteDuration int    `mapstructure:"muteDuration"`
}

// Decode converts the raw data bag into NodeData. Type mismatches (a string
// where a bool is expected, etc.) are reported with the offending key.
func (n Node) Decode() (NodeData, error) {
	var data NodeData
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &data,
		TagName: "mapstructure",
	})
	if err != nil {
		return data, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(n.Data); err != nil {
		return data, fmt.Errorf("failed to decode data of node %s: %w", n.ID, err)
	}
	return data, nil
}

// HasStaticMedia reports whether any static media URL is configured.
func (d NodeData) HasStaticMedia() bool {
	return d.AudioURL != "" || d.VideoURL != "" || d.DocumentURL != "" || d.ImageURL != ""
}

// HasMedia reports whether the node can send anything but plain text.
func (d NodeData) HasMedia() bool {
	return d.HasStaticMedia() || len(d.AttachedMedia) > 0
}
