package domain

import "sort"

// ButtonAction is what happens when a button is pressed.
type ButtonAction string

const (
	// ActionGoto moves to the node named by Target.
	ActionGoto ButtonAction = "goto"
	// ActionCommand triggers the slash command named by Target.
	ActionCommand ButtonAction = "command"
	// ActionURL opens URL (or Target when URL is empty).
	ActionURL ButtonAction = "url"
)

// Button is a keyboard entry nested in a node's data bag.
type Button struct {
	ID     string       `json:"id" yaml:"id" mapstructure:"id"`
	Text   string       `json:"text" yaml:"text" mapstructure:"text"`
	Action ButtonAction `json:"action" yaml:"action" mapstructure:"action"`
	Target string       `json:"target,omitempty" yaml:"target,omitempty" mapstructure:"target"`
	URL    string       `json:"url,omitempty" yaml:"url,omitempty" mapstructure:"url"`
	Style  string       `json:"style,omitempty" yaml:"style,omitempty" mapstructure:"style"`

	// RowPosition groups buttons into keyboard rows. Nil means "own row, after
	// the explicitly positioned rows".
	RowPosition *int `json:"rowPosition,omitempty" yaml:"rowPosition,omitempty" mapstructure:"rowPosition"`
}

// Link returns the URL a url-action button opens.
func (b Button) Link() string {
	if b.URL != "" {
		return b.URL
	}
	return b.Target
}

// Rows groups buttons by RowPosition in ascending order. Buttons sharing a row
// keep their original relative order; unpositioned buttons get one row each.
func Rows(buttons []Button) [][]Button {
	positioned := make(map[int][]Button)
	var keys []int
	var loose [][]Button

	for _, b := range buttons {
		if b.RowPosition == nil {
			loose = append(loose, []Button{b})
			continue
		}
		row := *b.RowPosition
		if _, ok := positioned[row]; !ok {
			keys = append(keys, row)
		}
		positioned[row] = append(positioned[row], b)
	}

	sort.Ints(keys)
	rows := make([][]Button, 0, len(keys)+len(loose))
	for _, k := range keys {
		rows = append(rows, positioned[k])
	}
	return append(rows, loose...)
}
