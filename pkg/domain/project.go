package domain

// Group is a chat the bot is a member of, configured on the project.
type Group struct {
	ID     string `json:"id" yaml:"id" mapstructure:"id"`
	Name   string `json:"name" yaml:"name" mapstructure:"name"`
	ChatID int64  `json:"chatId" yaml:"chatId" mapstructure:"chatId"`
}

// Options are the per-project generation switches.
type Options struct {
	BotName             string  `json:"botName" yaml:"botName"`
	Groups              []Group `json:"groups,omitempty" yaml:"groups,omitempty"`
	UserDatabaseEnabled bool    `json:"userDatabaseEnabled" yaml:"userDatabaseEnabled"`
	ProjectID           *int    `json:"projectId" yaml:"projectId"`
	EnableLogging       bool    `json:"enableLogging" yaml:"enableLogging"`
	AdminIDs            []int64 `json:"adminIds,omitempty" yaml:"adminIds,omitempty"`
}

// Project is the document the builder UI hands to the generator.
type Project struct {
	Name        string       `json:"name,omitempty" yaml:"name,omitempty"`
	Nodes       []Node       `json:"nodes" yaml:"nodes"`
	Connections []Connection `json:"connections" yaml:"connections"`
	Options     Options      `json:"options" yaml:"options"`
}

// DisplayName returns the bot name, falling back to the project name.
func (o Options) DisplayName(projectName string) string {
	switch {
	case o.BotName != "":
		return o.BotName
	case projectName != "":
		return projectName
	}
	return "Telegram Bot"
}
