package dsl

import (
	"fmt"

	"github.com/aretw0/botforge/internal/adapters/memory"
	"github.com/aretw0/botforge/pkg/domain"
)

// Builder manages the project construction. Nodes keep the order they were
// added in.
type Builder struct {
	name        string
	options     domain.Options
	order       []string
	nodes       map[string]*NodeBuilder
	connections []domain.Connection
}

// New creates a new project builder.
func New(name string) *Builder {
	return &Builder{
		name:  name,
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add creates a new node in the project.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: domain.Node{
			ID:   id,
			Kind: domain.KindMessage,
			Data: make(map[string]any),
		},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Connect adds an edge between two nodes.
func (b *Builder) Connect(source, target string) *Builder {
	b.connections = append(b.connections, domain.Connection{
		ID:     fmt.Sprintf("e%d", len(b.connections)+1),
		Source: source,
		Target: target,
	})
	return b
}

// BotName sets the bot display name.
func (b *Builder) BotName(name string) *Builder {
	b.options.BotName = name
	return b
}

// Group registers a chat the bot is a member of.
func (b *Builder) Group(id, name string, chatID int64) *Builder {
	b.options.Groups = append(b.options.Groups, domain.Group{ID: id, Name: name, ChatID: chatID})
	return b
}

// Admins sets the ids allowed to run admin actions.
func (b *Builder) Admins(ids ...int64) *Builder {
	b.options.AdminIDs = append(b.options.AdminIDs, ids...)
	return b
}

// UserDatabase enables the user database for the given project id.
func (b *Builder) UserDatabase(projectID int) *Builder {
	b.options.UserDatabaseEnabled = true
	b.options.ProjectID = &projectID
	return b
}

// Logging enables logging in the generated program.
func (b *Builder) Logging() *Builder {
	b.options.EnableLogging = true
	return b
}

// Project returns the built project.
func (b *Builder) Project() domain.Project {
	nodes := make([]domain.Node, 0, len(b.order))
	for _, id := range b.order {
		nodes = append(nodes, b.nodes[id].Build())
	}
	connections := make([]domain.Connection, len(b.connections))
	copy(connections, b.connections)
	return domain.Project{
		Name:        b.name,
		Nodes:       nodes,
		Connections: connections,
		Options:     b.options,
	}
}

// Build compiles the project into a memory loader.
func (b *Builder) Build() (*memory.Loader, error) {
	project := b.Project()
	for _, n := range project.Nodes {
		if !domain.ValidID(n.ID) {
			return nil, fmt.Errorf("failed to build project: invalid node id %q", n.ID)
		}
	}
	return memory.NewLoader(project), nil
}
