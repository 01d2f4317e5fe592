package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/botforge/pkg/domain"
)

// Loader implements ports.ProjectLoader over a project held in memory.
type Loader struct {
	project domain.Project
}

// NewLoader creates a loader that always returns a copy of project.
func NewLoader(project domain.Project) *Loader {
	return &Loader{project: project}
}

// NewFromNodes builds a project from nodes and connections.
// Nodes must carry an id; everything else is left to the generator.
func NewFromNodes(nodes []domain.Node, connections ...domain.Connection) (*Loader, error) {
	for i, n := range nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node %d missing ID", i)
		}
	}
	return NewLoader(domain.Project{Nodes: nodes, Connections: connections}), nil
}

// Load returns a copy of the project. Node data bags are shared and must be
// treated as read-only.
func (l *Loader) Load(ctx context.Context) (*domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := l.project
	p.Nodes = append([]domain.Node(nil), l.project.Nodes...)
	p.Connections = append([]domain.Connection(nil), l.project.Connections...)
	return &p, nil
}

// Source implements ports.ProjectLoader.
func (l *Loader) Source() string { return "memory" }
