package ports

import (
	"context"

	"github.com/aretw0/botforge/pkg/domain"
)

// ProjectLoader defines how the generator retrieves a project document.
// This allows the source (file, HTTP body, memory) to be decoupled.
type ProjectLoader interface {
	// Load reads and decodes the project. Decoding must not validate the graph;
	// that is the generator's job.
	Load(ctx context.Context) (*domain.Project, error)

	// Source describes where the project comes from (a path, "memory", ...).
	Source() string
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is used by the CLI watch mode.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying project changes.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
