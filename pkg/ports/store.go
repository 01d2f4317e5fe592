package ports

import (
	"context"
	"time"
)

// Cache keeps generated programs keyed by the content hash of their project.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the cached program for key.
	// Returns domain.ErrCacheMiss if nothing is stored under key.
	Get(ctx context.Context, key string) (string, error)

	// Set stores source under key. A zero ttl keeps the entry until evicted.
	Set(ctx context.Context, key, source string, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
