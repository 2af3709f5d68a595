// Package cache memoizes layouts.
//
// A layout is a pure function of the feature batch, the view and the
// options, so the runner can skip grouping and packing when the same
// request comes in again (for example when a viewer re-requests the layout
// after a no-op resize). Entries are opaque bytes addressed by keys from a
// [Keyer].
package cache

import (
	"context"
	"time"
)

// Cache stores opaque values with an optional TTL.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// TTLLayout is how long a computed layout stays cached.
const TTLLayout = time.Hour
