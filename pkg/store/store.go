package store

import (
	"context"
	"time"
)

// KV is a TTL key-value store for ephemeral state: OTP challenges, pending
// social-account references and rate-limit counters. Backed by Redis in
// production and by the in-memory cache in tests and redis-less dev.
type KV interface {
	// Set stores a value with a TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns the value and whether the key exists and is unexpired.
	Get(ctx context.Context, key string) (string, bool, error)
	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Incr increments a counter, setting the TTL when the counter is created.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
