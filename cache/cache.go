// Package cache stores analysis results keyed by image content.
//
// Implementations are bounded: the in-memory cache evicts the least recently
// used entry and the SQLite store in package database prunes by last use.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key value store with optional expiry.
// A miss is reported as (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
