package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrKeyNotFound = errors.New("cache: key not found")
	ErrStoreGet    = errors.New("cache: failed to get")
	ErrStoreSet    = errors.New("cache: failed to set")
	ErrStoreDelete = errors.New("cache: failed to delete")
)

// Store is a byte-oriented key value store with per-entry expiry. Get returns
// ErrKeyNotFound for missing or expired keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
