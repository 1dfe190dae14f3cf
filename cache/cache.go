package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const defaultTTL = time.Minute

var (
	ErrCacheMarshal   = errors.New("cache: failed to marshal value")
	ErrCacheUnmarshal = errors.New("cache: failed to unmarshal value")
)

// Cache stores JSON encoded values of type V under keys of type K.
type Cache[K any, V any] struct {
	store      Store
	ttl        time.Duration
	keyEncoder KeyEncoder
}

func New[K any, V any](store Store, ttl time.Duration, keyEncoder KeyEncoder) *Cache[K, V] {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &Cache[K, V]{
		store:      store,
		ttl:        ttl,
		keyEncoder: keyEncoder,
	}
}

func (c *Cache[K, V]) TTL() time.Duration {
	return c.ttl
}

func (c *Cache[K, V]) Get(ctx context.Context, key K) (*V, error) {
	encodedKey, err := c.keyEncoder.Encode(key)
	if err != nil {
		return nil, err
	}

	data, err := c.store.Get(ctx, encodedKey)
	if err != nil {
		return nil, err
	}

	var value V
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCacheUnmarshal, err)
	}

	return &value, nil
}

func (c *Cache[K, V]) Set(ctx context.Context, key K, value *V) error {
	encodedKey, err := c.keyEncoder.Encode(key)
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCacheMarshal, err)
	}

	return c.store.Set(ctx, encodedKey, data, c.ttl)
}

func (c *Cache[K, V]) Delete(ctx context.Context, key K) error {
	encodedKey, err := c.keyEncoder.Encode(key)
	if err != nil {
		return err
	}

	return c.store.Delete(ctx, encodedKey)
}
