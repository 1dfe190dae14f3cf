package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

const (
	defaultNumCounters = 1e5
	defaultMaxCost     = 64 << 20
	defaultBufferItems = 64
)

// MemoryStore keeps entries in process memory. Entries are costed by their
// size, so MaxCost bounds the bytes held.
type MemoryStore struct {
	cache *ristretto.Cache[string, []byte]
}

func NewMemoryStore(maxCost int64) (*MemoryStore, error) {
	if maxCost <= 0 {
		maxCost = defaultMaxCost
	}

	//nolint:exhaustruct
	cache, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: defaultNumCounters,
		MaxCost:     maxCost,
		BufferItems: defaultBufferItems,
		Cost: func(value []byte) int64 {
			return int64(len(value))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("cache: failed to create memory store: %w", err)
	}

	return &MemoryStore{cache: cache}, nil
}

var defaultStore = sync.OnceValues(func() (*MemoryStore, error) {
	return NewMemoryStore(defaultMaxCost)
})

// Default returns the process-wide memory store shared by clients that were
// not given a store of their own.
func Default() (*MemoryStore, error) {
	return defaultStore()
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := s.cache.Get(key)
	if !ok {
		return nil, ErrKeyNotFound
	}

	return value, nil
}

// Set blocks until the entry is visible to Get. A rejected entry is reported as
// ErrStoreSet.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if !s.cache.SetWithTTL(key, value, 0, ttl) {
		return fmt.Errorf("%w: %s was dropped", ErrStoreSet, key)
	}

	s.cache.Wait()

	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.cache.Del(key)

	return nil
}

func (s *MemoryStore) Close() {
	s.cache.Close()
}
