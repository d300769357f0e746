package token

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store is the persistence contract behind a Cache. Implementations must be
// safe for concurrent use.
type Store interface {
	// Get returns the cached token for key, reporting whether it was found.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores a token under key for the given lifetime.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete removes the token under key. Deleting an absent key is not an
	// error.
	Delete(ctx context.Context, key string) error
	// Flush removes every token owned by this store.
	Flush(ctx context.Context) error
}

// MemoryStore keeps tokens in process memory with per-entry expiration.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates an in-process store. Expired entries are purged in
// the background every minute.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: gocache.New(gocache.NoExpiration, time.Minute)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return "", false, nil
	}
	token, ok := v.(string)
	return token, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.cache.Set(key, value, ttl)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

func (s *MemoryStore) Flush(_ context.Context) error {
	s.cache.Flush()
	return nil
}
