package token

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/raywall/bitable-toolkit/bitable"
)

const (
	// expireBuffer is subtracted from the server-reported lifetime so a
	// cached token is refreshed before the server invalidates it.
	expireBuffer = 60 * time.Second
	// defaultTTL applies when the server reports no usable lifetime.
	defaultTTL = 60 * time.Second
	minTTL     = time.Second
)

// Fetcher obtains a fresh token for a credential pair, returning the token
// and its remaining lifetime in seconds as reported by the server.
type Fetcher func(ctx context.Context, appID, appSecret string) (token string, expireSeconds int, err error)

// Cache serves tokens from a Store and fetches on miss. Concurrent callers
// asking for the same credential pair block on one fetch instead of stampeding
// the auth endpoint.
type Cache struct {
	store  Store
	fetch  Fetcher
	logger zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option customizes a Cache.
type Option func(*Cache)

// WithStore replaces the default in-process store.
func WithStore(store Store) Option {
	return func(c *Cache) { c.store = store }
}

// WithLogger sets the cache logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// NewCache creates a Cache around a Fetcher. Without options it stores
// tokens in process memory and logs nowhere.
func NewCache(fetch Fetcher, opts ...Option) *Cache {
	c := &Cache{
		store:  NewMemoryStore(),
		fetch:  fetch,
		logger: zerolog.Nop(),
		locks:  make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns a valid token for the credential pair, fetching one when the
// store has no live entry.
func (c *Cache) Token(ctx context.Context, appID, appSecret string) (string, error) {
	if appID == "" || appSecret == "" {
		return "", bitable.NewError(bitable.CodeCredentialsMissing, "app id and app secret are required")
	}
	key := cacheKey(appID, appSecret)

	if token, ok, err := c.store.Get(ctx, key); err == nil && ok {
		return token, nil
	} else if err != nil {
		c.logger.Warn().Err(err).Msg("token store read failed, fetching directly")
	}

	lock := c.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	// another caller may have fetched while this one waited on the lock
	if token, ok, err := c.store.Get(ctx, key); err == nil && ok {
		return token, nil
	}

	token, expire, err := c.fetch(ctx, appID, appSecret)
	if err != nil {
		return "", bitable.WrapError(bitable.CodeTokenAcquireFailed, err, "token fetch failed for app %s", appID)
	}
	if token == "" {
		return "", bitable.NewError(bitable.CodeTokenAcquireFailed, "auth endpoint returned an empty token for app %s", appID)
	}

	ttl := tokenTTL(expire)
	if err := c.store.Set(ctx, key, token, ttl); err != nil {
		c.logger.Warn().Err(err).Msg("token store write failed")
	}
	c.logger.Debug().Str("app_id", appID).Dur("ttl", ttl).Msg("token refreshed")
	return token, nil
}

// Evict discards the cached token for one credential pair.
func (c *Cache) Evict(ctx context.Context, appID, appSecret string) error {
	return c.store.Delete(ctx, cacheKey(appID, appSecret))
}

// EvictAll discards every cached token.
func (c *Cache) EvictAll(ctx context.Context) error {
	return c.store.Flush(ctx)
}

func (c *Cache) keyLock(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[key] = lock
	}
	return lock
}

func cacheKey(appID, appSecret string) string {
	return appID + "_" + appSecret
}

// tokenTTL shortens the reported lifetime by the safety buffer, clamping to
// a floor so short-lived tokens still cache briefly.
func tokenTTL(expireSeconds int) time.Duration {
	if expireSeconds <= 0 {
		return defaultTTL
	}
	ttl := time.Duration(expireSeconds)*time.Second - expireBuffer
	if ttl < minTTL {
		return minTTL
	}
	return ttl
}
