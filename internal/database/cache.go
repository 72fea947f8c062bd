package database

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedStore caches record lookups by normalized name. Writes through the
// store invalidate the affected entry once the backend write has returned, so a
// lookup racing the write cannot leave a stale record behind. Misses are not
// cached.
type CachedStore struct {
	RecordStore
	cache *cache.Cache
}

// NewCachedStore wraps store with a lookup cache of the given lifetime.
func NewCachedStore(store RecordStore, ttl time.Duration) *CachedStore {
	return &CachedStore{
		RecordStore: store,
		cache:       cache.New(ttl, 2*ttl),
	}
}

// Lookup returns a cached copy of the record when present.
func (c *CachedStore) Lookup(ctx context.Context, name string) (*Record, error) {
	key := NormalizeName(name)
	if v, ok := c.cache.Get(key); ok {
		r := *v.(*Record)
		return &r, nil
	}

	r, err := c.RecordStore.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	stored := *r
	c.cache.Set(key, &stored, cache.DefaultExpiration)
	return r, nil
}

// Create stores r and drops any cached entry for its name.
func (c *CachedStore) Create(ctx context.Context, r *Record) (int64, error) {
	key := r.NormalizedName()
	defer c.cache.Delete(key)
	return c.RecordStore.Create(ctx, r)
}

// Delete removes the record and its cached entry.
func (c *CachedStore) Delete(ctx context.Context, name string) error {
	key := NormalizeName(name)
	defer c.cache.Delete(key)
	return c.RecordStore.Delete(ctx, name)
}
