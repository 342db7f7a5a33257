package cache

import (
	"context"
	"errors"
	"time"
)

// TieredCache layers a fast cache (Redis) over a durable one (MongoDB).
//
// Reads try the fast tier first and backfill it on a durable hit. Writes go
// to both. A failing fast tier degrades to durable-only: its errors are
// passed to OnFastError (if set) and otherwise ignored.
type TieredCache struct {
	fast    Cache
	durable Cache

	// FastTTL caps how long entries live in the fast tier. Zero uses TTLFast.
	FastTTL time.Duration
	// OnFastError observes fast-tier failures.
	OnFastError func(op string, err error)
}

// NewTieredCache combines fast and durable.
func NewTieredCache(fast, durable Cache) *TieredCache {
	return &TieredCache{fast: fast, durable: durable}
}

func (c *TieredCache) fastTTL(ttl time.Duration) time.Duration {
	limit := c.FastTTL
	if limit <= 0 {
		limit = TTLFast
	}
	if ttl > 0 && ttl < limit {
		return ttl
	}
	return limit
}

func (c *TieredCache) fastFailed(op string, err error) {
	if err != nil && c.OnFastError != nil {
		c.OnFastError(op, err)
	}
}

// Get implements Cache.
func (c *TieredCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.fast.Get(ctx, key)
	if err == nil && ok {
		return data, true, nil
	}
	c.fastFailed("get", err)

	data, ok, err = c.durable.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	c.fastFailed("backfill", c.fast.Set(ctx, key, data, c.fastTTL(0)))
	return data, true, nil
}

// Set implements Cache. Only a durable failure is returned.
func (c *TieredCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.durable.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	c.fastFailed("set", c.fast.Set(ctx, key, data, c.fastTTL(ttl)))
	return nil
}

// Delete implements Cache.
func (c *TieredCache) Delete(ctx context.Context, key string) error {
	return errors.Join(c.fast.Delete(ctx, key), c.durable.Delete(ctx, key))
}

// Clear clears whichever tiers support it.
func (c *TieredCache) Clear(ctx context.Context) error {
	var errs []error
	for _, tier := range []Cache{c.fast, c.durable} {
		if cl, ok := tier.(Clearer); ok {
			errs = append(errs, cl.Clear(ctx))
		}
	}
	return errors.Join(errs...)
}

// Close closes both tiers.
func (c *TieredCache) Close() error {
	return errors.Join(c.fast.Close(), c.durable.Close())
}

var (
	_ Cache   = (*TieredCache)(nil)
	_ Clearer = (*TieredCache)(nil)
)
