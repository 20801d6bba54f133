// Package catalog supplies the read-only promotion bundle catalog to the
// allocation pipeline.
//
// A Source fetches the raw catalog (HTTP backend, clinic database, or a
// gzipped snapshot file); the Cache wraps a single Source so every consumer
// in the process observes the same catalog snapshot, with a TTL refresh
// policy and explicit invalidation on checkout. A failed refresh is
// absorbed: the pipeline sees the last known catalog, or an empty one,
// never an error.
package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/luminaspa/booking-cart/internal/domain/promotion"
)

// Source fetches the full promotion bundle catalog.
type Source interface {
	Fetch(ctx context.Context) ([]promotion.Bundle, error)
}

// DefaultTTL is the catalog refresh interval when none is configured.
const DefaultTTL = 5 * time.Minute

// failureRetryInterval bounds how often a failing source is retried, so a
// dead backend is not hammered on every quote.
const failureRetryInterval = 30 * time.Second

// Cache is a TTL cache over a Source. Concurrent refreshes are collapsed
// into one fetch, and a refresh that was superseded by an Invalidate never
// overwrites the newer state (last write wins).
type Cache struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	sf singleflight.Group

	mu        sync.RWMutex
	bundles   []promotion.Bundle
	fetchedAt time.Time
	failedAt  time.Time
	gen       uint64
}

// NewCache creates a Cache over the given source. A non-positive ttl falls
// back to DefaultTTL.
func NewCache(source Source, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Bundles returns the current catalog snapshot, refreshing it from the
// source when stale. It never returns an error: a failed refresh degrades
// to the last known snapshot, which is empty until the first success.
func (c *Cache) Bundles(ctx context.Context) []promotion.Bundle {
	c.mu.RLock()
	stale := c.bundles
	fresh := !c.fetchedAt.IsZero() && c.now().Sub(c.fetchedAt) < c.ttl
	backoff := !c.failedAt.IsZero() && c.now().Sub(c.failedAt) < failureRetryInterval
	c.mu.RUnlock()

	if fresh || backoff {
		return stale
	}

	v, err, _ := c.sf.Do("refresh", func() (any, error) {
		return c.refresh(ctx)
	})
	if err != nil {
		zctx.From(ctx).Warn("Promotion catalog refresh failed, serving last known snapshot",
			zap.Error(err))
	}
	bundles, _ := v.([]promotion.Bundle)
	return bundles
}

// refresh fetches from the source and stores the result unless the cache
// generation moved on while the fetch was in flight.
func (c *Cache) refresh(ctx context.Context) ([]promotion.Bundle, error) {
	c.mu.RLock()
	startGen := c.gen
	c.mu.RUnlock()

	fetched, err := c.source.Fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.failedAt = c.now()
		return c.bundles, err
	}

	if c.gen != startGen {
		// Superseded while in flight; keep the newer state.
		return c.bundles, nil
	}

	c.bundles = fetched
	c.fetchedAt = c.now()
	c.failedAt = time.Time{}
	c.gen++
	return fetched, nil
}

// Invalidate marks the snapshot stale so the next Bundles call refetches.
// Called after a successful checkout, when the backend may have retired
// or restocked promotions.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchedAt = time.Time{}
	c.failedAt = time.Time{}
	c.gen++
}
