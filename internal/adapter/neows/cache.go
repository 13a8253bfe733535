package neows

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/couchcryptid/neo-risk-engine/internal/domain"
	"github.com/couchcryptid/neo-risk-engine/internal/observability"
)

// CachedLookup wraps a NeoLookup with an in-memory LRU cache. Only successful
// lookups are cached so not-found and transient failures are retried.
type CachedLookup struct {
	inner   domain.NeoLookup
	cache   *lru.Cache[string, domain.NeoWsObject]
	metrics *observability.Metrics
}

// NewCachedLookup creates a cache decorator around a lookup.
func NewCachedLookup(inner domain.NeoLookup, maxEntries int, metrics *observability.Metrics) (*CachedLookup, error) {
	cache, err := lru.New[string, domain.NeoWsObject](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("create neows cache: %w", err)
	}
	return &CachedLookup{
		inner:   inner,
		cache:   cache,
		metrics: metrics,
	}, nil
}

func (c *CachedLookup) LookupNeo(ctx context.Context, id string) (domain.NeoWsObject, error) {
	if obj, ok := c.cache.Get(id); ok {
		c.metrics.NeoWsCache.WithLabelValues("hit").Inc()
		return obj, nil
	}
	c.metrics.NeoWsCache.WithLabelValues("miss").Inc()

	obj, err := c.inner.LookupNeo(ctx, id)
	if err != nil {
		return obj, err
	}
	c.cache.Add(id, obj)
	return obj, nil
}
