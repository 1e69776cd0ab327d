package provider

import (
	"context"

	"github.com/lootscout/lootscout/internal/cache"
	domain "github.com/lootscout/lootscout/pkg/types"
)

// CachedProvider wraps a Provider with read-through result memoization.
// Only successful fetches are cached; a failed fetch leaves the previous
// entry (if any) in place and is retried on the next miss.
type CachedProvider struct {
	inner   Provider
	results *cache.Results
}

// Cached wraps p with the given result cache.
func Cached(p Provider, results *cache.Results) *CachedProvider {
	return &CachedProvider{inner: p, results: results}
}

// Name implements Provider.
func (c *CachedProvider) Name() domain.Source {
	return c.inner.Name()
}

// Fetch implements Provider, consulting the cache first.
func (c *CachedProvider) Fetch(ctx context.Context, q Query) ([]domain.Listing, error) {
	if listings, ok := c.results.Get(c.inner.Name(), q.Text, q.Platform); ok {
		return listings, nil
	}

	listings, err := c.inner.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	c.results.Put(c.inner.Name(), q.Text, q.Platform, listings)
	return listings, nil
}
