// Package cache implements the per-source, per-query result cache.
//
// The cache is an injected service instance, not package state: TTL and
// entry cap come from the constructor, expiry is handled by the backing
// expirable LRU, and Clear gives operators an explicit escape hatch.
package cache

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/lootscout/lootscout/internal/metrics"
	domain "github.com/lootscout/lootscout/pkg/types"
)

// Results memoizes listing slices by (source, query, platform).
type Results struct {
	lru *expirable.LRU[string, []domain.Listing]
}

// New creates a Results cache holding at most maxEntries entries, each
// valid for ttl.
func New(ttl time.Duration, maxEntries int) *Results {
	return &Results{
		lru: expirable.NewLRU[string, []domain.Listing](maxEntries, nil, ttl),
	}
}

// Key builds the cache key for one provider fetch. Query and platform are
// lowercased so "Zelda" and "zelda" share an entry.
func Key(source domain.Source, query, platform string) string {
	return strings.ToLower(string(source) + "|" + query + "|" + platform)
}

// Get returns the cached listings for key. The second return is false on
// a miss or an expired entry.
func (r *Results) Get(source domain.Source, query, platform string) ([]domain.Listing, bool) {
	listings, ok := r.lru.Get(Key(source, query, platform))
	if ok {
		metrics.CacheHitsTotal.WithLabelValues(string(source)).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(string(source)).Inc()
	}
	return listings, ok
}

// Put stores listings for key, replacing any previous entry.
func (r *Results) Put(source domain.Source, query, platform string, listings []domain.Listing) {
	r.lru.Add(Key(source, query, platform), listings)
}

// Clear removes every entry.
func (r *Results) Clear() {
	r.lru.Purge()
}

// Len returns the number of live entries.
func (r *Results) Len() int {
	return r.lru.Len()
}
