package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lootscout/lootscout/internal/cache"
	domain "github.com/lootscout/lootscout/pkg/types"
)

type countingProvider struct {
	calls    int
	listings []domain.Listing
	err      error
}

func (p *countingProvider) Name() domain.Source { return domain.SourceEbay }

func (p *countingProvider) Fetch(_ context.Context, _ Query) ([]domain.Listing, error) {
	p.calls++
	return p.listings, p.err
}

func TestCachedProviderMemoizes(t *testing.T) {
	t.Parallel()

	inner := &countingProvider{listings: []domain.Listing{{ID: "1", Title: "Zelda"}}}
	p := Cached(inner, cache.New(time.Minute, 16))
	q := Query{Text: "zelda"}

	first, err := p.Fetch(context.Background(), q)
	require.NoError(t, err)
	second, err := p.Fetch(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls, "second fetch must be served from cache")
}

func TestCachedProviderDistinctKeys(t *testing.T) {
	t.Parallel()

	inner := &countingProvider{}
	p := Cached(inner, cache.New(time.Minute, 16))

	_, err := p.Fetch(context.Background(), Query{Text: "zelda"})
	require.NoError(t, err)
	_, err = p.Fetch(context.Background(), Query{Text: "zelda", Platform: "n64"})
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls, "platform hint is part of the key")
}

func TestCachedProviderDoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	inner := &countingProvider{err: errors.New("upstream down")}
	p := Cached(inner, cache.New(time.Minute, 16))
	q := Query{Text: "zelda"}

	_, err := p.Fetch(context.Background(), q)
	require.Error(t, err)
	_, err = p.Fetch(context.Background(), q)
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls, "failures must not be memoized")
}
