package handlers_test

import (
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lootscout/lootscout/internal/api/handlers"
	domain "github.com/lootscout/lootscout/pkg/types"
)

type fakeTrendingSource struct {
	entries []domain.TrendingEntry
}

func (f *fakeTrendingSource) Snapshot() []domain.TrendingEntry {
	return f.entries
}

func TestTrendingHandler(t *testing.T) {
	t.Parallel()

	src := &fakeTrendingSource{entries: []domain.TrendingEntry{
		{Listing: domain.Listing{ID: "catalog-1", Title: "Chrono Trigger"}, Manual: true},
		{Listing: domain.Listing{ID: "ebay-9", Title: "Pokemon Crystal"}, FavoriteCount: 5},
	}}

	_, api := humatest.New(t)
	handlers.RegisterTrendingRoutes(api, handlers.NewTrendingHandler(src))

	resp := api.Get("/api/v1/trending")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"total":2`)
	assert.Contains(t, resp.Body.String(), `"manual":true`)
	assert.Contains(t, resp.Body.String(), `"favorite_count":5`)
}

func TestTrendingHandlerEmpty(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	handlers.RegisterTrendingRoutes(api, handlers.NewTrendingHandler(&fakeTrendingSource{}))

	resp := api.Get("/api/v1/trending")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"total":0`)
}
