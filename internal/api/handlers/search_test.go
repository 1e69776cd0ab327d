package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lootscout/lootscout/internal/api/handlers"
	"github.com/lootscout/lootscout/internal/search"
	domain "github.com/lootscout/lootscout/pkg/types"
)

// fakeSearcher records the request and returns a canned result.
type fakeSearcher struct {
	gotReq  search.Request
	result  *search.Result
	err     error
	sources []domain.Source
}

func (f *fakeSearcher) Search(_ context.Context, req search.Request) (*search.Result, error) {
	f.gotReq = req
	return f.result, f.err
}

func (f *fakeSearcher) Sources() []domain.Source {
	return f.sources
}

func TestSearchHandler_Search(t *testing.T) {
	t.Parallel()

	svc := &fakeSearcher{
		result: &search.Result{
			Listings: []domain.Listing{
				{ID: "e1", Title: "Chrono Trigger SNES", Price: "$249.99", Source: domain.SourceEbay},
			},
			Total:   1,
			HasMore: false,
		},
	}
	h := handlers.NewSearchHandler(svc)

	_, api := humatest.New(t)
	handlers.RegisterSearchRoutes(api, h)

	resp := api.Get("/api/v1/search?q=chrono&platform=snes&platform=n64&genre=rpg&price=under-50&source=ebay&sort=price-asc&merge=prefer-detail&limit=10&offset=5")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"total":1`)
	assert.Contains(t, resp.Body.String(), "Chrono Trigger SNES")

	// The handler maps every query knob onto the pipeline request.
	assert.Equal(t, "chrono", svc.gotReq.Query)
	assert.Equal(t, "snes", svc.gotReq.Platform)
	assert.Equal(t, []string{"snes", "n64"}, svc.gotReq.Filters.Platforms)
	assert.Equal(t, []string{"rpg"}, svc.gotReq.Filters.Genres)
	assert.Equal(t, []domain.PriceBracket{domain.BracketUnder50}, svc.gotReq.Filters.Prices)
	assert.Equal(t, []string{"ebay"}, svc.gotReq.Filters.Sources)
	assert.Equal(t, domain.SortPriceAsc, svc.gotReq.Sort)
	assert.Equal(t, domain.MergePreferDetail, svc.gotReq.Policy)
	assert.Equal(t, 10, svc.gotReq.Limit)
	assert.Equal(t, 5, svc.gotReq.Offset)
}

func TestSearchHandler_SearchEmptyQuery(t *testing.T) {
	t.Parallel()

	svc := &fakeSearcher{result: &search.Result{Listings: []domain.Listing{}}}
	h := handlers.NewSearchHandler(svc)

	_, api := humatest.New(t)
	handlers.RegisterSearchRoutes(api, h)

	resp := api.Get("/api/v1/search")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "", svc.gotReq.Query)
	assert.Equal(t, "", svc.gotReq.Platform)
}

func TestSearchHandler_SearchPipelineError(t *testing.T) {
	t.Parallel()

	svc := &fakeSearcher{err: errors.New("pipeline broke")}
	h := handlers.NewSearchHandler(svc)

	_, api := humatest.New(t)
	handlers.RegisterSearchRoutes(api, h)

	resp := api.Get("/api/v1/search?q=chrono")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "search failed")
}

func TestSearchHandler_SearchInvalidSort(t *testing.T) {
	t.Parallel()

	svc := &fakeSearcher{result: &search.Result{}}
	h := handlers.NewSearchHandler(svc)

	_, api := humatest.New(t)
	handlers.RegisterSearchRoutes(api, h)

	resp := api.Get("/api/v1/search?q=chrono&sort=bogus")
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

// fakeSessionSearcher adds generation-tracked searches to fakeSearcher.
type fakeSessionSearcher struct {
	fakeSearcher

	gotKey     string
	sessionErr error
}

func (f *fakeSessionSearcher) SessionSearch(_ context.Context, key string, req search.Request) (*search.Result, error) {
	f.gotKey = key
	f.gotReq = req
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	return f.result, f.err
}

func TestSearchHandler_SessionHeaderRoutesThroughSession(t *testing.T) {
	t.Parallel()

	svc := &fakeSessionSearcher{fakeSearcher: fakeSearcher{result: &search.Result{Total: 1}}}
	h := handlers.NewSearchHandler(svc)

	_, api := humatest.New(t)
	handlers.RegisterSearchRoutes(api, h)

	resp := api.Get("/api/v1/search?q=chrono", "X-Search-Session: ui-1")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "ui-1", svc.gotKey)
	assert.Equal(t, "chrono", svc.gotReq.Query)
}

func TestSearchHandler_SupersededReturnsConflict(t *testing.T) {
	t.Parallel()

	svc := &fakeSessionSearcher{sessionErr: search.ErrSuperseded}
	h := handlers.NewSearchHandler(svc)

	_, api := humatest.New(t)
	handlers.RegisterSearchRoutes(api, h)

	resp := api.Get("/api/v1/search?q=chrono", "X-Search-Session: ui-1")
	require.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "superseded")
}

func TestSearchHandler_NoSessionHeaderSkipsTracking(t *testing.T) {
	t.Parallel()

	svc := &fakeSessionSearcher{
		fakeSearcher: fakeSearcher{result: &search.Result{Total: 1}},
		sessionErr:   search.ErrSuperseded,
	}
	h := handlers.NewSearchHandler(svc)

	_, api := humatest.New(t)
	handlers.RegisterSearchRoutes(api, h)

	// Without a session key the handler uses the untracked path, so the
	// session error never surfaces.
	resp := api.Get("/api/v1/search?q=chrono")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, svc.gotKey)
}

func TestSearchHandler_Sources(t *testing.T) {
	t.Parallel()

	svc := &fakeSearcher{sources: []domain.Source{domain.SourceEbay, domain.SourceCatalog}}
	h := handlers.NewSearchHandler(svc)

	_, api := humatest.New(t)
	handlers.RegisterSearchRoutes(api, h)

	resp := api.Get("/api/v1/sources")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"ebay"`)
	assert.Contains(t, resp.Body.String(), `"catalog"`)
}
