package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lootscout/lootscout/internal/search"
	domain "github.com/lootscout/lootscout/pkg/types"
)

// Searcher is the slice of the search service the HTTP layer needs.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (*search.Result, error)
	Sources() []domain.Source
}

// SessionSearcher additionally tracks per-client generations, dropping
// results that a newer search on the same client key superseded.
type SessionSearcher interface {
	Searcher
	SessionSearch(ctx context.Context, key string, req search.Request) (*search.Result, error)
}

// SearchHandler handles listing search requests.
type SearchHandler struct {
	svc Searcher
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(svc Searcher) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// SearchInput is the query surface of the search endpoint. Facet
// parameters repeat: ?platform=snes&platform=n64.
type SearchInput struct {
	Query     string   `query:"q"        doc:"Search text; empty serves the browse catalog"                     example:"chrono trigger"`
	Platforms []string `query:"platform,explode" doc:"Platform facet tokens, ORed"                              example:"snes"`
	Genres    []string `query:"genre,explode"    doc:"Genre facet tokens, ORed"                                 example:"rpg"`
	Prices    []string `query:"price,explode"    doc:"Price bracket tokens"                                     enum:"under-25,under-50,under-100,over-100"`
	Sources   []string `query:"source,explode"   doc:"Source facet tokens"                                      example:"ebay"`
	Sort      string   `query:"sort"     doc:"Sort order (default from config)"                                 enum:"price-asc,price-desc,recency,"`
	Merge     string   `query:"merge"    doc:"Title collision policy (default from config)"                     enum:"last-wins,first-wins,prefer-detail,"`
	Limit     int      `query:"limit"    doc:"Page size"                                                        minimum:"0" maximum:"100"`
	Offset    int      `query:"offset"   doc:"Pagination offset"                                                minimum:"0"`
	Session   string   `header:"X-Search-Session" doc:"Client session key; a newer search on the same key supersedes this one"`
}

// SearchOutput is the response body for the search endpoint.
type SearchOutput struct {
	Body search.Result
}

// Search runs the aggregation pipeline. Individual source failures are
// invisible here; only a pipeline-level failure produces an error.
func (h *SearchHandler) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	brackets := make([]domain.PriceBracket, len(input.Prices))
	for i, p := range input.Prices {
		brackets[i] = domain.PriceBracket(p)
	}

	// The first platform facet doubles as the upstream platform hint,
	// mirroring what the search UI sends to the scrapers.
	platformHint := ""
	if len(input.Platforms) > 0 {
		platformHint = input.Platforms[0]
	}

	req := search.Request{
		Query:    input.Query,
		Platform: platformHint,
		Filters: domain.FilterSelection{
			Platforms: input.Platforms,
			Genres:    input.Genres,
			Prices:    brackets,
			Sources:   input.Sources,
		},
		Sort:   domain.SortOrder(input.Sort),
		Policy: domain.MergePolicy(input.Merge),
		Limit:  input.Limit,
		Offset: input.Offset,
	}

	res, err := h.search(ctx, input.Session, req)
	if err != nil {
		if errors.Is(err, search.ErrSuperseded) {
			return nil, huma.Error409Conflict("search superseded by a newer query on this session")
		}
		return nil, huma.Error500InternalServerError("search failed: " + err.Error())
	}

	return &SearchOutput{Body: *res}, nil
}

// search routes through the per-client session when the caller sent a
// session key and the service supports generation tracking.
func (h *SearchHandler) search(ctx context.Context, session string, req search.Request) (*search.Result, error) {
	if session != "" {
		if ss, ok := h.svc.(SessionSearcher); ok {
			return ss.SessionSearch(ctx, session, req)
		}
	}
	return h.svc.Search(ctx, req)
}

// SourcesOutput is the response body for the sources endpoint.
type SourcesOutput struct {
	Body struct {
		Sources []domain.Source `json:"sources" doc:"Enabled source tags, in aggregation order"`
	}
}

// Sources returns the enabled source tags, driving the source facet UI.
func (h *SearchHandler) Sources(_ context.Context, _ *struct{}) (*SourcesOutput, error) {
	out := &SourcesOutput{}
	out.Body.Sources = h.svc.Sources()
	return out, nil
}

// RegisterSearchRoutes registers search endpoints with the Huma API.
func RegisterSearchRoutes(api huma.API, h *SearchHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "search-listings",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search listings",
		Description: "Aggregates listings from all enabled sources, deduplicated by title and filtered by the active facets.",
		Tags:        []string{"search"},
		Errors:      []int{http.StatusConflict, http.StatusInternalServerError},
	}, h.Search)

	huma.Register(api, huma.Operation{
		OperationID: "list-sources",
		Method:      http.MethodGet,
		Path:        "/api/v1/sources",
		Summary:     "List enabled sources",
		Tags:        []string{"search"},
	}, h.Sources)
}
