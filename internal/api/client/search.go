package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/lootscout/lootscout/internal/search"
	domain "github.com/lootscout/lootscout/pkg/types"
)

// SearchParams defines the query parameters for a search.
type SearchParams struct {
	Query     string
	Platforms []string
	Genres    []string
	Prices    []string
	Sources   []string
	Sort      string
	Merge     string
	Limit     int
	Offset    int
}

// Search runs a search against the API.
func (c *Client) Search(ctx context.Context, params *SearchParams) (*search.Result, error) {
	q := url.Values{}
	if params.Query != "" {
		q.Set("q", params.Query)
	}
	for _, p := range params.Platforms {
		q.Add("platform", p)
	}
	for _, g := range params.Genres {
		q.Add("genre", g)
	}
	for _, p := range params.Prices {
		q.Add("price", p)
	}
	for _, s := range params.Sources {
		q.Add("source", s)
	}
	if params.Sort != "" {
		q.Set("sort", params.Sort)
	}
	if params.Merge != "" {
		q.Set("merge", params.Merge)
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}

	path := "/api/v1/search"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out search.Result
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SourcesResponse wraps the enabled source tags.
type SourcesResponse struct {
	Sources []domain.Source `json:"sources"`
}

// Sources returns the enabled source tags.
func (c *Client) Sources(ctx context.Context) (*SourcesResponse, error) {
	var out SourcesResponse
	if err := c.get(ctx, "/api/v1/sources", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearCacheResponse reports the eviction result.
type ClearCacheResponse struct {
	Status  string `json:"status"`
	Dropped int    `json:"dropped"`
}

// ClearCache evicts the server's result cache.
func (c *Client) ClearCache(ctx context.Context) (*ClearCacheResponse, error) {
	var out ClearCacheResponse
	if err := c.post(ctx, "/api/v1/cache/clear", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
