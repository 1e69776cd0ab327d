package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// ResultCache is the slice of the cache the HTTP layer needs.
type ResultCache interface {
	Clear()
	Len() int
}

// CacheHandler exposes explicit cache eviction.
type CacheHandler struct {
	cache ResultCache
}

// NewCacheHandler creates a new CacheHandler.
func NewCacheHandler(c ResultCache) *CacheHandler {
	return &CacheHandler{cache: c}
}

// ClearCacheOutput reports how many entries were dropped.
type ClearCacheOutput struct {
	Body struct {
		Status  string `json:"status" example:"cleared"`
		Dropped int    `json:"dropped" doc:"Number of cached result sets evicted"`
	}
}

// ClearCache evicts every cached result set.
func (h *CacheHandler) ClearCache(_ context.Context, _ *struct{}) (*ClearCacheOutput, error) {
	dropped := h.cache.Len()
	h.cache.Clear()

	out := &ClearCacheOutput{}
	out.Body.Status = "cleared"
	out.Body.Dropped = dropped
	return out, nil
}

// RegisterCacheRoutes registers cache endpoints with the Huma API.
func RegisterCacheRoutes(api huma.API, h *CacheHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "clear-cache",
		Method:      http.MethodPost,
		Path:        "/api/v1/cache/clear",
		Summary:     "Clear the result cache",
		Description: "Evicts all cached provider results so the next searches hit the live sources.",
		Tags:        []string{"cache"},
	}, h.ClearCache)
}
