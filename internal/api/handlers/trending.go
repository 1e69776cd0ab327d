package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/lootscout/lootscout/pkg/types"
)

// TrendingSource serves the current trending snapshot.
type TrendingSource interface {
	Snapshot() []domain.TrendingEntry
}

// TrendingHandler serves the precomputed trending set.
type TrendingHandler struct {
	src TrendingSource
}

// NewTrendingHandler creates a new TrendingHandler.
func NewTrendingHandler(src TrendingSource) *TrendingHandler {
	return &TrendingHandler{src: src}
}

// TrendingOutput is the trending response: curated entries first, then
// the most-favorited products.
type TrendingOutput struct {
	Body struct {
		Entries []domain.TrendingEntry `json:"entries"`
		Total   int                    `json:"total"`
	}
}

// Trending returns the current snapshot. It never touches the database;
// the scheduler keeps the snapshot fresh.
func (h *TrendingHandler) Trending(_ context.Context, _ *struct{}) (*TrendingOutput, error) {
	entries := h.src.Snapshot()
	if entries == nil {
		entries = []domain.TrendingEntry{}
	}

	out := &TrendingOutput{}
	out.Body.Entries = entries
	out.Body.Total = len(entries)
	return out, nil
}

// RegisterTrendingRoutes registers the trending endpoint with the Huma API.
func RegisterTrendingRoutes(api huma.API, h *TrendingHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-trending",
		Method:      http.MethodGet,
		Path:        "/api/v1/trending",
		Summary:     "Get trending listings",
		Description: "Returns the trending set: manually curated entries first, then the most favorited products of the recent window.",
		Tags:        []string{"trending"},
	}, h.Trending)
}
