// Package provider defines the listing provider contract shared by all
// source adapters, plus the read-through cache wrapper.
package provider

import (
	"context"

	domain "github.com/lootscout/lootscout/pkg/types"
)

// Query carries the search parameters handed to a provider. Platform is a
// coarse hint passed through to the source; upstream is not guaranteed to
// honor it.
type Query struct {
	Text       string
	Platform   string
	MaxResults int
}

// Provider fetches listings for a query from one external source, already
// mapped into the canonical shape. Implementations return an error on any
// failure (network, parse, timeout); the aggregation layer is responsible
// for degrading a failed source to an empty result.
type Provider interface {
	Name() domain.Source
	Fetch(ctx context.Context, q Query) ([]domain.Listing, error)
}
