// Package store defines the datastore abstraction for LootScout. The
// favorites and trending handlers depend on the Store interface, never
// on concrete implementations, so they can be tested without a running
// database.
package store

import (
	"context"
	"errors"
	"time"

	domain "github.com/lootscout/lootscout/pkg/types"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ManualTrending is one curated trending row. Lower sort order ranks
// first.
type ManualTrending struct {
	ProductID string
	Listing   domain.Listing
	SortOrder int
}

// FavoriteCount pairs a product with how many users favorited it inside
// the counting window.
type FavoriteCount struct {
	ProductID string
	Listing   domain.Listing
	Count     int
}

// Store defines all data access operations for LootScout.
type Store interface {
	// Favorites
	AddFavorite(ctx context.Context, f *domain.Favorite) error
	RemoveFavorite(ctx context.Context, userID, productID string) error
	ListFavorites(ctx context.Context, userID string) ([]domain.Favorite, error)
	IsFavorite(ctx context.Context, userID, productID string) (bool, error)

	// Trending
	ListManualTrending(ctx context.Context) ([]ManualTrending, error)
	ListMostFavorited(ctx context.Context, window time.Duration, limit int, excluding []string) ([]FavoriteCount, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
