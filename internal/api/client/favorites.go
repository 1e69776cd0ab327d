package client

import (
	"context"
	"fmt"
	"net/url"

	domain "github.com/lootscout/lootscout/pkg/types"
)

// FavoritesResponse wraps a user's favorites list.
type FavoritesResponse struct {
	Favorites []domain.Favorite `json:"favorites"`
	Total     int               `json:"total"`
}

// AddFavorite saves a listing snapshot for the user.
func (c *Client) AddFavorite(ctx context.Context, user string, l domain.Listing) (*domain.Favorite, error) {
	var out domain.Favorite
	path := fmt.Sprintf("/api/v1/users/%s/favorites", url.PathEscape(user))
	if err := c.put(ctx, path, l, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveFavorite deletes one favorite.
func (c *Client) RemoveFavorite(ctx context.Context, user, productID string) error {
	path := fmt.Sprintf("/api/v1/users/%s/favorites/%s",
		url.PathEscape(user), url.PathEscape(productID))
	return c.del(ctx, path, nil)
}

// ListFavorites returns the user's favorites, newest first.
func (c *Client) ListFavorites(ctx context.Context, user string) (*FavoritesResponse, error) {
	var out FavoritesResponse
	path := fmt.Sprintf("/api/v1/users/%s/favorites", url.PathEscape(user))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TrendingResponse wraps the trending entries.
type TrendingResponse struct {
	Entries []domain.TrendingEntry `json:"entries"`
	Total   int                    `json:"total"`
}

// Trending returns the current trending set.
func (c *Client) Trending(ctx context.Context) (*TrendingResponse, error) {
	var out TrendingResponse
	if err := c.get(ctx, "/api/v1/trending", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
