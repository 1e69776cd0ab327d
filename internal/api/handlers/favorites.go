package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lootscout/lootscout/internal/store"
	domain "github.com/lootscout/lootscout/pkg/types"
)

// FavoritesHandler handles the per-user favorites endpoints.
type FavoritesHandler struct {
	store store.Store
}

// NewFavoritesHandler creates a new FavoritesHandler.
func NewFavoritesHandler(s store.Store) *FavoritesHandler {
	return &FavoritesHandler{store: s}
}

// AddFavoriteInput saves a listing snapshot for a user. Saving the same
// product again refreshes the snapshot.
type AddFavoriteInput struct {
	User string `path:"user" doc:"User identifier"`
	Body domain.Listing
}

// AddFavoriteOutput confirms the save.
type AddFavoriteOutput struct {
	Body domain.Favorite
}

// AddFavorite stores the listing snapshot under the user.
func (h *FavoritesHandler) AddFavorite(ctx context.Context, input *AddFavoriteInput) (*AddFavoriteOutput, error) {
	if input.Body.ID == "" {
		return nil, huma.Error422UnprocessableEntity("listing id is required")
	}

	fav := &domain.Favorite{
		UserID:    input.User,
		ProductID: input.Body.ID,
		Listing:   input.Body,
	}
	if err := h.store.AddFavorite(ctx, fav); err != nil {
		return nil, huma.Error500InternalServerError("saving favorite: " + err.Error())
	}
	return &AddFavoriteOutput{Body: *fav}, nil
}

// RemoveFavoriteInput deletes one favorite.
type RemoveFavoriteInput struct {
	User string `path:"user" doc:"User identifier"`
	ID   string `path:"id"   doc:"Product identifier"`
}

// RemoveFavoriteOutput confirms the delete.
type RemoveFavoriteOutput struct {
	Body StatusResponse
}

// RemoveFavorite deletes the favorite, 404 when it does not exist.
func (h *FavoritesHandler) RemoveFavorite(ctx context.Context, input *RemoveFavoriteInput) (*RemoveFavoriteOutput, error) {
	err := h.store.RemoveFavorite(ctx, input.User, input.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error404NotFound("favorite not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("removing favorite: " + err.Error())
	}
	return &RemoveFavoriteOutput{Body: StatusResponse{Status: "removed"}}, nil
}

// ListFavoritesInput lists a user's favorites.
type ListFavoritesInput struct {
	User string `path:"user" doc:"User identifier"`
}

// ListFavoritesOutput is the favorites list, newest first.
type ListFavoritesOutput struct {
	Body struct {
		Favorites []domain.Favorite `json:"favorites"`
		Total     int               `json:"total"`
	}
}

// ListFavorites returns the user's saved listings, newest first.
func (h *FavoritesHandler) ListFavorites(ctx context.Context, input *ListFavoritesInput) (*ListFavoritesOutput, error) {
	favs, err := h.store.ListFavorites(ctx, input.User)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing favorites: " + err.Error())
	}
	if favs == nil {
		favs = []domain.Favorite{}
	}

	out := &ListFavoritesOutput{}
	out.Body.Favorites = favs
	out.Body.Total = len(favs)
	return out, nil
}

// RegisterFavoriteRoutes registers favorites endpoints with the Huma API.
func RegisterFavoriteRoutes(api huma.API, h *FavoritesHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "add-favorite",
		Method:      http.MethodPut,
		Path:        "/api/v1/users/{user}/favorites",
		Summary:     "Save a favorite",
		Description: "Stores a listing snapshot for the user. Idempotent; re-saving refreshes the snapshot.",
		Tags:        []string{"favorites"},
		Errors:      []int{http.StatusUnprocessableEntity, http.StatusInternalServerError},
	}, h.AddFavorite)

	huma.Register(api, huma.Operation{
		OperationID: "remove-favorite",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/{user}/favorites/{id}",
		Summary:     "Remove a favorite",
		Tags:        []string{"favorites"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.RemoveFavorite)

	huma.Register(api, huma.Operation{
		OperationID: "list-favorites",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{user}/favorites",
		Summary:     "List favorites",
		Tags:        []string{"favorites"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.ListFavorites)
}
