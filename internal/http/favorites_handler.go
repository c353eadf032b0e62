package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tavernarpg/storefront/internal/repository"
)

// FavoritesAPI is the favorites surface the handlers need.
type FavoritesAPI interface {
	AddFavorite(ctx context.Context, userID, productID string) error
	RemoveFavorite(ctx context.Context, userID, productID string) error
	ListFavorites(ctx context.Context, userID string) ([]string, error)
	IsFavorite(ctx context.Context, userID, productID string) (bool, error)
}

type FavoritesHandler struct {
	favorites FavoritesAPI
}

func NewFavoritesHandler(favorites FavoritesAPI) *FavoritesHandler {
	return &FavoritesHandler{favorites: favorites}
}

// GET /favorites
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	favorites, err := h.favorites.ListFavorites(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "user_not_found", "Usuário não encontrado")
			return
		}
		respondError(w, http.StatusInternalServerError, "favorites_failed", "Erro ao carregar favoritos")
		return
	}
	respondJSON(w, http.StatusOK, map[string][]string{"favorites": favorites})
}

// POST /favorites/{productId}
func (h *FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product", "product id is required")
		return
	}

	if err := h.favorites.AddFavorite(r.Context(), userID, productID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "user_not_found", "Usuário não encontrado")
			return
		}
		respondError(w, http.StatusInternalServerError, "favorites_failed", "Erro ao adicionar favorito")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]bool{"favorited": true})
}

// DELETE /favorites/{productId}
func (h *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product", "product id is required")
		return
	}

	if err := h.favorites.RemoveFavorite(r.Context(), userID, productID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "user_not_found", "Usuário não encontrado")
			return
		}
		respondError(w, http.StatusInternalServerError, "favorites_failed", "Erro ao remover favorito")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"favorited": false})
}

// GET /favorites/{productId}
func (h *FavoritesHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	productID := chi.URLParam(r, "productId")

	favorited, err := h.favorites.IsFavorite(r.Context(), userID, productID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "user_not_found", "Usuário não encontrado")
			return
		}
		respondError(w, http.StatusInternalServerError, "favorites_failed", "Erro ao consultar favorito")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"favorited": favorited})
}
