package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/tavernarpg/storefront/internal/domain"
)

// CartAPI is the cart surface the handlers need; implemented by
// service.CartService.
type CartAPI interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID string, product domain.Product, variant *domain.Variant) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, userID, lineKey string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, lineKey string) (*domain.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

type CartHandler struct {
	cart CartAPI
}

func NewCartHandler(cart CartAPI) *CartHandler {
	return &CartHandler{cart: cart}
}

type cartResponseDTO struct {
	Items     []domain.CartLine `json:"items"`
	Total     float64           `json:"total"`
	ItemCount int               `json:"itemCount"`
}

func cartResponse(cart *domain.Cart) cartResponseDTO {
	items := cart.Lines
	if items == nil {
		items = []domain.CartLine{}
	}
	return cartResponseDTO{
		Items:     items,
		Total:     cart.Total(),
		ItemCount: cart.ItemCount(),
	}
}

// GET /cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	cart, err := h.cart.GetCart(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Erro ao carregar o carrinho", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(cart))
}

type addItemRequestDTO struct {
	Product domain.Product  `json:"product"`
	Variant *domain.Variant `json:"variant,omitempty"`
}

// POST /cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	var req addItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Product.ID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product", "product id is required")
		return
	}

	cart, err := h.cart.AddItem(r.Context(), userID, req.Product, req.Variant)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Erro ao adicionar o item", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, cartResponse(cart))
}

type updateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

// PUT /cart/items/{key}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	key := lineKeyParam(r)
	if key == "" {
		respondError(w, http.StatusBadRequest, "invalid_key", "line key is required")
		return
	}

	var req updateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	cart, err := h.cart.UpdateQuantity(r.Context(), userID, key, req.Quantity)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Erro ao atualizar o item", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(cart))
}

// DELETE /cart/items/{key}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	key := lineKeyParam(r)
	if key == "" {
		respondError(w, http.StatusBadRequest, "invalid_key", "line key is required")
		return
	}

	cart, err := h.cart.RemoveItem(r.Context(), userID, key)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Erro ao remover o item", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(cart))
}

// DELETE /cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	if err := h.cart.ClearCart(r.Context(), userID); err != nil {
		respondError(w, http.StatusInternalServerError, "Erro ao limpar o carrinho", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(&domain.Cart{UserID: userID}))
}

func lineKeyParam(r *http.Request) string {
	key := chi.URLParam(r, "key")
	if unescaped, err := url.PathUnescape(key); err == nil {
		return unescaped
	}
	return key
}
