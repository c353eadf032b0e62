package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tavernarpg/storefront/internal/domain"
	"github.com/tavernarpg/storefront/internal/service"
)

// CheckoutAPI is what the checkout handlers need from the service layer.
type CheckoutAPI interface {
	InitiateCheckout(ctx context.Context, userID string, items []domain.CheckoutLine) (*service.CheckoutResult, error)
}

// ReconcileAPI is the client-poll reconciliation entry point.
type ReconcileAPI interface {
	Confirm(ctx context.Context, userID, checkoutID string) (*service.ConfirmOutcome, error)
}

// StatusAPI resolves a remote checkout session's live status.
type StatusAPI interface {
	CheckoutStatus(ctx context.Context, checkoutID string) (*domain.CheckoutStatusResult, error)
}

type CheckoutHandler struct {
	checkout  CheckoutAPI
	reconcile ReconcileAPI
	status    StatusAPI
}

func NewCheckoutHandler(checkout CheckoutAPI, reconcile ReconcileAPI, status StatusAPI) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, reconcile: reconcile, status: status}
}

type initiateCheckoutRequestDTO struct {
	Items []domain.CheckoutLine `json:"items"`
}

// POST /checkout
func (h *CheckoutHandler) InitiateCheckout(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	var req initiateCheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	result, err := h.checkout.InitiateCheckout(r.Context(), userID, req.Items)
	if err != nil {
		h.respondCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *CheckoutHandler) respondCheckoutError(w http.ResponseWriter, err error) {
	var missing *service.MissingVariantError
	var unavailable *service.UnavailableProductsError

	switch {
	case errors.Is(err, service.ErrEmptyItems):
		respondError(w, http.StatusBadRequest, "empty_cart", "Itens do carrinho são obrigatórios")

	case errors.Is(err, service.ErrNoValidItems):
		respondError(w, http.StatusBadRequest, "no_valid_items",
			"Nenhum item válido encontrado. Recarregue a página e tente novamente.")

	case errors.As(err, &missing):
		respondError(w, http.StatusBadRequest, "missing_variant",
			fmt.Sprintf("Alguns produtos estão desatualizados (%s). Recarregue a página e adicione-os novamente ao carrinho.",
				strings.Join(missing.Products, ", ")))

	case errors.As(err, &unavailable):
		respondError(w, http.StatusBadRequest, "unavailable_products",
			fmt.Sprintf("Produtos indisponíveis: %s. Limpe o carrinho e adicione os produtos novamente.",
				strings.Join(unavailable.Products, ", ")))

	default:
		respondError(w, http.StatusInternalServerError, "checkout_failed", "Erro ao criar checkout")
	}
}

// GET /checkout/status?checkoutId=...
//
// Never answers 5xx: an upstream failure degrades to status "unknown" so
// the success page can render a neutral message instead of an error.
func (h *CheckoutHandler) CheckoutStatus(w http.ResponseWriter, r *http.Request) {
	checkoutID := r.URL.Query().Get("checkoutId")
	if checkoutID == "" {
		respondError(w, http.StatusBadRequest, "missing_checkout_id", "checkoutId é obrigatório")
		return
	}

	status, err := h.status.CheckoutStatus(r.Context(), checkoutID)
	if err != nil {
		respondJSON(w, http.StatusOK, domain.CheckoutStatusResult{
			Status: domain.CheckoutStatusUnknown,
			Paid:   false,
		})
		return
	}
	respondJSON(w, http.StatusOK, status)
}

type confirmCheckoutRequestDTO struct {
	CheckoutID string `json:"checkoutId"`
}

// POST /checkout/confirm
func (h *CheckoutHandler) ConfirmCheckout(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	var req confirmCheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.CheckoutID == "" {
		respondError(w, http.StatusBadRequest, "missing_checkout_id", "checkoutId é obrigatório")
		return
	}

	outcome, err := h.reconcile.Confirm(r.Context(), userID, req.CheckoutID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "confirm_failed", "Erro ao confirmar o pedido")
		return
	}
	respondJSON(w, http.StatusOK, outcome)
}
