package http

import (
	"context"
	"net/http"

	"github.com/tavernarpg/storefront/internal/domain"
)

// OrderLister reads the identity-scoped order history.
type OrderLister interface {
	ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error)
}

type OrdersHandler struct {
	orders OrderLister
}

func NewOrdersHandler(orders OrderLister) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// GET /orders
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	orders, err := h.orders.ListOrdersByUserID(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "orders_failed", "Erro ao carregar pedidos")
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"orders": orders})
}
