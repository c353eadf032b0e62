package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tavernarpg/storefront/internal/domain"
	"github.com/tavernarpg/storefront/internal/repository"
)

// ReconcileService is the client-poll reconciliation path: when the
// browser returns from the external payment page, it asks the platform
// for the live session status and, only on confirmed payment, writes the
// order record, consumes the pending marker and clears the cart. It is
// best-effort UX feedback; the webhook path is the authoritative fallback
// that works without a browser present.
type ReconcileService struct {
	checkout CheckoutGateway
	pending  repository.PendingCheckoutRepository
	orders   repository.OrderRepository
	carts    *CartService

	maxAttempts int
	retryDelay  time.Duration
}

func NewReconcileService(checkout CheckoutGateway, pending repository.PendingCheckoutRepository, orders repository.OrderRepository, carts *CartService) *ReconcileService {
	return &ReconcileService{
		checkout:    checkout,
		pending:     pending,
		orders:      orders,
		carts:       carts,
		maxAttempts: 3,
		retryDelay:  3 * time.Second,
	}
}

// ConfirmOutcome tells the caller what to show the user. Confirmed means
// the order was durably recorded; otherwise the message is an honest
// statement of uncertainty, deferring to the webhook.
type ConfirmOutcome struct {
	Confirmed bool   `json:"confirmed"`
	Message   string `json:"message"`
}

const (
	msgConfirmed  = "Pedido confirmado! Seu pedido foi registrado com sucesso."
	msgProcessing = "Pedido processado. Aguardando confirmação final do pagamento via webhook."
	msgNoPending  = "Pedido processado com sucesso!"
)

// Confirm runs the poll path for one pending checkout. Status "unknown"
// (the platform purged the session) is inconclusive, not failure: the user
// sees a success-style message but no state is mutated. A still-pending
// session is retried a bounded number of times before likewise deferring
// to the webhook.
func (s *ReconcileService) Confirm(ctx context.Context, userID, checkoutID string) (*ConfirmOutcome, error) {
	marker, err := s.pending.Get(ctx, userID, checkoutID)
	if err != nil {
		if errors.Is(err, repository.ErrPendingNotFound) {
			// nothing to reconcile: already consumed, or created elsewhere
			return &ConfirmOutcome{Confirmed: false, Message: msgNoPending}, nil
		}
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		status, err := s.checkout.CheckoutStatus(ctx, checkoutID)
		if err != nil {
			// session no longer resolves or upstream failed: inconclusive,
			// mutate nothing and let the webhook decide
			logger.Warn().Err(err).Str("checkout_id", checkoutID).Msg("checkout status unavailable, deferring to webhook")
			return &ConfirmOutcome{Confirmed: false, Message: msgProcessing}, nil
		}

		switch {
		case status.Status == domain.CheckoutStatusCompleted || status.Paid:
			if err := s.finalize(ctx, marker, status); err != nil {
				return nil, err
			}
			return &ConfirmOutcome{Confirmed: true, Message: msgConfirmed}, nil

		case status.Status == domain.CheckoutStatusUnknown:
			return &ConfirmOutcome{Confirmed: false, Message: msgProcessing}, nil

		default: // still pending
			if attempt >= s.maxAttempts {
				return &ConfirmOutcome{Confirmed: false, Message: msgProcessing}, nil
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.retryDelay):
			}
		}
	}
}

// finalize records the order, consumes the marker and clears the cart.
// The order write is an upsert keyed on the external identifiers, so a
// webhook that already fired for the same purchase is a non-event.
func (s *ReconcileService) finalize(ctx context.Context, marker *domain.PendingCheckout, status *domain.CheckoutStatusResult) error {
	items := make([]domain.OrderItem, 0, len(marker.Lines))
	for _, l := range marker.Lines {
		items = append(items, domain.OrderItem{
			ProductID:    l.ProductID,
			Name:         l.Name,
			Price:        l.Price,
			Quantity:     l.Quantity,
			VariantID:    l.VariantID,
			VariantTitle: l.VariantTitle,
			Image:        l.Image,
			Handle:       l.Handle,
		})
	}

	order := &domain.Order{
		ID:             uuid.NewString(),
		UserID:         marker.UserID,
		Items:          items,
		Total:          marker.Total,
		CheckoutURL:    marker.CheckoutURL,
		CheckoutID:     marker.CheckoutID,
		OrderNumber:    status.OrderNumber,
		ShopifyOrderID: status.ShopifyOrderID,
		Status:         domain.OrderStatusCompleted,
		CreatedAt:      time.Now(),
	}
	if err := s.orders.UpsertOrder(ctx, order); err != nil {
		return err
	}

	if err := s.pending.Delete(ctx, marker.UserID, marker.CheckoutID); err != nil &&
		!errors.Is(err, repository.ErrPendingNotFound) {
		logger.Error().Err(err).Str("checkout_id", marker.CheckoutID).Msg("failed to delete pending checkout")
	}

	if err := s.carts.ClearCart(ctx, marker.UserID); err != nil {
		logger.Error().Err(err).Str("user_id", marker.UserID).Msg("failed to clear cart after confirmed order")
	}
	return nil
}
