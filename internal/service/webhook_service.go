package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/tavernarpg/storefront/internal/domain"
	"github.com/tavernarpg/storefront/internal/repository"
	"github.com/tavernarpg/storefront/internal/shopify"
)

// WebhookService is the server-side reconciliation path. It runs outside
// any browser context: it cannot see or delete the pending marker or the
// originating cart, it only appends to the order history of whichever
// local identity matches the order's email.
type WebhookService struct {
	users  repository.UserRepository
	orders repository.OrderRepository
}

func NewWebhookService(users repository.UserRepository, orders repository.OrderRepository) *WebhookService {
	return &WebhookService{users: users, orders: orders}
}

type WebhookResult struct {
	Processed bool   `json:"success"`
	Message   string `json:"message"`
}

// HandleOrderEvent processes an orders/create or orders/paid event. An
// order whose email matches no local identity is a guest purchase: logged
// and acknowledged as a no-op, since there is no user to attach history to.
func (s *WebhookService) HandleOrderEvent(ctx context.Context, event string, order *shopify.WebhookOrder) (*WebhookResult, error) {
	if event != "orders/create" && event != "orders/paid" {
		return &WebhookResult{Processed: true, Message: "Evento não processado"}, nil
	}

	if order == nil || order.ID.String() == "" || order.Email == "" {
		return nil, ErrInvalidOrderData
	}

	user, err := s.users.GetUserByEmail(ctx, order.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logger.Info().Str("email", order.Email).Msg("order for unregistered email, skipping")
			return &WebhookResult{Processed: true, Message: "Pedido processado (usuário não cadastrado)"}, nil
		}
		return nil, err
	}

	record := translateOrder(user.ID, order)
	if err := s.orders.UpsertOrder(ctx, record); err != nil {
		return nil, err
	}

	logger.Info().
		Str("user_id", user.ID).
		Str("shopify_order_id", record.ShopifyOrderID).
		Msg("order recorded from webhook")
	return &WebhookResult{Processed: true, Message: "Pedido registrado no histórico"}, nil
}

// translateOrder maps the platform's line-item shape into the internal
// order record shape.
func translateOrder(userID string, order *shopify.WebhookOrder) *domain.Order {
	items := make([]domain.OrderItem, 0, len(order.LineItems))
	for _, li := range order.LineItems {
		name := li.Name
		if name == "" {
			name = li.Title
		}
		price, _ := strconv.ParseFloat(li.Price, 64)
		quantity := li.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		items = append(items, domain.OrderItem{
			ProductID:    li.ProductID.String(),
			Name:         name,
			Price:        price,
			Quantity:     quantity,
			VariantID:    li.VariantID.String(),
			VariantTitle: li.VariantTitle,
			Image:        li.Image,
			Handle:       li.ProductID.String(),
		})
	}

	total, _ := strconv.ParseFloat(order.TotalPrice, 64)

	status := domain.OrderStatusPending
	if order.FinancialStatus == "paid" {
		status = domain.OrderStatusCompleted
	}

	return &domain.Order{
		ID:             uuid.NewString(),
		UserID:         userID,
		Items:          items,
		Total:          total,
		CheckoutURL:    order.OrderStatusURL,
		CheckoutID:     order.CheckoutID.String(),
		OrderNumber:    order.OrderNumber.String(),
		ShopifyOrderID: order.ID.String(),
		Status:         status,
		CreatedAt:      time.Now(),
	}
}
