package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tavernarpg/storefront/internal/domain"
	"github.com/tavernarpg/storefront/internal/shopify"
)

func paidWebhookOrder() *shopify.WebhookOrder {
	return &shopify.WebhookOrder{
		ID:              json.Number("987"),
		Email:           "player@example.com",
		OrderNumber:     json.Number("1042"),
		TotalPrice:      "99.80",
		FinancialStatus: "paid",
		OrderStatusURL:  "https://shop.example.com/orders/abc",
		CheckoutID:      json.Number("555"),
		LineItems: []shopify.WebhookLineItem{
			{ProductID: json.Number("1"), VariantID: json.Number("111"), Name: "Dice Set", Price: "49.90", Quantity: 2},
		},
	}
}

func TestHandleOrderEvent_PaidOrderRecorded(t *testing.T) {
	users := newMockUserRepo(&domain.User{ID: "u1", Email: "player@example.com"})
	orders := &mockOrderRepo{}

	sut := NewWebhookService(users, orders)
	result, err := sut.HandleOrderEvent(context.Background(), "orders/paid", paidWebhookOrder())
	require.NoError(t, err)
	assert.True(t, result.Processed)

	recorded := orders.getOrders()
	require.Equal(t, 1, len(recorded))
	order := recorded[0]
	assert.Equal(t, "u1", order.UserID)
	assert.Equal(t, "987", order.ShopifyOrderID)
	assert.Equal(t, "1042", order.OrderNumber)
	assert.Equal(t, domain.OrderStatusCompleted, order.Status)
	assert.InDelta(t, 99.80, order.Total, 0.001)
	require.Equal(t, 1, len(order.Items))
	assert.Equal(t, "Dice Set", order.Items[0].Name)
	assert.InDelta(t, 49.90, order.Items[0].Price, 0.001)
	assert.Equal(t, 2, order.Items[0].Quantity)
}

func TestHandleOrderEvent_CreateEventRecordsPending(t *testing.T) {
	order := paidWebhookOrder()
	order.FinancialStatus = "pending"
	users := newMockUserRepo(&domain.User{ID: "u1", Email: "player@example.com"})
	orders := &mockOrderRepo{}

	sut := NewWebhookService(users, orders)
	_, err := sut.HandleOrderEvent(context.Background(), "orders/create", order)
	require.NoError(t, err)

	recorded := orders.getOrders()
	require.Equal(t, 1, len(recorded))
	assert.Equal(t, domain.OrderStatusPending, recorded[0].Status)
}

func TestHandleOrderEvent_GuestPurchaseIsNoOp(t *testing.T) {
	users := newMockUserRepo() // no matching email
	orders := &mockOrderRepo{}

	sut := NewWebhookService(users, orders)
	result, err := sut.HandleOrderEvent(context.Background(), "orders/paid", paidWebhookOrder())
	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.Empty(t, orders.getOrders())
}

func TestHandleOrderEvent_UnrelatedEventIgnored(t *testing.T) {
	users := newMockUserRepo(&domain.User{ID: "u1", Email: "player@example.com"})
	orders := &mockOrderRepo{}

	sut := NewWebhookService(users, orders)
	result, err := sut.HandleOrderEvent(context.Background(), "products/update", paidWebhookOrder())
	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.Empty(t, orders.getOrders())
}

func TestHandleOrderEvent_InvalidOrderData(t *testing.T) {
	sut := NewWebhookService(newMockUserRepo(), &mockOrderRepo{})

	_, err := sut.HandleOrderEvent(context.Background(), "orders/paid", nil)
	require.ErrorIs(t, err, ErrInvalidOrderData)

	noEmail := paidWebhookOrder()
	noEmail.Email = ""
	_, err = sut.HandleOrderEvent(context.Background(), "orders/paid", noEmail)
	require.ErrorIs(t, err, ErrInvalidOrderData)

	noID := paidWebhookOrder()
	noID.ID = ""
	_, err = sut.HandleOrderEvent(context.Background(), "orders/paid", noID)
	require.ErrorIs(t, err, ErrInvalidOrderData)
}

func TestHandleOrderEvent_DuplicateDeliveryCollapses(t *testing.T) {
	users := newMockUserRepo(&domain.User{ID: "u1", Email: "player@example.com"})
	orders := &mockOrderRepo{}
	sut := NewWebhookService(users, orders)

	_, err := sut.HandleOrderEvent(context.Background(), "orders/create", paidWebhookOrder())
	require.NoError(t, err)
	_, err = sut.HandleOrderEvent(context.Background(), "orders/paid", paidWebhookOrder())
	require.NoError(t, err)

	assert.Equal(t, 1, len(orders.getOrders()), "redelivery must not duplicate the record")
}

func TestHandleOrderEvent_ZeroQuantityDefaultsToOne(t *testing.T) {
	order := paidWebhookOrder()
	order.LineItems[0].Quantity = 0
	order.LineItems[0].Name = ""
	order.LineItems[0].Title = "Dice Set (title fallback)"
	users := newMockUserRepo(&domain.User{ID: "u1", Email: "player@example.com"})
	orders := &mockOrderRepo{}

	sut := NewWebhookService(users, orders)
	_, err := sut.HandleOrderEvent(context.Background(), "orders/paid", order)
	require.NoError(t, err)

	recorded := orders.getOrders()
	require.Equal(t, 1, len(recorded))
	assert.Equal(t, 1, recorded[0].Items[0].Quantity)
	assert.Equal(t, "Dice Set (title fallback)", recorded[0].Items[0].Name)
}
