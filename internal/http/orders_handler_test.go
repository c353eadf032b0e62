package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tavernarpg/storefront/internal/domain"
)

type orderListerMock struct {
	orders []*domain.Order
	err    error
}

func (m *orderListerMock) ListOrdersByUserID(_ context.Context, _ string) ([]*domain.Order, error) {
	return m.orders, m.err
}

func TestOrdersHandler_List(t *testing.T) {
	mock := &orderListerMock{orders: []*domain.Order{{
		ID:          "ord1",
		UserID:      "u1",
		Items:       []domain.OrderItem{{ProductID: "1", Name: "Dragon Miniature", Price: 49.90, Quantity: 2}},
		Total:       99.80,
		OrderNumber: "#1042",
		Status:      domain.OrderStatusCompleted,
		CreatedAt:   time.Date(2024, 11, 2, 10, 0, 0, 0, time.UTC),
	}}}
	sut := NewOrdersHandler(mock)

	rec := httptest.NewRecorder()
	sut.List(rec, authedRequest(http.MethodGet, "/orders", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Orders []struct {
			OrderNumber string  `json:"orderId"`
			Total       float64 `json:"total"`
			Status      string  `json:"status"`
		} `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Orders, 1)
	assert.Equal(t, "#1042", body.Orders[0].OrderNumber)
	assert.InDelta(t, 99.80, body.Orders[0].Total, 0.001)
	assert.Equal(t, "completed", body.Orders[0].Status)
}

func TestOrdersHandler_List_Empty(t *testing.T) {
	sut := NewOrdersHandler(&orderListerMock{})

	rec := httptest.NewRecorder()
	sut.List(rec, authedRequest(http.MethodGet, "/orders", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"orders":[]`)
}

func TestOrdersHandler_List_RepoError(t *testing.T) {
	sut := NewOrdersHandler(&orderListerMock{err: errors.New("mongo down")})

	rec := httptest.NewRecorder()
	sut.List(rec, authedRequest(http.MethodGet, "/orders", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Erro ao carregar pedidos")
}
