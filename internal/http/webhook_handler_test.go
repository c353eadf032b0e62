package http

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tavernarpg/storefront/internal/service"
	"github.com/tavernarpg/storefront/internal/shopify"
)

type webhookAPIMock struct {
	result *service.WebhookResult
	err    error
	event  string
	order  *shopify.WebhookOrder
}

func (m *webhookAPIMock) HandleOrderEvent(_ context.Context, event string, order *shopify.WebhookOrder) (*service.WebhookResult, error) {
	m.event = event
	m.order = order
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func TestWebhookHandler_PaidEvent(t *testing.T) {
	mock := &webhookAPIMock{result: &service.WebhookResult{Processed: true, Message: "Pedido registrado no histórico"}}
	handler := NewWebhookHandler(mock)

	payload := []byte(`{
		"event": "orders/paid",
		"data": {
			"id": 987,
			"email": "player@example.com",
			"order_number": 1042,
			"total_price": "99.80",
			"financial_status": "paid",
			"line_items": [{"product_id": 1, "variant_id": 111, "name": "Dice Set", "price": "49.90", "quantity": 2}]
		}
	}`)
	recorder := httptest.NewRecorder()
	handler.HandleEvent(recorder, httptest.NewRequest("POST", "/webhooks/shopify", bytes.NewReader(payload)))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "orders/paid", mock.event)
	require.NotNil(t, mock.order)
	assert.Equal(t, "987", mock.order.ID.String())
	assert.Contains(t, recorder.Body.String(), `"success":true`)
}

func TestWebhookHandler_BadJSON(t *testing.T) {
	handler := NewWebhookHandler(&webhookAPIMock{})

	recorder := httptest.NewRecorder()
	handler.HandleEvent(recorder, httptest.NewRequest("POST", "/webhooks/shopify", bytes.NewReader([]byte("{not json"))))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestWebhookHandler_InvalidOrderData(t *testing.T) {
	handler := NewWebhookHandler(&webhookAPIMock{err: service.ErrInvalidOrderData})

	recorder := httptest.NewRecorder()
	handler.HandleEvent(recorder, httptest.NewRequest("POST", "/webhooks/shopify", bytes.NewReader([]byte(`{"event":"orders/paid"}`))))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestWebhookHandler_InternalErrorAnswers500ForRetry(t *testing.T) {
	handler := NewWebhookHandler(&webhookAPIMock{err: fmt.Errorf("database down")})

	recorder := httptest.NewRecorder()
	handler.HandleEvent(recorder, httptest.NewRequest("POST", "/webhooks/shopify", bytes.NewReader([]byte(`{"event":"orders/paid","data":{"id":1,"email":"a@b.c"}}`))))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestWebhookHandler_Probe(t *testing.T) {
	handler := NewWebhookHandler(&webhookAPIMock{})

	recorder := httptest.NewRecorder()
	handler.Probe(recorder, httptest.NewRequest("GET", "/webhooks/shopify", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Webhook endpoint ativo")
}
