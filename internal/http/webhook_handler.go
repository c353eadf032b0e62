package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tavernarpg/storefront/internal/service"
	"github.com/tavernarpg/storefront/internal/shopify"
)

// WebhookAPI processes platform order events.
type WebhookAPI interface {
	HandleOrderEvent(ctx context.Context, event string, order *shopify.WebhookOrder) (*service.WebhookResult, error)
}

type WebhookHandler struct {
	webhook WebhookAPI
}

func NewWebhookHandler(webhook WebhookAPI) *WebhookHandler {
	return &WebhookHandler{webhook: webhook}
}

// POST /webhooks/shopify
//
// Answers 400 only for structurally invalid payloads; internal failures
// answer 500 so the platform retries the delivery.
func (h *WebhookHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var event shopify.WebhookEvent
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&event); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload", "invalid JSON body")
		return
	}

	result, err := h.webhook.HandleOrderEvent(r.Context(), event.Event, event.Data)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrderData) {
			respondError(w, http.StatusBadRequest, "invalid_order", "Dados do pedido inválidos")
			return
		}
		respondError(w, http.StatusInternalServerError, "webhook_failed", "Erro ao processar o webhook")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GET /webhooks/shopify — reachability probe for the platform's
// endpoint verification.
func (h *WebhookHandler) Probe(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "Webhook endpoint ativo"})
}
