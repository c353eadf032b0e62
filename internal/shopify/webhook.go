package shopify

import "encoding/json"

// WebhookOrder is the platform's order shape as delivered to the webhook
// receiver. The ids arrive as numbers, hence json.Number.
type WebhookOrder struct {
	ID              json.Number       `json:"id"`
	Email           string            `json:"email"`
	OrderNumber     json.Number       `json:"order_number"`
	TotalPrice      string            `json:"total_price"`
	FinancialStatus string            `json:"financial_status"`
	OrderStatusURL  string            `json:"order_status_url"`
	CheckoutID      json.Number       `json:"checkout_id"`
	LineItems       []WebhookLineItem `json:"line_items"`
}

type WebhookLineItem struct {
	ProductID    json.Number `json:"product_id"`
	VariantID    json.Number `json:"variant_id"`
	Name         string      `json:"name"`
	Title        string      `json:"title"`
	VariantTitle string      `json:"variant_title"`
	Price        string      `json:"price"`
	Quantity     int         `json:"quantity"`
	Image        string      `json:"image"`
}

// WebhookEvent is the envelope the platform posts: an event name plus the
// order payload.
type WebhookEvent struct {
	Event string        `json:"event"`
	Data  *WebhookOrder `json:"data"`
}
