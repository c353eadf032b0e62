package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
)

// OrderItem is an immutable copy of a cart line at time of purchase.
type OrderItem struct {
	ProductID    string  `bson:"product_id" json:"id"`
	Name         string  `bson:"name" json:"name"`
	Price        float64 `bson:"price" json:"price"`
	Quantity     int     `bson:"quantity" json:"quantity"`
	VariantID    string  `bson:"variant_id,omitempty" json:"variantId,omitempty"`
	VariantTitle string  `bson:"variant_title,omitempty" json:"variantTitle,omitempty"`
	Image        string  `bson:"image,omitempty" json:"image,omitempty"`
	Handle       string  `bson:"handle,omitempty" json:"handle,omitempty"`
}

// Order is a durable history entry. OrderNumber and ShopifyOrderID may be
// empty depending on which reconciliation path wrote the record first.
type Order struct {
	ID             string      `bson:"_id,omitempty" json:"id"`
	UserID         string      `bson:"user_id" json:"-"`
	Items          []OrderItem `bson:"items" json:"items"`
	Total          float64     `bson:"total" json:"total"`
	CheckoutURL    string      `bson:"checkout_url,omitempty" json:"checkoutUrl,omitempty"`
	CheckoutID     string      `bson:"checkout_id,omitempty" json:"-"`
	OrderNumber    string      `bson:"order_number,omitempty" json:"orderId,omitempty"`
	ShopifyOrderID string      `bson:"shopify_order_id,omitempty" json:"shopifyOrderId,omitempty"`
	Status         OrderStatus `bson:"status" json:"status"`
	CreatedAt      time.Time   `bson:"created_at" json:"createdAt"`
}
