package domain

import "time"

// CheckoutStatus is the reported state of a remote checkout session.
// "unknown" is a first-class outcome: the platform purged the session or it
// no longer resolves, which is inconclusive rather than a failure.
type CheckoutStatus string

const (
	CheckoutStatusCompleted CheckoutStatus = "completed"
	CheckoutStatusPending   CheckoutStatus = "pending"
	CheckoutStatusUnknown   CheckoutStatus = "unknown"
)

// CheckoutLine is the {checkout identifier, quantity} pair sent to the
// platform when minting a remote session.
type CheckoutLine struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

// CheckoutSession is a freshly minted remote session: the externally hosted
// payment page URL and the platform's session id.
type CheckoutSession struct {
	CheckoutURL string `json:"checkoutUrl"`
	CheckoutID  string `json:"checkoutId"`
}

// CheckoutStatusResult is the answer to a session-status query.
type CheckoutStatusResult struct {
	Status         CheckoutStatus `json:"status"`
	Paid           bool           `json:"paid"`
	CompletedAt    string         `json:"completedAt,omitempty"`
	OrderNumber    string         `json:"orderId,omitempty"`
	ShopifyOrderID string         `json:"shopifyOrderId,omitempty"`
}

// PendingCheckout links a remote checkout session to the cart snapshot that
// produced it. Written just before the browser is redirected to the payment
// page, consumed by whichever reconciliation step first confirms payment.
// An abandoned marker is an accepted state, not an error.
type PendingCheckout struct {
	ID          string     `bson:"_id,omitempty"`
	UserID      string     `bson:"user_id"`
	CheckoutID  string     `bson:"checkout_id"`
	CheckoutURL string     `bson:"checkout_url"`
	Lines       []CartLine `bson:"lines"`
	Total       float64    `bson:"total"`
	CreatedAt   time.Time  `bson:"created_at"`
}
