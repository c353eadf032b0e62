package domain

import "time"

// CartLine is one line of a cart: a product/variant snapshot plus a quantity.
// A line with quantity <= 0 is removed, never stored at zero.
type CartLine struct {
	ProductID    string    `bson:"product_id" json:"productId"`
	VariantID    string    `bson:"variant_id,omitempty" json:"variantId,omitempty"`
	VariantTitle string    `bson:"variant_title,omitempty" json:"variantTitle,omitempty"`
	Name         string    `bson:"name" json:"name"`
	Price        float64   `bson:"price" json:"price"`
	Image        string    `bson:"image,omitempty" json:"image,omitempty"`
	Handle       string    `bson:"handle,omitempty" json:"handle,omitempty"`
	Quantity     int       `bson:"quantity" json:"quantity"`
	AddedAt      time.Time `bson:"added_at" json:"addedAt"`
}

// Key identifies a line within a cart. Two variants of the same product are
// distinct lines, so the variant id is part of the key when present.
func (l CartLine) Key() string {
	if l.VariantID == "" {
		return l.ProductID
	}
	return l.ProductID + ":" + l.VariantID
}

// Cart is the identity-scoped shopping cart, persisted as one document.
type Cart struct {
	ID        string     `bson:"_id,omitempty" json:"-"`
	UserID    string     `bson:"user_id" json:"userId"`
	Lines     []CartLine `bson:"lines" json:"items"`
	CreatedAt time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updatedAt"`
}

// Total is recomputed from the current lines on every call, never cached.
func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.Lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

// ItemCount sums quantities, not lines.
func (c *Cart) ItemCount() int {
	var count int
	for _, l := range c.Lines {
		count += l.Quantity
	}
	return count
}

// FindLine returns the index of the line with the given key, or -1.
func (c *Cart) FindLine(key string) int {
	for i, l := range c.Lines {
		if l.Key() == key {
			return i
		}
	}
	return -1
}
