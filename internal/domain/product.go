package domain

// Badge is the promotional tag shown on product cards.
type Badge string

const (
	BadgeNovo       Badge = "novo"
	BadgeOferta     Badge = "oferta"
	BadgeLancamento Badge = "lançamento"
)

// Variant is one purchasable configuration of a product. Its ID doubles as
// the checkout identifier required by the commerce platform.
type Variant struct {
	ID        string  `json:"id" bson:"id"`
	Title     string  `json:"title" bson:"title"`
	Price     float64 `json:"price" bson:"price"`
	Available bool    `json:"available" bson:"available"`
	Image     string  `json:"image,omitempty" bson:"image,omitempty"`
}

// Product is a catalog entity. It is fetched on demand from the commerce
// platform and never mutated locally; the embedded VariantID can go stale
// if the catalog is edited upstream.
type Product struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Price            float64   `json:"price"`
	OriginalPrice    float64   `json:"originalPrice,omitempty"`
	Discount         int       `json:"discount,omitempty"`
	Badge            Badge     `json:"badge,omitempty"`
	Image            string    `json:"image"`
	Images           []string  `json:"images,omitempty"`
	Description      string    `json:"description,omitempty"`
	Handle           string    `json:"handle"`
	VariantID        string    `json:"variantId,omitempty"`
	ShopifyProductID string    `json:"shopifyProductId,omitempty"`
	Installment      float64   `json:"installment,omitempty"` // price/12, display only
	Variants         []Variant `json:"variants,omitempty"`
}
