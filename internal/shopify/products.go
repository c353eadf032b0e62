package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tavernarpg/storefront/internal/domain"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

var numericID = regexp.MustCompile(`^[0-9]+$`)

const variantGIDPrefix = "gid://shopify/ProductVariant/"

// IsCanonicalVariantID reports whether id is in a format the platform
// accepts for checkout: a bare numeric id or a full variant GID. Anything
// else is a stale identifier that needs re-resolution.
func IsCanonicalVariantID(id string) bool {
	return numericID.MatchString(id) || strings.HasPrefix(id, variantGIDPrefix)
}

// NormalizeVariantGID converts a numeric variant id into GID form.
func NormalizeVariantGID(id string) string {
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return variantGIDPrefix + id
}

// adminProduct is the Admin REST representation of a product.
type adminProduct struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Handle   string `json:"handle"`
	BodyHTML string `json:"body_html"`
	Images   []struct {
		ID  int64  `json:"id"`
		Src string `json:"src"`
	} `json:"images"`
	Variants []struct {
		ID      int64  `json:"id"`
		Title   string `json:"title"`
		Price   string `json:"price"`
		ImageID *int64 `json:"image_id"`
	} `json:"variants"`
}

func (p *adminProduct) toDomain() domain.Product {
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		if img.Src != "" {
			images = append(images, img.Src)
		}
	}

	var price float64
	var variantID string
	if len(p.Variants) > 0 {
		price, _ = strconv.ParseFloat(p.Variants[0].Price, 64)
		variantID = strconv.FormatInt(p.Variants[0].ID, 10)
	}

	product := domain.Product{
		ID:               strconv.FormatInt(p.ID, 10),
		Name:             p.Title,
		Price:            price,
		Description:      p.BodyHTML,
		Handle:           p.Handle,
		VariantID:        variantID,
		ShopifyProductID: fmt.Sprintf("gid://shopify/Product/%d", p.ID),
		Installment:      price / 12,
	}
	if len(images) > 0 {
		product.Image = images[0]
	}
	if len(images) > 1 {
		product.Images = images
	}
	return product
}

// FetchAll returns up to limit products, most-recently-defined first. An
// upstream failure degrades to an empty slice so listing pages never break
// on catalog unavailability.
func (c *Client) FetchAll(ctx context.Context, limit int) []domain.Product {
	if limit <= 0 {
		limit = 20
	}

	var data struct {
		Products []adminProduct `json:"products"`
	}
	if err := c.adminRequest(ctx, fmt.Sprintf("products.json?limit=%d", limit), &data); err != nil {
		logger.Warn().Err(err).Msg("fetch all products failed, returning empty catalog")
		return []domain.Product{}
	}

	products := make([]domain.Product, 0, len(data.Products))
	for i := range data.Products {
		products = append(products, data.Products[i].toDomain())
	}
	return products
}

// FetchByIDs returns products for the ids that still resolve, silently
// dropping the rest. Partial failure is not an error.
func (c *Client) FetchByIDs(ctx context.Context, ids []string) []domain.Product {
	products := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		var data struct {
			Product *adminProduct `json:"product"`
		}
		if err := c.adminRequest(ctx, fmt.Sprintf("products/%s.json", queryEscape(id)), &data); err != nil {
			logger.Debug().Err(err).Str("product_id", id).Msg("product no longer resolves, dropping")
			continue
		}
		if data.Product != nil {
			products = append(products, data.Product.toDomain())
		}
	}
	return products
}

// FetchVariantID resolves the current checkout identifier for a product,
// used to self-heal stale cart lines. Returns "" when it cannot.
func (c *Client) FetchVariantID(ctx context.Context, productID string) string {
	var data struct {
		Product *adminProduct `json:"product"`
	}
	if err := c.adminRequest(ctx, fmt.Sprintf("products/%s.json", queryEscape(productID)), &data); err != nil {
		logger.Warn().Err(err).Str("product_id", productID).Msg("variant lookup failed")
		return ""
	}
	if data.Product == nil || len(data.Product.Variants) == 0 {
		return ""
	}
	return strconv.FormatInt(data.Product.Variants[0].ID, 10)
}

const productByHandleQuery = `
  query getProduct($handle: String!) {
    product(handle: $handle) {
      id
      title
      handle
      description
      priceRange {
        minVariantPrice {
          amount
          currencyCode
        }
      }
      images(first: 5) {
        edges {
          node {
            url
            altText
          }
        }
      }
      variants(first: 10) {
        edges {
          node {
            id
            title
            price {
              amount
              currencyCode
            }
            availableForSale
            image {
              url
            }
          }
        }
      }
    }
  }
`

// FetchByHandle resolves a single product with all its variants, per-variant
// pricing and availability. When the platform supplies no explicit variant
// image, images are associated positionally. Returns nil on upstream error
// or when the handle does not resolve.
func (c *Client) FetchByHandle(ctx context.Context, handle string) *domain.Product {
	data, err := c.storefrontRequest(ctx, productByHandleQuery, map[string]interface{}{
		"handle": handle,
	})
	if err != nil {
		logger.Warn().Err(err).Str("handle", handle).Msg("fetch product by handle failed")
		return nil
	}

	var result struct {
		Product *struct {
			ID          string `json:"id"`
			Title       string `json:"title"`
			Handle      string `json:"handle"`
			Description string `json:"description"`
			PriceRange  struct {
				MinVariantPrice struct {
					Amount string `json:"amount"`
				} `json:"minVariantPrice"`
			} `json:"priceRange"`
			Images struct {
				Edges []struct {
					Node struct {
						URL string `json:"url"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"images"`
			Variants struct {
				Edges []struct {
					Node struct {
						ID    string `json:"id"`
						Title string `json:"title"`
						Price struct {
							Amount string `json:"amount"`
						} `json:"price"`
						AvailableForSale bool `json:"availableForSale"`
						Image            *struct {
							URL string `json:"url"`
						} `json:"image"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"variants"`
		} `json:"product"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		logger.Warn().Err(err).Str("handle", handle).Msg("decode product failed")
		return nil
	}
	if result.Product == nil {
		return nil
	}

	sp := result.Product
	price, _ := strconv.ParseFloat(sp.PriceRange.MinVariantPrice.Amount, 64)

	images := make([]string, 0, len(sp.Images.Edges))
	for _, e := range sp.Images.Edges {
		if e.Node.URL != "" {
			images = append(images, e.Node.URL)
		}
	}

	variants := make([]domain.Variant, 0, len(sp.Variants.Edges))
	for i, e := range sp.Variants.Edges {
		v := e.Node
		variantPrice, _ := strconv.ParseFloat(v.Price.Amount, 64)
		variant := domain.Variant{
			ID:        shortID(v.ID),
			Title:     v.Title,
			Price:     variantPrice,
			Available: v.AvailableForSale,
		}
		if v.Image != nil && v.Image.URL != "" {
			variant.Image = v.Image.URL
		} else if i < len(images) {
			// no explicit link from the platform, associate positionally
			variant.Image = images[i]
		}
		variants = append(variants, variant)
	}

	product := &domain.Product{
		ID:               shortID(sp.ID),
		Name:             sp.Title,
		Price:            price,
		Description:      sp.Description,
		Handle:           sp.Handle,
		ShopifyProductID: sp.ID,
		Installment:      price / 12,
		Variants:         variants,
	}
	if len(images) > 0 {
		product.Image = images[0]
	}
	if len(images) > 1 {
		product.Images = images
	}
	if len(variants) > 0 {
		product.VariantID = variants[0].ID
		product.Price = variants[0].Price
		product.Installment = variants[0].Price / 12
	}
	return product
}

// shortID strips the GID prefix, keeping the trailing numeric id.
func shortID(gid string) string {
	if idx := strings.LastIndex(gid, "/"); idx >= 0 {
		return gid[idx+1:]
	}
	return gid
}
