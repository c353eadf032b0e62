package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tavernarpg/storefront/internal/domain"
)

// ErrNoCheckoutURL means the platform created the session but returned no
// usable payment page URL. That is a configuration problem, not something
// the user can correct.
var ErrNoCheckoutURL = errors.New("cart created but checkout URL not returned")

const cartCreateMutation = `
  mutation cartCreate($input: CartInput!) {
    cartCreate(input: $input) {
      cart {
        id
        checkoutUrl
      }
      userErrors {
        field
        message
      }
    }
  }
`

// CreateCheckout mints a remote checkout session for the given lines.
// Numeric variant ids are normalized to GID form first. Platform-side
// rejections of individual identifiers surface as *UnavailableError;
// unlike catalog reads, failures here always propagate.
func (c *Client) CreateCheckout(ctx context.Context, lines []domain.CheckoutLine) (*domain.CheckoutSession, error) {
	formatted := make([]map[string]interface{}, 0, len(lines))
	for _, line := range lines {
		formatted = append(formatted, map[string]interface{}{
			"merchandiseId": NormalizeVariantGID(line.VariantID),
			"quantity":      line.Quantity,
		})
	}

	data, err := c.storefrontRequest(ctx, cartCreateMutation, map[string]interface{}{
		"input": map[string]interface{}{"lines": formatted},
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	var result struct {
		CartCreate struct {
			Cart *struct {
				ID          string `json:"id"`
				CheckoutURL string `json:"checkoutUrl"`
			} `json:"cart"`
			UserErrors []struct {
				Field   []string `json:"field"`
				Message string   `json:"message"`
			} `json:"userErrors"`
		} `json:"cartCreate"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode cartCreate response: %w", err)
	}

	if len(result.CartCreate.UserErrors) > 0 {
		messages := make([]string, 0, len(result.CartCreate.UserErrors))
		for _, ue := range result.CartCreate.UserErrors {
			messages = append(messages, ue.Message)
		}
		return nil, &UnavailableError{Messages: messages}
	}

	cart := result.CartCreate.Cart
	if cart == nil || cart.CheckoutURL == "" {
		return nil, ErrNoCheckoutURL
	}

	return &domain.CheckoutSession{
		CheckoutURL: cart.CheckoutURL,
		CheckoutID:  cart.ID,
	}, nil
}

const variantNodesQuery = `
  query getVariants($ids: [ID!]!) {
    nodes(ids: $ids) {
      ... on ProductVariant {
        id
        availableForSale
        product {
          title
        }
      }
    }
  }
`

// CheckVariants asks the platform which of the given checkout identifiers
// are currently available for sale. It returns the product titles of the
// unavailable ones. A variant that no longer resolves counts as unavailable.
func (c *Client) CheckVariants(ctx context.Context, variantIDs []string) ([]string, error) {
	gids := make([]string, 0, len(variantIDs))
	for _, id := range variantIDs {
		gids = append(gids, NormalizeVariantGID(id))
	}

	data, err := c.storefrontRequest(ctx, variantNodesQuery, map[string]interface{}{
		"ids": gids,
	})
	if err != nil {
		return nil, fmt.Errorf("check variants: %w", err)
	}

	var result struct {
		Nodes []*struct {
			ID               string `json:"id"`
			AvailableForSale bool   `json:"availableForSale"`
			Product          struct {
				Title string `json:"title"`
			} `json:"product"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode variants response: %w", err)
	}

	var unavailable []string
	for i, node := range result.Nodes {
		if node == nil {
			unavailable = append(unavailable, shortID(gids[i]))
			continue
		}
		if !node.AvailableForSale {
			title := node.Product.Title
			if title == "" {
				title = shortID(node.ID)
			}
			unavailable = append(unavailable, title)
		}
	}
	return unavailable, nil
}

const checkoutStatusQuery = `
  query getCheckout($id: ID!) {
    checkout(id: $id) {
      id
      completedAt
      order {
        id
        name
      }
      paymentDue {
        amount
        currencyCode
      }
    }
  }
`

// CheckoutStatus queries the live state of a remote session. A session the
// platform no longer resolves yields ErrNotFound; the caller decides how to
// treat that ambiguity.
func (c *Client) CheckoutStatus(ctx context.Context, checkoutID string) (*domain.CheckoutStatusResult, error) {
	id := checkoutID
	if !strings.HasPrefix(id, "gid://") {
		id = "gid://shopify/Checkout/" + id
	}

	data, err := c.storefrontRequest(ctx, checkoutStatusQuery, map[string]interface{}{
		"id": id,
	})
	if err != nil {
		return nil, fmt.Errorf("checkout status: %w", err)
	}

	var result struct {
		Checkout *struct {
			ID          string `json:"id"`
			CompletedAt string `json:"completedAt"`
			Order       *struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"order"`
			PaymentDue *struct {
				Amount string `json:"amount"`
			} `json:"paymentDue"`
		} `json:"checkout"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode checkout response: %w", err)
	}
	if result.Checkout == nil {
		return nil, ErrNotFound
	}

	checkout := result.Checkout
	status := domain.CheckoutStatusPending
	if checkout.CompletedAt != "" {
		status = domain.CheckoutStatusCompleted
	}
	paid := checkout.Order != nil ||
		(checkout.PaymentDue != nil && checkout.PaymentDue.Amount == "0.00")

	out := &domain.CheckoutStatusResult{
		Status:      status,
		Paid:        paid,
		CompletedAt: checkout.CompletedAt,
	}
	if checkout.Order != nil {
		out.OrderNumber = checkout.Order.Name
		out.ShopifyOrderID = checkout.Order.ID
	}
	return out, nil
}
