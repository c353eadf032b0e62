package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tavernarpg/storefront/internal/domain"
	"github.com/tavernarpg/storefront/internal/repository"
	"github.com/tavernarpg/storefront/internal/shopify"
)

// CheckoutService converts a validated cart into a remote, externally
// hosted payment session. It never clears the cart: an abandoned remote
// session must leave the cart intact, so clearing only happens once
// reconciliation confirms payment.
type CheckoutService struct {
	checkout CheckoutGateway
	carts    repository.CartRepository
	pending  repository.PendingCheckoutRepository
	siteURL  string
}

func NewCheckoutService(checkout CheckoutGateway, carts repository.CartRepository, pending repository.PendingCheckoutRepository, siteURL string) *CheckoutService {
	return &CheckoutService{
		checkout: checkout,
		carts:    carts,
		pending:  pending,
		siteURL:  siteURL,
	}
}

// CheckoutResult is handed back to the browser right before it leaves for
// the external payment page.
type CheckoutResult struct {
	CheckoutURL string `json:"checkoutUrl"`
	CheckoutID  string `json:"checkoutId"`
	ReturnURL   string `json:"returnUrl"`
}

// InitiateCheckout validates the submitted lines, mints the remote
// session, and persists the pending-checkout marker before the caller
// redirects the browser. No marker is written when validation fails:
// a failed checkout must have zero side effects.
func (s *CheckoutService) InitiateCheckout(ctx context.Context, userID string, items []domain.CheckoutLine) (*CheckoutResult, error) {
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}

	// the stored cart is the authoritative snapshot; the submitted items
	// are the client's view of it
	var snapshot []domain.CartLine
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		return nil, fmt.Errorf("load cart for checkout: %w", err)
	}
	if cart != nil {
		var missing []string
		for _, line := range cart.Lines {
			if line.VariantID == "" {
				missing = append(missing, line.Name)
			}
		}
		if len(missing) > 0 {
			return nil, &MissingVariantError{Products: missing}
		}
		snapshot = cart.Lines
	}

	lines := make([]domain.CheckoutLine, 0, len(items))
	variantIDs := make([]string, 0, len(items))
	for _, item := range items {
		if item.VariantID == "" || item.Quantity <= 0 {
			continue
		}
		lines = append(lines, item)
		variantIDs = append(variantIDs, item.VariantID)
	}
	if len(lines) == 0 {
		return nil, ErrNoValidItems
	}

	// pre-validate against live availability: a stale identifier will not
	// self-correct through retry, so abort naming the offending products
	unavailable, err := s.checkout.CheckVariants(ctx, variantIDs)
	if err != nil {
		// best effort only; session creation still catches rejections
		logger.Warn().Err(err).Msg("variant pre-validation unavailable, proceeding to session creation")
	} else if len(unavailable) > 0 {
		return nil, &UnavailableProductsError{Products: unavailable}
	}

	session, err := s.checkout.CreateCheckout(ctx, lines)
	if err != nil {
		var ue *shopify.UnavailableError
		if errors.As(err, &ue) {
			return nil, &UnavailableProductsError{Products: ue.Messages}
		}
		return nil, err
	}

	if len(snapshot) == 0 {
		snapshot = snapshotFromLines(lines)
	}

	// the marker must exist before the browser navigates away: it is the
	// only surviving record linking this session to this cart
	marker := &domain.PendingCheckout{
		UserID:      userID,
		CheckoutID:  session.CheckoutID,
		CheckoutURL: session.CheckoutURL,
		Lines:       snapshot,
		Total:       totalOf(snapshot),
		CreatedAt:   time.Now(),
	}
	if err := s.pending.Put(ctx, marker); err != nil {
		return nil, fmt.Errorf("store pending checkout: %w", err)
	}

	return &CheckoutResult{
		CheckoutURL: session.CheckoutURL,
		CheckoutID:  session.CheckoutID,
		ReturnURL:   fmt.Sprintf("%s/checkout/success?checkoutId=%s", s.siteURL, session.CheckoutID),
	}, nil
}

func snapshotFromLines(lines []domain.CheckoutLine) []domain.CartLine {
	snapshot := make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		snapshot = append(snapshot, domain.CartLine{
			VariantID: l.VariantID,
			Quantity:  l.Quantity,
			AddedAt:   time.Now(),
		})
	}
	return snapshot
}

func totalOf(lines []domain.CartLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}
