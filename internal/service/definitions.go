package service

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/tavernarpg/storefront/internal/domain"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// CatalogGateway is the read side of the commerce platform. Every method
// degrades to an empty or nil result on upstream failure; browsing must
// never break because the catalog is unreachable.
type CatalogGateway interface {
	FetchAll(ctx context.Context, limit int) []domain.Product
	FetchByHandle(ctx context.Context, handle string) *domain.Product
	FetchByIDs(ctx context.Context, ids []string) []domain.Product
	FetchVariantID(ctx context.Context, productID string) string
}

// CheckoutGateway is the write-adjacent side: session creation and status.
// Unlike catalog reads, these propagate errors, because checkout
// correctness must not be silently swallowed.
type CheckoutGateway interface {
	CreateCheckout(ctx context.Context, lines []domain.CheckoutLine) (*domain.CheckoutSession, error)
	CheckVariants(ctx context.Context, variantIDs []string) ([]string, error)
	CheckoutStatus(ctx context.Context, checkoutID string) (*domain.CheckoutStatusResult, error)
}
