package repository

import (
	"context"
	"errors"

	"github.com/tavernarpg/storefront/internal/domain"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrPendingNotFound = errors.New("pending checkout not found")
)

// CartRepository persists the identity-scoped cart as a single document.
// Mutation semantics (merge lines, drop zero quantities) live in the
// service; the repository only reads and replaces whole carts.
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, userID string) error
}

// UserRepository owns the per-identity user document, favorites included.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	AddFavorite(ctx context.Context, userID, productID string) error
	RemoveFavorite(ctx context.Context, userID, productID string) error
}

// OrderRepository appends to the durable order history. UpsertOrder is
// keyed on the external identifiers so the two racing reconciliation paths
// collapse into a single record.
type OrderRepository interface {
	UpsertOrder(ctx context.Context, order *domain.Order) error
	ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error)
}

// Indexer is implemented by repositories that maintain their own
// collection indexes; called once at startup.
type Indexer interface {
	CreateIndexes(ctx context.Context) error
}

// PendingCheckoutRepository stores the marker linking a remote session to
// the cart snapshot that produced it, scoped to the identity so any device
// can reconcile.
type PendingCheckoutRepository interface {
	Put(ctx context.Context, pending *domain.PendingCheckout) error
	Get(ctx context.Context, userID, checkoutID string) (*domain.PendingCheckout, error)
	Delete(ctx context.Context, userID, checkoutID string) error
}
