package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyItems       = errors.New("cart items are required")
	ErrNoValidItems     = errors.New("no valid items with a checkout identifier")
	ErrInvalidOrderData = errors.New("invalid order data in webhook payload")
)

// MissingVariantError: one or more cart lines carry no checkout identifier.
// This is stale client state; a reload usually fixes it, so the recovery
// hint is retry, not cart-clear.
type MissingVariantError struct {
	Products []string
}

func (e *MissingVariantError) Error() string {
	return fmt.Sprintf("products without a configured variant: %s", strings.Join(e.Products, ", "))
}

// UnavailableProductsError: the platform rejected one or more checkout
// identifiers as unavailable for sale. A stale identifier will not
// self-correct through retry; clearing the cart is the recovery.
type UnavailableProductsError struct {
	Products []string
}

func (e *UnavailableProductsError) Error() string {
	return fmt.Sprintf("products no longer available: %s", strings.Join(e.Products, ", "))
}
