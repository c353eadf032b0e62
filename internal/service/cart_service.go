package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tavernarpg/storefront/internal/cache"
	"github.com/tavernarpg/storefront/internal/domain"
	"github.com/tavernarpg/storefront/internal/repository"
	"github.com/tavernarpg/storefront/internal/shopify"
)

// CartService is the authoritative, persisted, identity-scoped cart. Every
// mutation persists the full cart immediately so another tab sees a
// consistent cart on its next read.
type CartService struct {
	repo    repository.CartRepository
	cache   cache.CartCache
	catalog CatalogGateway
	sfg     singleflight.Group // prevents cache stampede
}

func NewCartService(repo repository.CartRepository, cache cache.CartCache, catalog CatalogGateway) *CartService {
	return &CartService{
		repo:    repo,
		cache:   cache,
		catalog: catalog,
	}
}

// GetCart loads the cart, revalidating stale checkout identifiers before
// returning it. A cart that was never created reads as empty.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		cached, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Warn().Err(err).Msg("cart cache get error")
		}

		cart, errGet := s.repo.GetCart(ctx, userID)
		if errGet != nil {
			if errors.Is(errGet, repository.ErrCartNotFound) {
				now := time.Now()
				return &domain.Cart{UserID: userID, CreatedAt: now, UpdatedAt: now}, nil
			}
			return nil, errGet
		}

		s.revalidate(ctx, cart)

		go func() {
			if errSet := s.cache.Set(context.Background(), userID, cart); errSet != nil {
				logger.Warn().Err(errSet).Msg("cart cache set error")
			}
		}()

		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}

// revalidate repairs lines whose checkout identifier is missing or not in
// the platform's canonical format. A stale identifier makes remote session
// creation fail, so this runs before the cart is considered ready for
// checkout. Lines that cannot be repaired are left as-is; checkout
// validation will name them.
func (s *CartService) revalidate(ctx context.Context, cart *domain.Cart) {
	changed := false
	for i := range cart.Lines {
		line := &cart.Lines[i]
		if line.VariantID != "" && shopify.IsCanonicalVariantID(line.VariantID) {
			continue
		}

		var fresh string
		if line.Handle != "" {
			if p := s.catalog.FetchByHandle(ctx, line.Handle); p != nil {
				fresh = p.VariantID
			}
		}
		if fresh == "" {
			fresh = s.catalog.FetchVariantID(ctx, line.ProductID)
		}
		if fresh != "" && fresh != line.VariantID {
			logger.Info().
				Str("product_id", line.ProductID).
				Str("old_variant", line.VariantID).
				Str("new_variant", fresh).
				Msg("repaired stale cart line")
			line.VariantID = fresh
			changed = true
		}
	}

	if changed {
		if err := s.repo.UpsertCart(ctx, cart); err != nil {
			logger.Error().Err(err).Msg("failed to persist revalidated cart")
		}
	}
}

// AddItem merges the product (and optional variant) into the cart: an
// existing line's quantity goes up by 1, otherwise a new line starts at 1.
func (s *CartService) AddItem(ctx context.Context, userID string, product domain.Product, variant *domain.Variant) (*domain.Cart, error) {
	cart, err := s.loadForWrite(ctx, userID)
	if err != nil {
		return nil, err
	}

	line := domain.CartLine{
		ProductID: product.ID,
		VariantID: product.VariantID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.Image,
		Handle:    product.Handle,
		Quantity:  1,
		AddedAt:   time.Now(),
	}
	if variant != nil {
		line.VariantID = variant.ID
		line.VariantTitle = variant.Title
		line.Price = variant.Price
		if variant.Image != "" {
			line.Image = variant.Image
		}
	}

	if i := cart.FindLine(line.Key()); i >= 0 {
		cart.Lines[i].Quantity++
	} else {
		cart.Lines = append(cart.Lines, line)
	}

	return s.persist(ctx, cart)
}

// UpdateQuantity overwrites a line's quantity; a quantity <= 0 removes the
// line instead.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, lineKey string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, lineKey)
	}

	cart, err := s.loadForWrite(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := cart.FindLine(lineKey)
	if i < 0 {
		return cart, nil
	}
	cart.Lines[i].Quantity = quantity

	return s.persist(ctx, cart)
}

// RemoveItem deletes the line if present; removing an absent line is a
// no-op, not an error.
func (s *CartService) RemoveItem(ctx context.Context, userID, lineKey string) (*domain.Cart, error) {
	cart, err := s.loadForWrite(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := cart.FindLine(lineKey)
	if i < 0 {
		return cart, nil
	}
	cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)

	return s.persist(ctx, cart)
}

// ClearCart empties the cart. Called after a confirmed order and offered
// as a manual recovery when checkout reports unavailable products.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	if err := s.repo.DeleteCart(ctx, userID); err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		return err
	}
	s.invalidateCache(userID)
	return nil
}

func (s *CartService) loadForWrite(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			now := time.Now()
			return &domain.Cart{UserID: userID, CreatedAt: now, UpdatedAt: now}, nil
		}
		return nil, err
	}
	return cart, nil
}

func (s *CartService) persist(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		return nil, err
	}
	s.invalidateCache(cart.UserID)
	return cart, nil
}

func (s *CartService) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		logger.Warn().Err(err).Msg("cart cache invalidate error")
	}
}
