package service

import (
	"context"
	"sync"

	"github.com/tavernarpg/storefront/internal/cache"
	"github.com/tavernarpg/storefront/internal/domain"
	"github.com/tavernarpg/storefront/internal/repository"
)

type mockCartRepo struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error

	upserts int
	deletes int
}

func (m *mockCartRepo) GetCart(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, repository.ErrCartNotFound
	}
	return m.cart, nil
}

func (m *mockCartRepo) UpsertCart(_ context.Context, c *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.cart = c
	m.upserts++
	return nil
}

func (m *mockCartRepo) DeleteCart(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		return repository.ErrCartNotFound
	}
	m.cart = nil
	m.deletes++
	return nil
}

func (m *mockCartRepo) getCart() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

type mockCartCache struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockCartCache) Get(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCartCache) Set(_ context.Context, _ string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = cart
	return m.err
}

func (m *mockCartCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	return m.err
}

func (m *mockCartCache) getCart() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

type mockCatalog struct {
	byHandle  map[string]*domain.Product
	variantID string
}

func (m *mockCatalog) FetchAll(context.Context, int) []domain.Product { return nil }

func (m *mockCatalog) FetchByHandle(_ context.Context, handle string) *domain.Product {
	return m.byHandle[handle]
}

func (m *mockCatalog) FetchByIDs(context.Context, []string) []domain.Product { return nil }

func (m *mockCatalog) FetchVariantID(context.Context, string) string { return m.variantID }

type mockCheckoutGateway struct {
	session    *domain.CheckoutSession
	createErr  error
	createdFor []domain.CheckoutLine

	unavailable []string
	checkErr    error

	statuses  []*domain.CheckoutStatusResult
	statusErr error
	calls     int
}

func (m *mockCheckoutGateway) CreateCheckout(_ context.Context, lines []domain.CheckoutLine) (*domain.CheckoutSession, error) {
	m.createdFor = lines
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.session, nil
}

func (m *mockCheckoutGateway) CheckVariants(context.Context, []string) ([]string, error) {
	if m.checkErr != nil {
		return nil, m.checkErr
	}
	return m.unavailable, nil
}

func (m *mockCheckoutGateway) CheckoutStatus(context.Context, string) (*domain.CheckoutStatusResult, error) {
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	i := m.calls
	if i >= len(m.statuses) {
		i = len(m.statuses) - 1
	}
	m.calls++
	return m.statuses[i], nil
}

type mockPendingRepo struct {
	m      sync.Mutex
	marker *domain.PendingCheckout
	putErr error
}

func (m *mockPendingRepo) Put(_ context.Context, pending *domain.PendingCheckout) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.marker = pending
	return nil
}

func (m *mockPendingRepo) Get(_ context.Context, userID, checkoutID string) (*domain.PendingCheckout, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.marker == nil || m.marker.UserID != userID || m.marker.CheckoutID != checkoutID {
		return nil, repository.ErrPendingNotFound
	}
	return m.marker, nil
}

func (m *mockPendingRepo) Delete(_ context.Context, userID, checkoutID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.marker == nil || m.marker.UserID != userID || m.marker.CheckoutID != checkoutID {
		return repository.ErrPendingNotFound
	}
	m.marker = nil
	return nil
}

func (m *mockPendingRepo) getMarker() *domain.PendingCheckout {
	m.m.Lock()
	defer m.m.Unlock()
	return m.marker
}

type mockOrderRepo struct {
	m      sync.Mutex
	orders []*domain.Order
	err    error
}

// upsert semantics mirror the real repository: match on shopify_order_id,
// then checkout_id, then insert.
func (m *mockOrderRepo) UpsertOrder(_ context.Context, order *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, existing := range m.orders {
		matched := (order.ShopifyOrderID != "" && existing.ShopifyOrderID == order.ShopifyOrderID) ||
			(order.ShopifyOrderID == "" && order.CheckoutID != "" && existing.CheckoutID == order.CheckoutID)
		if matched {
			if order.OrderNumber != "" {
				existing.OrderNumber = order.OrderNumber
			}
			if order.Status == domain.OrderStatusCompleted {
				existing.Status = domain.OrderStatusCompleted
			}
			return nil
		}
	}
	m.orders = append(m.orders, order)
	return nil
}

func (m *mockOrderRepo) ListOrdersByUserID(_ context.Context, userID string) ([]*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) getOrders() []*domain.Order {
	m.m.Lock()
	defer m.m.Unlock()
	return m.orders
}

type mockUserRepo struct {
	m     sync.Mutex
	users map[string]*domain.User // by id
	err   error
}

func newMockUserRepo(users ...*domain.User) *mockUserRepo {
	repo := &mockUserRepo{users: map[string]*domain.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *domain.User) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepo) AddFavorite(_ context.Context, userID, productID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	for _, id := range u.Favorites {
		if id == productID {
			return nil
		}
	}
	u.Favorites = append(u.Favorites, productID)
	return nil
}

func (m *mockUserRepo) RemoveFavorite(_ context.Context, userID, productID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	for i, id := range u.Favorites {
		if id == productID {
			u.Favorites = append(u.Favorites[:i], u.Favorites[i+1:]...)
			return nil
		}
	}
	return nil
}
