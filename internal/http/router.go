package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth      *AuthHandler
	Products  *ProductHandler
	Cart      *CartHandler
	Favorites *FavoritesHandler
	Orders    *OrdersHandler
	Checkout  *CheckoutHandler
	Webhook   *WebhookHandler

	TokenParser TokenParser
}

// NewRouter wires the public surface. Catalog reads, the status probe and
// the webhook receiver stay public; everything touching a cart, favorites
// or order history requires an authenticated identity.
func NewRouter(h Handlers, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/auth/register", h.Auth.Register)
	r.Post("/auth/login", h.Auth.Login)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.Products.List)
		r.Get("/search", h.Products.Search)
		r.Post("/ids", h.Products.GetByIDs)
		r.Get("/{handle}", h.Products.GetByHandle)
	})

	r.Get("/checkout/status", h.Checkout.CheckoutStatus)

	r.Get("/webhooks/shopify", h.Webhook.Probe)
	r.Post("/webhooks/shopify", h.Webhook.HandleEvent)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(h.TokenParser))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Delete("/", h.Cart.ClearCart)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items/{key}", h.Cart.UpdateQuantity)
			r.Delete("/items/{key}", h.Cart.RemoveItem)
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", h.Favorites.List)
			r.Get("/{productId}", h.Favorites.Check)
			r.Post("/{productId}", h.Favorites.Add)
			r.Delete("/{productId}", h.Favorites.Remove)
		})

		r.Get("/orders", h.Orders.List)

		r.Post("/checkout", h.Checkout.InitiateCheckout)
		r.Post("/checkout/confirm", h.Checkout.ConfirmCheckout)
	})

	return r
}
