package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tavernarpg/storefront/internal/cache"
	"github.com/tavernarpg/storefront/internal/config"
	internalhttp "github.com/tavernarpg/storefront/internal/http"
	"github.com/tavernarpg/storefront/internal/repository"
	"github.com/tavernarpg/storefront/internal/service"
	"github.com/tavernarpg/storefront/internal/shopify"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("service", "storefront").Logger()

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := db.Client().Disconnect(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()
	logger.Info().Str("database", cfg.MongoDBName).Msg("connected to MongoDB")

	cartRepo := repository.NewMongoCartRepository(db)
	userRepo := repository.NewMongoUserRepository(db)
	orderRepo := repository.NewMongoOrderRepository(db)
	pendingRepo := repository.NewMongoPendingCheckoutRepository(db)

	for _, repo := range []any{cartRepo, userRepo, orderRepo, pendingRepo} {
		if indexer, ok := repo.(repository.Indexer); ok {
			if err := indexer.CreateIndexes(ctx); err != nil {
				logger.Fatal().Err(err).Msg("failed to create indexes")
			}
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Str("addr", cfg.RedisAddr).Msg("connected to Redis")

	cartCache := cache.NewRedisCache(redisClient)

	shopifyClient := shopify.NewClient(shopify.Config{
		StoreDomain:     cfg.ShopifyStoreDomain,
		StorefrontToken: cfg.ShopifyStorefrontToken,
		AdminToken:      cfg.ShopifyAdminToken,
		APIVersion:      cfg.ShopifyAPIVersion,
	})

	cartService := service.NewCartService(cartRepo, cartCache, shopifyClient)
	checkoutService := service.NewCheckoutService(shopifyClient, cartRepo, pendingRepo, cfg.SiteURL)
	reconcileService := service.NewReconcileService(shopifyClient, pendingRepo, orderRepo, cartService)
	webhookService := service.NewWebhookService(userRepo, orderRepo)
	favoritesService := service.NewFavoritesService(userRepo)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret)

	router := internalhttp.NewRouter(internalhttp.Handlers{
		Auth:        internalhttp.NewAuthHandler(authService),
		Products:    internalhttp.NewProductHandler(shopifyClient),
		Cart:        internalhttp.NewCartHandler(cartService),
		Favorites:   internalhttp.NewFavoritesHandler(favoritesService),
		Orders:      internalhttp.NewOrdersHandler(orderRepo),
		Checkout:    internalhttp.NewCheckoutHandler(checkoutService, reconcileService, shopifyClient),
		Webhook:     internalhttp.NewWebhookHandler(webhookService),
		TokenParser: authService,
	}, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server stopped")
}
