package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bottega-backend/config"
	"bottega-backend/internal/delivery/http/middleware"
	v1 "bottega-backend/internal/delivery/http/v1"
	"bottega-backend/internal/infrastructure/cache"
	"bottega-backend/internal/infrastructure/idempotency"
	"bottega-backend/internal/infrastructure/payment"
	postgresrepo "bottega-backend/internal/repository/postgres"
	"bottega-backend/internal/usecase"
	"bottega-backend/pkg/logger"
	"bottega-backend/pkg/storage"
	"bottega-backend/pkg/utils"

	"github.com/NYTimes/gziphandler"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	// Initialize Database
	pgxPool, err := postgresrepo.NewPgxPool(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Msg("Successfully connected to PostgreSQL via pgx")

	// Initialize Repositories
	configRepo := postgresrepo.NewShippingConfigRepository(pgxPool)
	productRepo := postgresrepo.NewProductRepository(pgxPool)
	orderRepo := postgresrepo.NewCheckoutOrderRepository(pgxPool)
	txManager := postgresrepo.NewTransactionManager(pgxPool)

	// Initialize Cache (In-Memory)
	// Default expiration 30m, cleanup every 60m
	memCache := cache.NewMemoryCache(30*time.Minute, 60*time.Minute)

	// Idempotency key set: absorbs rapid duplicate checkouts in front of the
	// durable checkout_orders guard.
	seenKeys := idempotency.NewKeySet(cfg.IdempotencyTTL, time.Hour)

	// Configuration archive (optional): snapshots retired shipping
	// configurations to an S3-compatible bucket.
	var archive usecase.ConfigArchiver
	if cfg.ArchiveEnabled() {
		configArchive, err := storage.NewConfigArchive(
			context.Background(),
			cfg.ArchiveEndpoint,
			cfg.ArchiveAccessKey,
			cfg.ArchiveSecretKey,
			cfg.ArchiveRegion,
			cfg.ArchiveBucketName,
			cfg.ArchiveWriteTimeout,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize configuration archive")
		}
		archive = configArchive
	} else {
		log.Info().Msg("Configuration archive disabled: storage settings incomplete")
	}

	// Set up Router
	mux := http.NewServeMux()

	// --- Modules Initialization ---

	// Shipping Module
	shippingUC := usecase.NewShippingUsecase(configRepo, memCache, cfg.CacheConfigTTL)
	shippingHandler := v1.NewShippingHandler(memCache, shippingUC)

	// Subscription Module
	subscriptionUC := usecase.NewSubscriptionUsecase(productRepo)
	subscriptionHandler := v1.NewSubscriptionHandler(subscriptionUC)

	// Checkout Module
	provider := payment.NewManualProvider()
	checkoutUC := usecase.NewCheckoutUsecase(shippingUC, subscriptionUC, orderRepo, provider, seenKeys, txManager)
	checkoutHandler := v1.NewCheckoutHandler(checkoutUC)

	// Admin Config Module
	configAdminUC := usecase.NewConfigAdminUsecase(configRepo, shippingUC, archive)
	adminConfigHandler := v1.NewAdminConfigHandler(configAdminUC, subscriptionUC)

	// Admin middleware chain: Auth -> Admin -> Handler
	adminMiddleware := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(middleware.AdminMiddleware(h))
	}

	// Shipping (Public)
	mux.HandleFunc("GET /api/v1/shipping/zones", shippingHandler.GetZones)
	mux.HandleFunc("POST /api/v1/shipping/quote", shippingHandler.Quote)

	// Subscriptions (Public)
	mux.HandleFunc("POST /api/v1/subscriptions/resolve-plan", subscriptionHandler.ResolvePlan)

	// Checkout (Protected)
	mux.Handle("POST /api/v1/checkout", middleware.AuthMiddleware(http.HandlerFunc(checkoutHandler.Checkout)))
	mux.Handle("GET /api/v1/orders", middleware.AuthMiddleware(http.HandlerFunc(checkoutHandler.GetMyOrders)))

	// Config (Admin)
	mux.Handle("GET /api/v1/admin/config/shipping", adminMiddleware(adminConfigHandler.GetShippingConfig))
	mux.Handle("PUT /api/v1/admin/config/shipping", adminMiddleware(adminConfigHandler.ReplaceShippingConfig))
	mux.Handle("GET /api/v1/admin/config/shipping/history", adminMiddleware(adminConfigHandler.GetShippingConfigHistory))
	mux.Handle("PUT /api/v1/admin/products/{id}/price-map", adminMiddleware(adminConfigHandler.ReplacePriceMap))

	// Health Check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok", "db": "connected"}`))
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler) // Support root health check for Load Balancers

	addr := fmt.Sprintf(":%s", cfg.Port)

	// Initialize Rate Limiter with lifecycle management
	// 50 req/s, burst 100, cleanup every minute, TTL 3 minutes
	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		50,            // requests per second
		100,           // burst
		time.Minute,   // cleanup period
		3*time.Minute, // client TTL
	)

	// Apply CORS (with config injection), Request Logger, Rate Limit, and Gzip
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	log.Info().Msgf("Server starting on %s", addr)

	// Wait for interrupt signal via channel
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	// Stop rate limiter cleanup goroutine before draining connections
	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	pgxPool.Close()
	log.Info().Msg("Server exited properly")
}
