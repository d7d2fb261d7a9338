package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aventra-health/benefits-store-backend/api/controllers"
	"github.com/aventra-health/benefits-store-backend/api/routes"
	"github.com/aventra-health/benefits-store-backend/internal/accounts"
	authsvc "github.com/aventra-health/benefits-store-backend/internal/auth"
	"github.com/aventra-health/benefits-store-backend/internal/cart"
	"github.com/aventra-health/benefits-store-backend/internal/catalog"
	"github.com/aventra-health/benefits-store-backend/internal/checkout"
	"github.com/aventra-health/benefits-store-backend/internal/entitlement"
	"github.com/aventra-health/benefits-store-backend/internal/orders"
	"github.com/aventra-health/benefits-store-backend/internal/users"
	"github.com/aventra-health/benefits-store-backend/pkg/auth/session"
	"github.com/aventra-health/benefits-store-backend/pkg/config"
	"github.com/aventra-health/benefits-store-backend/pkg/db"
	"github.com/aventra-health/benefits-store-backend/pkg/logger"
	"github.com/aventra-health/benefits-store-backend/pkg/metrics"
	"github.com/aventra-health/benefits-store-backend/pkg/migrate"
	"github.com/aventra-health/benefits-store-backend/pkg/pubsub"
	"github.com/aventra-health/benefits-store-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gdb := dbClient.DB()
	userRepo := users.NewRepository(gdb)
	catalogRepo := catalog.NewRepository(gdb)
	cartRepo := cart.NewRepository(gdb)
	accountsRepo := accounts.NewRepository(gdb)
	ordersRepo := orders.NewRepository(gdb)

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogService := catalog.NewService(catalogRepo, logg)
	cartService := cart.NewService(cartRepo, catalogRepo, logg)
	ordersService := orders.NewService(ordersRepo, logg)

	registry := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	var orderPublisher checkout.EventPublisher
	pingers := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
	}
	if cfg.PubSub.Enabled() {
		pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		orderPublisher = checkout.NewPubSubPublisher(pubsubClient)
		pingers["pubsub"] = pubsubClient
	}

	authority := entitlement.NewClient(cfg.Entitlement)
	if authority != nil {
		logg.Info(context.Background(), "entitlement authority configured, mode "+cfg.Entitlement.Mode())
	}

	checkoutService := checkout.NewService(
		dbClient,
		cartRepo,
		catalogRepo,
		accountsRepo,
		ordersRepo,
		authority,
		cfg.Entitlement.Mode(),
		orderPublisher,
		checkoutMetrics,
		logg,
	)

	router := routes.NewRouter(routes.Deps{
		Config:   cfg,
		Logger:   logg,
		Redis:    redisClient,
		Sessions: sessionManager,
		Gatherer: registry,
		Pingers:  pingers,
		Auth:     authService,
		Catalog:  catalogService,
		Cart:     cartService,
		Checkout: checkoutService,
		Orders:   ordersService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(ctx, "shutting down on signal "+sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
