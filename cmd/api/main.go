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
	"go.uber.org/multierr"

	"github.com/eventmartlabs/eventmart-backend/api/routes"
	"github.com/eventmartlabs/eventmart-backend/internal/accounts"
	"github.com/eventmartlabs/eventmart-backend/internal/auth"
	"github.com/eventmartlabs/eventmart-backend/internal/cart"
	"github.com/eventmartlabs/eventmart-backend/internal/checkout"
	"github.com/eventmartlabs/eventmart-backend/internal/orders"
	"github.com/eventmartlabs/eventmart-backend/internal/products"
	"github.com/eventmartlabs/eventmart-backend/internal/vendors"
	"github.com/eventmartlabs/eventmart-backend/pkg/auth/session"
	"github.com/eventmartlabs/eventmart-backend/pkg/config"
	"github.com/eventmartlabs/eventmart-backend/pkg/db"
	"github.com/eventmartlabs/eventmart-backend/pkg/logger"
	"github.com/eventmartlabs/eventmart-backend/pkg/metrics"
	"github.com/eventmartlabs/eventmart-backend/pkg/migrate"
	"github.com/eventmartlabs/eventmart-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	accountsRepo := accounts.NewRepository(dbClient.DB())
	vendorsRepo := vendors.NewRepository(dbClient.DB())
	productsRepo := products.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())

	if err := auth.SeedAdmin(context.Background(), accountsRepo, cfg.Admin, cfg.Password, logg); err != nil {
		logg.Error(context.Background(), "failed to seed admin account", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		AccountRepo:    accountsRepo,
		VendorRepo:     vendorsRepo,
		SessionManager: sessionManager,
		Tx:             dbClient,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	accountsService, err := accounts.NewService(accountsRepo, vendorsRepo, ordersRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create accounts service", err)
		os.Exit(1)
	}

	vendorsService, err := vendors.NewService(vendorsRepo, accountsRepo, ordersRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create vendors service", err)
		os.Exit(1)
	}

	productsService, err := products.NewService(productsRepo, vendorsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(productsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo, productsRepo, vendorsRepo, accountsRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(ordersRepo, productsRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	router := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             dbClient,
		Redis:          redisClient,
		SessionChecker: sessionManager,
		Registry:       registry,
		HTTPMetrics:    httpMetrics,
		Auth:           authService,
		Accounts:       accountsService,
		Vendors:        vendorsService,
		Products:       productsService,
		Cart:           cartService,
		Checkout:       checkoutService,
		Orders:         ordersService,
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
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	stop, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stop.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	err = server.Shutdown(shutdownCtx)
	err = multierr.Append(err, redisClient.Close())
	err = multierr.Append(err, dbClient.Close())
	if err != nil {
		logg.Error(ctx, "shutdown finished with errors", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}
