package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/CameronXie/digital-diner/internal/api/rest"
	"github.com/CameronXie/digital-diner/internal/api/rest/handlers"
	"github.com/CameronXie/digital-diner/internal/api/rest/middlewares"
	"github.com/CameronXie/digital-diner/internal/authn"
	"github.com/CameronXie/digital-diner/internal/config"
	"github.com/CameronXie/digital-diner/internal/keyfetcher"
	"github.com/CameronXie/digital-diner/internal/logging"
	"github.com/CameronXie/digital-diner/internal/metrics"
	"github.com/CameronXie/digital-diner/internal/ordering"
	"github.com/CameronXie/digital-diner/internal/repository/mongodb"
	"github.com/CameronXie/digital-diner/internal/repository/postgres"
	"github.com/CameronXie/digital-diner/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config_load_failed: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}).With(slog.String("version", version.Version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()

	if err != nil {
		logger.Error("api_failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Prices and totals are written as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("db_init_failed: %w", err)
	}
	defer pool.Close()

	if cfg.Postgres.MigrateOnStart {
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("db_migrate_failed: %w", err)
		}
	}

	mongoClient, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.ConnectTimeout)
	if err != nil {
		return fmt.Errorf("mongo_init_failed: %w", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.WithoutCancel(ctx)); err != nil {
			logger.Error("mongo_disconnect_failed", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.Mongo.Database)
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("mongo_index_failed: %w", err)
	}

	menuRepo := mongodb.NewMenuRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	orderRepo := postgres.NewOrderRepository(pool)
	m := metrics.New()

	e, err := newEnforcer(cfg, userRepo, logger)
	if err != nil {
		return fmt.Errorf("enforcer_init_failed: %w", err)
	}

	orders := ordering.NewService(ordering.NewValidator(menuRepo), orderRepo, m, logger)
	auth := authn.NewService(
		userRepo,
		authn.NewTokenIssuer(
			keyfetcher.FromBase64(cfg.Auth.PrivateKey),
			cfg.Auth.Issuer,
			cfg.Auth.Audience,
		),
		m,
		logger,
	)

	router := rest.NewRouter(&rest.RouterConfig{
		AuthHandler:  handlers.NewAuthHandler(auth, logger),
		MenuHandler:  handlers.NewMenuHandler(menuRepo, logger),
		OrderHandler: handlers.NewOrderHandler(orders, logger),
		UserHandler:  handlers.NewUserHandler(userRepo, auth, orders, logger),
		AuthenticationMiddleware: middlewares.NewJWTAuthMiddleware(middlewares.JWTConfig{
			KeyFetcher: keyfetcher.FromBase64(cfg.Auth.PublicKey),
			Issuer:     cfg.Auth.Issuer,
			Audience:   cfg.Auth.Audience,
			ClockSkew:  cfg.Auth.ClockSkew,
			Logger:     logger,
		}),
		AuthorizationMiddleware: middlewares.NewAuthorizationMiddleware(e, m, logger),
		RequestObserver:         middlewares.NewRequestObserver(m, logger),
		MetricsHandler:          promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry}),
		CORSOrigins:             cfg.Server.CORSOrigins,
		AuthRateLimit:           cfg.Auth.RateLimit,
		AuthRateLimitWindow:     cfg.Auth.RateLimitWindow,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("api_listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("api_shutting_down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
