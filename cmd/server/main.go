package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-be/internal/auth"
	"storefront-be/internal/cart"
	"storefront-be/internal/config"
	"storefront-be/internal/db"
	"storefront-be/internal/handler"
	"storefront-be/internal/inventory"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/middleware"
	"storefront-be/internal/order"
	"storefront-be/internal/product"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	initDBFunc      = db.NewDatabase
	startServerFunc = serve
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database, err := initDBFunc(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(ctx, time.Minute)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           newServer(cfg, database, limiter),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.L().Info("http server starting",
		zap.String("addr", srv.Addr),
		zap.String("env", cfg.AppEnv),
	)
	return startServerFunc(ctx, srv, cfg.ShutdownTimeout)
}

func newServer(cfg *config.Config, database *sql.DB, limiter *middleware.RateLimiter) http.Handler {
	tx := db.NewTxManager(database)

	productRepo := product.NewRepository(database)
	cartRepo := cart.NewRepository(database)
	orderRepo := order.NewRepository(database)
	ledger := inventory.NewLedger(productRepo)
	checkout := &metrics.Checkout{}

	cartSvc := cart.NewService(cartRepo, productRepo, tx)
	orderSvc := order.NewService(orderRepo, cartRepo, ledger, tx, order.Options{
		MaxAttempts:       cfg.OrderNumberMaxAttempts,
		StrictTransitions: cfg.StrictStatusTransitions,
		Metrics:           checkout,
	})

	return handler.NewRouter(handler.Deps{
		Carts:         cartSvc,
		Orders:        orderSvc,
		Verifier:      auth.NewHMACVerifier(cfg.JWTSecret),
		Limiter:       limiter,
		Metrics:       checkout,
		AllowedOrigin: cfg.CORSAllowedOrigin,
	})
}

// serve blocks until ctx is cancelled or the listener fails, then drains
// in-flight requests for at most shutdownTimeout.
func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.L().Info("http server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
