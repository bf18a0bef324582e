package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/coupon"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	couponRepo := repository.NewCouponRepository(pool, logger)
	checkoutRepo := repository.NewCheckoutRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Import coupon definitions at startup when configured, from S3 with a
	// local file system fallback.
	if cfg.CouponImport.Enabled {
		var loader coupon.Loader
		if cfg.CouponImport.S3Enabled {
			s3Loader, err := coupon.NewS3Loader(ctx, cfg.CouponImport.S3Bucket, cfg.CouponImport.S3Region, logger)
			if err != nil {
				logger.Warn().
					Err(err).
					Msg("failed to initialise S3 loader, falling back to local file system")
				loader = coupon.NewFileLoader(logger)
			} else {
				loader = s3Loader
			}
		} else {
			loader = coupon.NewFileLoader(logger)
		}

		importer := coupon.NewImporter(loader, couponRepo, logger)
		imported, err := importer.Import(ctx, cfg.CouponImport.Paths)
		if err != nil {
			return fmt.Errorf("failed to import coupon definitions: %w", err)
		}
		logger.Info().Int("imported", imported).Msg("coupon definitions imported")
	}

	// Initialize core components
	normalizer := cart.NewNormalizer(productRepo, logger)
	quoteTTL := time.Duration(cfg.Checkout.QuoteTTLMinutes) * time.Minute
	checkoutService := service.NewCheckoutService(normalizer, couponRepo, checkoutRepo, quoteTTL, logger)
	orderService := service.NewOrderService(orderRepo, checkoutRepo, productRepo, couponRepo, logger)

	// Start the expired-session reaper. Housekeeping only; finalize
	// preconditions keep expired sessions inert regardless.
	reaperInterval := time.Duration(cfg.Checkout.ReaperIntervalMinutes) * time.Minute
	go checkoutService.RunReaper(ctx, reaperInterval)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productRepo, logger)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, orderService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)

	// Initialize router
	mux := router.New(productHandler, checkoutHandler, orderHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
