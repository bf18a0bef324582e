// Command seed populates the store with a small sample catalogue and a few
// coupons for local development.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/model"
	"storefront/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	ten := 10.0
	products := []struct {
		id, name string
		mrp      float64
		discount *float64
		stock    int
	}{
		{"P001", "Classic Tee", 999.00, &ten, 50},
		{"P002", "Denim Jacket", 2499.00, nil, 20},
		{"P003", "Canvas Sneakers", 1799.00, &ten, 35},
	}

	for _, p := range products {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, image_url, mrp, discount_percent, stock, is_active, created_at, updated_at)
			VALUES ($1, $2, '', $3, $4, $5, true, NOW(), NOW())
			ON CONFLICT (id) DO NOTHING
		`, p.id, p.name, p.mrp, p.discount, p.stock)
		if err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.id, err)
		}
	}

	couponRepo := repository.NewCouponRepository(pool, logger)

	maxDiscount := 100.0
	usageLimit := 1000
	perUserLimit := 1

	coupons := []model.Coupon{
		{
			Code:          "WELCOME10",
			Type:          model.CouponPercentage,
			Value:         10,
			MinOrderValue: 500,
			MaxDiscount:   &maxDiscount,
			Active:        true,
			UsageLimit:    &usageLimit,
			PerUserLimit:  &perUserLimit,
		},
		{
			Code:          "FLAT50",
			Type:          model.CouponFixed,
			Value:         50,
			MinOrderValue: 250,
			Active:        true,
		},
	}

	for i := range coupons {
		if err := couponRepo.Upsert(ctx, &coupons[i]); err != nil {
			return fmt.Errorf("failed to seed coupon %s: %w", coupons[i].Code, err)
		}
	}

	logger.Info().
		Int("products", len(products)).
		Int("coupons", len(coupons)).
		Msg("sample data seeded")

	return nil
}
