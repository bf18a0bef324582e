// Package cart turns a client-submitted cart into authoritatively priced
// lines. The client never supplies prices; every unit price is resolved from
// the catalogue on the server side.
package cart

import (
	"context"
	"fmt"

	"storefront/internal/model"
	"storefront/internal/pricing"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// Normalizer merges duplicate cart lines and re-prices them against the
// catalogue.
type Normalizer struct {
	products repository.ProductRepository
	logger   zerolog.Logger
}

// NewNormalizer creates a new cart normalizer.
func NewNormalizer(products repository.ProductRepository, logger zerolog.Logger) *Normalizer {
	return &Normalizer{
		products: products,
		logger:   logger.With().Str("component", "cart-normalizer").Logger(),
	}
}

// lineKey identifies a mergeable cart line.
type lineKey struct {
	productID string
	size      string
}

// Normalize validates the cart lines, merges duplicates, resolves prices and
// computes the subtotal. Each line total is rounded before summation.
func (n *Normalizer) Normalize(ctx context.Context, lines []model.CartLine) ([]model.PricedLine, float64, error) {
	if len(lines) == 0 {
		return nil, 0, model.ErrEmptyCart
	}

	// Merge duplicate (product, size) lines, preserving first-seen order so
	// a client submitting the same product twice gets one aggregated line.
	order := make([]lineKey, 0, len(lines))
	quantities := make(map[lineKey]int, len(lines))

	for i, line := range lines {
		if line.ProductID == "" {
			n.logger.Warn().Int("line_index", i).Msg("cart line missing product ID")
			return nil, 0, model.ErrMissingProductID
		}
		if line.Quantity <= 0 {
			n.logger.Warn().
				Int("line_index", i).
				Str("product_id", line.ProductID).
				Int("quantity", line.Quantity).
				Msg("invalid quantity")
			return nil, 0, model.ErrInvalidQuantity
		}

		key := lineKey{productID: line.ProductID, size: line.Size}
		if _, seen := quantities[key]; !seen {
			order = append(order, key)
		}
		quantities[key] += line.Quantity
	}

	productIDs := make([]string, 0, len(order))
	seen := make(map[string]bool, len(order))
	for _, key := range order {
		if !seen[key.productID] {
			seen[key.productID] = true
			productIDs = append(productIDs, key.productID)
		}
	}

	products, err := n.products.GetActiveByIDs(ctx, productIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to resolve products: %w", err)
	}

	priced := make([]model.PricedLine, 0, len(order))
	subtotal := 0.0

	for _, key := range order {
		product, ok := products[key.productID]
		if !ok {
			n.logger.Warn().Str("product_id", key.productID).Msg("product missing or inactive")
			return nil, 0, model.ErrInvalidItem
		}

		quantity := quantities[key]
		if product.Stock < quantity {
			n.logger.Warn().
				Str("product_id", key.productID).
				Int("stock", product.Stock).
				Int("requested", quantity).
				Msg("insufficient stock")
			return nil, 0, model.ErrInsufficientStock
		}

		unitPrice := pricing.SellingPrice(product.MRP, product.DiscountPercent)
		lineTotal := pricing.LineTotal(unitPrice, quantity)

		priced = append(priced, model.PricedLine{
			ProductID:       product.ID,
			Name:            product.Name,
			ImageURL:        product.ImageURL,
			Size:            key.size,
			MRP:             product.MRP,
			DiscountPercent: product.DiscountPercent,
			UnitPrice:       unitPrice,
			Quantity:        quantity,
			LineTotal:       lineTotal,
		})
		subtotal = pricing.Round2(subtotal + lineTotal)
	}

	n.logger.Debug().
		Int("input_lines", len(lines)).
		Int("priced_lines", len(priced)).
		Float64("subtotal", subtotal).
		Msg("cart normalized")

	return priced, subtotal, nil
}
