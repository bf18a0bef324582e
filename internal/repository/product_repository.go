package repository

import (
	"context"
	"fmt"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

const productColumns = `id, name, image_url, mrp, discount_percent, stock, is_active, created_at, updated_at`

func scanProduct(row pgx.Row, p *model.Product) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.ImageURL,
		&p.MRP,
		&p.DiscountPercent,
		&p.Stock,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

// GetAll retrieves active products with pagination support.
func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE is_active
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := scanProduct(r.pool.QueryRow(ctx, query, id), &p)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// GetActiveByIDs retrieves the active products among the given IDs.
func (r *productRepository) GetActiveByIDs(ctx context.Context, ids []string) (map[string]model.Product, error) {
	products := make(map[string]model.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = ANY($1) AND is_active
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query products by IDs")
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products[p.ID] = p
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// DecrementStock applies a conditional stock decrement within the transaction.
// The predicate keeps stock non-negative even under concurrent finalizations;
// a zero rows-affected result means insufficient stock or an inactive product.
func (r *productRepository) DecrementStock(ctx context.Context, tx pgx.Tx, productID string, quantity int) (bool, error) {
	query := `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND is_active AND stock >= $2
	`

	tag, err := tx.Exec(ctx, query, productID, quantity)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("product_id", productID).
			Int("quantity", quantity).
			Msg("failed to decrement stock")
		return false, fmt.Errorf("failed to decrement stock: %w", err)
	}

	applied := tag.RowsAffected() == 1
	if !applied {
		r.logger.Debug().
			Str("product_id", productID).
			Int("quantity", quantity).
			Msg("conditional stock decrement did not apply")
	}

	return applied, nil
}
