package repository

import (
	"context"
	"fmt"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

const orderColumns = `id, order_number, user_id, items, subtotal, discount_total,
		total_price, currency, coupon_code, status, payment_status,
		payment_provider, payment_id, payment_order_id, shipping,
		created_at, updated_at`

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.UserID,
		&o.Items,
		&o.Subtotal,
		&o.DiscountTotal,
		&o.TotalPrice,
		&o.Currency,
		&o.CouponCode,
		&o.Status,
		&o.PaymentStatus,
		&o.PaymentProvider,
		&o.PaymentID,
		&o.PaymentOrderID,
		&o.Shipping,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Create inserts a new order within the provided transaction.
func (r *orderRepository) Create(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (
			id, order_number, user_id, items, subtotal, discount_total,
			total_price, currency, coupon_code, status, payment_status,
			payment_provider, payment_id, payment_order_id, shipping,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := tx.Exec(ctx, query,
		order.ID,
		order.OrderNumber,
		order.UserID,
		order.Items,
		order.Subtotal,
		order.DiscountTotal,
		order.TotalPrice,
		order.Currency,
		order.CouponCode,
		order.Status,
		order.PaymentStatus,
		order.PaymentProvider,
		order.PaymentID,
		order.PaymentOrderID,
		order.Shipping,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Str("order_number", order.OrderNumber).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Msg("order created")

	return nil
}

// GetByID retrieves an order by its ID.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
	`

	var o model.Order
	err := scanOrder(r.pool.QueryRow(ctx, query, id), &o)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return &o, nil
}

// ListByUser retrieves a user's orders, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}
