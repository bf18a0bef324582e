package repository

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// checkoutRepository implements the CheckoutRepository interface using PostgreSQL.
type checkoutRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCheckoutRepository creates a new PostgreSQL-backed checkout repository.
func NewCheckoutRepository(pool *pgxpool.Pool, logger zerolog.Logger) CheckoutRepository {
	return &checkoutRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "checkout").Logger(),
	}
}

const checkoutColumns = `id, user_id, items, subtotal, discount_total, total,
		coupon_code, currency, status, payment_provider, payment_order_id, order_id,
		expires_at, created_at, updated_at`

func scanCheckout(row pgx.Row, s *model.CheckoutSession) error {
	return row.Scan(
		&s.ID,
		&s.UserID,
		&s.Items,
		&s.Subtotal,
		&s.DiscountTotal,
		&s.Total,
		&s.CouponCode,
		&s.Currency,
		&s.Status,
		&s.PaymentProvider,
		&s.PaymentOrderID,
		&s.OrderID,
		&s.ExpiresAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
}

// Create persists a new pending checkout session.
func (r *checkoutRepository) Create(ctx context.Context, session *model.CheckoutSession) error {
	query := `
		INSERT INTO checkout_sessions (
			id, user_id, items, subtotal, discount_total, total,
			coupon_code, currency, status, payment_provider, payment_order_id, order_id,
			expires_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.Items,
		session.Subtotal,
		session.DiscountTotal,
		session.Total,
		session.CouponCode,
		session.Currency,
		session.Status,
		session.PaymentProvider,
		session.PaymentOrderID,
		session.OrderID,
		session.ExpiresAt,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("checkout_id", session.ID.String()).
			Msg("failed to create checkout session")
		return fmt.Errorf("failed to create checkout session: %w", err)
	}

	r.logger.Debug().
		Str("checkout_id", session.ID.String()).
		Str("user_id", session.UserID).
		Msg("checkout session created")

	return nil
}

// GetByID retrieves a checkout session by its ID.
func (r *checkoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CheckoutSession, error) {
	query := `
		SELECT ` + checkoutColumns + `
		FROM checkout_sessions
		WHERE id = $1
	`

	var s model.CheckoutSession
	err := scanCheckout(r.pool.QueryRow(ctx, query, id), &s)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("checkout_id", id.String()).Msg("checkout session not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("checkout_id", id.String()).Msg("failed to query checkout session")
		return nil, fmt.Errorf("failed to query checkout session: %w", err)
	}

	return &s, nil
}

// GetByIDForUpdate retrieves and row-locks a checkout session within the
// transaction. Of two concurrent finalize attempts for the same session, the
// second blocks here and then observes the completed status.
func (r *checkoutRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.CheckoutSession, error) {
	query := `
		SELECT ` + checkoutColumns + `
		FROM checkout_sessions
		WHERE id = $1
		FOR UPDATE
	`

	var s model.CheckoutSession
	err := scanCheckout(tx.QueryRow(ctx, query, id), &s)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("checkout_id", id.String()).Msg("checkout session not found for update")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("checkout_id", id.String()).Msg("failed to query checkout session for update")
		return nil, fmt.Errorf("failed to query checkout session for update: %w", err)
	}

	return &s, nil
}

// SetPaymentOrder records the payment gateway order reference on a pending
// session. The reference is settable once; repeating the same value is a
// no-op that still applies.
func (r *checkoutRepository) SetPaymentOrder(ctx context.Context, id uuid.UUID, provider, paymentOrderID string) (bool, error) {
	query := `
		UPDATE checkout_sessions
		SET payment_provider = $2, payment_order_id = $3, updated_at = NOW()
		WHERE id = $1
		  AND status = 'pending'
		  AND (payment_order_id IS NULL OR payment_order_id = $3)
	`

	tag, err := r.pool.Exec(ctx, query, id, provider, paymentOrderID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("checkout_id", id.String()).
			Msg("failed to set payment order reference")
		return false, fmt.Errorf("failed to set payment order reference: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Complete transitions a session from pending to completed. The status
// predicate is what makes order creation exactly-once: only one transaction
// can observe pending and flip it.
func (r *checkoutRepository) Complete(ctx context.Context, tx pgx.Tx, id, orderID uuid.UUID) (bool, error) {
	query := `
		UPDATE checkout_sessions
		SET status = 'completed', order_id = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := tx.Exec(ctx, query, id, orderID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("checkout_id", id.String()).
			Str("order_id", orderID.String()).
			Msg("failed to complete checkout session")
		return false, fmt.Errorf("failed to complete checkout session: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// ExpireStale marks pending sessions past their expiry as expired.
func (r *checkoutRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE checkout_sessions
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'pending' AND expires_at < $1
	`

	tag, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to expire stale checkout sessions")
		return 0, fmt.Errorf("failed to expire stale checkout sessions: %w", err)
	}

	return tag.RowsAffected(), nil
}
