package repository

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// couponRepository implements the CouponRepository interface using PostgreSQL.
// The per-user usage map lives in a single jsonb column so the schema stays
// stable regardless of user identifiers.
type couponRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCouponRepository creates a new PostgreSQL-backed coupon repository.
func NewCouponRepository(pool *pgxpool.Pool, logger zerolog.Logger) CouponRepository {
	return &couponRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "coupon").Logger(),
	}
}

const couponColumns = `code, type, value, min_order_value, max_discount, active,
		starts_at, ends_at, usage_limit, usage_count, per_user_limit, usage_by_user,
		created_at, updated_at`

func scanCoupon(row pgx.Row, c *model.Coupon) error {
	return row.Scan(
		&c.Code,
		&c.Type,
		&c.Value,
		&c.MinOrderValue,
		&c.MaxDiscount,
		&c.Active,
		&c.StartsAt,
		&c.EndsAt,
		&c.UsageLimit,
		&c.UsageCount,
		&c.PerUserLimit,
		&c.UsageByUser,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

// GetByCode retrieves a coupon by its normalized code.
func (r *couponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE code = $1
	`

	var c model.Coupon
	err := scanCoupon(r.pool.QueryRow(ctx, query, code), &c)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("coupon_code", code).Msg("coupon not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("coupon_code", code).Msg("failed to query coupon")
		return nil, fmt.Errorf("failed to query coupon: %w", err)
	}

	return &c, nil
}

// GetByCodeForUpdate retrieves and row-locks a coupon within the transaction.
func (r *couponRepository) GetByCodeForUpdate(ctx context.Context, tx pgx.Tx, code string) (*model.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE code = $1
		FOR UPDATE
	`

	var c model.Coupon
	err := scanCoupon(tx.QueryRow(ctx, query, code), &c)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("coupon_code", code).Msg("coupon not found for update")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("coupon_code", code).Msg("failed to query coupon for update")
		return nil, fmt.Errorf("failed to query coupon for update: %w", err)
	}

	return &c, nil
}

// Redeem applies the coupon usage accounting as a single conditional update.
// The predicate re-states every redeemability rule so two concurrent
// finalizations against the same coupon serialize at the store and only the
// permitted number of redemptions ever applies.
func (r *couponRepository) Redeem(ctx context.Context, tx pgx.Tx, code, userID string, now time.Time) (bool, error) {
	query := `
		UPDATE coupons
		SET usage_count = usage_count + 1,
		    usage_by_user = jsonb_set(
		        COALESCE(usage_by_user, '{}'::jsonb),
		        ARRAY[$2],
		        to_jsonb(COALESCE((usage_by_user->>$2)::int, 0) + 1)
		    ),
		    updated_at = NOW()
		WHERE code = $1
		  AND active
		  AND (starts_at IS NULL OR starts_at <= $3)
		  AND (ends_at IS NULL OR ends_at >= $3)
		  AND (usage_limit IS NULL OR usage_count < usage_limit)
		  AND (per_user_limit IS NULL OR COALESCE((usage_by_user->>$2)::int, 0) < per_user_limit)
	`

	tag, err := tx.Exec(ctx, query, code, userID, now)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("coupon_code", code).
			Str("user_id", userID).
			Msg("failed to redeem coupon")
		return false, fmt.Errorf("failed to redeem coupon: %w", err)
	}

	applied := tag.RowsAffected() == 1
	if !applied {
		r.logger.Debug().
			Str("coupon_code", code).
			Str("user_id", userID).
			Msg("conditional coupon redemption did not apply")
	}

	return applied, nil
}

// Upsert inserts or updates a coupon definition. Usage counters are owned by
// Redeem and deliberately left out of the update set.
func (r *couponRepository) Upsert(ctx context.Context, coupon *model.Coupon) error {
	query := `
		INSERT INTO coupons (
			code, type, value, min_order_value, max_discount, active,
			starts_at, ends_at, usage_limit, usage_count, per_user_limit, usage_by_user,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $10, '{}'::jsonb, NOW(), NOW())
		ON CONFLICT (code) DO UPDATE SET
			type = EXCLUDED.type,
			value = EXCLUDED.value,
			min_order_value = EXCLUDED.min_order_value,
			max_discount = EXCLUDED.max_discount,
			active = EXCLUDED.active,
			starts_at = EXCLUDED.starts_at,
			ends_at = EXCLUDED.ends_at,
			usage_limit = EXCLUDED.usage_limit,
			per_user_limit = EXCLUDED.per_user_limit,
			updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		coupon.Code,
		coupon.Type,
		coupon.Value,
		coupon.MinOrderValue,
		coupon.MaxDiscount,
		coupon.Active,
		coupon.StartsAt,
		coupon.EndsAt,
		coupon.UsageLimit,
		coupon.PerUserLimit,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("coupon_code", coupon.Code).Msg("failed to upsert coupon")
		return fmt.Errorf("failed to upsert coupon: %w", err)
	}

	r.logger.Debug().Str("coupon_code", coupon.Code).Msg("coupon upserted")
	return nil
}
