package repository

import (
	"context"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
// The checkout core treats the catalogue as read-only apart from the
// conditional stock decrement performed inside the finalize transaction.
type ProductRepository interface {
	// GetAll retrieves active products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetActiveByIDs retrieves the active products among the given IDs,
	// keyed by product ID. Missing or inactive products are simply absent
	// from the result.
	GetActiveByIDs(ctx context.Context, ids []string) (map[string]model.Product, error)

	// DecrementStock decrements a product's stock within the provided
	// transaction, conditioned on the product being active with sufficient
	// stock. It reports whether the decrement applied.
	DecrementStock(ctx context.Context, tx pgx.Tx, productID string, quantity int) (bool, error)
}

// CouponRepository defines the interface for coupon data access operations.
type CouponRepository interface {
	// GetByCode retrieves a coupon by its normalized code. Returns nil when
	// the code does not exist.
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)

	// GetByCodeForUpdate retrieves a coupon within the provided transaction,
	// locking the row for the duration of the transaction.
	GetByCodeForUpdate(ctx context.Context, tx pgx.Tx, code string) (*model.Coupon, error)

	// Redeem increments the coupon's global usage count and the per-user
	// count for userID within the provided transaction, conditioned on the
	// coupon still being redeemable. It reports whether the redemption
	// applied.
	Redeem(ctx context.Context, tx pgx.Tx, code, userID string, now time.Time) (bool, error)

	// Upsert inserts or updates a coupon definition. Usage counters are
	// never written by Upsert.
	Upsert(ctx context.Context, coupon *model.Coupon) error
}

// CheckoutRepository defines the interface for checkout session data access.
type CheckoutRepository interface {
	// Create persists a new pending checkout session.
	Create(ctx context.Context, session *model.CheckoutSession) error

	// GetByID retrieves a checkout session by its ID. Returns nil when the
	// session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.CheckoutSession, error)

	// GetByIDForUpdate retrieves a checkout session within the provided
	// transaction, locking the row so concurrent finalize attempts
	// serialize on it.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.CheckoutSession, error)

	// SetPaymentOrder records the external payment gateway order reference
	// on a pending session. The write is conditioned on the session still
	// being pending and the reference being unset or unchanged; it reports
	// whether the update applied.
	SetPaymentOrder(ctx context.Context, id uuid.UUID, provider, paymentOrderID string) (bool, error)

	// Complete transitions a session from pending to completed within the
	// provided transaction, recording the created order. It reports whether
	// the transition applied; false means the session was no longer pending.
	Complete(ctx context.Context, tx pgx.Tx, id, orderID uuid.UUID) (bool, error)

	// ExpireStale marks pending sessions past their expiry as expired and
	// returns the number of sessions swept. Housekeeping only; finalize
	// correctness never depends on it.
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a new order within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// GetByID retrieves an order by its ID. Returns nil when the order does
	// not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListByUser retrieves a user's orders, newest first.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Order, error)
}
