package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"storefront/internal/coupon"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

const (
	// maxFinalizeAttempts bounds retries of the finalize transaction on
	// transient store conflicts. Replaying is safe: a session that committed
	// meanwhile is observed non-pending and rejected.
	maxFinalizeAttempts = 3
	finalizeRetryDelay  = 50 * time.Millisecond
)

// SQLSTATE codes the store reports for conflicts worth retrying.
const (
	sqlstateSerializationFailure = "40001"
	sqlstateDeadlockDetected     = "40P01"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo    repository.OrderRepository
	checkoutRepo repository.CheckoutRepository
	productRepo  repository.ProductRepository
	couponRepo   repository.CouponRepository
	logger       zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	checkoutRepo repository.CheckoutRepository,
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		checkoutRepo: checkoutRepo,
		productRepo:  productRepo,
		couponRepo:   couponRepo,
		logger:       logger.With().Str("service", "order").Logger(),
	}
}

// Finalize converts a paid checkout session into a durable order inside a
// single transaction. All preconditions are checked within the transaction so
// a violation discovered late (stock raced away, coupon limit hit) aborts
// with nothing persisted. Only transient store conflicts are retried;
// business-rule failures are terminal for the attempt.
func (s *orderService) Finalize(ctx context.Context, checkoutID uuid.UUID, userID string, req *model.FinalizeRequest) (*model.Order, error) {
	if req == nil {
		return nil, fmt.Errorf("finalize request is nil")
	}

	var order *model.Order
	var err error

	for attempt := 1; attempt <= maxFinalizeAttempts; attempt++ {
		order, err = s.finalizeOnce(ctx, checkoutID, userID, req)
		if err == nil {
			return order, nil
		}
		if !isTransientTxError(err) || attempt == maxFinalizeAttempts {
			return nil, err
		}

		s.logger.Warn().
			Err(err).
			Str("checkout_id", checkoutID.String()).
			Int("attempt", attempt).
			Msg("transient conflict during finalize, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * finalizeRetryDelay):
		}
	}

	return nil, err
}

// finalizeOnce runs one attempt of the finalize transaction.
func (s *orderService) finalizeOnce(ctx context.Context, checkoutID uuid.UUID, userID string, req *model.FinalizeRequest) (*model.Order, error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to finalize order: %w", err)
	}

	// Roll back unless the transaction committed.
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback finalize transaction")
			}
		}
	}()

	now := time.Now()

	// Lock the session row. A concurrent finalize for the same session
	// blocks here and then fails the pending-status check below.
	session, err := s.checkoutRepo.GetByIDForUpdate(ctx, tx, checkoutID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != userID {
		err = model.ErrCheckoutNotFound
		return nil, err
	}

	switch session.Status {
	case model.CheckoutCompleted:
		err = model.ErrCheckoutAlreadyFinalized
		return nil, err
	case model.CheckoutExpired:
		err = model.ErrCheckoutExpired
		return nil, err
	}

	if now.After(session.ExpiresAt) {
		err = model.ErrCheckoutExpired
		return nil, err
	}

	if session.PaymentOrderID != nil && *session.PaymentOrderID != req.Payment.ExternalOrderID {
		s.logger.Warn().
			Str("checkout_id", checkoutID.String()).
			Str("recorded", *session.PaymentOrderID).
			Str("supplied", req.Payment.ExternalOrderID).
			Msg("payment order reference mismatch")
		err = model.ErrPaymentOrderMismatch
		return nil, err
	}

	// Conditional stock decrements. Any line that fails aborts the whole
	// transaction, so no partial decrement ever survives.
	for _, line := range session.Items {
		var applied bool
		applied, err = s.productRepo.DecrementStock(ctx, tx, line.ProductID, line.Quantity)
		if err != nil {
			return nil, err
		}
		if !applied {
			s.logger.Warn().
				Str("checkout_id", checkoutID.String()).
				Str("product_id", line.ProductID).
				Int("quantity", line.Quantity).
				Msg("stock unavailable at finalize time")
			err = model.ErrInsufficientStock
			return nil, err
		}
	}

	// Coupon accounting. The coupon is re-validated inside the transaction
	// with the same predicates as quote time; a different discount than the
	// quoted one fails closed rather than silently re-pricing.
	if session.CouponCode != nil {
		var c *model.Coupon
		c, err = s.couponRepo.GetByCodeForUpdate(ctx, tx, *session.CouponCode)
		if err != nil {
			return nil, err
		}

		var discount float64
		discount, err = coupon.Evaluate(c, session.Subtotal, userID, now)
		if err != nil {
			var domainErr *model.DomainError
			if !errors.As(err, &domainErr) {
				return nil, err
			}
			s.logger.Warn().
				Str("checkout_id", checkoutID.String()).
				Str("coupon_code", *session.CouponCode).
				Str("reason", domainErr.Code).
				Msg("coupon invalid at finalize time")
			err = model.ErrCouponNoLongerValid
			return nil, err
		}
		if discount != session.DiscountTotal {
			s.logger.Warn().
				Str("checkout_id", checkoutID.String()).
				Str("coupon_code", *session.CouponCode).
				Float64("quoted", session.DiscountTotal).
				Float64("recomputed", discount).
				Msg("coupon discount changed since quote time")
			err = model.ErrCouponNoLongerValid
			return nil, err
		}

		var applied bool
		applied, err = s.couponRepo.Redeem(ctx, tx, *session.CouponCode, userID, now)
		if err != nil {
			return nil, err
		}
		if !applied {
			err = model.ErrCouponNoLongerValid
			return nil, err
		}
	}

	status := model.OrderPending
	if req.Payment.Status == "paid" {
		status = model.OrderPaid
	}

	order := &model.Order{
		ID:              uuid.New(),
		OrderNumber:     newOrderNumber(now),
		UserID:          userID,
		Items:           session.Items,
		Subtotal:        session.Subtotal,
		DiscountTotal:   session.DiscountTotal,
		TotalPrice:      session.Total,
		Currency:        session.Currency,
		CouponCode:      session.CouponCode,
		Status:          status,
		PaymentStatus:   req.Payment.Status,
		PaymentProvider: req.Payment.Provider,
		PaymentID:       req.Payment.PaymentID,
		PaymentOrderID:  req.Payment.ExternalOrderID,
		Shipping:        req.Shipping,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err = s.orderRepo.Create(ctx, tx, order); err != nil {
		return nil, err
	}

	var completed bool
	completed, err = s.checkoutRepo.Complete(ctx, tx, session.ID, order.ID)
	if err != nil {
		return nil, err
	}
	if !completed {
		err = model.ErrCheckoutAlreadyFinalized
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("checkout_id", checkoutID.String()).Msg("failed to commit finalize transaction")
		return nil, fmt.Errorf("failed to finalize order: %w", err)
	}

	s.logger.Info().
		Str("checkout_id", checkoutID.String()).
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Float64("total", order.TotalPrice).
		Msg("order finalized")

	return order, nil
}

// GetByID retrieves an order for its owner. Ownership mismatches are reported
// as not found so order identifiers leak nothing across users.
func (s *orderService) GetByID(ctx context.Context, orderID uuid.UUID, userID string) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil || order.UserID != userID {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// ListByUser retrieves a user's orders, newest first.
func (s *orderService) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Order, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	orders, err := s.orderRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// newOrderNumber generates a human-readable order number. Uniqueness is
// enforced by the store; the random suffix makes collisions vanishingly rare.
func newOrderNumber(now time.Time) string {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		// Fall back to the low bits of the clock.
		binaryFallback(suffix, now)
	}
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), hex.EncodeToString(suffix))
}

func binaryFallback(b []byte, now time.Time) {
	n := now.UnixNano()
	for i := range b {
		b[i] = byte(n >> (8 * i))
	}
}

// isTransientTxError reports whether the store signalled a conflict that is
// safe to retry (serialization failure or deadlock). Business-rule errors
// never match.
func isTransientTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == sqlstateSerializationFailure || pgErr.Code == sqlstateDeadlockDetected
	}
	return false
}
