package service

import (
	"context"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
)

// CheckoutService defines the quote phase of the checkout pipeline. Quote
// operations are side-effect-free on shared counters and safe to retry or
// abandon.
type CheckoutService interface {
	// CreateQuote normalizes and prices the cart, applies the coupon as an
	// advisory check, and persists a new pending checkout session.
	CreateQuote(ctx context.Context, userID string, req *model.QuoteRequest) (*model.CheckoutSession, error)

	// GetQuote returns a checkout session to its owner.
	GetQuote(ctx context.Context, checkoutID uuid.UUID, userID string) (*model.CheckoutSession, error)

	// AttachPaymentOrder records the payment gateway order reference on a
	// pending session. The reference is settable once.
	AttachPaymentOrder(ctx context.Context, checkoutID uuid.UUID, userID, provider, paymentOrderID string) (*model.CheckoutSession, error)

	// RunReaper periodically marks expired pending sessions. Blocks until
	// ctx is cancelled; housekeeping only.
	RunReaper(ctx context.Context, interval time.Duration)
}

// OrderService defines the finalize phase: converting a paid quote into a
// durable order, exactly once.
type OrderService interface {
	// Finalize atomically re-validates the session, decrements stock,
	// accounts coupon usage, creates the order and closes the session.
	Finalize(ctx context.Context, checkoutID uuid.UUID, userID string, req *model.FinalizeRequest) (*model.Order, error)

	// GetByID retrieves an order for its owner.
	GetByID(ctx context.Context, orderID uuid.UUID, userID string) (*model.Order, error)

	// ListByUser retrieves a user's orders, newest first.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Order, error)
}
