package model

import (
	"time"

	"github.com/google/uuid"
)

// CheckoutStatus is the lifecycle state of a checkout session.
type CheckoutStatus string

const (
	CheckoutPending   CheckoutStatus = "pending"
	CheckoutCompleted CheckoutStatus = "completed"
	CheckoutExpired   CheckoutStatus = "expired"
)

// CheckoutSession is a priced, time-bounded snapshot of a cart (a quote).
// It is created pending by the quote phase, completed exactly once by the
// order finalizer, and treated as expired whenever it is read past ExpiresAt
// while still pending.
type CheckoutSession struct {
	ID              uuid.UUID      `json:"checkoutId" db:"id"`
	UserID          string         `json:"userId" db:"user_id"`
	Items           []PricedLine   `json:"items" db:"items"`
	Subtotal        float64        `json:"subtotal" db:"subtotal"`
	DiscountTotal   float64        `json:"discountTotal" db:"discount_total"`
	Total           float64        `json:"total" db:"total"`
	CouponCode      *string        `json:"couponCode,omitempty" db:"coupon_code"`
	Currency        string         `json:"currency" db:"currency"`
	Status          CheckoutStatus `json:"status" db:"status"`
	PaymentProvider *string        `json:"paymentProvider,omitempty" db:"payment_provider"`
	PaymentOrderID  *string        `json:"paymentOrderId,omitempty" db:"payment_order_id"`
	OrderID         *uuid.UUID     `json:"orderId,omitempty" db:"order_id"`
	ExpiresAt       time.Time      `json:"expiresAt" db:"expires_at"`
	CreatedAt       time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time      `json:"updatedAt" db:"updated_at"`
}

// IsExpired reports whether the session is logically expired at the given
// instant. Expiry is a computed predicate, not a stored transition.
func (s *CheckoutSession) IsExpired(now time.Time) bool {
	return s.Status == CheckoutPending && now.After(s.ExpiresAt)
}
