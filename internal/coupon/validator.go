// Package coupon implements coupon eligibility rules, discount computation
// and bulk import of coupon definitions.
package coupon

import (
	"time"

	"storefront/internal/model"
	"storefront/internal/pricing"
)

// Evaluate checks a coupon's eligibility for the given subtotal and user at
// the given instant and returns the bounded discount. It is a pure function:
// quote-time validation is advisory, and the order finalizer re-executes the
// exact same predicates inside its transaction because usage counters may
// move between quote and payment.
//
// Checks run in a fixed order, each with a distinct error: active, validity
// window, global usage limit, per-user limit, minimum order value.
func Evaluate(c *model.Coupon, subtotal float64, userID string, now time.Time) (float64, error) {
	if c == nil {
		return 0, model.ErrCouponNotFound
	}
	if !c.Active {
		return 0, model.ErrCouponInactive
	}
	if c.StartsAt != nil && now.Before(*c.StartsAt) {
		return 0, model.ErrCouponNotStarted
	}
	if c.EndsAt != nil && now.After(*c.EndsAt) {
		return 0, model.ErrCouponExpired
	}
	if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
		return 0, model.ErrCouponUsageLimit
	}
	if c.PerUserLimit != nil && c.UserUsage(userID) >= *c.PerUserLimit {
		return 0, model.ErrCouponUserLimit
	}
	if subtotal < c.MinOrderValue {
		return 0, model.ErrCouponMinOrderNotMet
	}

	var discount float64
	switch c.Type {
	case model.CouponPercentage:
		discount = pricing.PercentageOf(subtotal, c.Value)
	case model.CouponFixed:
		discount = pricing.Round2(c.Value)
	default:
		return 0, model.ErrCouponInactive
	}

	if c.MaxDiscount != nil && discount > *c.MaxDiscount {
		discount = *c.MaxDiscount
	}
	if discount > subtotal {
		discount = subtotal
	}

	return discount, nil
}
