package model

import (
	"strings"
	"time"
)

// CouponType identifies how a coupon's value is interpreted.
type CouponType string

const (
	CouponPercentage CouponType = "percentage"
	CouponFixed      CouponType = "fixed"
)

// Coupon represents a discount coupon with global and per-user redemption
// accounting. UsageCount and UsageByUser are mutated only inside the order
// finalization transaction.
type Coupon struct {
	Code          string         `json:"code" db:"code"`
	Type          CouponType     `json:"type" db:"type"`
	Value         float64        `json:"value" db:"value"`
	MinOrderValue float64        `json:"minOrderValue" db:"min_order_value"`
	MaxDiscount   *float64       `json:"maxDiscount,omitempty" db:"max_discount"`
	Active        bool           `json:"active" db:"active"`
	StartsAt      *time.Time     `json:"startsAt,omitempty" db:"starts_at"`
	EndsAt        *time.Time     `json:"endsAt,omitempty" db:"ends_at"`
	UsageLimit    *int           `json:"usageLimit,omitempty" db:"usage_limit"`
	UsageCount    int            `json:"usageCount" db:"usage_count"`
	PerUserLimit  *int           `json:"perUserLimit,omitempty" db:"per_user_limit"`
	UsageByUser   map[string]int `json:"usageByUser,omitempty" db:"usage_by_user"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time      `json:"updatedAt" db:"updated_at"`
}

// UserUsage returns the redemption count for a user, zero when absent.
func (c *Coupon) UserUsage(userID string) int {
	if c.UsageByUser == nil {
		return 0
	}
	return c.UsageByUser[userID]
}

// NormalizeCouponCode upper-cases and trims a coupon code. Codes are
// case-insensitive everywhere and stored upper-cased.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
