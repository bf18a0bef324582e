// Package pricing holds the shared pricing arithmetic used by the cart
// normalizer, the coupon validator and the order finalizer. All monetary
// values are rounded to 2 decimal places with deterministic half-up rounding
// before they are summed or persisted.
package pricing

import "github.com/shopspring/decimal"

// Round2 rounds a monetary value to 2 decimal places, half up.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// SellingPrice computes the unit selling price from the list price and an
// optional discount percentage. A nil or non-positive discount leaves the
// list price untouched. The result never exceeds mrp.
func SellingPrice(mrp float64, discountPercent *float64) float64 {
	if discountPercent == nil || *discountPercent <= 0 {
		return mrp
	}
	m := decimal.NewFromFloat(mrp)
	d := decimal.NewFromFloat(*discountPercent)
	price := m.Sub(m.Mul(d).Div(decimal.NewFromInt(100)))
	f, _ := price.Round(2).Float64()
	return f
}

// LineTotal computes a rounded line total. Each line is rounded before
// summation so that subtotals never accumulate fractional drift.
func LineTotal(unitPrice float64, quantity int) float64 {
	f, _ := decimal.NewFromFloat(unitPrice).
		Mul(decimal.NewFromInt(int64(quantity))).
		Round(2).Float64()
	return f
}

// PercentageOf computes a rounded percentage of an amount, used for
// percentage-type coupon discounts.
func PercentageOf(amount, percent float64) float64 {
	f, _ := decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(percent)).
		Div(decimal.NewFromInt(100)).
		Round(2).Float64()
	return f
}
