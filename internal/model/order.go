package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the business fulfillment state of an order, distinct from
// its payment state.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
)

// PaymentConfirmation is a verified payment result handed to the core by the
// payment collaborator after signature verification has succeeded.
type PaymentConfirmation struct {
	PaymentID       string `json:"paymentId"`
	ExternalOrderID string `json:"externalOrderId"`
	Provider        string `json:"provider"`
	Status          string `json:"status"` // "paid" or "pending"
}

// ShippingInfo is a shipping snapshot stored verbatim on the order.
type ShippingInfo struct {
	Name        string `json:"name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	AddressLine string `json:"addressLine,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Pincode     string `json:"pincode,omitempty"`
}

// Order is a durable, paid order. Exactly one order is ever created per
// successfully finalized checkout session.
type Order struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	OrderNumber     string        `json:"orderNumber" db:"order_number"`
	UserID          string        `json:"userId" db:"user_id"`
	Items           []PricedLine  `json:"items" db:"items"`
	Subtotal        float64       `json:"subtotal" db:"subtotal"`
	DiscountTotal   float64       `json:"discountTotal" db:"discount_total"`
	TotalPrice      float64       `json:"totalPrice" db:"total_price"`
	Currency        string        `json:"currency" db:"currency"`
	CouponCode      *string       `json:"couponCode,omitempty" db:"coupon_code"`
	Status          OrderStatus   `json:"status" db:"status"`
	PaymentStatus   string        `json:"paymentStatus" db:"payment_status"`
	PaymentProvider string        `json:"paymentProvider" db:"payment_provider"`
	PaymentID       string        `json:"paymentId" db:"payment_id"`
	PaymentOrderID  string        `json:"paymentOrderId" db:"payment_order_id"`
	Shipping        *ShippingInfo `json:"shipping,omitempty" db:"shipping"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" db:"updated_at"`
}

// FinalizeRequest represents the request payload for finalizing a checkout.
type FinalizeRequest struct {
	Payment  PaymentConfirmation `json:"payment"`
	Shipping *ShippingInfo       `json:"shipping,omitempty"`
}
