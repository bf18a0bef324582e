package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeUnauthorised = "UNAUTHORIZED"

	// Validation errors (rejected before any lookup)
	ErrCodeEmptyCart        = "EMPTY_CART"
	ErrCodeMissingProductID = "MISSING_PRODUCT_ID"
	ErrCodeInvalidQuantity  = "INVALID_QUANTITY"

	// Not-found and business-rule errors from the quote phase
	ErrCodeInvalidItem          = "INVALID_ITEM"
	ErrCodeInsufficientStock    = "INSUFFICIENT_STOCK"
	ErrCodeCouponNotFound       = "COUPON_NOT_FOUND"
	ErrCodeCouponInactive       = "COUPON_INACTIVE"
	ErrCodeCouponNotStarted     = "COUPON_NOT_STARTED"
	ErrCodeCouponExpired        = "COUPON_EXPIRED"
	ErrCodeCouponUsageLimit     = "COUPON_USAGE_LIMIT_REACHED"
	ErrCodeCouponUserLimit      = "COUPON_USER_LIMIT_REACHED"
	ErrCodeCouponMinOrderNotMet = "COUPON_MIN_ORDER_NOT_MET"

	// State-conflict errors from the finalize phase
	ErrCodeCheckoutNotFound         = "CHECKOUT_NOT_FOUND"
	ErrCodeCheckoutExpired          = "CHECKOUT_EXPIRED"
	ErrCodeCheckoutAlreadyFinalized = "CHECKOUT_ALREADY_FINALIZED"
	ErrCodePaymentOrderMismatch     = "PAYMENT_ORDER_MISMATCH"
	ErrCodeCouponNoLongerValid      = "COUPON_NO_LONGER_VALID"

	ErrCodeProductNotFound = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound   = "ORDER_NOT_FOUND"

	ErrCodeInternalError = "INTERNAL_ERROR"
)

// DomainError is a business error carrying a stable machine-readable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrEmptyCart        = NewDomainError(ErrCodeEmptyCart, "Cart must contain at least one item")
	ErrMissingProductID = NewDomainError(ErrCodeMissingProductID, "Product ID is required for every cart line")
	ErrInvalidQuantity  = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")

	ErrInvalidItem       = NewDomainError(ErrCodeInvalidItem, "One or more products are unavailable")
	ErrInsufficientStock = NewDomainError(ErrCodeInsufficientStock, "Insufficient stock for one or more products")

	ErrCouponNotFound       = NewDomainError(ErrCodeCouponNotFound, "Coupon code does not exist")
	ErrCouponInactive       = NewDomainError(ErrCodeCouponInactive, "Coupon is not active")
	ErrCouponNotStarted     = NewDomainError(ErrCodeCouponNotStarted, "Coupon is not valid yet")
	ErrCouponExpired        = NewDomainError(ErrCodeCouponExpired, "Coupon has expired")
	ErrCouponUsageLimit     = NewDomainError(ErrCodeCouponUsageLimit, "Coupon usage limit has been reached")
	ErrCouponUserLimit      = NewDomainError(ErrCodeCouponUserLimit, "Coupon usage limit for this user has been reached")
	ErrCouponMinOrderNotMet = NewDomainError(ErrCodeCouponMinOrderNotMet, "Order value is below the coupon minimum")

	ErrCheckoutNotFound         = NewDomainError(ErrCodeCheckoutNotFound, "Checkout session not found")
	ErrCheckoutExpired          = NewDomainError(ErrCodeCheckoutExpired, "Checkout session has expired")
	ErrCheckoutAlreadyFinalized = NewDomainError(ErrCodeCheckoutAlreadyFinalized, "Checkout session has already been finalized")
	ErrPaymentOrderMismatch     = NewDomainError(ErrCodePaymentOrderMismatch, "Payment order reference does not match this checkout")
	ErrCouponNoLongerValid      = NewDomainError(ErrCodeCouponNoLongerValid, "Coupon is no longer valid for this order")

	ErrProductNotFound = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrOrderNotFound   = NewDomainError(ErrCodeOrderNotFound, "Order not found")
)
