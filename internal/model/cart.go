package model

// CartLine is a single line of a client-submitted cart. Prices never travel on
// cart lines; the server resolves them from the catalogue.
type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
}

// PricedLine is a cart line after authoritative re-pricing.
type PricedLine struct {
	ProductID       string   `json:"productId"`
	Name            string   `json:"name"`
	ImageURL        string   `json:"imageUrl,omitempty"`
	Size            string   `json:"size,omitempty"`
	MRP             float64  `json:"mrp"`
	DiscountPercent *float64 `json:"discountPercent,omitempty"`
	UnitPrice       float64  `json:"unitPrice"`
	Quantity        int      `json:"quantity"`
	LineTotal       float64  `json:"lineTotal"`
}

// QuoteRequest represents the request payload for creating a checkout quote.
type QuoteRequest struct {
	Items      []CartLine `json:"items"`
	CouponCode *string    `json:"couponCode,omitempty"`
	Currency   string     `json:"currency,omitempty"`
}
