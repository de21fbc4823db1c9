package models

// ShopperContact identifies who is checking out and how to reach them.
// It is filled either from an authenticated shopper's claims or from
// guest-entered form fields.
type ShopperContact struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name" validate:"required,min=1,max=200"`
	Phone  string `json:"phone,omitempty" validate:"omitempty,e164|numeric"`
}

// CheckoutRequest is the canonical, provider-agnostic shape fed to both the
// payment session step and the notification step. Totals are computed once
// during normalization and never re-derived afterwards, so what the customer
// saw is exactly what is charged.
type CheckoutRequest struct {
	LineItems     []CartLine     `json:"line_items"`
	Contact       ShopperContact `json:"contact"`
	SuccessURL    string         `json:"success_url"`
	CancelURL     string         `json:"cancel_url"`
	SubtotalCents int64          `json:"subtotal_cents"`
	ShippingCents int64          `json:"shipping_cents"`
	TaxCents      int64          `json:"tax_cents"`
	TotalCents    int64          `json:"total_cents"`
}

// PaymentSession is the opaque handle returned by the payment processor.
// It is owned by the processor and referenced locally only long enough to
// redirect the shopper's browser; it is never persisted.
type PaymentSession struct {
	SessionID   string `json:"session_id"`
	RedirectURL string `json:"redirect_url"`
}
