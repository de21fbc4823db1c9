package models

import (
	"time"
)

// OrderItem is a line-item snapshot carried by drafts and order records.
// Price is the unit price in cents at the time the order was placed.
type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// DraftPayload is the order snapshot written before redirecting the shopper
// to the payment processor. One payload exists per in-flight checkout and is
// overwritten, not appended, on every new attempt for the same cart.
type DraftPayload struct {
	CustomerEmail string      `json:"customerEmail"`
	CustomerName  string      `json:"customerName"`
	CustomerPhone string      `json:"customerPhone,omitempty"`
	Items         []OrderItem `json:"items"`
	Subtotal      int64       `json:"subtotal"`
	Shipping      int64       `json:"shipping"`
	Tax           int64       `json:"tax"`
	Total         int64       `json:"total"`
	Timestamp     time.Time   `json:"timestamp"`
}

// OrderDraft is the server-side pending-order record written just before the
// handoff to the payment processor. The token travels through the processor's
// metadata and comes back on the success URL, so reconciliation does not
// depend on anything surviving in the shopper's browser.
type OrderDraft struct {
	Token       string `gorm:"primaryKey;type:varchar(36)"`
	OrderNumber string `gorm:"type:varchar(32);index"`
	CartID      string `gorm:"type:varchar(36)"`
	CartHash    string `gorm:"uniqueIndex;type:varchar(64)"`
	Payload     string `gorm:"type:text"` // DraftPayload as JSON
	InFlight    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderRecord is the durable artifact produced by reconciliation: a
// display-ready order summary with a locally generated order number.
type OrderRecord struct {
	OrderNumber   string      `json:"order_number" gorm:"primaryKey;type:varchar(32)"`
	SessionID     string      `json:"-" gorm:"index;type:varchar(255)"` // Processor session that produced this order
	UserID        string      `json:"user_id,omitempty" gorm:"index;type:varchar(36)"`
	CustomerEmail string      `json:"customer_email"`
	CustomerName  string      `json:"customer_name"`
	CustomerPhone string      `json:"customer_phone,omitempty"`
	Items         []OrderItem `json:"items" gorm:"serializer:json"`
	SubtotalCents int64       `json:"subtotal_cents"`
	ShippingCents int64       `json:"shipping_cents"`
	TaxCents      int64       `json:"tax_cents"`
	TotalCents    int64       `json:"total_cents"`
	PlacedAt      time.Time   `json:"placed_at"`
	Placeholder   bool        `json:"placeholder,omitempty"` // True when reconstructed without a draft
	CreatedAt     time.Time   `json:"-"`
	UpdatedAt     time.Time   `json:"-"`
}
