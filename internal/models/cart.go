package models

import "time"

// MaxLineQuantity is the hard cap on the quantity of a single cart line.
const MaxLineQuantity = 99

// CartLine is one product + quantity entry in a shopper's cart. The unit
// price is snapshotted from the product at the time the line is added and
// never re-priced mid-session.
type CartLine struct {
	ID             uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	CartID         string    `json:"-" gorm:"index;type:varchar(36)"`
	ProductID      string    `json:"product_id" gorm:"type:varchar(36)" validate:"required"`
	Name           string    `json:"name" validate:"required"`
	UnitPriceCents int64     `json:"unit_price_cents" validate:"required,gt=0"`
	Quantity       int       `json:"quantity" validate:"required,gte=1,lte=99"`
	ImageURL       string    `json:"image_url,omitempty"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

// LineTotalCents returns unit price times quantity for this line.
func (l CartLine) LineTotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}
