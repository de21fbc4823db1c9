package models

import "gorm.io/gorm"

// Product represents a product in the candy catalog. Prices are stored in
// integer cents so cart and checkout arithmetic stays exact.
type Product struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Brand       string `json:"brand" validate:"omitempty,max=100"`
	PriceCents  int64  `json:"price_cents" validate:"required,gt=0"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	Stock       int    `json:"stock" validate:"gte=0"`
	gorm.Model         // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
