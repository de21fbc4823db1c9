package repositories

import "sweetshop/internal/models"

// CartRepository defines the interface for cart line persistence. Every cart
// mutation goes through here so the cart survives reloads; merging and
// quantity rules live in the cart service, not in storage.
type CartRepository interface {
	GetLines(cartID string) ([]models.CartLine, error)
	GetLine(cartID, productID string) (*models.CartLine, error)
	Upsert(line *models.CartLine) error
	Remove(cartID, productID string) error
	Clear(cartID string) error
}
