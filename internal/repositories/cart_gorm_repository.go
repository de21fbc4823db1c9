package repositories

import (
	"fmt"
	"sweetshop/internal/models"

	"gorm.io/gorm"
)

// ErrLineNotFound is returned when a cart has no line for a product.
var ErrLineNotFound = fmt.Errorf("cart line not found")

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetLines retrieves all lines for a cart, oldest first so the display
// order is stable across reloads.
func (r *GORMCartRepository) GetLines(cartID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := r.db.Where("cart_id = ?", cartID).Order("id asc").Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to get lines for cart %s: %w", cartID, err)
	}
	return lines, nil
}

// GetLine retrieves a single line of a cart by product ID.
func (r *GORMCartRepository) GetLine(cartID, productID string) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.First(&line, "cart_id = ? AND product_id = ?", cartID, productID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrLineNotFound
		}
		return nil, fmt.Errorf("failed to get line for cart %s: %w", cartID, err)
	}
	return &line, nil
}

// Upsert creates the line or updates it in place when the cart already has
// one for the same product.
func (r *GORMCartRepository) Upsert(line *models.CartLine) error {
	var existing models.CartLine
	err := r.db.First(&existing, "cart_id = ? AND product_id = ?", line.CartID, line.ProductID).Error
	if err == gorm.ErrRecordNotFound {
		if err := r.db.Create(line).Error; err != nil {
			return fmt.Errorf("failed to create cart line: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up cart line: %w", err)
	}

	existing.Quantity = line.Quantity
	if err := r.db.Save(&existing).Error; err != nil {
		return fmt.Errorf("failed to update cart line: %w", err)
	}
	*line = existing
	return nil
}

// Remove deletes a single line from a cart.
func (r *GORMCartRepository) Remove(cartID, productID string) error {
	res := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).Delete(&models.CartLine{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove cart line: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrLineNotFound
	}
	return nil
}

// Clear deletes every line of a cart. Clearing an already empty cart is not
// an error.
func (r *GORMCartRepository) Clear(cartID string) error {
	if err := r.db.Where("cart_id = ?", cartID).Delete(&models.CartLine{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart %s: %w", cartID, err)
	}
	return nil
}
