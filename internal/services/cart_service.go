package services

import (
	"errors"
	"fmt"

	"sweetshop/internal/models"
	"sweetshop/internal/repositories"
)

// CartService owns cart state and its quantity/total arithmetic. State is
// constructor-injected and backed by a repository, so there is no ambient
// singleton and every mutation is persisted.
type CartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
	}
}

// AddItem adds a product to the cart. Adding an already-present product
// merges into the existing line, capped at the per-line maximum, rather than
// duplicating it. The unit price is snapshotted from the catalog at add time
// and never re-priced mid-session.
func (s *CartService) AddItem(cartID, productID string, quantity int) (*models.CartLine, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}

	product, err := s.products.GetByID(productID)
	if err != nil {
		return nil, fmt.Errorf("cannot add product to cart: %w", err)
	}

	line, err := s.carts.GetLine(cartID, productID)
	switch {
	case errors.Is(err, repositories.ErrLineNotFound):
		line = &models.CartLine{
			CartID:         cartID,
			ProductID:      product.ID,
			Name:           product.Name,
			UnitPriceCents: product.PriceCents,
			Quantity:       clampQuantity(quantity),
			ImageURL:       product.ImageURL,
		}
	case err != nil:
		// A read failure is not an empty line; merging on top of it would
		// reset the quantity the shopper already has.
		return nil, fmt.Errorf("failed to read cart line: %w", err)
	default:
		line.Quantity = clampQuantity(line.Quantity + quantity)
	}

	if err := s.carts.Upsert(line); err != nil {
		return nil, fmt.Errorf("failed to save cart line: %w", err)
	}
	return line, nil
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero
// or less removes the line.
func (s *CartService) UpdateQuantity(cartID, productID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(cartID, productID)
	}

	line, err := s.carts.GetLine(cartID, productID)
	if err != nil {
		return fmt.Errorf("cannot update quantity: %w", err)
	}

	line.Quantity = clampQuantity(quantity)
	if err := s.carts.Upsert(line); err != nil {
		return fmt.Errorf("failed to save cart line: %w", err)
	}
	return nil
}

// RemoveItem removes a product's line from the cart.
func (s *CartService) RemoveItem(cartID, productID string) error {
	return s.carts.Remove(cartID, productID)
}

// Clear empties the cart.
func (s *CartService) Clear(cartID string) error {
	return s.carts.Clear(cartID)
}

// Items returns the cart's lines in insertion order.
func (s *CartService) Items(cartID string) ([]models.CartLine, error) {
	return s.carts.GetLines(cartID)
}

// TotalItems returns the summed quantity across all lines.
func (s *CartService) TotalItems(cartID string) (int, error) {
	lines, err := s.carts.GetLines(cartID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, line := range lines {
		total += line.Quantity
	}
	return total, nil
}

// TotalPriceCents returns the cart subtotal in integer cents; repeated
// additions cannot drift the way floating point would.
func (s *CartService) TotalPriceCents(cartID string) (int64, error) {
	lines, err := s.carts.GetLines(cartID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, line := range lines {
		total += line.LineTotalCents()
	}
	return total, nil
}

func clampQuantity(q int) int {
	if q > models.MaxLineQuantity {
		return models.MaxLineQuantity
	}
	return q
}
