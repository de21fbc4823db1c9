package repositories

import (
	"sync"
	"sweetshop/internal/models"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	lines map[string][]models.CartLine // cartID -> lines, in insertion order
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		lines: make(map[string][]models.CartLine),
	}
}

// GetLines returns all lines for a cart.
func (r *MockCartRepository) GetLines(cartID string) ([]models.CartLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.CartLine, len(r.lines[cartID]))
	copy(out, r.lines[cartID])
	return out, nil
}

// GetLine returns a single line of a cart by product ID.
func (r *MockCartRepository) GetLine(cartID, productID string) (*models.CartLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, line := range r.lines[cartID] {
		if line.ProductID == productID {
			l := line
			return &l, nil
		}
	}
	return nil, ErrLineNotFound
}

// Upsert creates or replaces the line for the product in the cart.
func (r *MockCartRepository) Upsert(line *models.CartLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.lines[line.CartID]
	for i := range existing {
		if existing[i].ProductID == line.ProductID {
			existing[i].Quantity = line.Quantity
			*line = existing[i]
			return nil
		}
	}
	r.lines[line.CartID] = append(existing, *line)
	return nil
}

// Remove deletes a single line from a cart.
func (r *MockCartRepository) Remove(cartID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.lines[cartID]
	for i := range existing {
		if existing[i].ProductID == productID {
			r.lines[cartID] = append(existing[:i], existing[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

// Clear deletes every line of a cart.
func (r *MockCartRepository) Clear(cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.lines, cartID)
	return nil
}
