package repositories

import (
	"fmt"
	"sort"
	"sync"
	"sweetshop/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.OrderRecord
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.OrderRecord),
	}
}

// Create persists an order record.
func (r *MockOrderRepository) Create(record *models.OrderRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.OrderNumber == "" {
		return fmt.Errorf("order record is missing an order number")
	}
	r.orders[record.OrderNumber] = *record
	return nil
}

// GetByOrderNumber retrieves a single order record.
func (r *MockOrderRepository) GetByOrderNumber(orderNumber string) (*models.OrderRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.orders[orderNumber]
	if !ok {
		return nil, fmt.Errorf("order with number %s not found", orderNumber)
	}
	return &record, nil
}

// GetBySessionID retrieves the order produced by a payment session.
func (r *MockOrderRepository) GetBySessionID(sessionID string) (*models.OrderRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, record := range r.orders {
		if sessionID != "" && record.SessionID == sessionID {
			found := record
			return &found, nil
		}
	}
	return nil, fmt.Errorf("order for session %s not found", sessionID)
}

// ListByUser retrieves all orders placed by a shopper, newest first.
func (r *MockOrderRepository) ListByUser(userID string) ([]models.OrderRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []models.OrderRecord
	for _, record := range r.orders {
		if record.UserID == userID {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].PlacedAt.After(records[j].PlacedAt)
	})
	return records, nil
}
