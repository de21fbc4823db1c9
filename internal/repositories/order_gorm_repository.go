package repositories

import (
	"fmt"
	"sweetshop/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create persists a reconciled order record.
func (r *GORMOrderRepository) Create(record *models.OrderRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create order record %s: %w", record.OrderNumber, err)
	}
	return nil
}

// GetByOrderNumber retrieves a single order record.
func (r *GORMOrderRepository) GetByOrderNumber(orderNumber string) (*models.OrderRecord, error) {
	var record models.OrderRecord
	if err := r.db.First(&record, "order_number = ?", orderNumber).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with number %s not found", orderNumber)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", orderNumber, err)
	}
	return &record, nil
}

// GetBySessionID retrieves the order produced by a payment session.
func (r *GORMOrderRepository) GetBySessionID(sessionID string) (*models.OrderRecord, error) {
	var record models.OrderRecord
	if err := r.db.First(&record, "session_id = ?", sessionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order for session %s not found", sessionID)
		}
		return nil, fmt.Errorf("failed to get order for session %s: %w", sessionID, err)
	}
	return &record, nil
}

// ListByUser retrieves all orders placed by a shopper, newest first.
func (r *GORMOrderRepository) ListByUser(userID string) ([]models.OrderRecord, error) {
	var records []models.OrderRecord
	if err := r.db.Where("user_id = ?", userID).Order("placed_at desc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	return records, nil
}
