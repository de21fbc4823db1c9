package repositories

import (
	"sweetshop/internal/models"
)

// OrderRepository defines the interface for reconciled order records.
type OrderRepository interface {
	Create(record *models.OrderRecord) error
	GetByOrderNumber(orderNumber string) (*models.OrderRecord, error)
	GetBySessionID(sessionID string) (*models.OrderRecord, error)
	ListByUser(userID string) ([]models.OrderRecord, error)
}
