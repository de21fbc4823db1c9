package services

import (
	"sweetshop/internal/models"
	"sweetshop/internal/repositories"
)

// OrderService exposes the order history produced by reconciliation.
type OrderService struct {
	orderRepo repositories.OrderRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
	}
}

// ListOrdersForUser retrieves all orders placed by a shopper, newest first.
func (s *OrderService) ListOrdersForUser(userID string) ([]models.OrderRecord, error) {
	return s.orderRepo.ListByUser(userID)
}

// GetOrderByNumber retrieves a single order record.
func (s *OrderService) GetOrderByNumber(orderNumber string) (*models.OrderRecord, error) {
	return s.orderRepo.GetByOrderNumber(orderNumber)
}
