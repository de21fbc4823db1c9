package handlers

import (
	"fmt"
	"log"
	"strings"

	"sweetshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for reconciled orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app. Mount behind
// AuthRequired: order history belongs to the authenticated shopper.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Get("/:orderNumber", h.HandleGetOrder)
}

// HandleListOrders retrieves the authenticated shopper's order history.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	orders, err := h.service.ListOrdersForUser(userID)
	if err != nil {
		log.Printf("Error listing orders for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleGetOrder retrieves one of the shopper's orders by order number.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	orderNumber := c.Params("orderNumber")
	userID, _ := c.Locals("user_id").(string)

	order, err := h.service.GetOrderByNumber(orderNumber)
	if err != nil {
		log.Printf("Error getting order %s: %v", orderNumber, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order %s not found", orderNumber),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}

	if order.UserID != "" && order.UserID != userID {
		// Do not reveal that the order exists for someone else.
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Order %s not found", orderNumber),
		})
	}
	return c.JSON(order)
}
