package handlers

import (
	"errors"
	"log"
	"strings"

	"sweetshop/internal/repositories"
	"sweetshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for shopping carts. Carts are addressed
// by a client-chosen ID (a UUID minted by the storefront), so guests keep a
// cart without an account.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/carts")
	cartRoutes.Get("/:id", h.HandleGetCart)
	cartRoutes.Post("/:id/items", h.HandleAddItem)
	cartRoutes.Patch("/:id/items/:productID", h.HandleUpdateQuantity)
	cartRoutes.Delete("/:id/items/:productID", h.HandleRemoveItem)
	cartRoutes.Delete("/:id", h.HandleClearCart)
}

// AddItemRequest is the body for adding a product to a cart.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1,lte=99"`
}

// UpdateQuantityRequest is the body for changing a line's quantity. Zero or
// negative removes the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// HandleGetCart returns the cart's lines and totals.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	return h.renderCart(c, c.Params("id"))
}

// HandleAddItem adds a product to the cart (merging into an existing line).
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	cartID := c.Params("id")

	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	if _, err := h.service.AddItem(cartID, req.ProductID, req.Quantity); err != nil {
		log.Printf("Error adding product %s to cart %s: %v", req.ProductID, cartID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not add item to cart",
			"error":   err.Error(),
		})
	}
	return h.renderCart(c, cartID)
}

// HandleUpdateQuantity sets a line's quantity; zero or less removes it.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	cartID := c.Params("id")
	productID := c.Params("productID")

	var req UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.service.UpdateQuantity(cartID, productID, req.Quantity); err != nil {
		log.Printf("Error updating quantity in cart %s: %v", cartID, err)
		if errors.Is(err, repositories.ErrLineNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Cart has no such item",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update cart item",
			"error":   err.Error(),
		})
	}
	return h.renderCart(c, cartID)
}

// HandleRemoveItem removes a line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	cartID := c.Params("id")
	productID := c.Params("productID")

	if err := h.service.RemoveItem(cartID, productID); err != nil {
		log.Printf("Error removing product %s from cart %s: %v", productID, cartID, err)
		if errors.Is(err, repositories.ErrLineNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Cart has no such item",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not remove cart item",
			"error":   err.Error(),
		})
	}
	return h.renderCart(c, cartID)
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	cartID := c.Params("id")
	if err := h.service.Clear(cartID); err != nil {
		log.Printf("Error clearing cart %s: %v", cartID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not clear cart",
			"error":   err.Error(),
		})
	}
	return h.renderCart(c, cartID)
}

func (h *CartHandler) renderCart(c *fiber.Ctx, cartID string) error {
	lines, err := h.service.Items(cartID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve cart",
			"error":   err.Error(),
		})
	}

	totalItems := 0
	var subtotal int64
	for _, line := range lines {
		totalItems += line.Quantity
		subtotal += line.LineTotalCents()
	}

	return c.JSON(fiber.Map{
		"cart_id":        cartID,
		"items":          lines,
		"total_items":    totalItems,
		"subtotal_cents": subtotal,
	})
}
