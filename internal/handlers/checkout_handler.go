package handlers

import (
	"errors"
	"log"

	"sweetshop/internal/checkout"
	"sweetshop/internal/models"
	"sweetshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler drives the order-submission pipeline over HTTP: POST
// /checkout starts a hosted payment session, GET /checkout/success is the
// processor's return leg and runs reconciliation.
type CheckoutHandler struct {
	carts      *services.CartService
	initiator  *checkout.Initiator
	reconciler *checkout.Reconciler
	policy     checkout.ShippingPolicy
	baseURL    string
}

// NewCheckoutHandler creates a new CheckoutHandler. baseURL is the public
// address the processor redirects back to.
func NewCheckoutHandler(carts *services.CartService, initiator *checkout.Initiator, reconciler *checkout.Reconciler, policy checkout.ShippingPolicy, baseURL string) *CheckoutHandler {
	return &CheckoutHandler{
		carts:      carts,
		initiator:  initiator,
		reconciler: reconciler,
		policy:     policy,
		baseURL:    baseURL,
	}
}

// RegisterRoutes registers the checkout routes with the Fiber app. Mount
// behind OptionalAuth: an authenticated shopper's claims supply the contact,
// guests send theirs in the body.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkoutRoutes := router.Group("/checkout")
	checkoutRoutes.Post("/", h.HandleCreateSession)
	checkoutRoutes.Get("/success", h.HandleSuccessReturn)
}

// CreateSessionRequest is the body for starting a checkout. The guest
// contact fields are ignored when the shopper is authenticated.
type CreateSessionRequest struct {
	CartID string `json:"cart_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
}

// HandleCreateSession normalizes the cart and creates a hosted payment
// session, returning the redirect URL for the browser.
func (h *CheckoutHandler) HandleCreateSession(c *fiber.Ctx) error {
	var req CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.CartID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "cart_id is required",
		})
	}

	contact := h.contactFor(c, req)
	lines, err := h.carts.Items(req.CartID)
	if err != nil {
		log.Printf("Error loading cart %s for checkout: %v", req.CartID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not load cart",
			"error":   err.Error(),
		})
	}

	successURL := h.baseURL + "/api/v1/checkout/success?session_id={CHECKOUT_SESSION_ID}"
	cancelURL := h.baseURL + "/cart"

	normalized, err := checkout.Normalize(lines, contact, h.policy, successURL, cancelURL)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Your cart is empty",
				"error":   err.Error(),
			})
		case errors.Is(err, checkout.ErrInvalidContact):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "A valid email and name are required to check out",
				"error":   err.Error(),
			})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Could not prepare checkout",
				"error":   err.Error(),
			})
		}
	}

	session, token, err := h.initiator.CreateSession(c.Context(), req.CartID, normalized)
	if err != nil {
		log.Printf("Error creating payment session for cart %s: %v", req.CartID, err)
		if errors.Is(err, checkout.ErrCheckoutInFlight) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "A checkout for this cart is already in progress",
				"error":   err.Error(),
			})
		}
		// Retryable, but only on a fresh user action: nothing retries the
		// processor call automatically, so a flaky network can never
		// double-charge.
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message":   "Could not start checkout, please try again",
			"retryable": true,
			"error":     err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session_id":   session.SessionID,
		"redirect_url": session.RedirectURL,
		"draft_token":  token,
		"total_cents":  normalized.TotalCents,
	})
}

// HandleSuccessReturn reconciles a finished payment. It always confirms:
// by this point the processor has captured funds, so draft or notification
// trouble degrades the summary but never the confirmation.
func (h *CheckoutHandler) HandleSuccessReturn(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	token := c.Query("token")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "session_id query parameter is required",
		})
	}

	var identity *models.ShopperContact
	if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
		identity = &models.ShopperContact{UserID: userID}
		if email, ok := c.Locals("email").(string); ok {
			identity.Email = email
		}
		if name, ok := c.Locals("name").(string); ok {
			identity.Name = name
		}
	}

	outcome := h.reconciler.Reconcile(c.Context(), sessionID, token, identity)

	message := "Order confirmed. Your confirmation has been sent."
	if !outcome.Notifications.Customer.Sent {
		message = "Order confirmed. Your confirmation may be delayed."
	}

	return c.JSON(fiber.Map{
		"state":   string(outcome.State),
		"order":   outcome.Order,
		"message": message,
		"notifications": fiber.Map{
			"customer": outcome.Notifications.Customer.StatusLabel(),
			"admin":    outcome.Notifications.Admin.StatusLabel(),
		},
	})
}

// contactFor builds the shopper contact from the authenticated claims when
// present, otherwise from the guest fields.
func (h *CheckoutHandler) contactFor(c *fiber.Ctx, req CreateSessionRequest) models.ShopperContact {
	if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
		contact := models.ShopperContact{UserID: userID, Phone: req.Phone}
		if email, ok := c.Locals("email").(string); ok {
			contact.Email = email
		}
		if name, ok := c.Locals("name").(string); ok {
			contact.Name = name
		}
		return contact
	}
	return models.ShopperContact{
		Email: req.Email,
		Name:  req.Name,
		Phone: req.Phone,
	}
}
