package checkout

import (
	"fmt"

	"sweetshop/internal/models"

	"github.com/go-playground/validator/v10"
)

var contactValidator = validator.New()

// Normalize transforms cart lines plus a shopper contact into the canonical
// CheckoutRequest consumed by both the payment step and the notification
// step. It is a pure transform: totals are computed here, once, and never
// re-derived downstream.
func Normalize(lines []models.CartLine, contact models.ShopperContact, policy ShippingPolicy, successURL, cancelURL string) (*models.CheckoutRequest, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	if err := contactValidator.Struct(contact); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContact, err)
	}

	var subtotal int64
	for _, line := range lines {
		if line.Quantity < 1 || line.Quantity > models.MaxLineQuantity {
			return nil, fmt.Errorf("line for product %s has invalid quantity %d", line.ProductID, line.Quantity)
		}
		subtotal += line.LineTotalCents()
	}

	shipping := policy.ShippingCents(subtotal)
	tax := policy.TaxCents(subtotal)

	items := make([]models.CartLine, len(lines))
	copy(items, lines)

	return &models.CheckoutRequest{
		LineItems:     items,
		Contact:       contact,
		SuccessURL:    successURL,
		CancelURL:     cancelURL,
		SubtotalCents: subtotal,
		ShippingCents: shipping,
		TaxCents:      tax,
		TotalCents:    subtotal + shipping + tax,
	}, nil
}
