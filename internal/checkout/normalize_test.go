package checkout_test

import (
	"testing"

	"sweetshop/internal/checkout"
	"sweetshop/internal/models"

	"github.com/stretchr/testify/assert"
)

func validContact() models.ShopperContact {
	return models.ShopperContact{
		Email: "maria@example.com",
		Name:  "Maria Lopez",
	}
}

func TestNormalize_CannoliScenario(t *testing.T) {
	// Subtotal 1175 is under the free-shipping threshold: flat fee applies
	// and 8% tax rounds half up.
	lines := []models.CartLine{
		{ProductID: "prod-1", Name: "Cannoli 6pcs", UnitPriceCents: 1175, Quantity: 1},
	}

	req, err := checkout.Normalize(lines, validContact(), checkout.DefaultShippingPolicy(), "https://shop.test/success", "https://shop.test/cancel")

	assert.NoError(t, err)
	assert.Equal(t, int64(1175), req.SubtotalCents)
	assert.Equal(t, int64(599), req.ShippingCents)
	assert.Equal(t, int64(94), req.TaxCents)
	assert.Equal(t, int64(1868), req.TotalCents)
}

func TestNormalize_FreeShippingScenario(t *testing.T) {
	lines := []models.CartLine{
		{ProductID: "prod-2", Name: "Turron", UnitPriceCents: 1300, Quantity: 5},
	}

	req, err := checkout.Normalize(lines, validContact(), checkout.DefaultShippingPolicy(), "https://shop.test/success", "https://shop.test/cancel")

	assert.NoError(t, err)
	assert.Equal(t, int64(6500), req.SubtotalCents)
	assert.Equal(t, int64(0), req.ShippingCents)
	assert.Equal(t, int64(520), req.TaxCents)
	assert.Equal(t, int64(7020), req.TotalCents)
}

func TestNormalize_TotalIdentity(t *testing.T) {
	// For any non-empty cart, subtotal + shipping + tax must equal the
	// total exactly in integer cents.
	carts := [][]models.CartLine{
		{{ProductID: "a", Name: "A", UnitPriceCents: 1, Quantity: 1}},
		{{ProductID: "a", Name: "A", UnitPriceCents: 333, Quantity: 3}},
		{{ProductID: "a", Name: "A", UnitPriceCents: 5999, Quantity: 1}},
		{{ProductID: "a", Name: "A", UnitPriceCents: 6000, Quantity: 1}},
		{
			{ProductID: "a", Name: "A", UnitPriceCents: 1175, Quantity: 2},
			{ProductID: "b", Name: "B", UnitPriceCents: 899, Quantity: 7},
			{ProductID: "c", Name: "C", UnitPriceCents: 13, Quantity: 99},
		},
	}

	for _, lines := range carts {
		req, err := checkout.Normalize(lines, validContact(), checkout.DefaultShippingPolicy(), "s", "c")
		assert.NoError(t, err)
		assert.Equal(t, req.TotalCents, req.SubtotalCents+req.ShippingCents+req.TaxCents)
	}
}

func TestNormalize_ShippingThreshold(t *testing.T) {
	policy := checkout.DefaultShippingPolicy()

	// One cent below the threshold pays the flat fee.
	assert.Equal(t, int64(599), policy.ShippingCents(5999))
	// At and above the threshold, shipping is free.
	assert.Equal(t, int64(0), policy.ShippingCents(6000))
	assert.Equal(t, int64(0), policy.ShippingCents(6001))
}

func TestNormalize_TaxRoundsHalfUp(t *testing.T) {
	policy := checkout.DefaultShippingPolicy()

	// 8% of 1175 is 94.0 exactly.
	assert.Equal(t, int64(94), policy.TaxCents(1175))
	// 8% of 1181 is 94.48, rounds down.
	assert.Equal(t, int64(94), policy.TaxCents(1181))
	// 8% of 1182 is 94.56, rounds up.
	assert.Equal(t, int64(95), policy.TaxCents(1182))
	// At 12.5% a half cent occurs: 12.5% of 4 is 0.5 exactly, rounds up.
	halfUp := checkout.ShippingPolicy{FreeShippingThresholdCents: 6000, FlatFeeCents: 599, TaxRateBasisPoints: 1250}
	assert.Equal(t, int64(1), halfUp.TaxCents(4))
}

func TestNormalize_EmptyCart(t *testing.T) {
	_, err := checkout.Normalize(nil, validContact(), checkout.DefaultShippingPolicy(), "s", "c")
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
}

func TestNormalize_InvalidContact(t *testing.T) {
	lines := []models.CartLine{
		{ProductID: "a", Name: "A", UnitPriceCents: 100, Quantity: 1},
	}

	cases := []models.ShopperContact{
		{},
		{Email: "", Name: "No Email"},
		{Email: "not-an-email", Name: "Bad Syntax"},
		{Email: "missing-name@example.com", Name: ""},
	}
	for _, contact := range cases {
		_, err := checkout.Normalize(lines, contact, checkout.DefaultShippingPolicy(), "s", "c")
		assert.ErrorIs(t, err, checkout.ErrInvalidContact, "contact %+v should be rejected", contact)
	}

	// An authenticated identity passes with the same rules.
	authenticated := models.ShopperContact{UserID: "user-1", Email: "auth@example.com", Name: "Auth User"}
	_, err := checkout.Normalize(lines, authenticated, checkout.DefaultShippingPolicy(), "s", "c")
	assert.NoError(t, err)
}

func TestNormalize_RejectsInvalidQuantity(t *testing.T) {
	lines := []models.CartLine{
		{ProductID: "a", Name: "A", UnitPriceCents: 100, Quantity: 0},
	}
	_, err := checkout.Normalize(lines, validContact(), checkout.DefaultShippingPolicy(), "s", "c")
	assert.Error(t, err)

	lines[0].Quantity = 100
	_, err = checkout.Normalize(lines, validContact(), checkout.DefaultShippingPolicy(), "s", "c")
	assert.Error(t, err)
}
