package services_test

import (
	"errors"
	"testing"

	"sweetshop/internal/models"
	"sweetshop/internal/repositories"
	"sweetshop/internal/services"

	"github.com/stretchr/testify/assert"
)

func newCartServiceWithCatalog(t *testing.T) *services.CartService {
	t.Helper()
	products := repositories.NewMockProductRepository()
	for _, p := range []models.Product{
		{ID: "prod-cannoli", Name: "Cannoli 6pcs", PriceCents: 1175},
		{ID: "prod-fudge", Name: "Chocolate Fudge", PriceCents: 850},
		{ID: "prod-rope", Name: "Sour Rope", PriceCents: 325},
	} {
		product := p
		assert.NoError(t, products.Create(&product))
	}
	return services.NewCartService(repositories.NewMockCartRepository(), products)
}

func TestCartService_AddItem(t *testing.T) {
	svc := newCartServiceWithCatalog(t)

	line, err := svc.AddItem("cart-1", "prod-cannoli", 2)
	assert.NoError(t, err)
	assert.Equal(t, "Cannoli 6pcs", line.Name)
	assert.Equal(t, int64(1175), line.UnitPriceCents)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, int64(2350), line.LineTotalCents())
}

func TestCartService_AddItemMergesExistingLine(t *testing.T) {
	svc := newCartServiceWithCatalog(t)

	_, err := svc.AddItem("cart-1", "prod-cannoli", 2)
	assert.NoError(t, err)
	_, err = svc.AddItem("cart-1", "prod-cannoli", 3)
	assert.NoError(t, err)

	lines, err := svc.Items("cart-1")
	assert.NoError(t, err)
	assert.Len(t, lines, 1, "same product must merge, not duplicate")
	assert.Equal(t, 5, lines[0].Quantity)
}

// flakyCartRepository fails GetLine once with a non-not-found error, the
// way a dropped database connection would.
type flakyCartRepository struct {
	repositories.CartRepository
	failNextGetLine bool
}

func (r *flakyCartRepository) GetLine(cartID, productID string) (*models.CartLine, error) {
	if r.failNextGetLine {
		r.failNextGetLine = false
		return nil, errors.New("connection reset by peer")
	}
	return r.CartRepository.GetLine(cartID, productID)
}

func TestCartService_AddItemSurfacesReadFailure(t *testing.T) {
	products := repositories.NewMockProductRepository()
	assert.NoError(t, products.Create(&models.Product{ID: "prod-cannoli", Name: "Cannoli 6pcs", PriceCents: 1175}))
	carts := &flakyCartRepository{CartRepository: repositories.NewMockCartRepository()}
	svc := services.NewCartService(carts, products)

	_, err := svc.AddItem("cart-1", "prod-cannoli", 3)
	assert.NoError(t, err)

	// A transient read failure must not look like "no line yet": that would
	// overwrite the merged quantity with a fresh one.
	carts.failNextGetLine = true
	_, err = svc.AddItem("cart-1", "prod-cannoli", 1)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, repositories.ErrLineNotFound)

	lines, err := svc.Items("cart-1")
	assert.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity, "failed add must leave the existing quantity alone")
}

func TestCartService_AddItemClampsAtMaxLineQuantity(t *testing.T) {
	svc := newCartServiceWithCatalog(t)

	_, err := svc.AddItem("cart-1", "prod-rope", 90)
	assert.NoError(t, err)
	line, err := svc.AddItem("cart-1", "prod-rope", 50)
	assert.NoError(t, err)

	assert.Equal(t, models.MaxLineQuantity, line.Quantity)
}

func TestCartService_AddItemRejectsBadInput(t *testing.T) {
	svc := newCartServiceWithCatalog(t)

	_, err := svc.AddItem("cart-1", "prod-cannoli", 0)
	assert.Error(t, err)

	_, err = svc.AddItem("cart-1", "prod-unknown", 1)
	assert.Error(t, err)

	total, err := svc.TotalItems("cart-1")
	assert.NoError(t, err)
	assert.Equal(t, 0, total, "failed adds must not mutate the cart")
}

func TestCartService_UpdateQuantity(t *testing.T) {
	svc := newCartServiceWithCatalog(t)

	_, err := svc.AddItem("cart-1", "prod-fudge", 1)
	assert.NoError(t, err)

	assert.NoError(t, svc.UpdateQuantity("cart-1", "prod-fudge", 4))
	lines, _ := svc.Items("cart-1")
	assert.Equal(t, 4, lines[0].Quantity)

	// Zero and below mean removal.
	assert.NoError(t, svc.UpdateQuantity("cart-1", "prod-fudge", 0))
	lines, _ = svc.Items("cart-1")
	assert.Empty(t, lines)

	assert.Error(t, svc.UpdateQuantity("cart-1", "prod-fudge", 2), "updating an absent line fails")
}

func TestCartService_Totals(t *testing.T) {
	svc := newCartServiceWithCatalog(t)

	_, err := svc.AddItem("cart-1", "prod-cannoli", 1)
	assert.NoError(t, err)
	_, err = svc.AddItem("cart-1", "prod-rope", 3)
	assert.NoError(t, err)

	items, err := svc.TotalItems("cart-1")
	assert.NoError(t, err)
	assert.Equal(t, 4, items)

	subtotal, err := svc.TotalPriceCents("cart-1")
	assert.NoError(t, err)
	assert.Equal(t, int64(1175+3*325), subtotal)
}

func TestCartService_RemoveAndClear(t *testing.T) {
	svc := newCartServiceWithCatalog(t)

	_, err := svc.AddItem("cart-1", "prod-cannoli", 1)
	assert.NoError(t, err)
	_, err = svc.AddItem("cart-1", "prod-fudge", 2)
	assert.NoError(t, err)

	assert.NoError(t, svc.RemoveItem("cart-1", "prod-cannoli"))
	lines, _ := svc.Items("cart-1")
	assert.Len(t, lines, 1)
	assert.Equal(t, "prod-fudge", lines[0].ProductID)

	assert.NoError(t, svc.Clear("cart-1"))
	lines, _ = svc.Items("cart-1")
	assert.Empty(t, lines)

	total, err := svc.TotalPriceCents("cart-1")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestCartService_CartsAreIsolated(t *testing.T) {
	svc := newCartServiceWithCatalog(t)

	_, err := svc.AddItem("cart-1", "prod-cannoli", 1)
	assert.NoError(t, err)
	_, err = svc.AddItem("cart-2", "prod-fudge", 2)
	assert.NoError(t, err)

	assert.NoError(t, svc.Clear("cart-1"))

	other, err := svc.Items("cart-2")
	assert.NoError(t, err)
	assert.Len(t, other, 1)
}
