package checkout

// ShippingPolicy holds the pricing rules applied during normalization.
// All amounts are integer cents; the tax rate is in basis points so the
// round-half-up division stays in integer arithmetic.
type ShippingPolicy struct {
	FreeShippingThresholdCents int64
	FlatFeeCents               int64
	TaxRateBasisPoints         int64
}

// DefaultShippingPolicy returns the store policy: free shipping at $60,
// a $5.99 flat fee below it, and 8% tax.
func DefaultShippingPolicy() ShippingPolicy {
	return ShippingPolicy{
		FreeShippingThresholdCents: 6000,
		FlatFeeCents:               599,
		TaxRateBasisPoints:         800,
	}
}

// ShippingCents returns the shipping cost for a subtotal.
func (p ShippingPolicy) ShippingCents(subtotalCents int64) int64 {
	if subtotalCents >= p.FreeShippingThresholdCents {
		return 0
	}
	return p.FlatFeeCents
}

// TaxCents returns the tax for a subtotal, rounded half up to the nearest
// cent at the point of computation so the sum of parts always equals the
// total exactly.
func (p ShippingPolicy) TaxCents(subtotalCents int64) int64 {
	return (subtotalCents*p.TaxRateBasisPoints + 5000) / 10000
}
