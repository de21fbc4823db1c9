package checkout

import "errors"

var (
	// ErrEmptyCart means checkout was attempted with no line items.
	ErrEmptyCart = errors.New("cart is empty, nothing to check out")

	// ErrInvalidContact means neither an authenticated identity nor a
	// complete guest contact (valid email + name) was available.
	ErrInvalidContact = errors.New("a valid customer email and name are required")

	// ErrSessionCreation means the payment processor call failed. The
	// condition is retryable, but only on explicit user action.
	ErrSessionCreation = errors.New("could not start checkout")

	// ErrCheckoutInFlight means a session for the same cart contents is
	// already being created; re-submission is blocked until it settles.
	ErrCheckoutInFlight = errors.New("a checkout for this cart is already in progress")

	// ErrMissingDraft means no pending order draft was found on return from
	// the processor. Reconciliation degrades to a placeholder summary
	// instead of failing, since the payment has already been captured.
	ErrMissingDraft = errors.New("no pending order draft for this checkout")
)
