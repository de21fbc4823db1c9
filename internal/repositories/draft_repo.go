package repositories

import "sweetshop/internal/models"

// DraftRepository defines the interface for pending-order drafts. A draft is
// written before the shopper is redirected to the payment processor and read
// back by its token when they return; there is at most one draft per cart
// contents hash, overwritten on every new checkout attempt.
type DraftRepository interface {
	GetByToken(token string) (*models.OrderDraft, error)
	GetByCartHash(hash string) (*models.OrderDraft, error)
	Save(draft *models.OrderDraft) error
	Delete(token string) error
}
