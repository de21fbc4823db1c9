package repositories

import (
	"fmt"
	"sweetshop/internal/models"

	"gorm.io/gorm"
)

// ErrDraftNotFound is returned when no draft exists for a token or cart hash.
var ErrDraftNotFound = fmt.Errorf("order draft not found")

// GORMDraftRepository is a GORM implementation of DraftRepository.
type GORMDraftRepository struct {
	db *gorm.DB
}

// NewGORMDraftRepository creates a new instance of GORMDraftRepository.
func NewGORMDraftRepository(db *gorm.DB) *GORMDraftRepository {
	return &GORMDraftRepository{
		db: db,
	}
}

// GetByToken retrieves a draft by its idempotency token.
func (r *GORMDraftRepository) GetByToken(token string) (*models.OrderDraft, error) {
	var draft models.OrderDraft
	if err := r.db.First(&draft, "token = ?", token).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to get draft by token: %w", err)
	}
	return &draft, nil
}

// GetByCartHash retrieves the draft written for a given cart contents hash.
func (r *GORMDraftRepository) GetByCartHash(hash string) (*models.OrderDraft, error) {
	var draft models.OrderDraft
	if err := r.db.First(&draft, "cart_hash = ?", hash).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to get draft by cart hash: %w", err)
	}
	return &draft, nil
}

// Save creates or overwrites the draft row for its token.
func (r *GORMDraftRepository) Save(draft *models.OrderDraft) error {
	if err := r.db.Save(draft).Error; err != nil {
		return fmt.Errorf("failed to save draft %s: %w", draft.Token, err)
	}
	return nil
}

// Delete removes a draft by its token. Deleting an already removed draft is
// not an error, so reconciliation stays idempotent.
func (r *GORMDraftRepository) Delete(token string) error {
	if err := r.db.Delete(&models.OrderDraft{}, "token = ?", token).Error; err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", token, err)
	}
	return nil
}
