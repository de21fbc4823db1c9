package repositories

import (
	"sync"
	"sweetshop/internal/models"
)

// MockDraftRepository is an in-memory implementation of DraftRepository.
type MockDraftRepository struct {
	drafts map[string]models.OrderDraft // keyed by token
	mu     sync.RWMutex
}

// NewMockDraftRepository creates a new instance of MockDraftRepository.
func NewMockDraftRepository() *MockDraftRepository {
	return &MockDraftRepository{
		drafts: make(map[string]models.OrderDraft),
	}
}

// GetByToken retrieves a draft by its idempotency token.
func (r *MockDraftRepository) GetByToken(token string) (*models.OrderDraft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	draft, ok := r.drafts[token]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return &draft, nil
}

// GetByCartHash retrieves the draft written for a given cart contents hash.
func (r *MockDraftRepository) GetByCartHash(hash string) (*models.OrderDraft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, draft := range r.drafts {
		if draft.CartHash == hash {
			d := draft
			return &d, nil
		}
	}
	return nil, ErrDraftNotFound
}

// Save creates or overwrites the draft row for its token.
func (r *MockDraftRepository) Save(draft *models.OrderDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.drafts[draft.Token] = *draft
	return nil
}

// Delete removes a draft by its token.
func (r *MockDraftRepository) Delete(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.drafts, token)
	return nil
}
