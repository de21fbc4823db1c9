package checkout

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"sweetshop/internal/models"
	"sweetshop/internal/payment"
	"sweetshop/internal/repositories"

	"github.com/google/uuid"
)

// Initiator creates hosted payment sessions. Before every processor call it
// persists the pending-order draft server-side, keyed by an idempotency
// token, so reconciliation after the redirect round-trip never depends on
// anything surviving in the shopper's browser.
type Initiator struct {
	drafts    repositories.DraftRepository
	processor payment.Client
	draftTTL  time.Duration
}

// NewInitiator creates a new Initiator.
func NewInitiator(drafts repositories.DraftRepository, processor payment.Client) *Initiator {
	return &Initiator{
		drafts:    drafts,
		processor: processor,
		draftTTL:  DefaultDraftTTL,
	}
}

// CartHash fingerprints cart contents. The order number is derived once per
// hash, so re-submitting an unchanged cart reuses the same number instead of
// minting a new one on every click.
func CartHash(lines []models.CartLine) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		parts = append(parts, fmt.Sprintf("%s:%d:%d", line.ProductID, line.Quantity, line.UnitPriceCents))
	}
	sort.Strings(parts)
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// OrderNumberFromHash derives the customer-facing order number from a cart
// contents hash.
func OrderNumberFromHash(hash string) string {
	return "SW-" + strings.ToUpper(hash[:10])
}

// CreateSession writes the order draft and asks the processor for a hosted
// session. On processor failure no order number is considered real: the
// draft is unmarked and the same cart can be retried by explicit user
// action. Returns the session plus the draft token that will come back on
// the success URL.
func (i *Initiator) CreateSession(ctx context.Context, cartID string, req *models.CheckoutRequest) (*models.PaymentSession, string, error) {
	hash := CartHash(req.LineItems)

	draft, err := i.drafts.GetByCartHash(hash)
	switch {
	case err == nil:
		if i.isStale(draft) {
			// The shopper abandoned the redirect and nothing on the return
			// path ever ran; an expired draft must not hold its cart hostage.
			draft.InFlight = false
		}
		if draft.InFlight {
			return nil, "", ErrCheckoutInFlight
		}
		// Same cart retried after a failed or abandoned attempt: reuse the
		// token and order number, overwrite the payload.
	case errors.Is(err, repositories.ErrDraftNotFound):
		draft = &models.OrderDraft{
			Token:       uuid.New().String(),
			OrderNumber: OrderNumberFromHash(hash),
			CartHash:    hash,
		}
	default:
		return nil, "", fmt.Errorf("failed to look up pending draft: %w", err)
	}
	draft.CartID = cartID

	payload := models.DraftPayload{
		CustomerEmail: req.Contact.Email,
		CustomerName:  req.Contact.Name,
		CustomerPhone: req.Contact.Phone,
		Items:         draftItems(req.LineItems),
		Subtotal:      req.SubtotalCents,
		Shipping:      req.ShippingCents,
		Tax:           req.TaxCents,
		Total:         req.TotalCents,
		Timestamp:     time.Now().UTC(),
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode draft payload: %w", err)
	}
	draft.Payload = string(encoded)
	draft.InFlight = true

	// The draft must be durable before the processor call; a session without
	// a draft is an order we cannot reconstruct.
	if err := i.drafts.Save(draft); err != nil {
		return nil, "", fmt.Errorf("failed to persist order draft: %w", err)
	}

	session, err := i.processor.CreateSession(ctx, payment.SessionRequest{
		LineItems:                 processorItems(req.LineItems),
		CustomerEmail:             req.Contact.Email,
		SuccessURL:                withTokenParam(req.SuccessURL, draft.Token),
		CancelURL:                 req.CancelURL,
		ShippingAddressCollection: true,
		BillingAddressCollection:  true,
		Metadata: map[string]string{
			"customer_name":  req.Contact.Name,
			"customer_phone": req.Contact.Phone,
			"order_number":   draft.OrderNumber,
			"draft_token":    draft.Token,
		},
	})
	if err != nil {
		draft.InFlight = false
		if saveErr := i.drafts.Save(draft); saveErr != nil {
			log.Printf("Failed to unmark draft %s after session error: %v", draft.Token, saveErr)
		}
		return nil, "", fmt.Errorf("%w: %v", ErrSessionCreation, err)
	}

	return session, draft.Token, nil
}

// isStale reports whether a draft is older than the TTL. An unreadable
// payload counts as stale; it could never reconcile anyway.
func (i *Initiator) isStale(draft *models.OrderDraft) bool {
	var payload models.DraftPayload
	if err := json.Unmarshal([]byte(draft.Payload), &payload); err != nil {
		return true
	}
	return time.Since(payload.Timestamp) > i.draftTTL
}

func draftItems(lines []models.CartLine) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.UnitPriceCents,
		})
	}
	return items
}

func processorItems(lines []models.CartLine) []payment.LineItem {
	items := make([]payment.LineItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, payment.LineItem{
			Name:            line.Name,
			ImageURL:        line.ImageURL,
			UnitAmountCents: line.UnitPriceCents,
			Quantity:        line.Quantity,
		})
	}
	return items
}

func withTokenParam(rawURL, token string) string {
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + "token=" + token
}
