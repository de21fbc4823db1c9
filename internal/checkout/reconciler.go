package checkout

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"sweetshop/internal/models"
	"sweetshop/internal/notify"
	"sweetshop/internal/repositories"

	"github.com/google/uuid"
)

// DefaultDraftTTL bounds how old a draft may be when read back. A shopper
// who abandoned the redirect and returns much later must not have a stale
// cart snapshot resurrected into an order.
const DefaultDraftTTL = 30 * time.Minute

// Notifier dispatches both order notifications and reports per-channel
// outcomes.
type Notifier interface {
	DispatchAll(ctx context.Context, order *models.OrderRecord) notify.DispatchResult
}

// CartClearer empties a cart after a successful checkout.
type CartClearer interface {
	Clear(cartID string) error
}

// EventPublisher publishes order lifecycle events to the message queue.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// OutcomeState is the terminal state of one reconciliation run.
type OutcomeState string

const (
	// StateReconciled means an order summary was produced, with or without
	// a draft backing it.
	StateReconciled OutcomeState = "reconciled"
	// StateFailed means the draft existed but could not be used; the
	// shopper still sees a confirmation, notifications are skipped.
	StateFailed OutcomeState = "failed"
)

// Outcome is what one return from the payment processor produced.
type Outcome struct {
	State             OutcomeState
	Order             *models.OrderRecord
	Notifications     notify.DispatchResult
	AlreadyReconciled bool
}

// Reconciler turns the processor's success redirect into a locally
// meaningful order record and triggers notification dispatch exactly once
// per order. By the time it runs the processor has already captured funds,
// so nothing here is allowed to block the confirmation: "payment succeeded"
// and "notification sent" are not transactionally linked.
type Reconciler struct {
	drafts   repositories.DraftRepository
	orders   repositories.OrderRepository
	carts    CartClearer
	notifier Notifier
	events   EventPublisher
	draftTTL time.Duration
}

// NewReconciler creates a Reconciler. events may be nil when no queue is
// configured.
func NewReconciler(drafts repositories.DraftRepository, orders repositories.OrderRepository, carts CartClearer, notifier Notifier, events EventPublisher) *Reconciler {
	return &Reconciler{
		drafts:   drafts,
		orders:   orders,
		carts:    carts,
		notifier: notifier,
		events:   events,
		draftTTL: DefaultDraftTTL,
	}
}

// Reconcile runs the awaiting-return state machine for one success redirect.
// It never fails hard: a missing or stale draft degrades to a placeholder
// summary, and every error past that point is logged and absorbed.
func (r *Reconciler) Reconcile(ctx context.Context, sessionID, token string, identity *models.ShopperContact) *Outcome {
	// A replayed success redirect (browser refresh, bookmarked URL) must not
	// notify twice. The session ID survives even after the draft row is gone,
	// so it is the idempotency key, not the draft.
	if existing, err := r.orders.GetBySessionID(sessionID); err == nil {
		log.Printf("Session %s already reconciled as order %s, skipping dispatch", sessionID, existing.OrderNumber)
		return &Outcome{State: StateReconciled, Order: existing, AlreadyReconciled: true}
	}

	draft, payload, ok := r.loadDraft(token)
	if !ok {
		log.Printf("No usable draft for session %s (%v), falling back to placeholder summary", sessionID, ErrMissingDraft)
		return r.reconcilePlaceholder(ctx, sessionID, identity)
	}
	if payload == nil {
		// Draft row exists but its payload is unreadable: failed state. The
		// payment already succeeded upstream, so the shopper still gets a
		// confirmation; dispatch is skipped and the gap is logged, not hidden.
		log.Printf("Draft %s for session %s is corrupt, skipping notifications", token, sessionID)
		return &Outcome{
			State: StateFailed,
			Order: &models.OrderRecord{
				OrderNumber: draft.OrderNumber,
				PlacedAt:    time.Now().UTC(),
				Placeholder: true,
			},
		}
	}

	// A draft reconciled on an earlier return must not notify twice.
	if existing, err := r.orders.GetByOrderNumber(draft.OrderNumber); err == nil {
		log.Printf("Order %s already reconciled, skipping dispatch", draft.OrderNumber)
		return &Outcome{State: StateReconciled, Order: existing, AlreadyReconciled: true}
	}

	record := &models.OrderRecord{
		OrderNumber:   draft.OrderNumber,
		SessionID:     sessionID,
		CustomerEmail: payload.CustomerEmail,
		CustomerName:  payload.CustomerName,
		CustomerPhone: payload.CustomerPhone,
		Items:         payload.Items,
		SubtotalCents: payload.Subtotal,
		ShippingCents: payload.Shipping,
		TaxCents:      payload.Tax,
		TotalCents:    payload.Total,
		PlacedAt:      time.Now().UTC(),
	}
	if identity != nil {
		record.UserID = identity.UserID
	}

	if err := r.orders.Create(record); err != nil {
		log.Printf("Failed to persist order %s: %v", record.OrderNumber, err)
	}
	if err := r.carts.Clear(draft.CartID); err != nil {
		log.Printf("Failed to clear cart %s after checkout: %v", draft.CartID, err)
	}
	if err := r.drafts.Delete(draft.Token); err != nil {
		log.Printf("Failed to delete draft %s: %v", draft.Token, err)
	}

	outcome := &Outcome{
		State:         StateReconciled,
		Order:         record,
		Notifications: r.notifier.DispatchAll(ctx, record),
	}
	r.publishCompleted(record)
	return outcome
}

// loadDraft reads and vets the draft. ok reports whether a draft row was
// found and fresh; payload is nil when the row exists but cannot be parsed.
func (r *Reconciler) loadDraft(token string) (*models.OrderDraft, *models.DraftPayload, bool) {
	if token == "" {
		return nil, nil, false
	}
	draft, err := r.drafts.GetByToken(token)
	if err != nil {
		return nil, nil, false
	}

	var payload models.DraftPayload
	if err := json.Unmarshal([]byte(draft.Payload), &payload); err != nil {
		return draft, nil, true
	}

	if time.Since(payload.Timestamp) > r.draftTTL {
		// Expired drafts behave exactly like missing ones, and the stale row
		// is removed so it cannot leak into a later attempt.
		if err := r.drafts.Delete(draft.Token); err != nil {
			log.Printf("Failed to delete expired draft %s: %v", draft.Token, err)
		}
		return nil, nil, false
	}
	return draft, &payload, true
}

// reconcilePlaceholder builds the minimal summary used when no draft can be
// recovered. Whatever contact info the authenticated identity provides is
// used for notifications; with none, the dispatcher omits the customer
// channel gracefully.
func (r *Reconciler) reconcilePlaceholder(ctx context.Context, sessionID string, identity *models.ShopperContact) *Outcome {
	record := &models.OrderRecord{
		OrderNumber: placeholderOrderNumber(sessionID),
		SessionID:   sessionID,
		PlacedAt:    time.Now().UTC(),
		Placeholder: true,
	}
	if identity != nil {
		record.UserID = identity.UserID
		record.CustomerEmail = identity.Email
		record.CustomerName = identity.Name
	}

	// The session suffix is not unique across processors' ID schemes; a
	// colliding number must not silently swallow the second record.
	if _, err := r.orders.GetByOrderNumber(record.OrderNumber); err == nil {
		record.OrderNumber = record.OrderNumber + "-" + strings.ToUpper(uuid.New().String()[:8])
	}

	if err := r.orders.Create(record); err != nil {
		log.Printf("Failed to persist placeholder order %s: %v", record.OrderNumber, err)
	}

	outcome := &Outcome{
		State:         StateReconciled,
		Order:         record,
		Notifications: r.notifier.DispatchAll(ctx, record),
	}
	r.publishCompleted(record)
	return outcome
}

// publishCompleted emits an order.completed event, best-effort. Downstream
// consumers (inventory, fulfilment) pick it up from the queue; a publish
// failure never touches the shopper-facing outcome.
func (r *Reconciler) publishCompleted(record *models.OrderRecord) {
	if r.events == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"order_number":   record.OrderNumber,
		"customer_email": record.CustomerEmail,
		"total_cents":    record.TotalCents,
		"placeholder":    record.Placeholder,
		"placed_at":      record.PlacedAt,
	})
	if err != nil {
		log.Printf("Failed to marshal order.completed event: %v", err)
		return
	}
	if err := r.events.Publish("orders", "order.completed", body); err != nil {
		log.Printf("Warning: failed to publish order.completed for %s: %v", record.OrderNumber, err)
	}
}

// placeholderOrderNumber derives a stable order number from the processor's
// session identifier when no draft survives.
func placeholderOrderNumber(sessionID string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, sessionID)
	if len(cleaned) > 10 {
		cleaned = cleaned[len(cleaned)-10:]
	}
	if cleaned == "" {
		cleaned = uuid.New().String()[:8]
	}
	return "SW-" + strings.ToUpper(cleaned)
}
