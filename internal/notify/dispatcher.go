package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"sweetshop/internal/models"
)

// webhookPayload is the wire shape both webhook channels accept. Anything
// beyond a 2xx status in reply is treated as a failed delivery; there is no
// retry, backoff, or dead-letter handling.
type webhookPayload struct {
	RecipientEmail string `json:"recipientEmail"`
	Subject        string `json:"subject"`
	HTMLBody       string `json:"htmlBody"`
	OrderNumber    string `json:"orderNumber"`
	CustomerName   string `json:"customerName,omitempty"`
	TotalCents     int64  `json:"totalCents"`
}

// ChannelResult is the outcome of one webhook channel.
type ChannelResult struct {
	Channel string
	Sent    bool
	Skipped bool // No recipient available, call never attempted
	Err     error
}

// StatusLabel renders the outcome for user-facing JSON.
func (r ChannelResult) StatusLabel() string {
	switch {
	case r.Sent:
		return "sent"
	case r.Skipped:
		return "skipped"
	default:
		return "failed"
	}
}

// DispatchResult aggregates both channel outcomes. It feeds user-facing
// wording only ("confirmation sent" vs "confirmation may be delayed") and
// never gates whether the order counts as placed.
type DispatchResult struct {
	Customer ChannelResult
	Admin    ChannelResult
}

// Dispatcher sends the customer receipt and the admin alert to two
// independently configured webhook endpoints.
type Dispatcher struct {
	customerURL string
	adminURL    string
	adminEmail  string
	httpClient  *http.Client
}

// NewDispatcher creates a Dispatcher. Each webhook call carries its own
// timeout so a stalled endpoint fails instead of pending forever.
func NewDispatcher(customerURL, adminURL, adminEmail string) *Dispatcher {
	return &Dispatcher{
		customerURL: customerURL,
		adminURL:    adminURL,
		adminEmail:  adminEmail,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NotifyCustomer sends the customer receipt for an order.
func (d *Dispatcher) NotifyCustomer(ctx context.Context, order *models.OrderRecord) error {
	var body bytes.Buffer
	if err := customerTemplate.Execute(&body, order); err != nil {
		return fmt.Errorf("failed to render customer receipt: %w", err)
	}
	return d.post(ctx, d.customerURL, webhookPayload{
		RecipientEmail: order.CustomerEmail,
		Subject:        fmt.Sprintf("Your SweetShop order %s", order.OrderNumber),
		HTMLBody:       body.String(),
		OrderNumber:    order.OrderNumber,
		CustomerName:   order.CustomerName,
		TotalCents:     order.TotalCents,
	})
}

// NotifyAdmin sends the admin alert for an order.
func (d *Dispatcher) NotifyAdmin(ctx context.Context, order *models.OrderRecord) error {
	var body bytes.Buffer
	if err := adminTemplate.Execute(&body, order); err != nil {
		return fmt.Errorf("failed to render admin alert: %w", err)
	}
	return d.post(ctx, d.adminURL, webhookPayload{
		RecipientEmail: d.adminEmail,
		Subject:        fmt.Sprintf("New order %s", order.OrderNumber),
		HTMLBody:       body.String(),
		OrderNumber:    order.OrderNumber,
		CustomerName:   order.CustomerName,
		TotalCents:     order.TotalCents,
	})
}

// DispatchAll attempts both channels concurrently and waits for both
// outcomes. One channel failing must not prevent or cancel the other, so
// this settles all calls instead of failing fast.
func (d *Dispatcher) DispatchAll(ctx context.Context, order *models.OrderRecord) DispatchResult {
	result := DispatchResult{
		Customer: ChannelResult{Channel: "customer"},
		Admin:    ChannelResult{Channel: "admin"},
	}

	var wg sync.WaitGroup

	if order.CustomerEmail == "" {
		// No way to reach the customer; skip the channel gracefully rather
		// than POSTing an undeliverable payload.
		result.Customer.Skipped = true
		log.Printf("Order %s has no customer email, skipping customer notification", order.OrderNumber)
	} else {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.NotifyCustomer(ctx, order); err != nil {
				log.Printf("Customer notification for order %s failed: %v", order.OrderNumber, err)
				result.Customer.Err = err
				return
			}
			result.Customer.Sent = true
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := d.NotifyAdmin(ctx, order); err != nil {
			log.Printf("Admin notification for order %s failed: %v", order.OrderNumber, err)
			result.Admin.Err = err
			return
		}
		result.Admin.Sent = true
	}()

	wg.Wait()
	return result
}

func (d *Dispatcher) post(ctx context.Context, url string, payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
