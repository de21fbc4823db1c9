package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"sweetshop/internal/models"
)

// LineItem is one product entry in the processor's request shape.
type LineItem struct {
	Name            string `json:"name"`
	ImageURL        string `json:"imageUrl,omitempty"`
	UnitAmountCents int64  `json:"unitAmountCents"`
	Quantity        int    `json:"quantity"`
}

// SessionRequest is the outbound request to create a hosted checkout
// session. Metadata travels to the processor and is echoed back untouched,
// which is how the draft token survives the redirect round-trip.
type SessionRequest struct {
	LineItems                 []LineItem        `json:"lineItems"`
	CustomerEmail             string            `json:"customerEmail"`
	SuccessURL                string            `json:"successUrl"`
	CancelURL                 string            `json:"cancelUrl"`
	ShippingAddressCollection bool              `json:"shippingAddressCollection"`
	BillingAddressCollection  bool              `json:"billingAddressCollection"`
	Metadata                  map[string]string `json:"metadata,omitempty"`
}

// Client is the boundary to the external payment processor.
type Client interface {
	CreateSession(ctx context.Context, req SessionRequest) (*models.PaymentSession, error)
}

// HTTPClient calls a Stripe-style hosted checkout API over HTTP.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient creates a processor client with an explicit request timeout
// so a slow processor call fails instead of hanging the checkout.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// sessionResponse is the processor's reply for a created session.
type sessionResponse struct {
	SessionID   string `json:"sessionId"`
	RedirectURL string `json:"url"`
}

// CreateSession creates a hosted payment session and returns the opaque
// handle the browser should be redirected to.
func (c *HTTPClient) CreateSession(ctx context.Context, req SessionRequest) (*models.PaymentSession, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build session request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment processor unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("payment processor returned status %d", resp.StatusCode)
	}

	var parsed sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode session response: %w", err)
	}
	if parsed.SessionID == "" || parsed.RedirectURL == "" {
		return nil, fmt.Errorf("payment processor returned an incomplete session")
	}

	return &models.PaymentSession{
		SessionID:   parsed.SessionID,
		RedirectURL: parsed.RedirectURL,
	}, nil
}
