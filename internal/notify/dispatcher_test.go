package notify_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"sweetshop/internal/models"
	"sweetshop/internal/notify"

	"github.com/stretchr/testify/assert"
)

func orderFixture() *models.OrderRecord {
	return &models.OrderRecord{
		OrderNumber:   "SW-AAAA111122",
		CustomerEmail: "maria@example.com",
		CustomerName:  "Maria Lopez",
		Items: []models.OrderItem{
			{Name: "Cannoli 6pcs", Quantity: 1, Price: 1175},
		},
		SubtotalCents: 1175,
		ShippingCents: 599,
		TaxCents:      94,
		TotalCents:    1868,
		PlacedAt:      time.Now().UTC(),
	}
}

// webhookRecorder is an httptest handler that captures payloads and replies
// with a fixed status.
type webhookRecorder struct {
	status   int
	hits     atomic.Int32
	lastBody atomic.Value // stores []byte
}

func (w *webhookRecorder) handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.lastBody.Store(body)
		w.hits.Add(1)
		rw.WriteHeader(w.status)
	}
}

func (w *webhookRecorder) payload(t *testing.T) map[string]interface{} {
	t.Helper()
	raw, _ := w.lastBody.Load().([]byte)
	var parsed map[string]interface{}
	assert.NoError(t, json.Unmarshal(raw, &parsed))
	return parsed
}

func TestDispatchAll_BothChannelsSucceed(t *testing.T) {
	customer := &webhookRecorder{status: http.StatusOK}
	admin := &webhookRecorder{status: http.StatusOK}
	customerSrv := httptest.NewServer(customer.handler())
	defer customerSrv.Close()
	adminSrv := httptest.NewServer(admin.handler())
	defer adminSrv.Close()

	d := notify.NewDispatcher(customerSrv.URL, adminSrv.URL, "orders@sweetshop.example")
	result := d.DispatchAll(context.Background(), orderFixture())

	assert.True(t, result.Customer.Sent)
	assert.True(t, result.Admin.Sent)
	assert.Equal(t, int32(1), customer.hits.Load())
	assert.Equal(t, int32(1), admin.hits.Load())

	customerPayload := customer.payload(t)
	assert.Equal(t, "maria@example.com", customerPayload["recipientEmail"])
	assert.Equal(t, "SW-AAAA111122", customerPayload["orderNumber"])
	assert.Contains(t, customerPayload["htmlBody"], "Cannoli 6pcs")
	assert.Contains(t, customerPayload["htmlBody"], "$18.68")

	adminPayload := admin.payload(t)
	assert.Equal(t, "orders@sweetshop.example", adminPayload["recipientEmail"])
}

func TestDispatchAll_FailuresAreIndependent(t *testing.T) {
	customer := &webhookRecorder{status: http.StatusInternalServerError}
	admin := &webhookRecorder{status: http.StatusOK}
	customerSrv := httptest.NewServer(customer.handler())
	defer customerSrv.Close()
	adminSrv := httptest.NewServer(admin.handler())
	defer adminSrv.Close()

	d := notify.NewDispatcher(customerSrv.URL, adminSrv.URL, "orders@sweetshop.example")
	result := d.DispatchAll(context.Background(), orderFixture())

	// Customer channel failed on a 500, admin still went through: one
	// channel's failure neither prevents nor rolls back the other.
	assert.False(t, result.Customer.Sent)
	assert.Error(t, result.Customer.Err)
	assert.True(t, result.Admin.Sent)
	assert.Equal(t, int32(1), customer.hits.Load())
	assert.Equal(t, int32(1), admin.hits.Load())

	assert.Equal(t, "failed", result.Customer.StatusLabel())
	assert.Equal(t, "sent", result.Admin.StatusLabel())
}

func TestDispatchAll_SkipsCustomerWithoutEmail(t *testing.T) {
	customer := &webhookRecorder{status: http.StatusOK}
	admin := &webhookRecorder{status: http.StatusOK}
	customerSrv := httptest.NewServer(customer.handler())
	defer customerSrv.Close()
	adminSrv := httptest.NewServer(admin.handler())
	defer adminSrv.Close()

	order := orderFixture()
	order.CustomerEmail = ""
	order.CustomerName = ""

	d := notify.NewDispatcher(customerSrv.URL, adminSrv.URL, "orders@sweetshop.example")
	result := d.DispatchAll(context.Background(), order)

	assert.True(t, result.Customer.Skipped)
	assert.Equal(t, "skipped", result.Customer.StatusLabel())
	assert.Equal(t, int32(0), customer.hits.Load(), "no POST without a recipient")
	assert.True(t, result.Admin.Sent)
}

func TestNotifyCustomer_EscapesCustomerStrings(t *testing.T) {
	customer := &webhookRecorder{status: http.StatusOK}
	customerSrv := httptest.NewServer(customer.handler())
	defer customerSrv.Close()

	order := orderFixture()
	order.CustomerName = `<script>alert("x")</script>`
	order.Items[0].Name = `Lolly & "Friends" <b>`

	d := notify.NewDispatcher(customerSrv.URL, "http://unused.invalid", "orders@sweetshop.example")
	assert.NoError(t, d.NotifyCustomer(context.Background(), order))

	html, _ := customer.payload(t)["htmlBody"].(string)
	// Customer-supplied strings must not reach the downstream email
	// renderer as markup.
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, `<b>`)
	assert.Contains(t, html, "Lolly &amp;")
}

func TestNotifyAdmin_NonSuccessStatusIsFailure(t *testing.T) {
	admin := &webhookRecorder{status: http.StatusAccepted}
	adminSrv := httptest.NewServer(admin.handler())
	defer adminSrv.Close()

	d := notify.NewDispatcher("http://unused.invalid", adminSrv.URL, "orders@sweetshop.example")

	// Any 2xx counts as accepted.
	assert.NoError(t, d.NotifyAdmin(context.Background(), orderFixture()))

	rejecting := &webhookRecorder{status: http.StatusBadRequest}
	rejectingSrv := httptest.NewServer(rejecting.handler())
	defer rejectingSrv.Close()

	d = notify.NewDispatcher("http://unused.invalid", rejectingSrv.URL, "orders@sweetshop.example")
	err := d.NotifyAdmin(context.Background(), orderFixture())
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "400"))
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "$0.00", notify.FormatCents(0))
	assert.Equal(t, "$0.05", notify.FormatCents(5))
	assert.Equal(t, "$18.68", notify.FormatCents(1868))
	assert.Equal(t, "$60.00", notify.FormatCents(6000))
	assert.Equal(t, "-$5.99", notify.FormatCents(-599))
}
