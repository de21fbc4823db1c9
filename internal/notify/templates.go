package notify

import (
	"fmt"
	"html/template"
)

// The bodies are built with html/template so every interpolated
// customer-supplied string is escaped; the notification must not become an
// injection vector into the downstream email renderer.
var (
	customerTemplate = template.Must(template.New("customer").Funcs(templateFuncs).Parse(customerTemplateText))
	adminTemplate    = template.Must(template.New("admin").Funcs(templateFuncs).Parse(adminTemplateText))
)

var templateFuncs = template.FuncMap{
	"dollars": FormatCents,
}

// FormatCents renders an integer-cents amount as a dollar string. Formatting
// happens only here, at the display boundary; all arithmetic stays in cents.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

const customerTemplateText = `<h1>Thank you for your order, {{.CustomerName}}!</h1>
<p>Your order <strong>{{.OrderNumber}}</strong> has been placed.</p>
<table>
  <tr><th>Item</th><th>Qty</th><th>Price</th></tr>
  {{range .Items}}<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{dollars .Price}}</td></tr>
  {{end}}
</table>
<p>Subtotal: {{dollars .SubtotalCents}}<br>
Shipping: {{if eq .ShippingCents 0}}Free{{else}}{{dollars .ShippingCents}}{{end}}<br>
Tax: {{dollars .TaxCents}}<br>
<strong>Total: {{dollars .TotalCents}}</strong></p>
<p>We will email you again when your candy ships.</p>`

const adminTemplateText = `<h2>New order {{.OrderNumber}}</h2>
<p>Customer: {{.CustomerName}} &lt;{{.CustomerEmail}}&gt;{{if .CustomerPhone}} ({{.CustomerPhone}}){{end}}</p>
<table>
  <tr><th>Item</th><th>Qty</th><th>Price</th></tr>
  {{range .Items}}<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{dollars .Price}}</td></tr>
  {{end}}
</table>
<p>Total charged: <strong>{{dollars .TotalCents}}</strong></p>`
