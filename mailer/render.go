package mailer

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"

	"goflare.io/atelier/models"
)

// Placeholders understood by stored templates.
const (
	PlaceholderCustomerName  = "{{customer_name}}"
	PlaceholderCustomerEmail = "{{customer_email}}"
	PlaceholderDetails       = "{{details}}"
	PlaceholderTotal         = "{{total}}"
)

// Render fills the placeholders of tmpl. Customer supplied values are escaped;
// detailsHTML is inserted as is.
func Render(tmpl *models.EmailTemplate, order *models.Order, detailsHTML string) (subject, body string) {
	r := strings.NewReplacer(
		PlaceholderCustomerName, html.EscapeString(order.CustomerName),
		PlaceholderCustomerEmail, html.EscapeString(order.CustomerEmail),
		PlaceholderDetails, detailsHTML,
		PlaceholderTotal, FormatMoney(order.TotalAmount, order.Currency),
	)

	subjectReplacer := strings.NewReplacer(
		PlaceholderCustomerName, order.CustomerName,
		PlaceholderCustomerEmail, order.CustomerEmail,
		PlaceholderTotal, FormatMoney(order.TotalAmount, order.Currency),
	)

	return subjectReplacer.Replace(tmpl.Subject), r.Replace(tmpl.HTMLContent)
}

// OrderDetails renders the order lines as the table shown in both emails.
func OrderDetails(order *models.Order) string {
	var b strings.Builder
	b.WriteString(`<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
  <thead>
    <tr style="background: #f5f5f5;">
      <th style="padding: 10px; text-align: left; border-bottom: 2px solid #ddd;">Produto</th>
      <th style="padding: 10px; text-align: center; border-bottom: 2px solid #ddd;">Qtd</th>
      <th style="padding: 10px; text-align: right; border-bottom: 2px solid #ddd;">Preço Unit.</th>
      <th style="padding: 10px; text-align: right; border-bottom: 2px solid #ddd;">Subtotal</th>
    </tr>
  </thead>
  <tbody>
`)
	for _, item := range order.Items {
		fmt.Fprintf(&b, `    <tr>
      <td style="padding: 10px; border-bottom: 1px solid #eee;">%s</td>
      <td style="padding: 10px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
      <td style="padding: 10px; border-bottom: 1px solid #eee; text-align: right;">%s</td>
      <td style="padding: 10px; border-bottom: 1px solid #eee; text-align: right; font-weight: bold;">%s</td>
    </tr>
`,
			html.EscapeString(item.Title), item.Quantity,
			FormatMoney(item.Price, order.Currency), FormatMoney(item.Subtotal, order.Currency))
	}
	fmt.Fprintf(&b, `  </tbody>
  <tfoot>
    <tr>
      <td colspan="3" style="padding: 15px; text-align: right; font-weight: bold; font-size: 18px;">Total:</td>
      <td style="padding: 15px; text-align: right; font-weight: bold; font-size: 18px; color: #D4A574;">%s</td>
    </tr>
  </tfoot>
</table>`, FormatMoney(order.TotalAmount, order.Currency))

	return b.String()
}

var currencySymbols = map[stripe.Currency]string{
	stripe.CurrencyEUR: "€",
	stripe.CurrencyUSD: "$",
	stripe.CurrencyGBP: "£",
}

// FormatMoney prints amount with two decimals and the currency symbol.
func FormatMoney(amount decimal.Decimal, currency stripe.Currency) string {
	if symbol, ok := currencySymbols[currency]; ok {
		return symbol + amount.StringFixed(2)
	}
	return fmt.Sprintf("%s %s", amount.StringFixed(2), strings.ToUpper(string(currency)))
}
