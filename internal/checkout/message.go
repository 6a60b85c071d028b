// Package checkout turns a cart into the order message a shopper sends to the
// store over WhatsApp.
package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/wichananm65/helmet-storefront/internal/cart"
)

var separator = strings.Repeat("—", 14)

// Composer builds order messages and deep links for one store.
type Composer struct {
	StoreName string
	Phone     string
	Money     *Formatter
}

func NewComposer(storeName, phone string, money *Formatter) *Composer {
	return &Composer{StoreName: storeName, Phone: phone, Money: money}
}

// Message formats s as a numbered list of line items followed by the
// subtotal. The output depends only on s.
func (c *Composer) Message(s cart.Snapshot) string {
	lines := make([]string, 0, len(s.Items)+7)
	lines = append(lines, fmt.Sprintf("\U0001F6D2 *%s Order*", c.StoreName), "")
	for i, li := range s.Items {
		lines = append(lines, fmt.Sprintf("%d) *%s*\nQty: %d\nPrice: %s",
			i+1, li.Product.Name, li.Quantity, c.Money.Format(li.Total())))
	}
	lines = append(lines,
		"",
		separator,
		"*Subtotal:* "+c.Money.Format(s.Subtotal),
		separator,
		"Please confirm my order \U0001F64C",
	)
	return strings.Join(lines, "\n")
}

// Link returns the wa.me deep link that opens a chat with the store phone
// prefilled with msg.
func (c *Composer) Link(msg string) string {
	text := strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
	return "https://wa.me/" + c.Phone + "?text=" + text
}
