package checkout

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wichananm65/helmet-storefront/internal/cart"
	"github.com/wichananm65/helmet-storefront/internal/product"
)

func newComposer(t *testing.T) *Composer {
	t.Helper()
	money, err := NewFormatter("en-IN", "₹")
	require.NoError(t, err)
	return NewComposer("Helmet Store", "917027888321", money)
}

func sampleCart(t *testing.T) cart.Snapshot {
	t.Helper()
	c := cart.New()
	_, err := c.Add(product.Product{ID: "1", Name: "Aether Carbon", Price: 7499}, 2)
	require.NoError(t, err)
	s, err := c.AddItem(product.Product{ID: "2", Name: "Urban Lite", Price: 3999})
	require.NoError(t, err)
	return s
}

func TestFormatter_Groups(t *testing.T) {
	money, err := NewFormatter("en-IN", "₹")
	require.NoError(t, err)

	assert.Equal(t, "₹0", money.Format(0))
	assert.Equal(t, "₹999", money.Format(999))
	assert.Equal(t, "₹18,997", money.Format(18997))
	assert.Equal(t, "-₹3,999", money.Format(-3999))

	usd, err := NewFormatter("en", "$")
	require.NoError(t, err)
	assert.Equal(t, "$1,234,567", usd.Format(1234567))
}

func TestNewFormatter_RejectsBadLocale(t *testing.T) {
	_, err := NewFormatter("not a locale!", "₹")
	assert.Error(t, err)
}

func TestMessage_Layout(t *testing.T) {
	msg := newComposer(t).Message(sampleCart(t))

	want := strings.Join([]string{
		"🛒 *Helmet Store Order*",
		"",
		"1) *Aether Carbon*",
		"Qty: 2",
		"Price: ₹14,998",
		"2) *Urban Lite*",
		"Qty: 1",
		"Price: ₹3,999",
		"",
		"——————————————",
		"*Subtotal:* ₹18,997",
		"——————————————",
		"Please confirm my order 🙌",
	}, "\n")
	assert.Equal(t, want, msg)
}

func TestMessage_Deterministic(t *testing.T) {
	c := newComposer(t)
	s := sampleCart(t)

	assert.Equal(t, c.Message(s), c.Message(s))
}

func TestMessage_EmptyCart(t *testing.T) {
	msg := newComposer(t).Message(cart.New().Snapshot())

	assert.Contains(t, msg, "*Subtotal:* ₹0")
	assert.NotContains(t, msg, "1)")
}

func TestLink_EncodesMessage(t *testing.T) {
	c := newComposer(t)
	msg := c.Message(sampleCart(t))

	link := c.Link(msg)
	require.True(t, strings.HasPrefix(link, "https://wa.me/917027888321?text="))
	assert.NotContains(t, link, "+")
	assert.NotContains(t, link, " ")
	assert.Contains(t, link, "Helmet%20Store%20Order")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, msg, u.Query().Get("text"))
}
