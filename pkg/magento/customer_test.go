package magento

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customerFixture() map[string]any {
	return map[string]any{
		"id":               float64(9),
		"email":            "jo@example.com",
		"firstname":        "Jo",
		"lastname":         "Smith",
		"default_billing":  "11",
		"default_shipping": "12",
		"addresses": []any{
			map[string]any{
				"id":        float64(11),
				"city":      "Springfield",
				"postcode":  "12345",
				"firstname": "Jo",
			},
			map[string]any{
				"id":               float64(12),
				"city":             "Shelbyville",
				"postcode":         "54321",
				"default_shipping": true,
			},
		},
	}
}

func TestParseCustomer(t *testing.T) {
	t.Parallel()

	customer, err := ParseCustomer(&stubSession{}, customerFixture())
	require.NoError(t, err)

	assert.Equal(t, 9, customer.ID)
	assert.Equal(t, "Jo Smith", customer.Name())
	assert.Equal(t, "customers/9", customer.ItemURL())
	assert.NotContains(t, customer.Extra, "addresses")
}

func TestCustomerAddresses(t *testing.T) {
	t.Parallel()

	customer, err := ParseCustomer(&stubSession{}, customerFixture())
	require.NoError(t, err)

	addrs, err := customer.Addresses()
	require.NoError(t, err)
	require.Len(t, addrs, 2)

	billing, err := customer.BillingAddress()
	require.NoError(t, err)
	require.NotNil(t, billing)
	assert.Equal(t, "Springfield", billing.City)

	shipping, err := customer.ShippingAddress()
	require.NoError(t, err)
	require.NotNil(t, shipping)
	assert.Equal(t, "Shelbyville", shipping.City)
}

func TestCustomerRefresh(t *testing.T) {
	t.Parallel()

	session := &stubSession{handler: func(call stubCall) (*Response, error) {
		return okJSON(`{"id": 9, "email": "jo@example.com", "firstname": "Joanne", "lastname": "Smith"}`)
	}}
	customer, err := ParseCustomer(session, customerFixture())
	require.NoError(t, err)

	require.NoError(t, customer.Refresh(context.Background(), DefaultScope()))
	assert.Equal(t, "Joanne Smith", customer.Name())

	// Refreshes go through the item endpoint, not the search one.
	assert.Equal(t, "customers/9", session.calls[0].Endpoint)
}
