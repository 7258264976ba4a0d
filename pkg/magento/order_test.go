package magento

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderFixture() map[string]any {
	return map[string]any{
		"entity_id":          float64(12),
		"increment_id":       "000000012",
		"status":             "complete",
		"state":              "complete",
		"customer_email":     "jo@example.com",
		"customer_firstname": "Jo",
		"customer_lastname":  "Smith",
		"grand_total":        float64(110),
		"tax_amount":         float64(10),
		"total_refunded":     float64(25),
		"items": []any{
			map[string]any{
				"item_id":           float64(1),
				"order_id":          float64(12),
				"sku":               "MJ01-M",
				"product_type":      "simple",
				"qty_ordered":       float64(2),
				"qty_refunded":      float64(1),
				"price":             float64(50),
				"row_total":         float64(100),
				"tax_amount":        float64(10),
				"tax_refunded":      float64(5),
				"amount_refunded":   float64(50),
				"discount_refunded": float64(10),
				"parent_item": map[string]any{
					"item_id":      float64(2),
					"order_id":     float64(12),
					"sku":          "MJ01",
					"product_type": "configurable",
					"qty_ordered":  float64(2),
					"row_total":    float64(100),
				},
			},
			map[string]any{
				"item_id":      float64(2),
				"order_id":     float64(12),
				"sku":          "MJ01",
				"product_type": "configurable",
				"qty_ordered":  float64(2),
				"qty_invoiced": float64(2),
				"qty_shipped":  float64(1),
				"qty_refunded": float64(1),
				"price":        float64(50),
				"row_total":    float64(100),
				"tax_amount":   float64(10),
				"tax_refunded": float64(5),
			},
		},
		"payment": map[string]any{
			"method": "checkmo",
			"additional_information": []any{
				map[string]any{"key": "method_title", "value": "Check / Money order"},
			},
		},
		"billing_address": map[string]any{
			"firstname": "Jo",
			"lastname":  "Smith",
			"city":      "Springfield",
			"postcode":  "12345",
		},
		"extension_attributes": map[string]any{
			"shipping_assignments": []any{
				map[string]any{
					"shipping": map[string]any{
						"address": map[string]any{
							"firstname": "Jo",
							"city":      "Shelbyville",
							"postcode":  "54321",
						},
					},
				},
			},
		},
	}
}

func TestParseOrder(t *testing.T) {
	t.Parallel()

	order, err := ParseOrder(&stubSession{}, orderFixture())
	require.NoError(t, err)

	assert.Equal(t, 12, order.EntityID)
	assert.Equal(t, "000000012", order.IncrementID)
	assert.Equal(t, "orders/12", order.ItemURL())

	// Held-back keys are not hydrated or leaked into Extra.
	assert.NotContains(t, order.Extra, "items")
	assert.NotContains(t, order.Extra, "payment")
}

func TestOrderItemsSkipChildLines(t *testing.T) {
	t.Parallel()

	order, err := ParseOrder(&stubSession{}, orderFixture())
	require.NoError(t, err)

	items, err := order.Items()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "MJ01", items[0].SKU)
	assert.Equal(t, "configurable", items[0].ProductType)
}

func TestOrderPayment(t *testing.T) {
	t.Parallel()

	order, err := ParseOrder(&stubSession{}, orderFixture())
	require.NoError(t, err)

	payment := order.Payment()
	assert.Equal(t, "checkmo", payment["method"])

	info, ok := payment["additional_information"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Check / Money order", info["method_title"])
}

func TestOrderAddresses(t *testing.T) {
	t.Parallel()

	order, err := ParseOrder(&stubSession{}, orderFixture())
	require.NoError(t, err)

	billTo, err := order.BillTo()
	require.NoError(t, err)
	assert.Equal(t, "Springfield", billTo.City)

	shipTo, err := order.ShipTo()
	require.NoError(t, err)
	assert.Equal(t, "Shelbyville", shipTo.City)
}

func TestOrderNetMath(t *testing.T) {
	t.Parallel()

	order, err := ParseOrder(&stubSession{}, orderFixture())
	require.NoError(t, err)

	assert.Equal(t, 85.0, order.NetTotal())

	netTax, err := order.NetTax()
	require.NoError(t, err)
	assert.Equal(t, 5.0, netTax)
}

func TestOrderQtyRollups(t *testing.T) {
	t.Parallel()

	order, err := ParseOrder(&stubSession{}, orderFixture())
	require.NoError(t, err)

	tests := []struct {
		name string
		sum  func() (float64, error)
		want float64
	}{
		{name: "invoiced", sum: order.TotalQtyInvoiced, want: 2},
		{name: "shipped", sum: order.TotalQtyShipped, want: 1},
		{name: "refunded", sum: order.TotalQtyRefunded, want: 1},
		{name: "canceled", sum: order.TotalQtyCanceled, want: 0},
		{name: "net ordered", sum: order.NetQtyOrdered, want: 1},
		{name: "outstanding", sum: order.TotalQtyOutstanding, want: 0},
	}

	for _, tt := range tests {
		got, err := tt.sum()
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}

func TestParseOrderItemResolvesParent(t *testing.T) {
	t.Parallel()

	item, err := ParseOrderItem(&stubSession{}, map[string]any{
		"item_id":      float64(1),
		"sku":          "MJ01-M",
		"product_type": "simple",
		"parent_item": map[string]any{
			"item_id":      float64(2),
			"sku":          "MJ01",
			"product_type": "configurable",
			"row_total":    float64(100),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "MJ01", item.SKU)
	assert.Equal(t, 2, item.ItemID)
	assert.Equal(t, 100.0, item.RowTotal)
}

func TestOrderItemNetMath(t *testing.T) {
	t.Parallel()

	item, err := ParseOrderItem(&stubSession{}, map[string]any{
		"item_id":           float64(1),
		"sku":               "MJ01",
		"qty_ordered":       float64(5),
		"qty_canceled":      float64(1),
		"qty_refunded":      float64(2),
		"qty_shipped":       float64(1),
		"row_total":         float64(500),
		"tax_amount":        float64(50),
		"tax_refunded":      float64(20),
		"amount_refunded":   float64(200),
		"discount_amount":   float64(25),
		"discount_refunded": float64(10),
	})
	require.NoError(t, err)

	assert.Equal(t, 2.0, item.NetQtyOrdered())
	assert.Equal(t, 1.0, item.QtyOutstanding())
	assert.Equal(t, 30.0, item.NetTax())
	assert.Equal(t, 210.0, item.NetRefund())
	assert.Equal(t, 315.0, item.NetTotal())
}
