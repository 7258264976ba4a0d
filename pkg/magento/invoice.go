package magento

import (
	"context"
	"fmt"
	"strconv"
)

// Invoice is a sales invoice issued for an order.
type Invoice struct {
	Resource

	EntityID    int     `json:"entity_id"`
	IncrementID string  `json:"increment_id"`
	OrderID     int     `json:"order_id"`
	State       int     `json:"state"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	TotalQty    float64 `json:"total_qty"`
	Subtotal    float64 `json:"subtotal"`
	TaxAmount   float64 `json:"tax_amount"`
	GrandTotal  float64 `json:"grand_total"`
}

var invoiceHydration = HydrateOptions{
	Excluded:     []string{"items"},
	KeepExcluded: true,
}

// ParseInvoice builds an Invoice from a raw API object.
func ParseInvoice(session Session, data map[string]any) (*Invoice, error) {
	invoice := &Invoice{}
	if err := invoice.Attach(session, EndpointInvoices); err != nil {
		return nil, err
	}
	if err := invoice.Hydrate(invoice, data, invoiceHydration); err != nil {
		return nil, err
	}
	return invoice, nil
}

// Order fetches the order this invoice was issued for.
func (inv *Invoice) Order(ctx context.Context) (*Order, error) {
	result, err := NewQuery(inv.Session(), EndpointOrders, ParseOrder).
		ByID(ctx, strconv.Itoa(inv.OrderID))
	if err != nil {
		return nil, err
	}
	order, ok := result.First()
	if !ok {
		return nil, fmt.Errorf("order %d not found", inv.OrderID)
	}
	return order, nil
}

// Items returns the invoice's lines.
func (inv *Invoice) Items() ([]*InvoiceItem, error) {
	v, err := inv.cached("items", func() (any, error) {
		rawItems, _ := inv.Private("items")
		list, ok := rawItems.([]any)
		if !ok && rawItems != nil {
			return nil, fmt.Errorf("%w: invoice items is not a list", ErrInvalidResourceData)
		}

		items := make([]*InvoiceItem, 0, len(list))
		for _, entry := range list {
			data, ok := entry.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: invoice item is not an object", ErrInvalidResourceData)
			}
			item, err := ParseInvoiceItem(inv.Session(), data)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*InvoiceItem), nil
}

// InvoiceItem is one line of an invoice, referencing the order line it
// bills.
type InvoiceItem struct {
	Resource

	EntityID    int     `json:"entity_id"`
	ParentID    int     `json:"parent_id"`
	OrderItemID int     `json:"order_item_id"`
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Qty         float64 `json:"qty"`
	Price       float64 `json:"price"`
	RowTotal    float64 `json:"row_total"`
	TaxAmount   float64 `json:"tax_amount"`
}

// ParseInvoiceItem builds an InvoiceItem from a raw API object.
func ParseInvoiceItem(session Session, data map[string]any) (*InvoiceItem, error) {
	item := &InvoiceItem{}
	if err := item.Attach(session, EndpointInvoices); err != nil {
		return nil, err
	}
	if err := item.Hydrate(item, data, HydrateOptions{}); err != nil {
		return nil, err
	}
	return item, nil
}

// OrderItem fetches the order line this invoice line bills.
func (i *InvoiceItem) OrderItem(ctx context.Context) (*OrderItem, error) {
	result, err := NewQuery(i.Session(), EndpointOrderItems, ParseOrderItem).
		AddCriteria("item_id", strconv.Itoa(i.OrderItemID)).
		Execute(ctx)
	if err != nil {
		return nil, err
	}
	item, ok := result.First()
	if !ok {
		return nil, fmt.Errorf("order item %d not found", i.OrderItemID)
	}
	return item, nil
}

// Product fetches the catalog product this line bills.
func (i *InvoiceItem) Product(ctx context.Context) (*Product, error) {
	result, err := NewQuery(i.Session(), EndpointProducts, ParseProduct).
		ByID(ctx, EncodeSKU(i.SKU))
	if err != nil {
		return nil, err
	}
	product, ok := result.First()
	if !ok {
		return nil, fmt.Errorf("product %q not found", i.SKU)
	}
	return product, nil
}
