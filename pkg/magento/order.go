package magento

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Endpoints of the sales resources.
const (
	EndpointOrders     = "orders"
	EndpointOrderItems = "orders/items"
	EndpointInvoices   = "invoices"
)

// Address is a billing or shipping address of an order.
type Address struct {
	Firstname  string   `json:"firstname"`
	Lastname   string   `json:"lastname"`
	Company    string   `json:"company"`
	Email      string   `json:"email"`
	Street     []string `json:"street"`
	City       string   `json:"city"`
	Region     string   `json:"region"`
	RegionCode string   `json:"region_code"`
	Postcode   string   `json:"postcode"`
	CountryID  string   `json:"country_id"`
	Telephone  string   `json:"telephone"`
}

// Order is a sales order. Line items, payment data and addresses are
// held back from plain hydration and exposed through the accessors
// below.
type Order struct {
	Resource

	EntityID          int     `json:"entity_id"`
	IncrementID       string  `json:"increment_id"`
	State             string  `json:"state"`
	Status            string  `json:"status"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
	StoreID           int     `json:"store_id"`
	CustomerID        int     `json:"customer_id"`
	CustomerEmail     string  `json:"customer_email"`
	CustomerFirstname string  `json:"customer_firstname"`
	CustomerLastname  string  `json:"customer_lastname"`
	CustomerIsGuest   int     `json:"customer_is_guest"`
	GrandTotal        float64 `json:"grand_total"`
	Subtotal          float64 `json:"subtotal"`
	SubtotalInclTax   float64 `json:"subtotal_incl_tax"`
	TaxAmount         float64 `json:"tax_amount"`
	ShippingAmount    float64 `json:"shipping_amount"`
	DiscountAmount    float64 `json:"discount_amount"`
	TotalPaid         float64 `json:"total_paid"`
	TotalRefunded     float64 `json:"total_refunded"`
	TotalQtyOrdered   float64 `json:"total_qty_ordered"`
}

var orderHydration = HydrateOptions{
	Excluded:     []string{"items", "payment", "billing_address", "extension_attributes"},
	KeepExcluded: true,
}

// ParseOrder builds an Order from a raw API object.
func ParseOrder(session Session, data map[string]any) (*Order, error) {
	order := &Order{}
	if err := order.Attach(session, EndpointOrders); err != nil {
		return nil, err
	}
	if err := order.Hydrate(order, data, orderHydration); err != nil {
		return nil, err
	}
	return order, nil
}

// Items returns the order's top-level line items. Child items of
// configurable products carry a parent_item reference and are folded
// into their parent line, so they are skipped here.
func (o *Order) Items() ([]*OrderItem, error) {
	v, err := o.cached("items", func() (any, error) {
		rawItems, _ := o.Private("items")
		list, ok := rawItems.([]any)
		if !ok && rawItems != nil {
			return nil, fmt.Errorf("%w: order items is not a list", ErrInvalidResourceData)
		}

		items := make([]*OrderItem, 0, len(list))
		for _, entry := range list {
			data, ok := entry.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: order item is not an object", ErrInvalidResourceData)
			}
			if data["parent_item"] != nil {
				continue
			}
			item, err := ParseOrderItem(o.Session(), data)
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
	return v.([]*OrderItem), nil
}

// Payment returns the order payment data with the additional
// information list unpacked into the map when it has the {key, value}
// shape.
func (o *Order) Payment() map[string]any {
	raw, _ := o.Private("payment")
	payment, ok := raw.(map[string]any)
	if !ok {
		return map[string]any{}
	}

	out := make(map[string]any, len(payment))
	for k, v := range payment {
		out[k] = v
	}
	if list, ok := out["additional_information"].([]any); ok {
		if pairs, ok := keyValueList(list); ok {
			out["additional_information"] = UnpackKeyValues(pairs, "key")
		}
	}
	return out
}

func keyValueList(list []any) ([]map[string]any, bool) {
	pairs := make([]map[string]any, 0, len(list))
	for _, entry := range list {
		pair, ok := entry.(map[string]any)
		if !ok {
			return nil, false
		}
		if _, ok := pair["key"].(string); !ok {
			return nil, false
		}
		pairs = append(pairs, pair)
	}
	return pairs, len(pairs) > 0
}

// BillTo returns the billing address.
func (o *Order) BillTo() (*Address, error) {
	raw, ok := o.Private("billing_address")
	if !ok {
		return nil, fmt.Errorf("%w: order has no billing address", ErrInvalidResourceData)
	}
	return decodeAddress(raw)
}

// ShipTo returns the shipping address from the first shipping
// assignment.
func (o *Order) ShipTo() (*Address, error) {
	raw, _ := o.Private("extension_attributes")
	ext, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: order has no shipping assignment", ErrInvalidResourceData)
	}
	assignments, ok := ext["shipping_assignments"].([]any)
	if !ok || len(assignments) == 0 {
		return nil, fmt.Errorf("%w: order has no shipping assignment", ErrInvalidResourceData)
	}
	first, ok := assignments[0].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: shipping assignment is not an object", ErrInvalidResourceData)
	}
	shipping, ok := first["shipping"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: shipping assignment has no shipping block", ErrInvalidResourceData)
	}
	return decodeAddress(shipping["address"])
}

func decodeAddress(raw any) (*Address, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding address: %w", err)
	}
	var addr Address
	if err := json.Unmarshal(encoded, &addr); err != nil {
		return nil, fmt.Errorf("%w: address is not an object", ErrInvalidResourceData)
	}
	return &addr, nil
}

// sumItems folds a per-line value across the order's top-level lines.
func (o *Order) sumItems(value func(*OrderItem) float64) (float64, error) {
	items, err := o.Items()
	if err != nil {
		return 0, err
	}
	var total float64
	for _, item := range items {
		total += value(item)
	}
	return total, nil
}

// ItemRefunds returns the total amount refunded across line items, net
// of refunded discounts.
func (o *Order) ItemRefunds() (float64, error) {
	return o.sumItems((*OrderItem).NetRefund)
}

// NetTax returns the order tax net of per-item tax refunds.
func (o *Order) NetTax() (float64, error) {
	refunded, err := o.sumItems(func(i *OrderItem) float64 { return i.TaxRefunded })
	if err != nil {
		return 0, err
	}
	return o.TaxAmount - refunded, nil
}

// TotalQtyInvoiced returns the invoiced quantity across line items.
func (o *Order) TotalQtyInvoiced() (float64, error) {
	return o.sumItems(func(i *OrderItem) float64 { return i.QtyInvoiced })
}

// TotalQtyShipped returns the shipped quantity across line items.
func (o *Order) TotalQtyShipped() (float64, error) {
	return o.sumItems(func(i *OrderItem) float64 { return i.QtyShipped })
}

// TotalQtyRefunded returns the refunded quantity across line items.
func (o *Order) TotalQtyRefunded() (float64, error) {
	return o.sumItems(func(i *OrderItem) float64 { return i.QtyRefunded })
}

// TotalQtyCanceled returns the canceled quantity across line items.
func (o *Order) TotalQtyCanceled() (float64, error) {
	return o.sumItems(func(i *OrderItem) float64 { return i.QtyCanceled })
}

// TotalQtyOutstanding returns the quantity still awaiting shipment
// across line items.
func (o *Order) TotalQtyOutstanding() (float64, error) {
	return o.sumItems((*OrderItem).QtyOutstanding)
}

// NetQtyOrdered returns the standing ordered quantity across line
// items, net of cancellations and refunds.
func (o *Order) NetQtyOrdered() (float64, error) {
	return o.sumItems((*OrderItem).NetQtyOrdered)
}

// NetTotal returns the grand total net of everything refunded.
func (o *Order) NetTotal() float64 {
	return o.GrandTotal - o.TotalRefunded
}

// Invoices returns the invoices issued for this order.
func (o *Order) Invoices(ctx context.Context) ([]*Invoice, error) {
	result, err := NewQuery(o.Session(), EndpointInvoices, ParseInvoice).
		AddCriteria("order_id", strconv.Itoa(o.EntityID)).
		Execute(ctx)
	if err != nil {
		return nil, err
	}
	return result.All(), nil
}

// OrderItem is one line of a sales order.
type OrderItem struct {
	Resource

	ItemID           int     `json:"item_id"`
	OrderID          int     `json:"order_id"`
	ProductID        int     `json:"product_id"`
	SKU              string  `json:"sku"`
	Name             string  `json:"name"`
	ProductType      string  `json:"product_type"`
	QtyOrdered       float64 `json:"qty_ordered"`
	QtyCanceled      float64 `json:"qty_canceled"`
	QtyInvoiced      float64 `json:"qty_invoiced"`
	QtyShipped       float64 `json:"qty_shipped"`
	QtyRefunded      float64 `json:"qty_refunded"`
	Price            float64 `json:"price"`
	RowTotal         float64 `json:"row_total"`
	TaxAmount        float64 `json:"tax_amount"`
	TaxRefunded      float64 `json:"tax_refunded"`
	AmountRefunded   float64 `json:"amount_refunded"`
	DiscountAmount   float64 `json:"discount_amount"`
	DiscountRefunded float64 `json:"discount_refunded"`
}

var orderItemHydration = HydrateOptions{
	Excluded:      []string{"parent_item"},
	KeepExcluded:  true,
	IdentifierKey: "item_id",
}

// ParseOrderItem builds an OrderItem from a raw API object. When the
// raw item is a child of a configurable product it is resolved to its
// parent line, which carries the real quantities and totals.
func ParseOrderItem(session Session, data map[string]any) (*OrderItem, error) {
	if parent, ok := data["parent_item"].(map[string]any); ok {
		data = parent
	}
	item := &OrderItem{}
	if err := item.Attach(session, EndpointOrderItems); err != nil {
		return nil, err
	}
	if err := item.Hydrate(item, data, orderItemHydration); err != nil {
		return nil, err
	}
	return item, nil
}

// NetQtyOrdered returns the quantity still standing after
// cancellations and refunds.
func (i *OrderItem) NetQtyOrdered() float64 {
	return i.QtyOrdered - i.QtyCanceled - i.QtyRefunded
}

// QtyOutstanding returns the standing ordered quantity not yet
// shipped.
func (i *OrderItem) QtyOutstanding() float64 {
	return i.NetQtyOrdered() - i.QtyShipped
}

// NetTax returns the line tax net of refunded tax.
func (i *OrderItem) NetTax() float64 {
	return i.TaxAmount - i.TaxRefunded
}

// NetRefund returns the amount effectively refunded for the line:
// refunded amount plus refunded tax, minus refunded discount.
func (i *OrderItem) NetRefund() float64 {
	return i.AmountRefunded + i.TaxRefunded - i.DiscountRefunded
}

// NetTotal returns the line total including tax, net of discount and
// refunds.
func (i *OrderItem) NetTotal() float64 {
	return i.RowTotal + i.TaxAmount - i.DiscountAmount - i.NetRefund()
}

// Order fetches the order this line belongs to.
func (i *OrderItem) Order(ctx context.Context) (*Order, error) {
	result, err := NewQuery(i.Session(), EndpointOrders, ParseOrder).
		ByID(ctx, strconv.Itoa(i.OrderID))
	if err != nil {
		return nil, err
	}
	order, ok := result.First()
	if !ok {
		return nil, fmt.Errorf("order %d not found", i.OrderID)
	}
	return order, nil
}

// Product fetches the catalog product behind this line.
func (i *OrderItem) Product(ctx context.Context) (*Product, error) {
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
