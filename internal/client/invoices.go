package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/commercekit/magento-go/pkg/magento"
)

// InvoicesClient implements magento.InvoicesService.
type InvoicesClient struct {
	session magento.Session
}

var _ magento.InvoicesService = (*InvoicesClient)(nil)

// Search starts a blank invoice search.
func (i *InvoicesClient) Search() *magento.Query[*magento.Invoice] {
	return magento.NewQuery(i.session, magento.EndpointInvoices, magento.ParseInvoice)
}

// ByNumber fetches one invoice by increment id.
func (i *InvoicesClient) ByNumber(ctx context.Context, incrementID string) (*magento.Invoice, error) {
	result, err := i.Search().AddCriteria("increment_id", incrementID).Execute(ctx)
	if err != nil {
		return nil, err
	}
	invoice, ok := result.First()
	if !ok {
		return nil, fmt.Errorf("invoice %q not found", incrementID)
	}
	return invoice, nil
}

// ByOrder fetches the invoice issued for an order.
func (i *InvoicesClient) ByOrder(ctx context.Context, order *magento.Order) (*magento.Invoice, error) {
	result, err := i.Search().AddCriteria("order_id", strconv.Itoa(order.EntityID)).Execute(ctx)
	if err != nil {
		return nil, err
	}
	invoice, ok := result.First()
	if !ok {
		return nil, fmt.Errorf("no invoice for order %q", order.IncrementID)
	}
	return invoice, nil
}

// ByOrderNumber fetches the invoice issued for the order with the
// given increment id.
func (i *InvoicesClient) ByOrderNumber(ctx context.Context, incrementID string) (*magento.Invoice, error) {
	orders := &OrdersClient{session: i.session}
	order, err := orders.ByNumber(ctx, incrementID)
	if err != nil {
		return nil, err
	}
	return i.ByOrder(ctx, order)
}
