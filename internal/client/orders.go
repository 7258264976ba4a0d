package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/commercekit/magento-go/pkg/magento"
)

// OrdersClient implements magento.OrdersService.
type OrdersClient struct {
	session magento.Session
}

var _ magento.OrdersService = (*OrdersClient)(nil)

// Search starts a blank order search.
func (o *OrdersClient) Search() *magento.Query[*magento.Order] {
	return magento.NewQuery(o.session, magento.EndpointOrders, magento.ParseOrder)
}

// ByID fetches one order by entity id.
func (o *OrdersClient) ByID(ctx context.Context, id int) (*magento.Order, error) {
	result, err := o.Search().ByID(ctx, strconv.Itoa(id))
	if err != nil {
		return nil, err
	}
	order, ok := result.First()
	if !ok {
		return nil, fmt.Errorf("order %d not found", id)
	}
	return order, nil
}

// ByNumber fetches one order by increment id.
func (o *OrdersClient) ByNumber(ctx context.Context, incrementID string) (*magento.Order, error) {
	result, err := o.Search().AddCriteria("increment_id", incrementID).Execute(ctx)
	if err != nil {
		return nil, err
	}
	order, ok := result.First()
	if !ok {
		return nil, fmt.Errorf("order %q not found", incrementID)
	}
	return order, nil
}

// ByCustomerID returns every order placed by a customer.
func (o *OrdersClient) ByCustomerID(ctx context.Context, customerID int) ([]*magento.Order, error) {
	result, err := o.Search().AddCriteria("customer_id", strconv.Itoa(customerID)).Execute(ctx)
	if err != nil {
		return nil, err
	}
	return result.All(), nil
}

// OrderItemsClient implements magento.OrderItemsService. Matches that
// are child lines of configurable products resolve to their parent
// line during parsing.
type OrderItemsClient struct {
	session magento.Session
}

var _ magento.OrderItemsService = (*OrderItemsClient)(nil)

// Search starts a blank order-item search.
func (o *OrderItemsClient) Search() *magento.Query[*magento.OrderItem] {
	return magento.NewQuery(o.session, magento.EndpointOrderItems, magento.ParseOrderItem).
		IdentifyBy("item_id")
}

// BySKU returns every order line for one SKU.
func (o *OrderItemsClient) BySKU(ctx context.Context, sku string) ([]*magento.OrderItem, error) {
	result, err := o.Search().AddCriteria("sku", sku).Execute(ctx)
	if err != nil {
		return nil, err
	}
	return result.All(), nil
}

// ByProductID returns every order line for one product.
func (o *OrderItemsClient) ByProductID(ctx context.Context, productID int) ([]*magento.OrderItem, error) {
	result, err := o.Search().AddCriteria("product_id", strconv.Itoa(productID)).Execute(ctx)
	if err != nil {
		return nil, err
	}
	return result.All(), nil
}

// ByCategory returns every order line for products assigned to a
// category.
func (o *OrderItemsClient) ByCategory(ctx context.Context, category *magento.Category) ([]*magento.OrderItem, error) {
	skus, err := category.SKUs(ctx)
	if err != nil {
		return nil, err
	}
	if len(skus) == 0 {
		return nil, nil
	}
	result, err := o.Search().ByList(ctx, "sku", skus...)
	if err != nil {
		return nil, err
	}
	return result.All(), nil
}
