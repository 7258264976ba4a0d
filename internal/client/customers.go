package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/commercekit/magento-go/pkg/magento"
)

// CustomersClient implements magento.CustomersService.
type CustomersClient struct {
	session magento.Session
}

var _ magento.CustomersService = (*CustomersClient)(nil)

// Search starts a blank customer search.
func (c *CustomersClient) Search() *magento.Query[*magento.Customer] {
	return magento.NewQuery(c.session, magento.EndpointCustomerSearch, magento.ParseCustomer).
		IdentifyBy("id")
}

// ByID fetches one customer by id.
func (c *CustomersClient) ByID(ctx context.Context, id int) (*magento.Customer, error) {
	result, err := magento.NewQuery(c.session, magento.EndpointCustomers, magento.ParseCustomer).
		ByID(ctx, strconv.Itoa(id))
	if err != nil {
		return nil, err
	}
	customer, ok := result.First()
	if !ok {
		return nil, fmt.Errorf("customer %d not found", id)
	}
	return customer, nil
}

// ByEmail fetches one customer by email address.
func (c *CustomersClient) ByEmail(ctx context.Context, email string) (*magento.Customer, error) {
	result, err := c.Search().AddCriteria("email", email).Execute(ctx)
	if err != nil {
		return nil, err
	}
	customer, ok := result.First()
	if !ok {
		return nil, fmt.Errorf("customer %q not found", email)
	}
	return customer, nil
}
