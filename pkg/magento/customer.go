package magento

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Customer endpoints. Searches go through customers/search; direct
// fetches and refreshes use customers/{id}.
const (
	EndpointCustomers      = "customers"
	EndpointCustomerSearch = "customers/search"
)

// CustomerAddress is one address of a customer's address book.
type CustomerAddress struct {
	Address

	ID              int  `json:"id"`
	CustomerID      int  `json:"customer_id"`
	DefaultBilling  bool `json:"default_billing"`
	DefaultShipping bool `json:"default_shipping"`
}

// Customer is a registered customer account.
type Customer struct {
	Resource

	ID              int    `json:"id"`
	GroupID         int    `json:"group_id"`
	Email           string `json:"email"`
	Firstname       string `json:"firstname"`
	Lastname        string `json:"lastname"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
	WebsiteID       int    `json:"website_id"`
	StoreID         int    `json:"store_id"`
	DefaultBilling  string `json:"default_billing"`
	DefaultShipping string `json:"default_shipping"`
}

var customerHydration = HydrateOptions{
	Excluded:      []string{"addresses"},
	KeepExcluded:  true,
	IdentifierKey: "id",
}

// ParseCustomer builds a Customer from a raw API object.
func ParseCustomer(session Session, data map[string]any) (*Customer, error) {
	customer := &Customer{}
	if err := customer.Attach(session, EndpointCustomers); err != nil {
		return nil, err
	}
	if err := customer.Hydrate(customer, data, customerHydration); err != nil {
		return nil, err
	}
	return customer, nil
}

// Name returns the customer's full name.
func (c *Customer) Name() string {
	return strings.TrimSpace(c.Firstname + " " + c.Lastname)
}

// Addresses returns the customer's address book.
func (c *Customer) Addresses() ([]*CustomerAddress, error) {
	raw, _ := c.Private("addresses")
	if raw == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding addresses: %w", err)
	}
	var addrs []*CustomerAddress
	if err := json.Unmarshal(encoded, &addrs); err != nil {
		return nil, fmt.Errorf("%w: addresses is not a list", ErrInvalidResourceData)
	}
	return addrs, nil
}

// BillingAddress returns the default billing address, if any.
func (c *Customer) BillingAddress() (*CustomerAddress, error) {
	return c.defaultAddress(c.DefaultBilling, func(a *CustomerAddress) bool { return a.DefaultBilling })
}

// ShippingAddress returns the default shipping address, if any.
func (c *Customer) ShippingAddress() (*CustomerAddress, error) {
	return c.defaultAddress(c.DefaultShipping, func(a *CustomerAddress) bool { return a.DefaultShipping })
}

func (c *Customer) defaultAddress(id string, isDefault func(*CustomerAddress) bool) (*CustomerAddress, error) {
	addrs, err := c.Addresses()
	if err != nil {
		return nil, err
	}
	for _, addr := range addrs {
		if isDefault(addr) || (id != "" && strconv.Itoa(addr.ID) == id) {
			return addr, nil
		}
	}
	return nil, nil
}

// Orders returns all orders placed by this customer.
func (c *Customer) Orders(ctx context.Context) ([]*Order, error) {
	result, err := NewQuery(c.Session(), EndpointOrders, ParseOrder).
		AddCriteria("customer_id", strconv.Itoa(c.ID)).
		Execute(ctx)
	if err != nil {
		return nil, err
	}
	return result.All(), nil
}

// OrderedProducts returns the distinct catalog products this customer
// has ever ordered.
func (c *Customer) OrderedProducts(ctx context.Context) ([]*Product, error) {
	orders, err := c.Orders(ctx)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var skus []string
	for _, order := range orders {
		items, err := order.Items()
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			if !seen[item.SKU] {
				seen[item.SKU] = true
				skus = append(skus, item.SKU)
			}
		}
	}
	if len(skus) == 0 {
		return nil, nil
	}

	result, err := NewQuery(c.Session(), EndpointProducts, ParseProduct).
		IdentifyBy("sku").
		ByList(ctx, "sku", skus...)
	if err != nil {
		return nil, err
	}
	return result.All(), nil
}
