// Package client implements the typed Magento API client over the
// authenticated transport.
package client

import (
	"context"
	"net/url"

	"github.com/commercekit/magento-go/internal/auth"
	internalhttp "github.com/commercekit/magento-go/internal/http"
	"github.com/commercekit/magento-go/pkg/magento"
)

// Client is the concrete magento.Client.
type Client struct {
	transport *internalhttp.Client
	stores    *StoresClient
}

var _ magento.Client = (*Client)(nil)

// New builds a client from a configuration and, unless deferred,
// authenticates it immediately.
func New(ctx context.Context, cfg *magento.Config) (*Client, error) {
	if cfg == nil || cfg.Domain == "" {
		return nil, magento.ErrDomainRequired
	}
	if cfg.Token == "" && (cfg.Username == "" || cfg.Password == "") {
		return nil, magento.ErrCredentialsRequired
	}

	baseURL := internalhttp.BaseURL(cfg.Domain, cfg.Local)
	tokens := auth.NewAdminTokenManager(baseURL, cfg.Username, cfg.Password, nil)
	if cfg.Token != "" {
		tokens.Set(cfg.Token)
	}

	opts := []internalhttp.Option{
		internalhttp.WithDefaultScope(cfg.Scope),
		internalhttp.WithDebug(cfg.Debug),
		internalhttp.WithLogger(cfg.Logger),
		internalhttp.WithUserAgent(cfg.UserAgent),
	}
	if cfg.RetryMax > 0 {
		opts = append(opts, internalhttp.WithRetryConfig(cfg.RetryMax, cfg.RetryWaitMin, cfg.RetryWaitMax))
	}

	c := &Client{transport: internalhttp.NewClient(baseURL, tokens, opts...)}
	c.stores = &StoresClient{session: c}

	// A pre-issued token is validated lazily, on first use.
	if cfg.Token == "" && !cfg.SkipLoginOnCreate {
		if err := c.transport.Authenticate(ctx); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Authenticate obtains and validates a fresh access token.
func (c *Client) Authenticate(ctx context.Context) error {
	return c.transport.Authenticate(ctx)
}

// AccessToken returns the current bearer token, obtaining one if none
// is held.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	return c.transport.Token(ctx)
}

// Get implements magento.Doer.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values, scope magento.Scope) (*magento.Response, error) {
	return c.transport.Get(ctx, endpoint, query, scope)
}

// Post implements magento.Doer.
func (c *Client) Post(ctx context.Context, endpoint string, body any, scope magento.Scope) (*magento.Response, error) {
	return c.transport.Post(ctx, endpoint, body, scope)
}

// Put implements magento.Doer.
func (c *Client) Put(ctx context.Context, endpoint string, body any, scope magento.Scope) (*magento.Response, error) {
	return c.transport.Put(ctx, endpoint, body, scope)
}

// Delete implements magento.Doer.
func (c *Client) Delete(ctx context.Context, endpoint string, scope magento.Scope) (*magento.Response, error) {
	return c.transport.Delete(ctx, endpoint, scope)
}

// DefaultScope returns the session default store-view code.
func (c *Client) DefaultScope() string {
	return c.transport.DefaultScope()
}

// Logger returns the session logger.
func (c *Client) Logger() magento.Logger {
	return c.transport.Logger()
}

// Store implements magento.Session.
func (c *Client) Store() magento.StoreInfo {
	return c.stores
}

// Orders returns the orders sub-client.
func (c *Client) Orders() magento.OrdersService {
	return &OrdersClient{session: c}
}

// OrderItems returns the order-items sub-client.
func (c *Client) OrderItems() magento.OrderItemsService {
	return &OrderItemsClient{session: c}
}

// Products returns the products sub-client.
func (c *Client) Products() magento.ProductsService {
	return &ProductsClient{session: c}
}

// Categories returns the categories sub-client.
func (c *Client) Categories() magento.CategoriesService {
	return &CategoriesClient{session: c}
}

// Invoices returns the invoices sub-client.
func (c *Client) Invoices() magento.InvoicesService {
	return &InvoicesClient{session: c}
}

// Customers returns the customers sub-client.
func (c *Client) Customers() magento.CustomersService {
	return &CustomersClient{session: c}
}

// ProductAttributes returns the product-attributes sub-client.
func (c *Client) ProductAttributes() magento.AttributesService {
	return &AttributesClient{session: c}
}

// Stores returns the store-topology sub-client.
func (c *Client) Stores() magento.StoresService {
	return c.stores
}
