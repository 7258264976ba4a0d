// Package http implements the authenticated transport for the Magento
// REST API: scope-aware URL building, bearer-token injection, and the
// bounded 401 re-authentication retry.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	retryablehttp "github.com/hashicorp/go-retryablehttp"

	"github.com/commercekit/magento-go/internal/auth"
	"github.com/commercekit/magento-go/pkg/magento"
)

const defaultUserAgent = "magento-go/0.1 (+https://github.com/commercekit/magento-go)"

// BaseURL builds the REST base URL for a store domain. Production
// domains get the https scheme and a www prefix; local installations
// are plain http without the prefix.
func BaseURL(domain string, local bool) string {
	domain = strings.TrimSuffix(domain, "/")
	if local {
		return "http://" + domain + "/rest"
	}
	if strings.HasPrefix(domain, "www.") {
		return "https://" + domain + "/rest"
	}
	return "https://www." + domain + "/rest"
}

// Client is the authenticated HTTP transport. It is safe for
// single-goroutine use; callers sharing one across goroutines must
// ensure requests never overlap a re-authentication.
type Client struct {
	baseURL    string
	scope      string
	userAgent  string
	tokens     auth.TokenManager
	httpClient *http.Client
	logger     magento.Logger
	debug      bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger.
func WithLogger(logger magento.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) { c.debug = debug }
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithDefaultScope sets the store-view code applied to requests that
// do not force a scope.
func WithDefaultScope(code string) Option {
	return func(c *Client) { c.scope = code }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithRetryConfig enables transient-failure retries (5xx, connection
// errors) with the given bounds.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		retryClient := retryablehttp.NewClient()
		retryClient.RetryMax = retryMax
		if waitMin > 0 {
			retryClient.RetryWaitMin = waitMin
		}
		if waitMax > 0 {
			retryClient.RetryWaitMax = waitMax
		}
		retryClient.Logger = nil
		c.httpClient = retryClient.StandardClient()
	}
}

// NewClient creates a transport for the given REST base URL.
func NewClient(baseURL string, tokens auth.TokenManager, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  defaultUserAgent,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     magento.NoopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the current bearer token, obtaining one if none is
// held.
func (c *Client) Token(ctx context.Context) (string, error) {
	return c.tokens.Token(ctx)
}

// DefaultScope returns the session default store-view code.
func (c *Client) DefaultScope() string {
	return c.scope
}

// Logger returns the session logger.
func (c *Client) Logger() magento.Logger {
	return c.logger
}

// URLFor builds the absolute URL of an endpoint at the given scope.
// Absolute URLs pass through untouched.
func (c *Client) URLFor(endpoint string, scope magento.Scope) string {
	if strings.HasPrefix(endpoint, "http") {
		return endpoint
	}
	endpoint = strings.TrimPrefix(endpoint, "/")
	resolved := scope.Resolve(c.scope)
	if resolved == "" {
		return c.baseURL + "/V1/" + endpoint
	}
	return c.baseURL + "/" + resolved + "/V1/" + endpoint
}

// Authenticate obtains a fresh token and validates it with a request
// the API only answers for authenticated callers. A token that is
// issued but fails validation is an authentication error.
func (c *Client) Authenticate(ctx context.Context) error {
	c.logger.Debug("authenticating", map[string]interface{}{"base_url": c.baseURL})

	if _, err := c.tokens.Refresh(ctx); err != nil {
		return err
	}

	resp, err := c.do(ctx, http.MethodGet, "store/websites", nil, nil, magento.NoScope(), false)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return magento.NewAuthenticationError("token failed validation", resp.Body)
	}

	c.logger.Info("authenticated", map[string]interface{}{"base_url": c.baseURL})
	return nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values, scope magento.Scope) (*magento.Response, error) {
	return c.do(ctx, http.MethodGet, endpoint, query, nil, scope, true)
}

// Post issues a POST request. A nil body is rejected locally.
func (c *Client) Post(ctx context.Context, endpoint string, body any, scope magento.Scope) (*magento.Response, error) {
	if body == nil {
		return nil, magento.ErrMissingRequestBody
	}
	return c.do(ctx, http.MethodPost, endpoint, nil, body, scope, true)
}

// Put issues a PUT request. A nil body is rejected locally.
func (c *Client) Put(ctx context.Context, endpoint string, body any, scope magento.Scope) (*magento.Response, error) {
	if body == nil {
		return nil, magento.ErrMissingRequestBody
	}
	return c.do(ctx, http.MethodPut, endpoint, nil, body, scope, true)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string, scope magento.Scope) (*magento.Response, error) {
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil, scope, true)
}

// do executes one request. On a 401 it re-authenticates and re-issues
// the request exactly once; the retried request cannot trigger another
// round. Other non-2xx responses are logged and handed back to the
// caller for interpretation.
func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, body any, scope magento.Scope, allowReauth bool) (*magento.Response, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	rawURL := c.URLFor(endpoint, scope)
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.debug {
		c.logger.Debug("request", map[string]interface{}{
			"method":     method,
			"url":        rawURL,
			"request_id": requestID,
		})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized && allowReauth {
		c.logger.Warn("token rejected, re-authenticating", map[string]interface{}{
			"method":     method,
			"url":        rawURL,
			"request_id": requestID,
		})
		if err := c.Authenticate(ctx); err != nil {
			return nil, err
		}
		return c.do(ctx, method, endpoint, query, body, scope, false)
	}

	response := &magento.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}

	if !response.OK() {
		c.logger.Error("request failed", map[string]interface{}{
			"method":     method,
			"url":        rawURL,
			"status":     resp.StatusCode,
			"request_id": requestID,
			"error":      magento.ParseAPIError(respBody).Error(),
		})
	} else if c.debug {
		c.logger.Debug("response", map[string]interface{}{
			"method":     method,
			"url":        rawURL,
			"status":     resp.StatusCode,
			"request_id": requestID,
		})
	}

	return response, nil
}
