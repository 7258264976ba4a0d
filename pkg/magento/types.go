package magento

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Scope selects which store-view variant of an endpoint URL a request
// targets. The zero value means "use the session default scope". Use
// NoScope to force an unscoped URL even when a session default is set,
// and StoreScope to force a specific store view.
type Scope struct {
	code  string
	force bool
}

// DefaultScope returns the zero Scope: the session default is used.
func DefaultScope() Scope {
	return Scope{}
}

// NoScope forces an unscoped URL regardless of the session default.
func NoScope() Scope {
	return Scope{force: true}
}

// StoreScope forces the given store-view code. An empty code is the
// same as NoScope.
func StoreScope(code string) Scope {
	return Scope{code: code, force: true}
}

// AllScope targets the admin-wide "all" scope.
func AllScope() Scope {
	return StoreScope("all")
}

// IsDefault reports whether the session default scope applies.
func (s Scope) IsDefault() bool {
	return !s.force
}

// Code returns the forced store-view code, if any.
func (s Scope) Code() string {
	return s.code
}

// Resolve returns the effective store-view code for a session whose
// default scope is sessionScope. An empty result means unscoped.
func (s Scope) Resolve(sessionScope string) string {
	if s.force {
		return s.code
	}
	return sessionScope
}

func (s Scope) String() string {
	if !s.force {
		return "default"
	}
	if s.code == "" {
		return "none"
	}
	return s.code
}

// Config holds everything needed to build a client session. It is a
// flat structure so a session can be reconstructed from a stored
// key-value map.
type Config struct {
	// Domain is the store domain, e.g. "mystore.com". Required.
	Domain string

	// Username and Password are the admin credentials used to obtain
	// an access token. Required unless a Token is supplied.
	Username string
	Password string

	// Token is an optional pre-issued admin access token. When set,
	// authentication is deferred until the API rejects it.
	Token string

	// Scope is the default store-view code applied to endpoint URLs.
	// Empty means unscoped requests.
	Scope string

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Local switches the base URL to http://<domain>/rest for local
	// installations (no www prefix, no TLS).
	Local bool

	// SkipLoginOnCreate defers authentication instead of logging in
	// when the client is constructed.
	SkipLoginOnCreate bool

	// Logger is the structured logger used by the transport and
	// resource layers. Defaults to a no-op logger.
	Logger Logger

	// Debug enables request/response logging through Logger.
	Debug bool

	// RetryMax enables transient-failure retries (5xx, connection
	// errors) in the transport when greater than zero.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// NoopLogger discards all log output.
type NoopLogger struct{}

func (NoopLogger) Debug(string, map[string]interface{}) {}
func (NoopLogger) Info(string, map[string]interface{})  {}
func (NoopLogger) Warn(string, map[string]interface{})  {}
func (NoopLogger) Error(string, map[string]interface{}) {}

// Response is the transport result handed back to resource code. Any
// completed HTTP exchange produces a Response; interpreting non-2xx
// statuses is the caller's responsibility.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON unmarshals the response body into v.
func (r *Response) JSON(v any) error {
	err := json.Unmarshal(r.Body, v)
	if err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

// Doer is the authenticated transport surface used by queries and
// resources. Endpoints are relative ("orders", "products/MJ01") and
// are combined with the session base URL and scope by the transport.
type Doer interface {
	Get(ctx context.Context, endpoint string, query url.Values, scope Scope) (*Response, error)
	Post(ctx context.Context, endpoint string, body any, scope Scope) (*Response, error)
	Put(ctx context.Context, endpoint string, body any, scope Scope) (*Response, error)
	Delete(ctx context.Context, endpoint string, scope Scope) (*Response, error)

	// DefaultScope returns the session default store-view code.
	DefaultScope() string

	// Logger returns the session logger.
	Logger() Logger
}

// StoreInfo answers the store-topology questions scoped updates need:
// whether the shop runs a single store view, and which of a set of
// attributes are website-scoped.
type StoreInfo interface {
	IsSingleStore(ctx context.Context) (bool, error)
	FilterWebsiteAttributes(ctx context.Context, attrs map[string]any) (map[string]any, error)
}

// Session is the full surface models are attached to: the transport
// plus store-topology lookups.
type Session interface {
	Doer
	Store() StoreInfo
}
