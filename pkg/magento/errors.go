package magento

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Static errors that can be wrapped with context.
var (
	ErrDomainRequired       = errors.New("domain is required")
	ErrCredentialsRequired  = errors.New("username and password (or a token) are required")
	ErrMissingRequestBody   = errors.New("request body is required for POST and PUT")
	ErrUnknownResponseShape = errors.New("unrecognized API response shape")
	ErrNilSession           = errors.New("session must not be nil")
	ErrEndpointRequired     = errors.New("endpoint is required")
	ErrInvalidResourceData  = errors.New("resource data must be a JSON object")
	ErrNotAttached          = errors.New("resource is not attached to a session")
	ErrStoreInfoRequired    = errors.New("store info is required for scoped updates")
	ErrInvalidStatus        = errors.New("invalid product status")
	ErrInvalidMediaType     = errors.New("invalid media type")
	ErrPriceNotReduced      = errors.New("special price must be less than the current price")
)

// ErrorParameters holds the placeholder values of an API error
// message. The API sends either a map of named parameters or a
// positional list, so both forms are accepted.
type ErrorParameters struct {
	Named  map[string]string
	Listed []string
}

// UnmarshalJSON accepts both the object and array forms.
func (p *ErrorParameters) UnmarshalJSON(data []byte) error {
	var named map[string]any
	if err := json.Unmarshal(data, &named); err == nil {
		p.Named = make(map[string]string, len(named))
		for k, v := range named {
			p.Named[k] = stringify(v)
		}
		return nil
	}

	var listed []any
	if err := json.Unmarshal(data, &listed); err != nil {
		return fmt.Errorf("decoding error parameters: %w", err)
	}
	p.Listed = make([]string, len(listed))
	for i, v := range listed {
		p.Listed[i] = stringify(v)
	}
	return nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// substitute replaces %name placeholders from named parameters and
// %1..%n placeholders from positional ones.
func (p ErrorParameters) substitute(msg string) string {
	for name, value := range p.Named {
		msg = strings.ReplaceAll(msg, "%"+name, value)
	}
	// Positional parameters start from %1.
	for i, value := range p.Listed {
		msg = strings.ReplaceAll(msg, "%"+strconv.Itoa(i+1), value)
	}
	return msg
}

// APIErrorDetail is one entry of the per-field errors list in an API
// error response.
type APIErrorDetail struct {
	Message    string          `json:"message"`
	Parameters ErrorParameters `json:"parameters"`
}

// APIError is a parsed Magento error body. Error() assembles a
// human-readable message with all placeholders substituted.
type APIError struct {
	Message    string           `json:"message"`
	Parameters ErrorParameters  `json:"parameters"`
	Errors     []APIErrorDetail `json:"errors"`
	Trace      string           `json:"trace,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	var b strings.Builder
	if e.Message != "" {
		b.WriteString(e.Parameters.substitute(e.Message))
	}
	for _, detail := range e.Errors {
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(detail.Parameters.substitute(detail.Message))
	}
	if b.Len() == 0 {
		return "unknown API error"
	}
	return b.String()
}

// ParseAPIError parses an error body returned by the API. Bodies that
// are not valid error objects are preserved verbatim in the message so
// nothing is lost.
func ParseAPIError(body []byte) *APIError {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Message == "" && len(apiErr.Errors) == 0 {
		return &APIError{Message: strings.TrimSpace(string(body))}
	}
	return &apiErr
}

// AuthenticationError reports a credential rejection or a post-auth
// validation failure. It is fatal to the call that triggered it.
type AuthenticationError struct {
	Message  string
	Response *APIError
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "failed to authenticate credentials"
	}
	if e.Response != nil {
		return msg + ": " + e.Response.Error()
	}
	return msg
}

// Unwrap exposes the parsed server error for errors.As chains.
func (e *AuthenticationError) Unwrap() error {
	if e.Response != nil {
		return e.Response
	}
	return nil
}

// NewAuthenticationError builds an AuthenticationError from a message
// and an optional raw error body.
func NewAuthenticationError(msg string, body []byte) *AuthenticationError {
	authErr := &AuthenticationError{Message: msg}
	if len(body) > 0 {
		authErr.Response = ParseAPIError(body)
	}
	return authErr
}
