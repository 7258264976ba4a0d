package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/commercekit/magento-go/pkg/magento"
)

type stubCall struct {
	Method   string
	Endpoint string
	Query    url.Values
	Body     any
	Scope    magento.Scope
}

// stubSession is an in-memory magento.Session for sub-client tests.
type stubSession struct {
	scope   string
	store   magento.StoreInfo
	calls   []stubCall
	handler func(call stubCall) (*magento.Response, error)
}

func (s *stubSession) do(method, endpoint string, query url.Values, body any, scope magento.Scope) (*magento.Response, error) {
	call := stubCall{Method: method, Endpoint: endpoint, Query: query, Body: body, Scope: scope}
	s.calls = append(s.calls, call)
	if s.handler != nil {
		return s.handler(call)
	}
	return &magento.Response{StatusCode: http.StatusOK, Body: []byte("{}")}, nil
}

func (s *stubSession) Get(_ context.Context, endpoint string, query url.Values, scope magento.Scope) (*magento.Response, error) {
	return s.do(http.MethodGet, endpoint, query, nil, scope)
}

func (s *stubSession) Post(_ context.Context, endpoint string, body any, scope magento.Scope) (*magento.Response, error) {
	return s.do(http.MethodPost, endpoint, nil, body, scope)
}

func (s *stubSession) Put(_ context.Context, endpoint string, body any, scope magento.Scope) (*magento.Response, error) {
	return s.do(http.MethodPut, endpoint, nil, body, scope)
}

func (s *stubSession) Delete(_ context.Context, endpoint string, scope magento.Scope) (*magento.Response, error) {
	return s.do(http.MethodDelete, endpoint, nil, nil, scope)
}

func (s *stubSession) DefaultScope() string     { return s.scope }
func (s *stubSession) Logger() magento.Logger   { return magento.NoopLogger{} }
func (s *stubSession) Store() magento.StoreInfo { return s.store }

func okJSON(body string) (*magento.Response, error) {
	return &magento.Response{StatusCode: http.StatusOK, Body: []byte(body)}, nil
}
