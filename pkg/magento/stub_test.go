package magento

import (
	"context"
	"net/http"
	"net/url"
)

// stubCall records one request issued through the stub session.
type stubCall struct {
	Method   string
	Endpoint string
	Query    url.Values
	Body     any
	Scope    Scope
}

// stubSession is an in-memory Session for model tests. Without a
// handler every request succeeds with an empty object body.
type stubSession struct {
	scope   string
	store   StoreInfo
	calls   []stubCall
	handler func(call stubCall) (*Response, error)
}

func (s *stubSession) do(method, endpoint string, query url.Values, body any, scope Scope) (*Response, error) {
	call := stubCall{Method: method, Endpoint: endpoint, Query: query, Body: body, Scope: scope}
	s.calls = append(s.calls, call)
	if s.handler != nil {
		return s.handler(call)
	}
	return &Response{StatusCode: http.StatusOK, Body: []byte("{}")}, nil
}

func (s *stubSession) Get(_ context.Context, endpoint string, query url.Values, scope Scope) (*Response, error) {
	return s.do(http.MethodGet, endpoint, query, nil, scope)
}

func (s *stubSession) Post(_ context.Context, endpoint string, body any, scope Scope) (*Response, error) {
	return s.do(http.MethodPost, endpoint, nil, body, scope)
}

func (s *stubSession) Put(_ context.Context, endpoint string, body any, scope Scope) (*Response, error) {
	return s.do(http.MethodPut, endpoint, nil, body, scope)
}

func (s *stubSession) Delete(_ context.Context, endpoint string, scope Scope) (*Response, error) {
	return s.do(http.MethodDelete, endpoint, nil, nil, scope)
}

func (s *stubSession) DefaultScope() string { return s.scope }
func (s *stubSession) Logger() Logger       { return NoopLogger{} }
func (s *stubSession) Store() StoreInfo     { return s.store }

// stubStore is an in-memory StoreInfo with a fixed topology.
type stubStore struct {
	single       bool
	websiteAttrs map[string]bool
}

func (s *stubStore) IsSingleStore(context.Context) (bool, error) {
	return s.single, nil
}

func (s *stubStore) FilterWebsiteAttributes(_ context.Context, attrs map[string]any) (map[string]any, error) {
	filtered := make(map[string]any)
	for code, value := range attrs {
		if s.websiteAttrs[code] {
			filtered[code] = value
		}
	}
	return filtered, nil
}

func okJSON(body string) (*Response, error) {
	return &Response{StatusCode: http.StatusOK, Body: []byte(body)}, nil
}
