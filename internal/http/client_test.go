package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/magento-go/internal/auth"
	"github.com/commercekit/magento-go/pkg/magento"
)

func TestBaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		domain string
		local  bool
		want   string
	}{
		{domain: "mystore.com", want: "https://www.mystore.com/rest"},
		{domain: "www.mystore.com", want: "https://www.mystore.com/rest"},
		{domain: "mystore.com/", want: "https://www.mystore.com/rest"},
		{domain: "127.0.0.1:8080", local: true, want: "http://127.0.0.1:8080/rest"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BaseURL(tt.domain, tt.local), "domain %q", tt.domain)
	}
}

func TestURLFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		sessionScope string
		scope        magento.Scope
		want         string
	}{
		{
			name:  "no session scope, default",
			scope: magento.DefaultScope(),
			want:  "https://www.mystore.com/rest/V1/orders",
		},
		{
			name:  "no session scope, forced none",
			scope: magento.NoScope(),
			want:  "https://www.mystore.com/rest/V1/orders",
		},
		{
			name:  "no session scope, forced store",
			scope: magento.StoreScope("de"),
			want:  "https://www.mystore.com/rest/de/V1/orders",
		},
		{
			name:         "session scope, default",
			sessionScope: "en",
			scope:        magento.DefaultScope(),
			want:         "https://www.mystore.com/rest/en/V1/orders",
		},
		{
			name:         "session scope, forced none",
			sessionScope: "en",
			scope:        magento.NoScope(),
			want:         "https://www.mystore.com/rest/V1/orders",
		},
		{
			name:         "session scope, forced store",
			sessionScope: "en",
			scope:        magento.StoreScope("de"),
			want:         "https://www.mystore.com/rest/de/V1/orders",
		},
		{
			name:         "session scope, forced all",
			sessionScope: "en",
			scope:        magento.AllScope(),
			want:         "https://www.mystore.com/rest/all/V1/orders",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := NewClient("https://www.mystore.com/rest", nil,
				WithDefaultScope(tt.sessionScope))
			assert.Equal(t, tt.want, client.URLFor("orders", tt.scope))
		})
	}
}

func TestURLForPassesThroughAbsoluteURLs(t *testing.T) {
	t.Parallel()

	client := NewClient("https://www.mystore.com/rest", nil, WithDefaultScope("en"))
	assert.Equal(t, "https://elsewhere.test/thing", client.URLFor("https://elsewhere.test/thing", magento.DefaultScope()))
}

// testServer tracks the endpoints a client hits.
type testServer struct {
	*httptest.Server
	tokenRequests  int
	ordersRequests int
}

func newTestServer(t *testing.T, ordersHandler http.HandlerFunc) *testServer {
	t.Helper()
	ts := &testServer{}

	mux := http.NewServeMux()
	mux.HandleFunc("/V1/integration/admin/token", func(w http.ResponseWriter, r *http.Request) {
		ts.tokenRequests++
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		_ = json.NewEncoder(w).Encode("fresh-token")
	})
	mux.HandleFunc("/V1/store/websites", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": 1, "code": "base"}]`))
	})
	mux.HandleFunc("/V1/orders", func(w http.ResponseWriter, r *http.Request) {
		ts.ordersRequests++
		ordersHandler(w, r)
	})

	ts.Server = httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func newTestClient(ts *testServer, opts ...Option) (*Client, *auth.AdminTokenManager) {
	tokens := auth.NewAdminTokenManager(ts.URL, "admin", "secret", nil)
	return NewClient(ts.URL, tokens, opts...), tokens
}

func TestGetReauthenticatesOnceOn401(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message": "The consumer isn't authorized to access %1.", "parameters": ["orders"]}`))
			return
		}
		_, _ = w.Write([]byte(`{"items": [], "total_count": 0, "search_criteria": {}}`))
	})

	client, tokens := newTestClient(ts)
	tokens.Set("stale-token")

	resp, err := client.Get(context.Background(), "orders", nil, magento.DefaultScope())
	require.NoError(t, err)

	assert.True(t, resp.OK())
	assert.Equal(t, 1, ts.tokenRequests)
	assert.Equal(t, 2, ts.ordersRequests)
}

func TestGetNeverReauthenticatesTwice(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "The consumer isn't authorized."}`))
	})

	client, tokens := newTestClient(ts)
	tokens.Set("stale-token")

	resp, err := client.Get(context.Background(), "orders", nil, magento.DefaultScope())
	require.NoError(t, err)

	// The retried request came back 401 again; it is returned, not
	// retried a second time.
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 1, ts.tokenRequests)
	assert.Equal(t, 2, ts.ordersRequests)
}

func TestPostAndPutRejectNilBody(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	client, tokens := newTestClient(ts)
	tokens.Set("tok")

	_, err := client.Post(context.Background(), "orders", nil, magento.DefaultScope())
	assert.ErrorIs(t, err, magento.ErrMissingRequestBody)

	_, err = client.Put(context.Background(), "orders", nil, magento.DefaultScope())
	assert.ErrorIs(t, err, magento.ErrMissingRequestBody)

	assert.Zero(t, ts.ordersRequests)
}

func TestNon2xxIsReturnedToCaller(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message": "Invalid field %1", "parameters": ["bogus"]}`))
	})

	client, tokens := newTestClient(ts)
	tokens.Set("tok")

	resp, err := client.Get(context.Background(), "orders", nil, magento.DefaultScope())
	require.NoError(t, err)

	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid field bogus", magento.ParseAPIError(resp.Body).Error())
}

func TestRequestHeaders(t *testing.T) {
	t.Parallel()

	var captured http.Header
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		_, _ = w.Write([]byte(`{}`))
	})

	client, tokens := newTestClient(ts, WithUserAgent("inventory-sync/2.0"))
	tokens.Set("tok")

	query := url.Values{}
	query.Set("searchCriteria[pageSize]", "5")
	_, err := client.Get(context.Background(), "orders", query, magento.DefaultScope())
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", captured.Get("Authorization"))
	assert.Equal(t, "inventory-sync/2.0", captured.Get("User-Agent"))
	assert.NotEmpty(t, captured.Get("X-Request-ID"))
}

func TestAuthenticateValidationFailure(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/V1/integration/admin/token", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode("issued-token")
	})
	mux.HandleFunc("/V1/store/websites", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "Access denied"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	tokens := auth.NewAdminTokenManager(server.URL, "admin", "secret", nil)
	client := NewClient(server.URL, tokens)

	err := client.Authenticate(context.Background())
	require.Error(t, err)

	var authErr *magento.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Error(), "Access denied")
}
