package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/magento-go/pkg/magento"
)

func TestNewValidatesConfig(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), nil)
	assert.ErrorIs(t, err, magento.ErrDomainRequired)

	_, err = New(context.Background(), &magento.Config{})
	assert.ErrorIs(t, err, magento.ErrDomainRequired)

	_, err = New(context.Background(), &magento.Config{Domain: "mystore.com"})
	assert.ErrorIs(t, err, magento.ErrCredentialsRequired)

	_, err = New(context.Background(), &magento.Config{Domain: "mystore.com", Username: "admin"})
	assert.ErrorIs(t, err, magento.ErrCredentialsRequired)
}

func TestNewAuthenticatesOnCreate(t *testing.T) {
	t.Parallel()

	var tokenRequests int
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/V1/integration/admin/token", func(w http.ResponseWriter, r *http.Request) {
		tokenRequests++
		_ = json.NewEncoder(w).Encode("issued-token")
	})
	mux.HandleFunc("/rest/V1/store/websites", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": 1, "code": "base"}]`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := &magento.Config{
		Domain:   strings.TrimPrefix(server.URL, "http://"),
		Local:    true,
		Username: "admin",
		Password: "secret",
	}

	c, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, tokenRequests)

	token, err := c.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "issued-token", token)
}

func TestNewWithPreIssuedTokenSkipsLogin(t *testing.T) {
	t.Parallel()

	cfg := &magento.Config{
		Domain: "mystore.com",
		Token:  "pre-issued",
	}

	c, err := New(context.Background(), cfg)
	require.NoError(t, err)

	token, err := c.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pre-issued", token)
}
