package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/magento-go/pkg/magento"
)

func TestRefreshIssuesToken(t *testing.T) {
	t.Parallel()

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/V1/integration/admin/token", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "admin", creds["username"])
		assert.Equal(t, "secret", creds["password"])

		_ = json.NewEncoder(w).Encode("issued-token")
	}))
	t.Cleanup(server.Close)

	manager := NewAdminTokenManager(server.URL, "admin", "secret", nil)

	token, err := manager.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "issued-token", token)

	// The token is held; no second request.
	token, err = manager.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "issued-token", token)
	assert.Equal(t, 1, requests)
}

func TestRefreshRejectedCredentials(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "The account sign-in was incorrect."}`))
	}))
	t.Cleanup(server.Close)

	manager := NewAdminTokenManager(server.URL, "admin", "wrong", nil)

	_, err := manager.Refresh(context.Background())
	require.Error(t, err)

	var authErr *magento.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Error(), "The account sign-in was incorrect.")
}

func TestRefreshRequiresCredentials(t *testing.T) {
	t.Parallel()

	manager := NewAdminTokenManager("http://localhost/rest", "", "", nil)
	_, err := manager.Refresh(context.Background())
	assert.ErrorIs(t, err, magento.ErrCredentialsRequired)
}

func TestSetInstallsPreIssuedToken(t *testing.T) {
	t.Parallel()

	manager := NewAdminTokenManager("http://localhost/rest", "admin", "secret", nil)
	manager.Set("pre-issued")

	token, err := manager.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pre-issued", token)
}

func TestRefreshRejectsMalformedResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"unexpected": "object"}`))
	}))
	t.Cleanup(server.Close)

	manager := NewAdminTokenManager(server.URL, "admin", "secret", nil)

	_, err := manager.Refresh(context.Background())
	var authErr *magento.AuthenticationError
	require.ErrorAs(t, err, &authErr)
}
