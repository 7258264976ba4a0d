// Package auth manages admin access tokens for the Magento REST API.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/commercekit/magento-go/pkg/magento"
)

// TokenManager provides access tokens for API requests.
type TokenManager interface {
	// Token returns the current token, obtaining one first if none is
	// held.
	Token(ctx context.Context) (string, error)

	// Refresh discards the current token and obtains a new one.
	Refresh(ctx context.Context) (string, error)

	// Set installs a pre-issued token.
	Set(token string)
}

// AdminTokenManager obtains tokens from the admin token endpoint using
// username/password credentials.
type AdminTokenManager struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client

	mu    sync.Mutex
	token string
}

// NewAdminTokenManager creates a token manager for the given REST base
// URL ("https://www.mystore.com/rest"). A nil httpClient falls back to
// http.DefaultClient.
func NewAdminTokenManager(baseURL, username, password string, httpClient *http.Client) *AdminTokenManager {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &AdminTokenManager{
		baseURL:    baseURL,
		username:   username,
		password:   password,
		httpClient: httpClient,
	}
}

// Token returns the held token, obtaining one first if necessary.
func (m *AdminTokenManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	token := m.token
	m.mu.Unlock()
	if token != "" {
		return token, nil
	}
	return m.Refresh(ctx)
}

// Refresh posts the credentials to the admin token endpoint and stores
// the issued token. Credential rejections surface as
// *magento.AuthenticationError.
func (m *AdminTokenManager) Refresh(ctx context.Context) (string, error) {
	if m.username == "" || m.password == "" {
		return "", magento.ErrCredentialsRequired
	}

	payload, err := json.Marshal(map[string]string{
		"username": m.username,
		"password": m.password,
	})
	if err != nil {
		return "", fmt.Errorf("encoding token request: %w", err)
	}

	endpoint := m.baseURL + "/V1/integration/admin/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("requesting admin token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", magento.NewAuthenticationError(
			fmt.Sprintf("token request rejected for user %q", m.username), body)
	}

	var token string
	if err := json.Unmarshal(body, &token); err != nil || token == "" {
		return "", magento.NewAuthenticationError("token response is not a token string", body)
	}

	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return token, nil
}

// Set installs a pre-issued token, deferring validation to the first
// request that uses it.
func (m *AdminTokenManager) Set(token string) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}
