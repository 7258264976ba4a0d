package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/commercekit/magento-go/pkg/mageclient"
	"github.com/commercekit/magento-go/pkg/magento"
)

// Output formats.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"

	defaultJSONIndent = "  "
)

// Common static errors used throughout the commands package.
var (
	ErrNotLoggedIn      = errors.New("not logged in, run 'magectl login' first")
	ErrDomainRequired   = errors.New("store domain is required")
	ErrUsernameRequired = errors.New("username is required")
)

// newClient builds an authenticated client from the resolved
// configuration (flags, environment, config file).
func newClient(ctx context.Context) (magento.Client, error) {
	domain := viper.GetString("domain")
	if domain == "" {
		return nil, ErrNotLoggedIn
	}

	cfg := &magento.Config{
		Domain:   domain,
		Username: viper.GetString("username"),
		Password: viper.GetString("password"),
		Token:    viper.GetString("token"),
		Scope:    viper.GetString("scope"),
		Local:    viper.GetBool("local"),
	}
	if cfg.Token == "" && (cfg.Username == "" || cfg.Password == "") {
		return nil, ErrNotLoggedIn
	}

	if viper.GetBool("verbose") {
		zapLogger, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("building logger: %w", err)
		}
		cfg.Logger = magento.NewZapLogger(zapLogger)
		cfg.Debug = true
	}

	client, err := mageclient.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	return client, nil
}

// outputFormat returns the selected output format.
func outputFormat() string {
	return viper.GetString("output")
}

func renderJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", defaultJSONIndent)
	return encoder.Encode(v)
}

func renderYAML(v any) error {
	encoder := yaml.NewEncoder(os.Stdout)
	defer func() { _ = encoder.Close() }()
	return encoder.Encode(v)
}

// configFilePath returns the config file in use, or the default
// location when none has been read yet.
func configFilePath() (string, error) {
	if path := viper.ConfigFileUsed(); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".magectl", "config.yml"), nil
}

// persistSession writes the session settings to the config file. The
// password is never persisted; the token stands in for it.
func persistSession(domain, username, scope, token string, local bool) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	settings := map[string]any{
		"domain":   domain,
		"username": username,
		"scope":    scope,
		"local":    local,
		"token":    token,
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
