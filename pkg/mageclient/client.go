// Package mageclient constructs Magento REST API clients.
//
//	client, err := mageclient.New(ctx, &magento.Config{
//		Domain:   "mystore.com",
//		Username: "admin",
//		Password: "secret",
//	})
package mageclient

import (
	"context"

	"github.com/commercekit/magento-go/internal/client"
	"github.com/commercekit/magento-go/pkg/magento"
)

// New builds a client from the configuration and authenticates it,
// unless the configuration defers login or carries a pre-issued token.
func New(ctx context.Context, cfg *magento.Config) (magento.Client, error) {
	return client.New(ctx, cfg)
}
