package client

import (
	"context"
	"fmt"

	"github.com/commercekit/magento-go/pkg/magento"
)

// AttributesClient implements magento.AttributesService.
type AttributesClient struct {
	session magento.Session
}

var _ magento.AttributesService = (*AttributesClient)(nil)

// Search starts a blank product-attribute search.
func (a *AttributesClient) Search() *magento.Query[*magento.ProductAttribute] {
	return magento.NewQuery(a.session, magento.EndpointProductAttributes, magento.ParseProductAttribute).
		IdentifyBy("attribute_code")
}

// All returns every product attribute definition.
func (a *AttributesClient) All(ctx context.Context) ([]*magento.ProductAttribute, error) {
	result, err := a.Search().Page(1, allResultsPageSize).Execute(ctx)
	if err != nil {
		return nil, err
	}
	return result.All(), nil
}

// ByCode fetches one attribute definition by code.
func (a *AttributesClient) ByCode(ctx context.Context, code string) (*magento.ProductAttribute, error) {
	result, err := a.Search().ByID(ctx, code)
	if err != nil {
		return nil, err
	}
	attr, ok := result.First()
	if !ok {
		return nil, fmt.Errorf("product attribute %q not found", code)
	}
	return attr, nil
}

// Types returns the available product attribute frontend types.
func (a *AttributesClient) Types(ctx context.Context) ([]magento.AttributeType, error) {
	resp, err := a.session.Get(ctx, magento.EndpointProductAttributes+"/types", nil, magento.DefaultScope())
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetching attribute types: %w", magento.ParseAPIError(resp.Body))
	}

	var types []magento.AttributeType
	if err := resp.JSON(&types); err != nil {
		return nil, err
	}
	return types, nil
}
