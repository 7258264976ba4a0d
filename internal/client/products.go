package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/commercekit/magento-go/pkg/magento"
)

// ProductsClient implements magento.ProductsService.
type ProductsClient struct {
	session magento.Session
}

var _ magento.ProductsService = (*ProductsClient)(nil)

// Search starts a blank product search.
func (p *ProductsClient) Search() *magento.Query[*magento.Product] {
	return magento.NewQuery(p.session, magento.EndpointProducts, magento.ParseProduct).
		IdentifyBy("sku")
}

// BySKU fetches one product by SKU.
func (p *ProductsClient) BySKU(ctx context.Context, sku string) (*magento.Product, error) {
	result, err := p.Search().ByID(ctx, magento.EncodeSKU(sku))
	if err != nil {
		return nil, err
	}
	product, ok := result.First()
	if !ok {
		return nil, fmt.Errorf("product %q not found", sku)
	}
	return product, nil
}

// BySKUList returns every product matching one of the given SKUs.
func (p *ProductsClient) BySKUList(ctx context.Context, skus ...string) ([]*magento.Product, error) {
	if len(skus) == 0 {
		return nil, nil
	}
	result, err := p.Search().ByList(ctx, "sku", skus...)
	if err != nil {
		return nil, err
	}
	return result.All(), nil
}

// ByCategoryID returns the products assigned to a category.
func (p *ProductsClient) ByCategoryID(ctx context.Context, categoryID int) ([]*magento.Product, error) {
	result, err := magento.NewQuery(p.session, magento.EndpointCategories, magento.ParseCategory).
		ByID(ctx, strconv.Itoa(categoryID))
	if err != nil {
		return nil, err
	}
	category, ok := result.First()
	if !ok {
		return nil, fmt.Errorf("category %d not found", categoryID)
	}
	return category.Products(ctx)
}

// EnabledSimpleSKUs returns the SKUs of all enabled simple products.
func (p *ProductsClient) EnabledSimpleSKUs(ctx context.Context) ([]string, error) {
	result, err := p.Search().
		AddCriteria("type_id", "simple").
		AddCriteria("status", strconv.Itoa(magento.ProductStatusEnabled)).
		RestrictFields("sku").
		Execute(ctx)
	if err != nil {
		return nil, err
	}

	products := result.All()
	skus := make([]string, 0, len(products))
	for _, product := range products {
		skus = append(skus, product.SKU)
	}
	return skus, nil
}
