package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/commercekit/magento-go/pkg/magento"
)

// endpointCategoryList is the flat search endpoint; the bare
// categories endpoint returns the tree rooted at the default root.
const endpointCategoryList = "categories/list"

const allResultsPageSize = 1000

// CategoriesClient implements magento.CategoriesService.
type CategoriesClient struct {
	session magento.Session
}

var _ magento.CategoriesService = (*CategoriesClient)(nil)

// Search starts a blank category search against the flat list
// endpoint.
func (c *CategoriesClient) Search() *magento.Query[*magento.Category] {
	return magento.NewQuery(c.session, endpointCategoryList, magento.ParseCategory).
		IdentifyBy("id")
}

// Root fetches the category tree root with its children embedded.
func (c *CategoriesClient) Root(ctx context.Context) (*magento.Category, error) {
	resp, err := c.session.Get(ctx, magento.EndpointCategories, nil, magento.DefaultScope())
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetching category tree: %w", magento.ParseAPIError(resp.Body))
	}

	var data map[string]any
	if err := resp.JSON(&data); err != nil {
		return nil, err
	}
	return magento.ParseCategory(c.session, data)
}

// All returns every category.
func (c *CategoriesClient) All(ctx context.Context) ([]*magento.Category, error) {
	result, err := c.Search().Page(1, allResultsPageSize).Execute(ctx)
	if err != nil {
		return nil, err
	}
	return result.All(), nil
}

// ByID fetches one category by id.
func (c *CategoriesClient) ByID(ctx context.Context, id int) (*magento.Category, error) {
	result, err := magento.NewQuery(c.session, magento.EndpointCategories, magento.ParseCategory).
		ByID(ctx, strconv.Itoa(id))
	if err != nil {
		return nil, err
	}
	category, ok := result.First()
	if !ok {
		return nil, fmt.Errorf("category %d not found", id)
	}
	return category, nil
}

// ByName searches categories by name, either exactly or as a substring
// match.
func (c *CategoriesClient) ByName(ctx context.Context, name string, exact bool) ([]*magento.Category, error) {
	query := c.Search()
	if exact {
		query.AddCriteria("name", name)
	} else {
		query.AddCriteria("name", "%"+name+"%", magento.WithCondition(magento.ConditionLike))
	}
	result, err := query.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return result.All(), nil
}
