package magento

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Category is a catalog category. Depending on the endpoint that
// produced it, child categories arrive either embedded (the category
// tree) or as a comma-separated id list; Subcategories handles both.
type Category struct {
	Resource

	ID           int    `json:"id"`
	ParentID     int    `json:"parent_id"`
	Name         string `json:"name"`
	IsActive     bool   `json:"is_active"`
	Position     int    `json:"position"`
	Level        int    `json:"level"`
	Path         string `json:"path"`
	Children     string `json:"children"`
	ProductCount int    `json:"product_count"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

var categoryHydration = HydrateOptions{
	Excluded:      []string{"children_data"},
	KeepExcluded:  true,
	IdentifierKey: "id",
}

// ParseCategory builds a Category from a raw API object.
func ParseCategory(session Session, data map[string]any) (*Category, error) {
	category := &Category{}
	if err := category.Attach(session, EndpointCategories); err != nil {
		return nil, err
	}
	if err := category.Hydrate(category, data, categoryHydration); err != nil {
		return nil, err
	}
	return category, nil
}

// Subcategories returns the direct child categories. Embedded
// children_data from the tree endpoint is used when present; otherwise
// the children id list is fetched.
func (c *Category) Subcategories(ctx context.Context) ([]*Category, error) {
	v, err := c.cached("subcategories", func() (any, error) {
		if raw, ok := c.Private("children_data"); ok {
			if list, ok := raw.([]any); ok {
				children := make([]*Category, 0, len(list))
				for _, entry := range list {
					data, ok := entry.(map[string]any)
					if !ok {
						return nil, fmt.Errorf("%w: child category is not an object", ErrInvalidResourceData)
					}
					child, err := ParseCategory(c.Session(), data)
					if err != nil {
						return nil, err
					}
					children = append(children, child)
				}
				return children, nil
			}
		}

		if strings.TrimSpace(c.Children) == "" {
			return []*Category{}, nil
		}
		children := []*Category{}
		for _, id := range strings.Split(c.Children, ",") {
			result, err := NewQuery(c.Session(), EndpointCategories, ParseCategory).
				ByID(ctx, strings.TrimSpace(id))
			if err != nil {
				return nil, err
			}
			if child, ok := result.First(); ok {
				children = append(children, child)
			}
		}
		return children, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*Category), nil
}

// SKUs returns the SKUs of the products assigned to this category.
func (c *Category) SKUs(ctx context.Context) ([]string, error) {
	endpoint := EndpointCategories + "/" + strconv.Itoa(c.ID) + "/products"
	resp, err := c.Session().Get(ctx, endpoint, nil, DefaultScope())
	if err != nil {
		return nil, fmt.Errorf("fetching products of category %d: %w", c.ID, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetching products of category %d: %w", c.ID, ParseAPIError(resp.Body))
	}

	var links []struct {
		SKU string `json:"sku"`
	}
	if err := resp.JSON(&links); err != nil {
		return nil, err
	}
	skus := make([]string, 0, len(links))
	for _, link := range links {
		skus = append(skus, link.SKU)
	}
	return skus, nil
}

// Products returns the full products assigned to this category.
func (c *Category) Products(ctx context.Context) ([]*Product, error) {
	skus, err := c.SKUs(ctx)
	if err != nil {
		return nil, err
	}
	if len(skus) == 0 {
		return nil, nil
	}
	result, err := NewQuery(c.Session(), EndpointProducts, ParseProduct).
		IdentifyBy("sku").
		ByList(ctx, "sku", skus...)
	if err != nil {
		return nil, err
	}
	return result.All(), nil
}
