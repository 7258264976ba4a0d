package magento

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productFixture() map[string]any {
	return map[string]any{
		"id":      float64(42),
		"sku":     "MJ01",
		"name":    "Jacket",
		"price":   float64(50),
		"status":  float64(1),
		"type_id": "simple",
		"custom_attributes": []any{
			map[string]any{"attribute_code": "description", "value": "Warm jacket"},
			map[string]any{"attribute_code": "special_price", "value": "39.90"},
			map[string]any{"attribute_code": "category_ids", "value": []any{"3", "4"}},
		},
		"extension_attributes": map[string]any{
			"stock_item": map[string]any{
				"item_id":     float64(7),
				"qty":         float64(12),
				"is_in_stock": true,
			},
		},
		"media_gallery_entries": []any{
			map[string]any{
				"id":         float64(1),
				"media_type": "image",
				"file":       "/m/j/mj01.jpg",
				"types":      []any{"base", "thumbnail"},
			},
			map[string]any{
				"id":         float64(2),
				"media_type": "image",
				"file":       "/m/j/mj01-alt.jpg",
				"disabled":   true,
			},
		},
	}
}

func newTestProduct(t *testing.T, session *stubSession) *Product {
	t.Helper()
	product, err := ParseProduct(session, productFixture())
	require.NoError(t, err)
	return product
}

// productWriteHandler answers product PUTs and refresh GETs.
func productWriteHandler(call stubCall) (*Response, error) {
	if call.Method == http.MethodGet {
		return okJSON(`{"id": 42, "sku": "MJ01", "name": "Jacket", "price": 45, "status": 1, "type_id": "simple"}`)
	}
	return okJSON(`{}`)
}

func TestParseProduct(t *testing.T) {
	t.Parallel()

	product := newTestProduct(t, &stubSession{})

	assert.Equal(t, "MJ01", product.SKU)
	assert.Equal(t, "products/MJ01", product.ItemURL())
	assert.Equal(t, "Warm jacket", product.Description())
	assert.Equal(t, 39.90, product.SpecialPrice())
	assert.Equal(t, 12.0, product.Stock())

	entries, err := product.MediaEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "/m/j/mj01.jpg", entries[0].File)
	assert.True(t, entries[0].IsEnabled())
	assert.False(t, entries[1].IsEnabled())
}

func TestProductThumbnail(t *testing.T) {
	t.Parallel()

	product := newTestProduct(t, &stubSession{})

	thumb, err := product.Thumbnail()
	require.NoError(t, err)
	require.NotNil(t, thumb)
	assert.Equal(t, 1, thumb.ID)
	assert.True(t, thumb.IsThumbnail())

	entry, err := product.MediaByID(2)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "/m/j/mj01-alt.jpg", entry.File)

	missing, err := product.MediaByID(99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMediaEntryWrites(t *testing.T) {
	t.Parallel()

	session := &stubSession{handler: productWriteHandler}
	product := newTestProduct(t, session)

	entry, err := product.MediaByID(2)
	require.NoError(t, err)
	require.NotNil(t, entry)

	require.NoError(t, entry.SetAltText(context.Background(), "Alternate view"))

	// Label-only writes do not refresh the product.
	require.Len(t, session.calls, 1)
	call := session.calls[0]
	assert.Equal(t, http.MethodPut, call.Method)
	assert.Equal(t, "products/MJ01/media/2", call.Endpoint)
	payload := call.Body.(map[string]any)["entry"].(*MediaEntry)
	assert.Equal(t, "Alternate view", payload.Label)

	// Role changes shift other entries, so the product is re-fetched.
	require.NoError(t, entry.AddMediaType(context.Background(), "swatch"))
	require.Len(t, session.calls, 3)
	assert.Equal(t, http.MethodGet, session.calls[2].Method)
	assert.Contains(t, entry.Types, "swatch")

	err = entry.AddMediaType(context.Background(), "banner")
	assert.ErrorIs(t, err, ErrInvalidMediaType)
}

func TestProductCategories(t *testing.T) {
	t.Parallel()

	session := &stubSession{handler: func(call stubCall) (*Response, error) {
		switch call.Endpoint {
		case "categories/3":
			return okJSON(`{"id": 3, "parent_id": 2, "name": "Tops", "is_active": true, "level": 2}`)
		case "categories/4":
			return okJSON(`{"id": 4, "parent_id": 3, "name": "Jackets", "is_active": true, "level": 3}`)
		default:
			return okJSON(`{}`)
		}
	}}
	product := newTestProduct(t, session)

	categories, err := product.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Tops", categories[0].Name)
	assert.Equal(t, "Jackets", categories[1].Name)

	// Cached; a second call issues no requests.
	before := len(session.calls)
	_, err = product.Categories(context.Background())
	require.NoError(t, err)
	assert.Len(t, session.calls, before)
}

func TestUpdateAttributesMultiStore(t *testing.T) {
	t.Parallel()

	session := &stubSession{
		handler: productWriteHandler,
		store:   &stubStore{websiteAttrs: map[string]bool{"special_price": true}},
	}
	product := newTestProduct(t, session)

	err := product.UpdateAttributes(context.Background(), map[string]any{
		"name":          "Renamed",
		"special_price": 40.0,
	}, StoreScope("en"))
	require.NoError(t, err)

	require.Len(t, session.calls, 3)

	// Primary write at the caller scope carries everything.
	primary := session.calls[0]
	assert.Equal(t, http.MethodPut, primary.Method)
	assert.Equal(t, "products/MJ01", primary.Endpoint)
	assert.Equal(t, "en", primary.Scope.Resolve(""))
	payload := primary.Body.(map[string]any)["product"].(map[string]any)
	assert.Len(t, payload, 2)

	// Website-scoped subset is replicated to "all".
	replica := session.calls[1]
	assert.Equal(t, "all", replica.Scope.Resolve(""))
	replicated := replica.Body.(map[string]any)["product"].(map[string]any)
	assert.Equal(t, map[string]any{"special_price": 40.0}, replicated)

	// Final refresh returns to the original scope.
	refresh := session.calls[2]
	assert.Equal(t, http.MethodGet, refresh.Method)
	assert.Equal(t, "en", refresh.Scope.Resolve(""))
	assert.Equal(t, 45.0, product.Price)
}

func TestUpdateAttributesNoWebsiteSubset(t *testing.T) {
	t.Parallel()

	session := &stubSession{
		handler: productWriteHandler,
		store:   &stubStore{},
	}
	product := newTestProduct(t, session)

	err := product.UpdateAttributes(context.Background(), map[string]any{"name": "Renamed"}, DefaultScope())
	require.NoError(t, err)

	// One write, one refresh; no replication without website attributes.
	require.Len(t, session.calls, 2)
	assert.Equal(t, http.MethodPut, session.calls[0].Method)
	assert.Equal(t, http.MethodGet, session.calls[1].Method)
}

func TestUpdateAttributesSingleStore(t *testing.T) {
	t.Parallel()

	session := &stubSession{
		handler: productWriteHandler,
		store:   &stubStore{single: true},
	}
	product := newTestProduct(t, session)

	err := product.UpdateAttributes(context.Background(), map[string]any{"name": "Renamed"}, DefaultScope())
	require.NoError(t, err)

	require.Len(t, session.calls, 3)
	assert.True(t, session.calls[0].Scope.IsDefault())
	assert.Equal(t, "all", session.calls[1].Scope.Resolve(""))
	assert.Equal(t, http.MethodGet, session.calls[2].Method)
}

func TestUpdateAttributesFailFast(t *testing.T) {
	t.Parallel()

	session := &stubSession{
		handler: func(call stubCall) (*Response, error) {
			return &Response{
				StatusCode: http.StatusBadRequest,
				Body:       []byte(`{"message": "Invalid attribute %1", "parameters": ["name"]}`),
			}, nil
		},
		store: &stubStore{websiteAttrs: map[string]bool{"special_price": true}},
	}
	product := newTestProduct(t, session)

	err := product.UpdateAttributes(context.Background(), map[string]any{
		"name":          "Renamed",
		"special_price": 40.0,
	}, DefaultScope())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid attribute name")

	// The failed primary write aborts the protocol.
	require.Len(t, session.calls, 1)
}

func TestUpdateCustomAttributesPacksPayload(t *testing.T) {
	t.Parallel()

	session := &stubSession{
		handler: productWriteHandler,
		store:   &stubStore{},
	}
	product := newTestProduct(t, session)

	err := product.UpdateCustomAttributes(context.Background(), map[string]any{
		"description": "New description",
	}, DefaultScope())
	require.NoError(t, err)

	payload := session.calls[0].Body.(map[string]any)["product"].(map[string]any)
	packed, ok := payload["custom_attributes"].([]CustomAttribute)
	require.True(t, ok)
	require.Len(t, packed, 1)
	assert.Equal(t, "description", packed[0].AttributeCode)
}

func TestUpdateSpecialPriceValidation(t *testing.T) {
	t.Parallel()

	product := newTestProduct(t, &stubSession{store: &stubStore{}})

	err := product.UpdateSpecialPrice(context.Background(), 50)
	assert.ErrorIs(t, err, ErrPriceNotReduced)

	err = product.UpdateSpecialPrice(context.Background(), 60)
	assert.ErrorIs(t, err, ErrPriceNotReduced)
}

func TestUpdateStatusValidation(t *testing.T) {
	t.Parallel()

	product := newTestProduct(t, &stubSession{store: &stubStore{}})

	err := product.UpdateStatus(context.Background(), 3)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateAttributesRequiresStoreInfo(t *testing.T) {
	t.Parallel()

	product := newTestProduct(t, &stubSession{})

	err := product.UpdateAttributes(context.Background(), map[string]any{"name": "x"}, DefaultScope())
	assert.ErrorIs(t, err, ErrStoreInfoRequired)
}

func TestProductDelete(t *testing.T) {
	t.Parallel()

	session := &stubSession{handler: func(call stubCall) (*Response, error) {
		return okJSON(`true`)
	}}
	product := newTestProduct(t, session)

	require.NoError(t, product.Delete(context.Background()))

	call := session.calls[0]
	assert.Equal(t, http.MethodDelete, call.Method)
	assert.Equal(t, "products/MJ01", call.Endpoint)
	assert.Equal(t, "", call.Scope.Resolve("en"))
}

func TestProductChildren(t *testing.T) {
	t.Parallel()

	session := &stubSession{handler: func(call stubCall) (*Response, error) {
		return okJSON(`[{"id": 1, "sku": "MJ01-S"}, {"id": 2, "sku": "MJ01-M"}]`)
	}}

	data := productFixture()
	data["type_id"] = "configurable"
	product, err := ParseProduct(session, data)
	require.NoError(t, err)

	skus, err := product.OptionSKUs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"MJ01-S", "MJ01-M"}, skus)
	assert.Equal(t, "configurable-products/MJ01/children", session.calls[0].Endpoint)

	simple := newTestProduct(t, &stubSession{})
	children, err := simple.Children(context.Background())
	require.NoError(t, err)
	assert.Nil(t, children)
}

func TestProductAttributeOptions(t *testing.T) {
	t.Parallel()

	attr, err := ParseProductAttribute(&stubSession{}, map[string]any{
		"attribute_id":   float64(93),
		"attribute_code": "color",
		"scope":          "website",
		"options": []any{
			map[string]any{"label": "Red", "value": "10"},
			map[string]any{"label": "Blue", "value": "11"},
		},
	})
	require.NoError(t, err)

	assert.True(t, attr.IsWebsiteScoped())
	assert.Equal(t, "products/attributes/color", attr.ItemURL())

	options := attr.Options()
	assert.Equal(t, "10", options["Red"])
	assert.Equal(t, "11", options["Blue"])
}
