package magento

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Endpoints of the catalog resources.
const (
	EndpointProducts          = "products"
	EndpointProductAttributes = "products/attributes"
	EndpointCategories        = "categories"
)

// Product status values.
const (
	ProductStatusEnabled  = 1
	ProductStatusDisabled = 2
)

// Product visibility values.
const (
	VisibilityNotVisible = 1
	VisibilityCatalog    = 2
	VisibilitySearch     = 3
	VisibilityBoth       = 4
)

// StockItem is the inventory record attached to a product.
type StockItem struct {
	ItemID    int     `json:"item_id"`
	ProductID int     `json:"product_id"`
	Qty       float64 `json:"qty"`
	IsInStock bool    `json:"is_in_stock"`
}

// MediaTypes are the roles a media gallery entry can hold.
var MediaTypes = []string{"base", "small", "thumbnail", "swatch"}

// MediaEntry is one image of a product's media gallery. Entries
// returned by Product.MediaEntries are bound to their product and can
// be written back through the update methods.
type MediaEntry struct {
	ID        int      `json:"id"`
	MediaType string   `json:"media_type"`
	Label     string   `json:"label"`
	Position  int      `json:"position"`
	Disabled  bool     `json:"disabled"`
	Types     []string `json:"types"`
	File      string   `json:"file"`

	product *Product
}

// Product is a catalog product. Its URL identifier is the SKU, which
// is escaped because SKUs may contain slashes and spaces.
type Product struct {
	Resource

	ID             int     `json:"id"`
	SKU            string  `json:"sku"`
	Name           string  `json:"name"`
	AttributeSetID int     `json:"attribute_set_id"`
	Price          float64 `json:"price"`
	Status         int     `json:"status"`
	Visibility     int     `json:"visibility"`
	TypeID         string  `json:"type_id"`
	Weight         float64 `json:"weight"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

var productHydration = HydrateOptions{
	Excluded:         []string{"media_gallery_entries", "extension_attributes"},
	KeepExcluded:     true,
	IdentifierKey:    "sku",
	EncodeIdentifier: true,
}

// ParseProduct builds a Product from a raw API object.
func ParseProduct(session Session, data map[string]any) (*Product, error) {
	product := &Product{}
	if err := product.Attach(session, EndpointProducts); err != nil {
		return nil, err
	}
	if err := product.Hydrate(product, data, productHydration); err != nil {
		return nil, err
	}
	return product, nil
}

// EncodedSKU returns the SKU escaped for use in URLs.
func (p *Product) EncodedSKU() string {
	return EncodeSKU(p.SKU)
}

// StockItem returns the product's inventory record.
func (p *Product) StockItem() (*StockItem, error) {
	raw, _ := p.Private("extension_attributes")
	ext, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: product has no extension attributes", ErrInvalidResourceData)
	}
	encoded, err := json.Marshal(ext["stock_item"])
	if err != nil {
		return nil, fmt.Errorf("encoding stock item: %w", err)
	}
	var stock StockItem
	if err := json.Unmarshal(encoded, &stock); err != nil {
		return nil, fmt.Errorf("%w: stock item is not an object", ErrInvalidResourceData)
	}
	return &stock, nil
}

// Stock returns the quantity on hand, or zero when no inventory record
// is present.
func (p *Product) Stock() float64 {
	stock, err := p.StockItem()
	if err != nil {
		return 0
	}
	return stock.Qty
}

// MediaEntries returns the product's media gallery, bound for writes.
func (p *Product) MediaEntries() ([]*MediaEntry, error) {
	v, err := p.cached("media", func() (any, error) {
		raw, _ := p.Private("media_gallery_entries")
		encoded, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("encoding media gallery: %w", err)
		}
		var entries []*MediaEntry
		if err := json.Unmarshal(encoded, &entries); err != nil {
			return nil, fmt.Errorf("%w: media gallery is not a list", ErrInvalidResourceData)
		}
		for _, entry := range entries {
			entry.product = p
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*MediaEntry), nil
}

// Thumbnail returns the gallery entry carrying the thumbnail role, if
// any.
func (p *Product) Thumbnail() (*MediaEntry, error) {
	entries, err := p.MediaEntries()
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsThumbnail() {
			return entry, nil
		}
	}
	return nil, nil
}

// MediaByID returns the gallery entry with the given id, if any.
func (p *Product) MediaByID(id int) (*MediaEntry, error) {
	entries, err := p.MediaEntries()
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.ID == id {
			return entry, nil
		}
	}
	return nil, nil
}

// IsEnabled reports whether the entry is shown in the gallery.
func (m *MediaEntry) IsEnabled() bool {
	return !m.Disabled
}

// IsThumbnail reports whether the entry carries the thumbnail role.
func (m *MediaEntry) IsThumbnail() bool {
	return containsField(m.Types, "thumbnail")
}

// EntryURL returns the media item endpoint of this entry.
func (m *MediaEntry) EntryURL() string {
	return "products/" + m.product.EncodedSKU() + "/media/" + strconv.Itoa(m.ID)
}

// Enable shows the entry in the gallery.
func (m *MediaEntry) Enable(ctx context.Context) error {
	m.Disabled = false
	return m.write(ctx, false)
}

// Disable hides the entry from the gallery.
func (m *MediaEntry) Disable(ctx context.Context) error {
	m.Disabled = true
	return m.write(ctx, false)
}

// SetAltText sets the entry label.
func (m *MediaEntry) SetAltText(ctx context.Context, text string) error {
	m.Label = text
	return m.write(ctx, false)
}

// AddMediaType assigns a media role to the entry. Roles are exclusive
// across the gallery, so the product is refreshed afterwards.
func (m *MediaEntry) AddMediaType(ctx context.Context, mediaType string) error {
	if !containsField(MediaTypes, mediaType) {
		return fmt.Errorf("%w: %q", ErrInvalidMediaType, mediaType)
	}
	if containsField(m.Types, mediaType) {
		return nil
	}
	m.Types = append(m.Types, mediaType)
	return m.write(ctx, true)
}

// RemoveMediaType removes a media role from the entry.
func (m *MediaEntry) RemoveMediaType(ctx context.Context, mediaType string) error {
	if !containsField(m.Types, mediaType) {
		return nil
	}
	kept := make([]string, 0, len(m.Types))
	for _, t := range m.Types {
		if t != mediaType {
			kept = append(kept, t)
		}
	}
	m.Types = kept
	return m.write(ctx, true)
}

// SetPosition moves the entry within the gallery. Positions of other
// entries shift, so the product is refreshed afterwards.
func (m *MediaEntry) SetPosition(ctx context.Context, position int) error {
	m.Position = position
	return m.write(ctx, true)
}

// write sends the entry back to the API. Changes that can shift other
// gallery entries refresh the whole product.
func (m *MediaEntry) write(ctx context.Context, refreshProduct bool) error {
	if m.product == nil {
		return ErrNotAttached
	}

	resp, err := m.product.Session().Put(ctx, m.EntryURL(), map[string]any{"entry": m}, DefaultScope())
	if err != nil {
		return fmt.Errorf("updating media entry %d: %w", m.ID, err)
	}
	if !resp.OK() {
		return fmt.Errorf("updating media entry %d: %w", m.ID, ParseAPIError(resp.Body))
	}
	m.product.Session().Logger().Info("media entry updated", map[string]interface{}{
		"sku":   m.product.SKU,
		"entry": m.ID,
	})

	if refreshProduct {
		return m.product.Refresh(ctx, DefaultScope())
	}
	return nil
}

// Description returns the description custom attribute.
func (p *Product) Description() string {
	return p.customString("description")
}

// SpecialPrice returns the special_price custom attribute, or zero
// when none is set.
func (p *Product) SpecialPrice() float64 {
	return p.customFloat("special_price")
}

func (p *Product) customString(code string) string {
	v, ok := p.Custom[code]
	if !ok {
		return ""
	}
	return rawToString(v)
}

func (p *Product) customFloat(code string) float64 {
	switch v := p.Custom[code].(type) {
	case float64:
		return v
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}

// Children returns the simple products behind a configurable product.
// Non-configurable products have no children.
func (p *Product) Children(ctx context.Context) ([]*Product, error) {
	if p.TypeID != "configurable" {
		return nil, nil
	}
	v, err := p.cached("children", func() (any, error) {
		endpoint := "configurable-products/" + p.EncodedSKU() + "/children"
		resp, err := p.Session().Get(ctx, endpoint, nil, DefaultScope())
		if err != nil {
			return nil, fmt.Errorf("fetching children of %q: %w", p.SKU, err)
		}
		if !resp.OK() {
			return nil, fmt.Errorf("fetching children of %q: %w", p.SKU, ParseAPIError(resp.Body))
		}

		var raw []map[string]any
		if err := resp.JSON(&raw); err != nil {
			return nil, err
		}
		children := make([]*Product, 0, len(raw))
		for _, data := range raw {
			child, err := ParseProduct(p.Session(), data)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return children, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*Product), nil
}

// OptionSKUs returns the SKUs of the product's child options.
func (p *Product) OptionSKUs(ctx context.Context) ([]string, error) {
	children, err := p.Children(ctx)
	if err != nil {
		return nil, err
	}
	skus := make([]string, 0, len(children))
	for _, child := range children {
		skus = append(skus, child.SKU)
	}
	return skus, nil
}

// Categories returns the categories the product is assigned to, from
// the category_ids custom attribute.
func (p *Product) Categories(ctx context.Context) ([]*Category, error) {
	v, err := p.cached("categories", func() (any, error) {
		ids, ok := p.Custom["category_ids"].([]any)
		if !ok {
			return []*Category{}, nil
		}
		categories := make([]*Category, 0, len(ids))
		for _, id := range ids {
			result, err := NewQuery(p.Session(), EndpointCategories, ParseCategory).
				ByID(ctx, rawToString(id))
			if err != nil {
				return nil, err
			}
			if category, found := result.First(); found {
				categories = append(categories, category)
			}
		}
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*Category), nil
}

// UpdateAttributes writes top-level product attributes at the given
// scope, then reconciles website-scoped attributes so storefronts
// outside the written scope are not left stale:
//
//   - On a single-store shop every update is written to both the
//     default scope and "all".
//   - Otherwise the full set is written at the caller scope; if that
//     write fails nothing else is attempted. The website-scoped subset
//     is then replicated to "all".
//
// The product is re-fetched at the original scope afterwards. A failed
// replication does not roll back the primary write.
func (p *Product) UpdateAttributes(ctx context.Context, attrs map[string]any, scope Scope) error {
	return p.update(ctx, attrs, scope, false)
}

// UpdateCustomAttributes writes custom attributes with the same scope
// reconciliation as UpdateAttributes. Only custom attributes can be
// updated here; use UpdateAttributes for top-level fields.
func (p *Product) UpdateCustomAttributes(ctx context.Context, attrs map[string]any, scope Scope) error {
	return p.update(ctx, attrs, scope, true)
}

func (p *Product) update(ctx context.Context, attrs map[string]any, scope Scope, custom bool) error {
	store := p.Session().Store()
	if store == nil {
		return ErrStoreInfoRequired
	}

	single, err := store.IsSingleStore(ctx)
	if err != nil {
		return fmt.Errorf("updating %q: %w", p.SKU, err)
	}
	if single {
		if err := p.write(ctx, attrs, DefaultScope(), custom); err != nil {
			return err
		}
		if err := p.write(ctx, attrs, AllScope(), custom); err != nil {
			return err
		}
		return p.Refresh(ctx, DefaultScope())
	}

	if err := p.write(ctx, attrs, scope, custom); err != nil {
		return err
	}

	websiteAttrs, err := store.FilterWebsiteAttributes(ctx, attrs)
	if err != nil {
		return fmt.Errorf("updating %q: %w", p.SKU, err)
	}
	if len(websiteAttrs) > 0 {
		if err := p.write(ctx, websiteAttrs, AllScope(), custom); err != nil {
			return err
		}
	}
	return p.Refresh(ctx, scope)
}

// write sends one product PUT at one scope.
func (p *Product) write(ctx context.Context, attrs map[string]any, scope Scope, custom bool) error {
	payload := attrs
	if custom {
		payload = map[string]any{"custom_attributes": PackAttributes(attrs)}
	}

	resp, err := p.Session().Put(ctx, p.ItemURL(), map[string]any{"product": payload}, scope)
	if err != nil {
		return fmt.Errorf("updating %q: %w", p.SKU, err)
	}
	if !resp.OK() {
		return fmt.Errorf("updating %q at scope %s: %w", p.SKU, scope, ParseAPIError(resp.Body))
	}
	p.Session().Logger().Info("product updated", map[string]interface{}{
		"sku":   p.SKU,
		"scope": scope.String(),
	})
	return nil
}

// UpdateStock sets the quantity on hand. Stock drops to out-of-stock
// when the quantity reaches zero.
func (p *Product) UpdateStock(ctx context.Context, qty float64) error {
	return p.UpdateAttributes(ctx, map[string]any{
		"extension_attributes": map[string]any{
			"stock_item": map[string]any{
				"qty":         qty,
				"is_in_stock": qty > 0,
			},
		},
	}, DefaultScope())
}

// UpdateStatus enables or disables the product.
func (p *Product) UpdateStatus(ctx context.Context, status int) error {
	if status != ProductStatusEnabled && status != ProductStatusDisabled {
		return fmt.Errorf("%w: %d", ErrInvalidStatus, status)
	}
	return p.UpdateAttributes(ctx, map[string]any{"status": status}, DefaultScope())
}

// UpdatePrice sets the base price.
func (p *Product) UpdatePrice(ctx context.Context, price float64) error {
	return p.UpdateAttributes(ctx, map[string]any{"price": price}, DefaultScope())
}

// UpdateSpecialPrice sets the sale price, which must be below the
// current base price.
func (p *Product) UpdateSpecialPrice(ctx context.Context, price float64) error {
	if price >= p.Price {
		return fmt.Errorf("%w: %v >= %v", ErrPriceNotReduced, price, p.Price)
	}
	return p.UpdateCustomAttributes(ctx, map[string]any{"special_price": price}, DefaultScope())
}

// UpdateName sets the product name at the given scope.
func (p *Product) UpdateName(ctx context.Context, name string, scope Scope) error {
	return p.UpdateAttributes(ctx, map[string]any{"name": name}, scope)
}

// UpdateDescription sets the description at the given scope.
func (p *Product) UpdateDescription(ctx context.Context, description string, scope Scope) error {
	return p.UpdateCustomAttributes(ctx, map[string]any{"description": description}, scope)
}

// UpdateMetadata sets meta_title, meta_keyword and meta_description
// from the given map at the given scope.
func (p *Product) UpdateMetadata(ctx context.Context, meta map[string]any, scope Scope) error {
	return p.UpdateCustomAttributes(ctx, meta, scope)
}

// Delete removes the product from the catalog.
func (p *Product) Delete(ctx context.Context) error {
	resp, err := p.Session().Delete(ctx, p.ItemURL(), NoScope())
	if err != nil {
		return fmt.Errorf("deleting %q: %w", p.SKU, err)
	}
	if !resp.OK() {
		return fmt.Errorf("deleting %q: %w", p.SKU, ParseAPIError(resp.Body))
	}
	p.Session().Logger().Info("product deleted", map[string]interface{}{"sku": p.SKU})
	return nil
}

// ProductAttribute is one catalog product attribute (an EAV
// definition, not a value).
type ProductAttribute struct {
	Resource

	AttributeID          int    `json:"attribute_id"`
	AttributeCode        string `json:"attribute_code"`
	DefaultFrontendLabel string `json:"default_frontend_label"`
	FrontendInput        string `json:"frontend_input"`
	IsRequired           bool   `json:"is_required"`
	Scope                string `json:"scope"`
}

var productAttributeHydration = HydrateOptions{
	Excluded:      []string{"options"},
	KeepExcluded:  true,
	IdentifierKey: "attribute_code",
}

// ParseProductAttribute builds a ProductAttribute from a raw API
// object.
func ParseProductAttribute(session Session, data map[string]any) (*ProductAttribute, error) {
	attr := &ProductAttribute{}
	if err := attr.Attach(session, EndpointProductAttributes); err != nil {
		return nil, err
	}
	if err := attr.Hydrate(attr, data, productAttributeHydration); err != nil {
		return nil, err
	}
	return attr, nil
}

// IsWebsiteScoped reports whether values of this attribute are shared
// across all store views of a website.
func (a *ProductAttribute) IsWebsiteScoped() bool {
	return a.Scope == "website"
}

// Options returns the attribute's selectable options keyed by label.
func (a *ProductAttribute) Options() map[string]any {
	raw, _ := a.Private("options")
	list, ok := raw.([]any)
	if !ok {
		return map[string]any{}
	}
	pairs := make([]map[string]any, 0, len(list))
	for _, entry := range list {
		if pair, ok := entry.(map[string]any); ok {
			pairs = append(pairs, pair)
		}
	}
	return UnpackKeyValues(pairs, "label")
}
