package magento

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// CustomAttribute is one entry of the API's custom_attributes list.
type CustomAttribute struct {
	AttributeCode string `json:"attribute_code"`
	Value         any    `json:"value"`
}

// UnpackAttributes flattens a custom_attributes list into a plain map
// keyed by attribute code.
func UnpackAttributes(attrs []CustomAttribute) map[string]any {
	unpacked := make(map[string]any, len(attrs))
	for _, attr := range attrs {
		unpacked[attr.AttributeCode] = attr.Value
	}
	return unpacked
}

// PackAttributes converts a plain attribute map back into the list
// form the API expects on writes. Entries are sorted by code so
// request bodies are deterministic.
func PackAttributes(attrs map[string]any) []CustomAttribute {
	codes := make([]string, 0, len(attrs))
	for code := range attrs {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	packed := make([]CustomAttribute, 0, len(codes))
	for _, code := range codes {
		packed = append(packed, CustomAttribute{AttributeCode: code, Value: attrs[code]})
	}
	return packed
}

// UnpackKeyValues flattens a list of {<keyField>, value} objects into a
// map. The API uses this shape with different key fields: "key" for
// payment additional information, "label" for attribute options.
func UnpackKeyValues(items []map[string]any, keyField string) map[string]any {
	unpacked := make(map[string]any, len(items))
	for _, item := range items {
		key, ok := item[keyField].(string)
		if !ok {
			continue
		}
		unpacked[key] = item["value"]
	}
	return unpacked
}

// EncodeSKU escapes a SKU for use as a URL path segment. SKUs may
// contain slashes and spaces, which must not be interpreted as path
// structure.
func EncodeSKU(sku string) string {
	return url.QueryEscape(sku)
}

// HydrateOptions configures how raw API data is mapped onto a typed
// model.
type HydrateOptions struct {
	// Excluded names raw keys that are stripped before hydration, on
	// top of custom_attributes which is always handled separately.
	Excluded []string

	// KeepExcluded retains stripped keys in a private bag readable
	// through Private, for models that expose them via curated
	// accessors only.
	KeepExcluded bool

	// IdentifierKey is the raw key holding the value used to build the
	// item URL ("<endpoint>/<identifier>"). Defaults to "entity_id".
	IdentifierKey string

	// EncodeIdentifier applies SKU escaping to the identifier when
	// building URLs.
	EncodeIdentifier bool
}

// Resource is the base of every typed model. It keeps the raw data
// bag, the unpacked custom attributes, and every key the typed schema
// did not claim, so nothing the API returned is silently dropped.
type Resource struct {
	session  Session
	endpoint string
	opts     HydrateOptions

	data    map[string]any
	private map[string]any

	// Custom holds the unpacked custom_attributes map.
	Custom map[string]any `json:"-"`

	// Extra holds raw keys not claimed by the typed schema.
	Extra map[string]any `json:"-"`

	cache     map[string]any
	rehydrate func(data map[string]any) error
}

// Attach binds the resource to a session and endpoint. It must be
// called before Hydrate or any session-backed method.
func (r *Resource) Attach(session Session, endpoint string) error {
	if session == nil {
		return ErrNilSession
	}
	if endpoint == "" {
		return ErrEndpointRequired
	}
	r.session = session
	r.endpoint = endpoint
	return nil
}

// Session returns the attached session.
func (r *Resource) Session() Session {
	return r.session
}

// Endpoint returns the collection endpoint this resource belongs to.
func (r *Resource) Endpoint() string {
	return r.endpoint
}

// Hydrate maps raw API data onto target, which must be a pointer to
// the struct embedding this Resource. Keys listed in opts.Excluded are
// stripped first, custom_attributes is unpacked into Custom, the
// remainder is decoded through the struct's json tags, and unclaimed
// keys land in Extra.
func (r *Resource) Hydrate(target any, data map[string]any, opts HydrateOptions) error {
	if r.session == nil {
		return ErrNotAttached
	}
	if data == nil {
		return ErrInvalidResourceData
	}
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: target must be a non-nil struct pointer", ErrInvalidResourceData)
	}

	working := make(map[string]any, len(data))
	for k, v := range data {
		working[k] = v
	}

	private := make(map[string]any)
	for _, key := range opts.Excluded {
		if v, ok := working[key]; ok {
			if opts.KeepExcluded {
				private[key] = v
			}
			delete(working, key)
		}
	}

	custom := map[string]any{}
	if rawCustom, ok := working["custom_attributes"]; ok {
		attrs, err := decodeCustomAttributes(rawCustom)
		if err != nil {
			return err
		}
		custom = UnpackAttributes(attrs)
		delete(working, "custom_attributes")
	}

	encoded, err := json.Marshal(working)
	if err != nil {
		return fmt.Errorf("encoding resource data: %w", err)
	}
	if err := json.Unmarshal(encoded, target); err != nil {
		return fmt.Errorf("hydrating %T: %w", target, err)
	}

	claimed := claimedKeys(rv.Elem().Type())
	extra := make(map[string]any)
	for k, v := range working {
		if !claimed[k] {
			extra[k] = v
		}
	}

	if opts.IdentifierKey == "" {
		opts.IdentifierKey = defaultIdentifierField
	}

	r.opts = opts
	r.data = data
	r.private = private
	r.Custom = custom
	r.Extra = extra
	r.cache = nil
	r.rehydrate = func(next map[string]any) error {
		return r.Hydrate(target, next, opts)
	}
	return nil
}

// decodeCustomAttributes tolerates both the decoded-map form and an
// already-typed list.
func decodeCustomAttributes(raw any) ([]CustomAttribute, error) {
	if attrs, ok := raw.([]CustomAttribute); ok {
		return attrs, nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding custom attributes: %w", err)
	}
	var attrs []CustomAttribute
	if err := json.Unmarshal(encoded, &attrs); err != nil {
		return nil, fmt.Errorf("%w: custom_attributes is not an attribute list", ErrInvalidResourceData)
	}
	return attrs, nil
}

// claimedKeys collects the json key names a struct type handles,
// following embedded structs the way encoding/json does.
func claimedKeys(t reflect.Type) map[string]bool {
	keys := make(map[string]bool)
	collectClaimedKeys(t, keys)
	return keys
}

func collectClaimedKeys(t reflect.Type, keys map[string]bool) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			ft := field.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collectClaimedKeys(ft, keys)
			}
			continue
		}
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if name == "" {
			name = field.Name
		}
		keys[name] = true
	}
}

// Data returns the full raw data bag as received from the API.
func (r *Resource) Data() map[string]any {
	return r.data
}

// Private returns an excluded key retained through KeepExcluded.
func (r *Resource) Private(key string) (any, bool) {
	v, ok := r.private[key]
	return v, ok
}

// UID returns the identifier value used in item URLs, as a string.
func (r *Resource) UID() string {
	raw, ok := r.data[r.identifierKey()]
	if !ok {
		return ""
	}
	return rawToString(raw)
}

func (r *Resource) identifierKey() string {
	if r.opts.IdentifierKey != "" {
		return r.opts.IdentifierKey
	}
	return defaultIdentifierField
}

// ItemURL returns "<endpoint>/<identifier>" with the identifier
// escaped when the model requires it.
func (r *Resource) ItemURL() string {
	uid := r.UID()
	if r.opts.EncodeIdentifier {
		uid = EncodeSKU(uid)
	}
	return r.endpoint + "/" + uid
}

// Refresh re-fetches the resource at the given scope and re-hydrates
// it in place, evicting all cached derived values. On failure the
// current state is left untouched.
func (r *Resource) Refresh(ctx context.Context, scope Scope) error {
	if r.session == nil {
		return ErrNotAttached
	}
	if r.rehydrate == nil {
		return fmt.Errorf("%w: resource was never hydrated", ErrInvalidResourceData)
	}

	resp, err := r.session.Get(ctx, r.ItemURL(), nil, scope)
	if err != nil {
		return fmt.Errorf("refreshing %s: %w", r.ItemURL(), err)
	}
	if !resp.OK() {
		return fmt.Errorf("refreshing %s: %w", r.ItemURL(), ParseAPIError(resp.Body))
	}

	var data map[string]any
	if err := resp.JSON(&data); err != nil {
		return fmt.Errorf("refreshing %s: %w", r.ItemURL(), err)
	}
	if err := r.rehydrate(data); err != nil {
		return err
	}
	r.session.Logger().Debug("resource refreshed", map[string]interface{}{
		"endpoint": r.ItemURL(),
		"scope":    scope.String(),
	})
	return nil
}

// cached memoizes a derived value per resource instance. The cache is
// evicted by Clear and on every re-hydration.
func (r *Resource) cached(name string, compute func() (any, error)) (any, error) {
	if v, ok := r.cache[name]; ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		return nil, err
	}
	if r.cache == nil {
		r.cache = make(map[string]any)
	}
	r.cache[name] = v
	return v, nil
}

// Clear evicts cached derived values by name, or all of them when no
// names are given.
func (r *Resource) Clear(names ...string) {
	if len(names) == 0 {
		r.cache = nil
		return
	}
	for _, name := range names {
		delete(r.cache, name)
	}
}

// GetString reads a raw data key as a string.
func (r *Resource) GetString(key string) string {
	v, ok := r.data[key]
	if !ok {
		return ""
	}
	return rawToString(v)
}

// GetFloat reads a raw data key as a float64.
func (r *Resource) GetFloat(key string) float64 {
	switch v := r.data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	case json.Number:
		f, _ := v.Float64()
		return f
	default:
		return 0
	}
}

// GetInt reads a raw data key as an int.
func (r *Resource) GetInt(key string) int {
	return int(r.GetFloat(key))
}

// GetBool reads a raw data key as a bool. Numeric 0/1 values are
// accepted since the API is inconsistent about boolean encoding.
func (r *Resource) GetBool(key string) bool {
	switch v := r.data[key].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v == "1" || strings.EqualFold(v, "true")
	default:
		return false
	}
}

func rawToString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
