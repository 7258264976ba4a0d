package magento

// APIResponse is the catch-all model for endpoints without a dedicated
// typed struct. Everything the API returned is reachable through the
// raw accessors, Custom and Extra.
type APIResponse struct {
	Resource
}

// ParseGenericFor returns a parse function producing untyped models
// for the given endpoint. The identifier is taken from "id" when
// present, falling back to "entity_id".
func ParseGenericFor(endpoint string) ParseFunc[*APIResponse] {
	return func(session Session, data map[string]any) (*APIResponse, error) {
		m := &APIResponse{}
		if err := m.Attach(session, endpoint); err != nil {
			return nil, err
		}
		idKey := defaultIdentifierField
		if _, ok := data["id"]; ok {
			idKey = "id"
		}
		if err := m.Hydrate(m, data, HydrateOptions{IdentifierKey: idKey}); err != nil {
			return nil, err
		}
		return m, nil
	}
}
