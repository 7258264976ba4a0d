package magento

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ResultKind tags the outcome of a resolved search response.
type ResultKind int

const (
	// ResultNone means the search matched nothing (not an error).
	ResultNone ResultKind = iota
	// ResultOne means exactly one entity was returned.
	ResultOne
	// ResultMany means two or more entities were returned.
	ResultMany
)

// Result is the uniform typed outcome of a search: no match, one item,
// or many items.
type Result[M any] struct {
	kind  ResultKind
	items []M
}

// Kind returns the result tag.
func (r *Result[M]) Kind() ResultKind {
	return r.kind
}

// IsEmpty reports whether the search matched nothing.
func (r *Result[M]) IsEmpty() bool {
	return r.kind == ResultNone
}

// Count returns the number of matched items.
func (r *Result[M]) Count() int {
	return len(r.items)
}

// First returns the first matched item, if any.
func (r *Result[M]) First() (M, bool) {
	if len(r.items) == 0 {
		var zero M
		return zero, false
	}
	return r.items[0], true
}

// All returns every matched item. Empty for ResultNone.
func (r *Result[M]) All() []M {
	return r.items
}

// rawResult classifies the shape of a raw response body. The API has
// no explicit response-type discriminant, so classification is
// structural; the ladder below must be applied in this exact order.
type rawResult struct {
	kind  ResultKind
	items []json.RawMessage
}

// resolveRaw disambiguates a raw response body:
//
//  1. empty body / null / {}          -> no result
//  2. bare array                      -> list of entities
//  3. object with a "message" key     -> API error; logged, no result
//  4. object with more than 3 keys    -> single full entity (direct fetch)
//  5. object with an "items" key      -> collection envelope
//  6. anything else                   -> ErrUnknownResponseShape
//
// Step 4 is a heuristic against the envelope's fixed key set (items,
// total_count, search_criteria); it is fragile by nature but matches
// what the API actually returns.
func resolveRaw(body []byte, endpoint string, logger Logger) (*rawResult, error) {
	if logger == nil {
		logger = NoopLogger{}
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &rawResult{kind: ResultNone}, nil
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownResponseShape, truncate(trimmed))
		}
		return listResult(items, endpoint, logger), nil
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &object); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResponseShape, truncate(trimmed))
	}

	if len(object) == 0 {
		return &rawResult{kind: ResultNone}, nil
	}

	if msg, ok := object["message"]; ok && !isNullOrEmpty(msg) {
		logger.Warn("search failed", map[string]interface{}{
			"endpoint": endpoint,
			"error":    ParseAPIError(trimmed).Error(),
		})
		return &rawResult{kind: ResultNone}, nil
	}

	// A direct by-id/by-sku fetch returns the full entity object, which
	// always has more keys than the collection envelope.
	if len(object) > 3 {
		return &rawResult{kind: ResultOne, items: []json.RawMessage{trimmed}}, nil
	}

	if rawItems, ok := object["items"]; ok {
		var items []json.RawMessage
		if !isNullOrEmpty(rawItems) {
			if err := json.Unmarshal(rawItems, &items); err != nil {
				return nil, fmt.Errorf("%w: %s", ErrUnknownResponseShape, truncate(trimmed))
			}
		}
		return listResult(items, endpoint, logger), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownResponseShape, truncate(trimmed))
}

func listResult(items []json.RawMessage, endpoint string, logger Logger) *rawResult {
	switch len(items) {
	case 0:
		logger.Info("no matching results", map[string]interface{}{"endpoint": endpoint})
		return &rawResult{kind: ResultNone}
	case 1:
		return &rawResult{kind: ResultOne, items: items}
	default:
		return &rawResult{kind: ResultMany, items: items}
	}
}

func isNullOrEmpty(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 ||
		bytes.Equal(trimmed, []byte("null")) ||
		bytes.Equal(trimmed, []byte(`""`)) ||
		bytes.Equal(trimmed, []byte("[]"))
}

const maxErrorBody = 512

func truncate(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}
