package magento

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ParseFunc builds one typed model from a raw API object, attached to
// the given session.
type ParseFunc[M any] func(session Session, data map[string]any) (M, error)

// Query is a search against one endpoint, generic over the model type
// its results parse into. Build criteria with AddCriteria, then call
// Execute or one of the shorthand finishers.
type Query[M any] struct {
	session  Session
	endpoint string
	parse    ParseFunc[M]
	scope    Scope
	criteria SearchCriteria
}

// NewQuery builds a query for endpoint. A nil session or empty
// endpoint is a programming error and panics.
func NewQuery[M any](session Session, endpoint string, parse ParseFunc[M]) *Query[M] {
	if session == nil {
		panic(ErrNilSession)
	}
	if endpoint == "" {
		panic(ErrEndpointRequired)
	}
	return &Query[M]{session: session, endpoint: endpoint, parse: parse}
}

// AddCriteria adds a field filter. Each call starts a new filter group,
// which the API combines with AND; use WithGroup to place a filter in
// an existing group for OR semantics. The comparison defaults to
// equality.
func (q *Query[M]) AddCriteria(field, value string, opts ...CriteriaOption) *Query[M] {
	options := criteriaOptions{condition: ConditionEqual}
	for _, opt := range opts {
		opt(&options)
	}

	group := len(q.criteria.Groups)
	if options.hasGroup {
		group = options.group
	}
	q.criteria.Add(group, Filter{Field: field, Value: value, Condition: options.condition})
	return q
}

// RestrictFields limits the response to the named fields. The
// identifier field is always included so results stay addressable.
func (q *Query[M]) RestrictFields(fields ...string) *Query[M] {
	q.criteria.Fields = fields
	return q
}

// Page sets the page number and page size of the search.
func (q *Query[M]) Page(current, size int) *Query[M] {
	q.criteria.CurrentPage = current
	q.criteria.PageSize = size
	return q
}

// Since filters on records created strictly after the given timestamp
// (API datetime format, "2006-01-02 15:04:05").
func (q *Query[M]) Since(timestamp string) *Query[M] {
	return q.AddCriteria("created_at", timestamp, WithCondition(ConditionGreater))
}

// Until filters on records created at or before the given timestamp.
func (q *Query[M]) Until(timestamp string) *Query[M] {
	return q.AddCriteria("created_at", timestamp, WithCondition(ConditionLessEqual))
}

// Scoped overrides the store scope the search runs at.
func (q *Query[M]) Scoped(scope Scope) *Query[M] {
	q.scope = scope
	return q
}

// Reset clears all criteria, field restrictions and paging so the
// query can be reused.
func (q *Query[M]) Reset() *Query[M] {
	q.criteria = SearchCriteria{IdentifierField: q.criteria.IdentifierField}
	return q
}

// IdentifyBy overrides the force-included projection field for
// endpoints that do not key on entity_id (products key on sku,
// categories on id).
func (q *Query[M]) IdentifyBy(name string) *Query[M] {
	q.criteria.IdentifierField = name
	return q
}

// Execute runs the search and resolves the response into a typed
// result.
func (q *Query[M]) Execute(ctx context.Context) (*Result[M], error) {
	resp, err := q.session.Get(ctx, q.endpoint, q.criteria.ToValues(), q.scope)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", q.endpoint, err)
	}
	return q.resolve(resp.Body)
}

// ByID fetches a single entity directly by its URL identifier.
func (q *Query[M]) ByID(ctx context.Context, id string) (*Result[M], error) {
	resp, err := q.session.Get(ctx, q.endpoint+"/"+id, nil, q.scope)
	if err != nil {
		return nil, fmt.Errorf("fetching %s/%s: %w", q.endpoint, id, err)
	}
	return q.resolve(resp.Body)
}

// ByList searches for entities whose field matches any of the given
// values.
func (q *Query[M]) ByList(ctx context.Context, field string, values ...string) (*Result[M], error) {
	return q.AddCriteria(field, strings.Join(values, ","), WithCondition(ConditionIn)).Execute(ctx)
}

func (q *Query[M]) resolve(body []byte) (*Result[M], error) {
	raw, err := resolveRaw(body, q.endpoint, q.session.Logger())
	if err != nil {
		return nil, err
	}

	result := &Result[M]{kind: raw.kind}
	for _, item := range raw.items {
		var data map[string]any
		if err := json.Unmarshal(item, &data); err != nil {
			return nil, fmt.Errorf("%w: item is not an object", ErrUnknownResponseShape)
		}
		model, err := q.parse(q.session, data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s result: %w", q.endpoint, err)
		}
		result.items = append(result.items, model)
	}
	return result, nil
}
