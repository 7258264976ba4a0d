package magento

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Condition is a search-criteria comparison operator.
type Condition string

const (
	ConditionEqual        Condition = "eq"
	ConditionGreater      Condition = "gt"
	ConditionLess         Condition = "lt"
	ConditionGreaterEqual Condition = "gteq"
	ConditionLessEqual    Condition = "lteq"
	ConditionIn           Condition = "in"
	ConditionLike         Condition = "like"
)

// Filter is one {field, value, condition} triple of a filter group.
type Filter struct {
	Field     string
	Value     string
	Condition Condition
}

// FilterGroup is an ordered set of filters. Filters within a group are
// ORed; groups are ANDed with each other.
type FilterGroup struct {
	Filters []Filter
}

// SearchCriteria is the structured form of a search-criteria query.
// The positional query-string encoding lives entirely in ToValues, and
// ParseSearchCriteria decodes it back.
type SearchCriteria struct {
	Groups      []FilterGroup
	Fields      []string
	CurrentPage int
	PageSize    int

	// IdentifierField is force-included in the field projection so
	// result parsing never loses the per-item identifier. Defaults to
	// "entity_id" when empty.
	IdentifierField string
}

const defaultIdentifierField = "entity_id"

// Add appends a filter at an explicit group and in-group position.
// Missing intermediate groups are created empty.
func (sc *SearchCriteria) Add(group int, filter Filter) {
	for len(sc.Groups) <= group {
		sc.Groups = append(sc.Groups, FilterGroup{})
	}
	sc.Groups[group].Filters = append(sc.Groups[group].Filters, filter)
}

// ToValues encodes the criteria as API query parameters using the
// positional searchCriteria[filter_groups][G][filters][F][...] keys.
func (sc *SearchCriteria) ToValues() url.Values {
	values := url.Values{}

	for g, group := range sc.Groups {
		for f, flt := range group.Filters {
			prefix := fmt.Sprintf("searchCriteria[filter_groups][%d][filters][%d]", g, f)
			values.Set(prefix+"[field]", flt.Field)
			values.Set(prefix+"[value]", flt.Value)
			values.Set(prefix+"[condition_type]", string(flt.Condition))
		}
	}

	if sc.CurrentPage > 0 {
		values.Set("searchCriteria[currentPage]", strconv.Itoa(sc.CurrentPage))
	}
	if sc.PageSize > 0 {
		values.Set("searchCriteria[pageSize]", strconv.Itoa(sc.PageSize))
	}

	if len(sc.Fields) > 0 {
		fields := sc.Fields
		identifier := sc.IdentifierField
		if identifier == "" {
			identifier = defaultIdentifierField
		}
		if !containsField(fields, identifier) {
			fields = append(append([]string{}, fields...), identifier)
		}
		values.Set("fields", "items["+strings.Join(fields, ",")+"]")
	}

	return values
}

func containsField(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}

var criteriaKeyPattern = regexp.MustCompile(
	`^searchCriteria\[filter_groups\]\[(\d+)\]\[filters\]\[(\d+)\]\[(field|value|condition_type)\]$`)

// ParseSearchCriteria decodes the positional filter-group keys of an
// encoded query back into structured criteria. Field projection and
// paging parameters are ignored.
func ParseSearchCriteria(values url.Values) (*SearchCriteria, error) {
	type position struct{ group, filter int }
	partial := make(map[position]*Filter)

	for key := range values {
		match := criteriaKeyPattern.FindStringSubmatch(key)
		if match == nil {
			continue
		}
		group, _ := strconv.Atoi(match[1])
		filter, _ := strconv.Atoi(match[2])
		pos := position{group, filter}

		flt := partial[pos]
		if flt == nil {
			flt = &Filter{}
			partial[pos] = flt
		}
		switch match[3] {
		case "field":
			flt.Field = values.Get(key)
		case "value":
			flt.Value = values.Get(key)
		case "condition_type":
			flt.Condition = Condition(values.Get(key))
		}
	}

	positions := make([]position, 0, len(partial))
	for pos := range partial {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].group != positions[j].group {
			return positions[i].group < positions[j].group
		}
		return positions[i].filter < positions[j].filter
	})

	criteria := &SearchCriteria{}
	for _, pos := range positions {
		flt := partial[pos]
		if flt.Field == "" {
			return nil, fmt.Errorf("%w: filter group %d filter %d has no field",
				ErrUnknownResponseShape, pos.group, pos.filter)
		}
		criteria.Add(pos.group, *flt)
	}
	return criteria, nil
}

// CriteriaOption adjusts the placement of a filter added through
// Query.AddCriteria.
type CriteriaOption func(*criteriaOptions)

type criteriaOptions struct {
	condition Condition
	group     int
	hasGroup  bool
}

// WithCondition overrides the default "eq" comparison.
func WithCondition(c Condition) CriteriaOption {
	return func(o *criteriaOptions) { o.condition = c }
}

// WithGroup places the filter in an explicit filter group instead of
// starting a new one. Filters sharing a group are ORed.
func WithGroup(group int) CriteriaOption {
	return func(o *criteriaOptions) {
		o.group = group
		o.hasGroup = true
	}
}
