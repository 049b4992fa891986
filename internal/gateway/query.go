package gateway

import (
	"net/url"
	"strconv"
)

// DefaultPageSize is the fixed page size every list screen requests.
const DefaultPageSize = 20

// Query describes one list request: free-text search, filter fields, sort
// order and paging. Empty values are stripped before sending; absence, not
// empty-string, signals "no filter".
type Query struct {
	Search    string
	Filters   map[string]string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// WithFilter returns a copy with the filter set (or removed when value is
// empty). The receiver is not modified; controllers own their query state.
func (q Query) WithFilter(key, value string) Query {
	filters := make(map[string]string, len(q.Filters)+1)
	for k, v := range q.Filters {
		filters[k] = v
	}
	if value == "" {
		delete(filters, key)
	} else {
		filters[key] = value
	}
	q.Filters = filters
	return q
}

// Values renders the query as URL parameters.
func (q Query) Values() url.Values {
	values := url.Values{}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	for key, value := range q.Filters {
		if key == "" || value == "" {
			continue
		}
		values.Set(key, value)
	}
	if q.SortBy != "" {
		values.Set("sortBy", q.SortBy)
		order := q.SortOrder
		if order == "" {
			order = "asc"
		}
		values.Set("sortOrder", order)
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	values.Set("page", strconv.Itoa(page))
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	values.Set("limit", strconv.Itoa(limit))
	return values
}
