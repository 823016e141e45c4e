package model

import (
	"net/url"
	"strings"
)

// FilterState holds the listing constraints. Each field is optional; an
// empty string means "no constraint" and is never serialized.
type FilterState struct {
	Type     string
	Category string
	Location string
	Search   string
}

// IsZero reports whether no constraint is set.
func (f FilterState) IsZero() bool {
	return f.Type == "" && f.Category == "" && f.Location == "" && f.Search == ""
}

// Query serializes the non-empty fields. This is the only place a filter
// becomes wire parameters; callers never concatenate query strings by hand.
func (f FilterState) Query() url.Values {
	q := url.Values{}
	if v := strings.TrimSpace(f.Type); v != "" {
		q.Set("type", v)
	}
	if v := strings.TrimSpace(f.Category); v != "" {
		q.Set("category", v)
	}
	if v := strings.TrimSpace(f.Location); v != "" {
		q.Set("location", v)
	}
	if v := strings.TrimSpace(f.Search); v != "" {
		q.Set("search", v)
	}
	return q
}
