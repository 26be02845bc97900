package query

import (
	"net/url"
	"strings"
)

// Reserved parameter keys. They drive the builder stages and are never
// treated as filter fields.
const (
	KeySearchTerm = "searchTerm"
	KeySort       = "sort"
	KeyLimit      = "limit"
	KeyPage       = "page"
	KeyFields     = "fields"
)

// ReservedKeys is the complete set of keys excluded from Filter.
var ReservedKeys = map[string]struct{}{
	KeySearchTerm: {},
	KeySort:       {},
	KeyLimit:      {},
	KeyPage:       {},
	KeyFields:     {},
}

// IsReserved reports whether key has builder-internal meaning.
func IsReserved(key string) bool {
	_, ok := ReservedKeys[key]
	return ok
}

// Params is the raw, already URL-decoded query string of a list request.
// A key may carry several values (e.g. ?status=a&status=b).
type Params map[string][]string

// FromValues converts url.Values into Params without copying the value slices.
func FromValues(v url.Values) Params {
	return Params(v)
}

// Get returns the first value for key with surrounding whitespace removed,
// or "" when the key is absent.
func (p Params) Get(key string) string {
	vs := p[key]
	if len(vs) == 0 {
		return ""
	}
	return strings.TrimSpace(vs[0])
}

// Has reports whether key is present with at least one non-blank value.
func (p Params) Has(key string) bool {
	for _, v := range p[key] {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// splitList splits a comma separated list, trimming entries and dropping
// empty ones.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
