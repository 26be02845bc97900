package query

import (
	"slices"
	"strings"
)

// SortKey orders results by one field.
type SortKey struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc"`
}

// String renders the key in sort-parameter syntax.
func (k SortKey) String() string {
	if k.Desc {
		return "-" + k.Field
	}
	return k.Field
}

// ParseSort parses "a,-b" into ordered keys. Invalid and repeated field
// names are dropped; the first occurrence of a field wins.
func ParseSort(spec string) []SortKey {
	var keys []SortKey
	seen := make(map[string]bool)
	for _, item := range splitList(spec) {
		key := SortKey{Field: item}
		switch {
		case strings.HasPrefix(item, "-"):
			key = SortKey{Field: item[1:], Desc: true}
		case strings.HasPrefix(item, "+"):
			key = SortKey{Field: item[1:]}
		}
		if !ValidField(key.Field) || seen[key.Field] {
			continue
		}
		seen[key.Field] = true
		keys = append(keys, key)
	}
	return keys
}

// SortDocuments orders docs in place by keys, then by IDField ascending.
// Missing and null values sort before every other value.
func SortDocuments(docs []Document, keys []SortKey) {
	slices.SortStableFunc(docs, func(a, b Document) int {
		for _, k := range keys {
			c := compareValues(a, b, k.Field)
			if k.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return compareValues(a, b, IDField)
	})
}

// typeRank orders values of different JSON types the way jsonb does:
// null < string < number < boolean < containers.
func typeRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case string:
		return 1
	case float64, int, int64:
		return 2
	case bool:
		return 3
	default:
		return 4
	}
}

func compareValues(a, b Document, field string) int {
	va, _ := a.Lookup(field)
	vb, _ := b.Lookup(field)

	ra, rb := typeRank(va), typeRank(vb)
	if ra != rb {
		return ra - rb
	}

	switch x := va.(type) {
	case string:
		y := vb.(string)
		if tx, ok := ParseTime(x); ok {
			if ty, ok := ParseTime(y); ok {
				return tx.Compare(ty)
			}
		}
		return strings.Compare(x, y)
	case bool:
		y := vb.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case nil:
		return 0
	}

	if ra == 2 {
		fa, _ := numberOf(va)
		fb, _ := numberOf(vb)
		return cmpFloat(fa, fb)
	}
	return 0
}

func numberOf(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}
