package query

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Document is a stored record decoded from JSON: strings, float64 numbers,
// bools, nested maps and slices.
type Document map[string]any

// Lookup resolves a dotted field path.
func (d Document) Lookup(path string) (any, bool) {
	var cur any = map[string]any(d)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// ValueKind is how a condition value is compared by ordering operators.
type ValueKind int

const (
	KindText ValueKind = iota
	KindNumber
	KindTime
)

func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	default:
		return "text"
	}
}

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

// ParseNumber parses s as a float, rejecting NaN and infinities.
func ParseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseTime parses an RFC 3339 timestamp or a YYYY-MM-DD date.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Classify reports the comparison kind of a raw value. Numbers win over
// dates so "2024" is a number.
func Classify(s string) ValueKind {
	if _, ok := ParseNumber(s); ok {
		return KindNumber
	}
	if _, ok := ParseTime(s); ok {
		return KindTime
	}
	return KindText
}

// Condition constrains one field.
type Condition struct {
	Field  string   `json:"field"`
	Op     Operator `json:"op"`
	Values []string `json:"values"`
}

// Value returns the first value of the condition.
func (c Condition) Value() string {
	if len(c.Values) == 0 {
		return ""
	}
	return c.Values[0]
}

// Kind is the comparison kind used by ordering operators.
func (c Condition) Kind() ValueKind {
	return Classify(c.Value())
}

// Match evaluates the condition against doc.
func (c Condition) Match(doc Document) bool {
	if len(c.Values) == 0 {
		return false
	}
	v, ok := doc.Lookup(c.Field)
	if c.Op == OpNe {
		return !ok || !equalsAny(v, c.Values[:1])
	}
	if !ok || v == nil {
		return false
	}

	switch c.Op {
	case OpEq:
		return equalsAny(v, c.Values[:1])
	case OpIn:
		return equalsAny(v, c.Values)
	case OpContains:
		needle := strings.ToLower(c.Value())
		return anyElement(v, func(e any) bool {
			s, ok := textOf(e)
			return ok && strings.Contains(strings.ToLower(s), needle)
		})
	case OpGt, OpGte, OpLt, OpLte:
		cmp, ok := compare(v, c.Value())
		if !ok {
			return false
		}
		switch c.Op {
		case OpGt:
			return cmp > 0
		case OpGte:
			return cmp >= 0
		case OpLt:
			return cmp < 0
		default:
			return cmp <= 0
		}
	}
	return false
}

// Predicate is the conjunction of All with the disjunction of Any.
// An empty predicate matches every document.
type Predicate struct {
	All []Condition `json:"all,omitempty"`
	Any []Condition `json:"any,omitempty"`
}

// IsEmpty reports whether the predicate matches everything.
func (p Predicate) IsEmpty() bool {
	return len(p.All) == 0 && len(p.Any) == 0
}

// Match evaluates the predicate against doc. Store backends must select
// exactly the documents for which Match is true.
func (p Predicate) Match(doc Document) bool {
	for _, c := range p.All {
		if !c.Match(doc) {
			return false
		}
	}
	if len(p.Any) == 0 {
		return true
	}
	for _, c := range p.Any {
		if c.Match(doc) {
			return true
		}
	}
	return false
}

// textOf renders a scalar the way a JSON text extraction would.
func textOf(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// anyElement applies fn to v, or to each element when v is an array.
func anyElement(v any, fn func(any) bool) bool {
	if arr, ok := v.([]any); ok {
		for _, e := range arr {
			if fn(e) {
				return true
			}
		}
		return false
	}
	return fn(v)
}

func equalsAny(v any, values []string) bool {
	return anyElement(v, func(e any) bool {
		s, ok := textOf(e)
		if !ok {
			return false
		}
		for _, want := range values {
			if s == want {
				return true
			}
		}
		return false
	})
}

// compare orders a document value against a raw condition value using the
// kind of the raw value. ok is false when the document value is not of that
// kind: numeric strings are not numbers.
func compare(v any, raw string) (int, bool) {
	switch Classify(raw) {
	case KindNumber:
		want, _ := ParseNumber(raw)
		got, ok := numberOf(v)
		if !ok {
			return 0, false
		}
		return cmpFloat(got, want), true
	case KindTime:
		want, _ := ParseTime(raw)
		s, ok := v.(string)
		if !ok {
			return 0, false
		}
		got, ok := ParseTime(s)
		if !ok {
			return 0, false
		}
		return got.Compare(want), true
	default:
		s, ok := textOf(v)
		if !ok {
			return 0, false
		}
		return strings.Compare(s, raw), true
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
