package query

import (
	"fmt"
	"regexp"
	"strings"
)

// Operator is a comparison applied by a Condition.
type Operator string

// Supported operators. OpContains is produced by Search only and cannot be
// requested through a bracket suffix.
const (
	OpEq       Operator = "eq"
	OpNe       Operator = "ne"
	OpGt       Operator = "gt"
	OpGte      Operator = "gte"
	OpLt       Operator = "lt"
	OpLte      Operator = "lte"
	OpIn       Operator = "in"
	OpContains Operator = "contains"
)

// suffixOperators maps the bracket suffix of a filter key (field[gte]=5) to
// its operator. It is the only source of truth for accepted suffixes.
var suffixOperators = map[string]Operator{
	"eq":  OpEq,
	"ne":  OpNe,
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
	"in":  OpIn,
}

// IsOrdering reports whether op compares by order rather than identity.
func (op Operator) IsOrdering() bool {
	switch op {
	case OpGt, OpGte, OpLt, OpLte:
		return true
	default:
		return false
	}
}

// UnknownOperatorPolicy decides what Filter does with a key whose bracket
// suffix is not in the operator table, whose bracket syntax is malformed, or
// whose field name is invalid.
type UnknownOperatorPolicy string

const (
	// UnknownOperatorIgnore drops the offending key and keeps the rest.
	UnknownOperatorIgnore UnknownOperatorPolicy = "ignore"
	// UnknownOperatorReject records an error on the builder.
	UnknownOperatorReject UnknownOperatorPolicy = "reject"
)

// ParsePolicy converts a configuration string into a policy.
func ParsePolicy(s string) (UnknownOperatorPolicy, error) {
	switch UnknownOperatorPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", UnknownOperatorIgnore:
		return UnknownOperatorIgnore, nil
	case UnknownOperatorReject:
		return UnknownOperatorReject, nil
	default:
		return "", fmt.Errorf("unknown operator policy %q", s)
	}
}

var (
	// fieldPattern accepts plain and dotted field paths such as "title" or
	// "meta.pages".
	fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
	// bracketPattern splits "field[op]" into field and op.
	bracketPattern = regexp.MustCompile(`^([^\[\]]+)\[([^\[\]]*)\]$`)
)

// ValidField reports whether name is usable as a document field path.
func ValidField(name string) bool {
	return fieldPattern.MatchString(name)
}

// parseFilterKey splits a raw filter key into field and operator.
// "priority" yields (priority, eq); "copies[gte]" yields (copies, gte).
func parseFilterKey(key string) (string, Operator, error) {
	if !strings.ContainsAny(key, "[]") {
		if !ValidField(key) {
			return "", "", fmt.Errorf("%w: %q", ErrInvalidField, key)
		}
		return key, OpEq, nil
	}

	m := bracketPattern.FindStringSubmatch(key)
	if m == nil {
		return "", "", fmt.Errorf("%w: malformed key %q", ErrUnknownOperator, key)
	}

	field, suffix := m[1], strings.ToLower(m[2])
	if !ValidField(field) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidField, field)
	}

	op, ok := suffixOperators[suffix]
	if !ok {
		return "", "", fmt.Errorf("%w: %q on field %q", ErrUnknownOperator, suffix, field)
	}
	return field, op, nil
}
