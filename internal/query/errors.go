package query

import "errors"

var (
	// ErrUnknownOperator is recorded when a filter key carries an
	// unsupported or malformed bracket suffix under UnknownOperatorReject.
	ErrUnknownOperator = errors.New("unknown filter operator")

	// ErrInvalidField is recorded when a filter key names an unusable field
	// under UnknownOperatorReject.
	ErrInvalidField = errors.New("invalid filter field")
)

// IsInvalidParams reports whether err was caused by the request parameters
// rather than by the store.
func IsInvalidParams(err error) bool {
	return errors.Is(err, ErrUnknownOperator) || errors.Is(err, ErrInvalidField)
}
