package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kestrel-dev/shelf-api/internal/api/shared"
	"github.com/kestrel-dev/shelf-api/internal/domain"
	"github.com/kestrel-dev/shelf-api/internal/query"
	"github.com/kestrel-dev/shelf-api/internal/store"
)

// Messages returned to clients. They never include error details.
const (
	msgTaskNotFound       = "Task not found"
	msgBookNotFound       = "Book not found"
	msgNotFound           = "Resource not found"
	msgInvalidBorrow      = "Invalid borrow number"
	msgNoCopies           = "No copies available"
	msgNotEnoughCopies    = "Not enough copies available"
	msgInvalidID          = "Invalid ID"
	msgInvalidQuery       = "Invalid query parameters"
	msgInvalidEntity      = "Invalid entity data"
	msgDuplicate          = "Resource already exists"
	msgValidation         = "Validation error"
	msgInvalidRequestBody = "Invalid request format"
	msgUnexpected         = "An unexpected error occurred"
)

// validationMessages lists the domain validation errors whose text is safe
// to show, in the order they are checked.
var validationMessages = []struct {
	err error
	msg string
}{
	{domain.ErrEmptyTaskTitle, "Invalid title: required field"},
	{domain.ErrInvalidTaskPriority, "Invalid priority: must be low, medium or high"},
	{domain.ErrEmptyBookTitle, "Invalid title: required field"},
	{domain.ErrEmptyBookAuthor, "Invalid author: required field"},
	{domain.ErrNegativeCopies, "Invalid copies: cannot be negative"},
}

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Lending conflicts are reported as bad requests, as clients of the
	// library frontends expect.
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrEmptyBody),
		query.IsInvalidParams(err):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return msgUnexpected
	}

	switch {
	case errors.Is(err, store.ErrTaskNotFound):
		return msgTaskNotFound
	case errors.Is(err, store.ErrBookNotFound):
		return msgBookNotFound
	case errors.Is(err, store.ErrNotFound):
		return msgNotFound

	case errors.Is(err, domain.ErrInvalidBorrowCount):
		return msgInvalidBorrow
	case errors.Is(err, domain.ErrNoCopiesAvailable):
		return msgNoCopies
	case errors.Is(err, domain.ErrNotEnoughCopies):
		return msgNotEnoughCopies

	case errors.Is(err, domain.ErrInvalidID):
		return msgInvalidID
	case query.IsInvalidParams(err):
		return msgInvalidQuery
	case errors.Is(err, store.ErrDuplicate):
		return msgDuplicate
	case errors.Is(err, store.ErrInvalidEntity):
		return msgInvalidEntity
	case errors.Is(err, shared.ErrEmptyBody):
		return msgInvalidRequestBody

	case errors.Is(err, domain.ErrValidation):
		for _, v := range validationMessages {
			if errors.Is(err, v.err) {
				return v.msg
			}
		}
		return msgValidation

	default:
		return msgUnexpected
	}
}

// HandleAPIError writes the status and safe message for err, logging the
// redacted details. defaultMsg replaces the generic message for
// server errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	msg := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		msg = defaultMsg
	}
	shared.RespondWithErrorAndLog(w, r, status, msg, err)
}

// SanitizeValidationError turns a validator error into a message naming the
// first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return msgValidation
	}

	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", lowerFirst(fe.Field()), getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	case "uuid", "uuid4":
		return "invalid ID format"
	default:
		return "validation failed"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
