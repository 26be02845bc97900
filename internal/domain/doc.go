// Package domain holds the entities served by the API: tasks, books and
// borrows. Entities validate themselves and report failures as sentinel
// errors wrapping ErrValidation or ErrConflict, which the API layer maps to
// HTTP status codes.
package domain
