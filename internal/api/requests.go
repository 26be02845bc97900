package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/kestrel-dev/shelf-api/internal/domain"
	"github.com/kestrel-dev/shelf-api/internal/query"
)

// Date is a time accepted as an RFC 3339 timestamp or a YYYY-MM-DD date.
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, ok := query.ParseTime(s)
	if !ok {
		return fmt.Errorf("invalid date %q", s)
	}
	d.Time = t
	return nil
}

// OptionalDate tells an absent field apart from an explicit null.
type OptionalDate struct {
	Set   bool
	Value *Date
}

// UnmarshalJSON implements json.Unmarshaler. It is only called when the
// field is present.
func (o *OptionalDate) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Value = nil
		return nil
	}
	var d Date
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	o.Value = &d
	return nil
}

// CreateTaskRequest is the body of POST /api/tasks.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority"    validate:"required,oneof=low medium high"`
	DueDate     *Date  `json:"dueDate"`
}

// UpdateTaskRequest is the body of PATCH /api/tasks/{id}. Absent fields are
// left unchanged; a null dueDate clears it.
type UpdateTaskRequest struct {
	Title       *string      `json:"title"       validate:"omitempty,min=1"`
	Description *string      `json:"description"`
	Priority    *string      `json:"priority"    validate:"omitempty,oneof=low medium high"`
	DueDate     OptionalDate `json:"dueDate"`
	IsCompleted *bool        `json:"isCompleted"`
}

// Patch converts the request into a domain patch.
func (req UpdateTaskRequest) Patch() domain.TaskPatch {
	p := domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		IsCompleted: req.IsCompleted,
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		p.Priority = &priority
	}
	if req.DueDate.Set {
		if req.DueDate.Value == nil {
			p.ClearDue = true
		} else {
			due := req.DueDate.Value.Time
			p.DueDate = &due
		}
	}
	return p
}

// CreateBookRequest is the body of POST /api/books.
type CreateBookRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description"`
	Author      string `json:"author"      validate:"required"`
	Genre       string `json:"genre"`
	ISBN        string `json:"isbn"`
	Copies      int    `json:"copies"      validate:"min=0"`
	Available   *bool  `json:"available"`
}

// Details converts the request into domain book details.
func (req CreateBookRequest) Details() domain.BookDetails {
	return domain.BookDetails{
		Title:       req.Title,
		Description: req.Description,
		Author:      req.Author,
		Genre:       req.Genre,
		ISBN:        req.ISBN,
		Copies:      req.Copies,
		Available:   req.Available,
	}
}

// UpdateBookRequest is the body of PATCH /api/books/{id}.
type UpdateBookRequest struct {
	Title       *string `json:"title"       validate:"omitempty,min=1"`
	Description *string `json:"description"`
	Author      *string `json:"author"      validate:"omitempty,min=1"`
	Genre       *string `json:"genre"`
	ISBN        *string `json:"isbn"`
	Copies      *int    `json:"copies"      validate:"omitempty,min=0"`
	Available   *bool   `json:"available"`
}

// Patch converts the request into a domain patch.
func (req UpdateBookRequest) Patch() domain.BookPatch {
	return domain.BookPatch{
		Title:       req.Title,
		Description: req.Description,
		Author:      req.Author,
		Genre:       req.Genre,
		ISBN:        req.ISBN,
		Copies:      req.Copies,
		Available:   req.Available,
	}
}

// BorrowRequest is the body of POST /api/borrow. Field names match
// case-insensitively, so "bookid" is accepted as well.
type BorrowRequest struct {
	BookID       string   `json:"bookId"`
	BorrowNumber *float64 `json:"borrowNumber"`
}

// Count returns the number of copies requested, or an error when it is
// missing, not a positive whole number, or out of range.
func (req BorrowRequest) Count() (int, error) {
	if req.BorrowNumber == nil {
		return 0, domain.ErrInvalidBorrowCount
	}
	n := *req.BorrowNumber
	if n <= 0 || n != math.Trunc(n) || n > math.MaxInt32 {
		return 0, domain.ErrInvalidBorrowCount
	}
	return int(n), nil
}
