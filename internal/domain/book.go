package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Book validation and lending errors
var (
	ErrEmptyBookID        = fmt.Errorf("%w: book ID cannot be empty", ErrValidation)
	ErrEmptyBookTitle     = fmt.Errorf("%w: book title cannot be empty", ErrValidation)
	ErrEmptyBookAuthor    = fmt.Errorf("%w: book author cannot be empty", ErrValidation)
	ErrNegativeCopies     = fmt.Errorf("%w: copies cannot be negative", ErrValidation)
	ErrInvalidBorrowCount = fmt.Errorf("%w: invalid borrow number", ErrValidation)

	// ErrNoCopiesAvailable is returned when a book has no copies left.
	ErrNoCopiesAvailable = fmt.Errorf("%w: no copies available", ErrConflict)

	// ErrNotEnoughCopies is returned when more copies are requested than
	// the book has.
	ErrNotEnoughCopies = fmt.Errorf("%w: not enough copies available", ErrConflict)
)

// Book is a title held by the library.
type Book struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Author      string    `json:"author"`
	Genre       string    `json:"genre,omitempty"`
	ISBN        string    `json:"isbn,omitempty"`
	Copies      int       `json:"copies"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BookDetails holds the caller-supplied fields of a new book.
type BookDetails struct {
	Title       string
	Description string
	Author      string
	Genre       string
	ISBN        string
	Copies      int
	Available   *bool
}

// NewBook creates a book with a fresh ID and timestamps. Available defaults
// to true unless the details say otherwise.
func NewBook(d BookDetails) (*Book, error) {
	ts := now()
	book := &Book{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(d.Title),
		Description: d.Description,
		Author:      strings.TrimSpace(d.Author),
		Genre:       d.Genre,
		ISBN:        d.ISBN,
		Copies:      d.Copies,
		Available:   true,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if d.Available != nil {
		book.Available = *d.Available
	}

	if err := book.Validate(); err != nil {
		return nil, err
	}
	return book, nil
}

// Validate checks if the Book has valid data.
func (b *Book) Validate() error {
	if b.ID == uuid.Nil {
		return ErrEmptyBookID
	}
	if strings.TrimSpace(b.Title) == "" {
		return ErrEmptyBookTitle
	}
	if strings.TrimSpace(b.Author) == "" {
		return ErrEmptyBookAuthor
	}
	if b.Copies < 0 {
		return ErrNegativeCopies
	}
	return nil
}

// BookPatch lists the book fields a partial update may change.
type BookPatch struct {
	Title       *string
	Description *string
	Author      *string
	Genre       *string
	ISBN        *string
	Copies      *int
	Available   *bool
}

// Apply updates the book with the non-nil fields of p and validates the
// result. The book is left unchanged when validation fails.
func (b *Book) Apply(p BookPatch) error {
	next := *b
	if p.Title != nil {
		next.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.Author != nil {
		next.Author = strings.TrimSpace(*p.Author)
	}
	if p.Genre != nil {
		next.Genre = *p.Genre
	}
	if p.ISBN != nil {
		next.ISBN = *p.ISBN
	}
	if p.Copies != nil {
		next.Copies = *p.Copies
	}
	if p.Available != nil {
		next.Available = *p.Available
	}

	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = now()
	*b = next
	return nil
}

// Lend takes n copies out of the book and recomputes availability.
func (b *Book) Lend(n int) error {
	if n <= 0 {
		return ErrInvalidBorrowCount
	}
	if b.Copies <= 0 {
		return ErrNoCopiesAvailable
	}
	if n > b.Copies {
		return ErrNotEnoughCopies
	}

	b.Copies -= n
	b.Available = b.Copies > 0
	b.UpdatedAt = now()
	return nil
}

// EntityID implements store.Entity.
func (b Book) EntityID() uuid.UUID { return b.ID }

// EntityCreatedAt implements store.Entity.
func (b Book) EntityCreatedAt() time.Time { return b.CreatedAt }
