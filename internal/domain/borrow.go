package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Borrow validation errors
var (
	ErrEmptyBorrowID     = fmt.Errorf("%w: borrow ID cannot be empty", ErrValidation)
	ErrEmptyBorrowBookID = fmt.Errorf("%w: borrow book ID cannot be empty", ErrValidation)
)

// Placeholder book information for borrow records whose book is gone.
const (
	MissingBookTitle       = "Book not found"
	MissingBookDescription = "The associated book was not found"
)

// Borrow records copies of a book taken out in one request.
type Borrow struct {
	ID           uuid.UUID `json:"id"`
	BookID       uuid.UUID `json:"bookId"`
	BorrowNumber int       `json:"borrowNumber"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewBorrow creates a borrow of n copies of bookID.
func NewBorrow(bookID uuid.UUID, n int) (*Borrow, error) {
	borrow := &Borrow{
		ID:           uuid.New(),
		BookID:       bookID,
		BorrowNumber: n,
		CreatedAt:    now(),
	}
	if err := borrow.Validate(); err != nil {
		return nil, err
	}
	return borrow, nil
}

// Validate checks if the Borrow has valid data.
func (b *Borrow) Validate() error {
	if b.ID == uuid.Nil {
		return ErrEmptyBorrowID
	}
	if b.BookID == uuid.Nil {
		return ErrEmptyBorrowBookID
	}
	if b.BorrowNumber <= 0 {
		return ErrInvalidBorrowCount
	}
	return nil
}

// EntityID implements store.Entity.
func (b Borrow) EntityID() uuid.UUID { return b.ID }

// EntityCreatedAt implements store.Entity.
func (b Borrow) EntityCreatedAt() time.Time { return b.CreatedAt }

// BookInfo is the book side of a borrow record.
type BookInfo struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Author      string     `json:"author,omitempty"`
	Genre       string     `json:"genre,omitempty"`
	ISBN        string     `json:"isbn,omitempty"`
	Copies      *int       `json:"copies,omitempty"`
	Available   *bool      `json:"available,omitempty"`
}

// BorrowRecord is a borrow joined with the book it refers to.
type BorrowRecord struct {
	ID           uuid.UUID `json:"id"`
	BorrowNumber int       `json:"borrowNumber"`
	BookInfo     BookInfo  `json:"bookInfo"`
}

// NewBorrowRecord joins borrow with book. A nil book yields the placeholder
// book information.
func NewBorrowRecord(borrow Borrow, book *Book) BorrowRecord {
	rec := BorrowRecord{ID: borrow.ID, BorrowNumber: borrow.BorrowNumber}
	if book == nil {
		rec.BookInfo = BookInfo{Title: MissingBookTitle, Description: MissingBookDescription}
		return rec
	}

	id, copies, available := book.ID, book.Copies, book.Available
	rec.BookInfo = BookInfo{
		ID:          &id,
		Title:       book.Title,
		Description: book.Description,
		Author:      book.Author,
		Genre:       book.Genre,
		ISBN:        book.ISBN,
		Copies:      &copies,
		Available:   &available,
	}
	return rec
}
