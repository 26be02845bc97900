package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/kestrel-dev/shelf-api/internal/domain"
)

// LibraryStore covers the library operations that span books and borrows.
type LibraryStore interface {
	// Borrow lends n copies of the book and records the borrow atomically.
	// It returns the updated book and the new borrow, ErrBookNotFound when
	// the book does not exist, or the domain error from Book.Lend.
	Borrow(ctx context.Context, bookID uuid.UUID, n int) (*domain.Book, *domain.Borrow, error)

	// ListBorrowRecords returns every borrow joined with its book, oldest
	// first. Borrows whose book is gone carry placeholder book information.
	ListBorrowRecords(ctx context.Context) ([]domain.BorrowRecord, error)
}
