package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kestrel-dev/shelf-api/internal/domain"
	"github.com/kestrel-dev/shelf-api/internal/platform/logger"
	"github.com/kestrel-dev/shelf-api/internal/query"
	"github.com/kestrel-dev/shelf-api/internal/store"
)

// BookRepository defines the book persistence the service needs.
// *store.Repository[domain.Book] satisfies it.
type BookRepository interface {
	Create(ctx context.Context, book domain.Book) error
	Get(ctx context.Context, id uuid.UUID) (domain.Book, error)
	Update(ctx context.Context, book domain.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, b query.Builder) ([]query.Document, query.Summary, error)
}

// LibraryService provides the book catalogue and lending operations
type LibraryService interface {
	CreateBook(ctx context.Context, details domain.BookDetails) (*domain.Book, error)
	GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	UpdateBook(ctx context.Context, id uuid.UUID, patch domain.BookPatch) (*domain.Book, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error
	ListBooks(ctx context.Context, b query.Builder) ([]query.Document, query.Summary, error)

	// Borrow lends n copies of a book. An invalid n is rejected before the
	// book is looked up.
	Borrow(ctx context.Context, bookID uuid.UUID, n int) (*domain.Book, *domain.Borrow, error)

	// ListBorrows returns every borrow with the book it refers to.
	ListBorrows(ctx context.Context) ([]domain.BorrowRecord, error)
}

type libraryServiceImpl struct {
	books   BookRepository
	lending store.LibraryStore
	logger  *slog.Logger
}

// NewLibraryService creates a new LibraryService.
// It returns an error if any of the required dependencies are nil.
func NewLibraryService(
	books BookRepository,
	lending store.LibraryStore,
	logger *slog.Logger,
) (LibraryService, error) {
	if books == nil {
		return nil, NewServiceError("library", "init", "book repository cannot be nil", domain.ErrValidation)
	}
	if lending == nil {
		return nil, NewServiceError("library", "init", "library store cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &libraryServiceImpl{
		books:   books,
		lending: lending,
		logger:  logger.With(slog.String("component", "library_service")),
	}, nil
}

// CreateBook implements LibraryService.CreateBook
func (s *libraryServiceImpl) CreateBook(ctx context.Context, details domain.BookDetails) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	book, err := domain.NewBook(details)
	if err != nil {
		return nil, NewServiceError("library", "create_book", "invalid book", err)
	}

	if err := s.books.Create(ctx, *book); err != nil {
		log.Error("failed to save book",
			slog.String("error", err.Error()),
			slog.String("book_id", book.ID.String()))
		return nil, NewServiceError("library", "create_book", "failed to save book", err)
	}

	log.Info("book created", slog.String("book_id", book.ID.String()))
	return book, nil
}

// GetBook implements LibraryService.GetBook
func (s *libraryServiceImpl) GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	book, err := s.books.Get(ctx, id)
	if err != nil {
		return nil, NewServiceError("library", "get_book", "failed to retrieve book", err)
	}
	return &book, nil
}

// UpdateBook implements LibraryService.UpdateBook
func (s *libraryServiceImpl) UpdateBook(
	ctx context.Context,
	id uuid.UUID,
	patch domain.BookPatch,
) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	book, err := s.books.Get(ctx, id)
	if err != nil {
		return nil, NewServiceError("library", "update_book", "failed to retrieve book", err)
	}
	if err := book.Apply(patch); err != nil {
		return nil, NewServiceError("library", "update_book", "invalid book update", err)
	}
	if err := s.books.Update(ctx, book); err != nil {
		log.Error("failed to update book",
			slog.String("error", err.Error()),
			slog.String("book_id", id.String()))
		return nil, NewServiceError("library", "update_book", "failed to save book", err)
	}

	log.Debug("book updated", slog.String("book_id", id.String()))
	return &book, nil
}

// DeleteBook implements LibraryService.DeleteBook
func (s *libraryServiceImpl) DeleteBook(ctx context.Context, id uuid.UUID) error {
	if err := s.books.Delete(ctx, id); err != nil {
		return NewServiceError("library", "delete_book", "failed to delete book", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("book deleted", slog.String("book_id", id.String()))
	return nil
}

// ListBooks implements LibraryService.ListBooks
func (s *libraryServiceImpl) ListBooks(
	ctx context.Context,
	b query.Builder,
) ([]query.Document, query.Summary, error) {
	docs, summary, err := s.books.List(ctx, b)
	if err != nil {
		if !query.IsInvalidParams(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to list books",
				slog.String("error", err.Error()))
		}
		return nil, query.Summary{}, NewServiceError("library", "list_books", "failed to list books", err)
	}
	return docs, summary, nil
}

// Borrow implements LibraryService.Borrow
func (s *libraryServiceImpl) Borrow(
	ctx context.Context,
	bookID uuid.UUID,
	n int,
) (*domain.Book, *domain.Borrow, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if n <= 0 {
		return nil, nil, NewServiceError("library", "borrow", "invalid borrow number", domain.ErrInvalidBorrowCount)
	}

	book, borrow, err := s.lending.Borrow(ctx, bookID, n)
	if err != nil {
		log.Debug("borrow rejected",
			slog.String("error", err.Error()),
			slog.String("book_id", bookID.String()),
			slog.Int("borrow_number", n))
		return nil, nil, NewServiceError("library", "borrow", "failed to borrow book", err)
	}
	return book, borrow, nil
}

// ListBorrows implements LibraryService.ListBorrows
func (s *libraryServiceImpl) ListBorrows(ctx context.Context) ([]domain.BorrowRecord, error) {
	records, err := s.lending.ListBorrowRecords(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list borrows",
			slog.String("error", err.Error()))
		return nil, NewServiceError("library", "list_borrows", "failed to list borrow records", err)
	}
	return records, nil
}
