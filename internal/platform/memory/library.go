package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/kestrel-dev/shelf-api/internal/domain"
	"github.com/kestrel-dev/shelf-api/internal/query"
	"github.com/kestrel-dev/shelf-api/internal/store"
)

// Library implements store.LibraryStore over two memory collections.
type Library struct {
	books   *store.Repository[domain.Book]
	borrows *store.Repository[domain.Borrow]

	// mu serializes borrows so the read-modify-write of a book is atomic.
	mu sync.Mutex
}

var _ store.LibraryStore = (*Library)(nil)

// NewLibrary creates a Library over the given book and borrow collections.
func NewLibrary(books, borrows *Collection) *Library {
	return &Library{
		books:   store.NewRepository[domain.Book](books, "book", store.ErrBookNotFound),
		borrows: store.NewRepository[domain.Borrow](borrows, "borrow", store.ErrBorrowNotFound),
	}
}

// Borrow implements store.LibraryStore.
func (l *Library) Borrow(ctx context.Context, bookID uuid.UUID, n int) (*domain.Book, *domain.Borrow, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	book, err := l.books.Get(ctx, bookID)
	if err != nil {
		return nil, nil, err
	}
	if err := book.Lend(n); err != nil {
		return nil, nil, err
	}
	borrow, err := domain.NewBorrow(book.ID, n)
	if err != nil {
		return nil, nil, err
	}

	if err := l.books.Update(ctx, book); err != nil {
		return nil, nil, err
	}
	if err := l.borrows.Create(ctx, *borrow); err != nil {
		return nil, nil, err
	}
	return &book, borrow, nil
}

// ListBorrowRecords implements store.LibraryStore.
func (l *Library) ListBorrowRecords(ctx context.Context) ([]domain.BorrowRecord, error) {
	docs, err := l.borrows.Collection().Find(ctx, query.Query{
		Sort: []query.SortKey{{Field: "createdAt"}},
	})
	if err != nil {
		return nil, err
	}

	records := make([]domain.BorrowRecord, 0, len(docs))
	for _, doc := range docs {
		var borrow domain.Borrow
		if err := decode(doc, &borrow); err != nil {
			return nil, store.NewStoreError("borrow", "list", "failed to decode borrow", err)
		}

		book, err := l.books.Get(ctx, borrow.BookID)
		switch {
		case err == nil:
			records = append(records, domain.NewBorrowRecord(borrow, &book))
		case errors.Is(err, store.ErrNotFound):
			records = append(records, domain.NewBorrowRecord(borrow, nil))
		default:
			return nil, err
		}
	}
	return records, nil
}

func decode(doc query.Document, v any) error {
	raw, err := store.JSON.Marshal(doc)
	if err != nil {
		return err
	}
	return store.JSON.Unmarshal(raw, v)
}
