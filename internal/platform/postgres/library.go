package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kestrel-dev/shelf-api/internal/domain"
	"github.com/kestrel-dev/shelf-api/internal/platform/logger"
	"github.com/kestrel-dev/shelf-api/internal/store"
)

// Library implements store.LibraryStore with one transaction per borrow.
type Library struct {
	db      *sqlx.DB
	books   *Collection
	borrows *Collection
	logger  *slog.Logger
}

var _ store.LibraryStore = (*Library)(nil)

// NewLibrary creates a Library over the book and borrow collections of db.
func NewLibrary(db *sqlx.DB, books, borrows *Collection, logger *slog.Logger) *Library {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Library{
		db:      db,
		books:   books,
		borrows: borrows,
		logger:  logger.With(slog.String("component", "library_store")),
	}
}

// Borrow implements store.LibraryStore. The book row stays locked from the
// read until the borrow is recorded.
func (l *Library) Borrow(ctx context.Context, bookID uuid.UUID, n int) (*domain.Book, *domain.Borrow, error) {
	log := logger.FromContextOrDefault(ctx, l.logger)

	var (
		book   domain.Book
		borrow *domain.Borrow
	)
	err := store.RunInTransaction(ctx, l.db, func(ctx context.Context, tx *sqlx.Tx) error {
		books := l.books.WithTx(tx)

		raw, err := books.GetForUpdate(ctx, bookID)
		if err != nil {
			if IsNotFoundError(err) {
				return store.ErrBookNotFound
			}
			return err
		}
		if err := store.JSON.Unmarshal(raw, &book); err != nil {
			return store.NewStoreError("book", "borrow", "failed to decode book", err)
		}

		if err := book.Lend(n); err != nil {
			return err
		}
		if borrow, err = domain.NewBorrow(book.ID, n); err != nil {
			return err
		}

		bookDoc, err := store.JSON.Marshal(book)
		if err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
		if err := books.Replace(ctx, book.ID, bookDoc); err != nil {
			return err
		}

		borrowDoc, err := store.JSON.Marshal(borrow)
		if err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
		return l.borrows.WithTx(tx).Insert(ctx, borrow.ID, borrow.CreatedAt, borrowDoc)
	})
	if err != nil {
		return nil, nil, err
	}

	log.Info("book borrowed",
		slog.String("book_id", book.ID.String()),
		slog.String("borrow_id", borrow.ID.String()),
		slog.Int("borrow_number", n),
		slog.Int("copies_left", book.Copies))
	return &book, borrow, nil
}

// ListBorrowRecords implements store.LibraryStore with a left join from
// borrows to books.
func (l *Library) ListBorrowRecords(ctx context.Context) ([]domain.BorrowRecord, error) {
	log := logger.FromContextOrDefault(ctx, l.logger)

	sql, err := buildBorrowRecordsSQL(l.borrows.Name(), l.books.Name())
	if err != nil {
		return nil, err
	}

	var rows []borrowRecordRow
	if err := sqlx.SelectContext(ctx, l.db, &rows, sql); err != nil {
		log.Error("failed to list borrow records", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	records := make([]domain.BorrowRecord, 0, len(rows))
	for _, r := range rows {
		var borrow domain.Borrow
		if err := store.JSON.Unmarshal(r.Borrow, &borrow); err != nil {
			return nil, store.NewStoreError("borrow", "list", "failed to decode borrow", err)
		}

		var book *domain.Book
		if r.Book != nil {
			book = &domain.Book{}
			if err := store.JSON.Unmarshal(r.Book, book); err != nil {
				return nil, store.NewStoreError("book", "list", "failed to decode book", err)
			}
		}
		records = append(records, domain.NewBorrowRecord(borrow, book))
	}
	return records, nil
}

type borrowRecordRow struct {
	Borrow []byte `db:"borrow"`
	Book   []byte `db:"book"`
}

func buildBorrowRecordsSQL(borrows, books string) (string, error) {
	sql, _, err := goqu.Dialect(dialect).
		From(goqu.T(borrows).As("br")).
		LeftJoin(
			goqu.T(books).As("bk"),
			goqu.On(goqu.L(`"bk"."id" = ("br"."doc" ->> 'bookId')::uuid`)),
		).
		Select(
			goqu.I("br.doc").As("borrow"),
			goqu.I("bk.doc").As("book"),
		).
		Order(goqu.I("br.created_at").Asc(), goqu.I("br.id").Asc()).
		ToSQL()
	if err != nil {
		return "", fmt.Errorf("failed to build borrow records query: %w", err)
	}
	return sql, nil
}
