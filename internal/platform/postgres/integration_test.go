//go:build integration

package postgres_test

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-dev/shelf-api/internal/domain"
	"github.com/kestrel-dev/shelf-api/internal/platform/memory"
	"github.com/kestrel-dev/shelf-api/internal/platform/postgres"
	"github.com/kestrel-dev/shelf-api/internal/query"
	"github.com/kestrel-dev/shelf-api/internal/store"
	"github.com/kestrel-dev/shelf-api/internal/testdb"
)

// fixtures are inserted into both backends; run scopes queries to this test's
// rows.
func fixtures(run string) []map[string]any {
	return []map[string]any{
		{"run": run, "title": "Dune", "copies": 3, "genre": "sf", "tags": []string{"classic"}, "dueDate": "2025-03-01T00:00:00Z"},
		{"run": run, "title": "Dune Messiah", "copies": 0, "genre": "sf", "dueDate": "2025-05-01T00:00:00Z"},
		{"run": run, "title": "Hyperion", "copies": 5, "genre": "sf", "tags": []string{"classic", "award"}},
		{"run": run, "title": "Emma", "copies": 1, "genre": "classic", "isbn": "0141439580"},
		{"run": run, "title": "it's complicated", "copies": 2.5, "genre": "memoir", "meta": map[string]any{"pages": 120}},
	}
}

func insertAll(t *testing.T, ctx context.Context, colls []store.DocumentCollection, run string) {
	t.Helper()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, doc := range fixtures(run) {
		id := uuid.New()
		created := base.Add(time.Duration(i) * time.Minute)
		doc["id"] = id.String()
		doc["createdAt"] = created.Format(time.RFC3339Nano)
		raw, err := json.Marshal(doc)
		require.NoError(t, err)
		for _, c := range colls {
			require.NoError(t, c.Insert(ctx, id, created, raw))
		}
	}
}

func ids(docs []query.Document) []any {
	out := make([]any, 0, len(docs))
	for _, d := range docs {
		out = append(out, d["id"])
	}
	return out
}

func TestCollection_MatchesMemoryBackend(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sqlx.Tx) {
		pg := postgres.NewCollection(tx, store.BooksCollection, nil)
		mem := memory.NewCollection(store.BooksCollection)
		run := uuid.NewString()
		insertAll(t, ctx, []store.DocumentCollection{pg, mem}, run)

		cases := []string{
			"",
			"searchTerm=dune",
			"searchTerm=IT'S",
			"copies[gte]=1&sort=copies",
			"copies[gt]=2.5",
			"copies=0",
			"genre[in]=sf,memoir&sort=-title",
			"genre[ne]=sf",
			"tags=classic",
			"isbn[gt]=1",
			"dueDate[lt]=2025-04-01",
			"dueDate=2025-03-01T00:00:00Z",
			"meta.pages[lte]=120",
			"sort=-dueDate",
			"sort=title&page=2&limit=2",
			"fields=title",
			"fields=-genre,-tags",
		}
		for _, raw := range cases {
			t.Run(raw, func(t *testing.T) {
				v, err := url.ParseQuery(raw)
				require.NoError(t, err)
				v.Set("run", run)

				b := query.New(query.FromValues(v)).Search("title").Filter().Sort().Paginate().Fields()
				require.NoError(t, b.Err())

				wantDocs, wantSummary, err := query.Run(ctx, mem, b)
				require.NoError(t, err)
				gotDocs, gotSummary, err := query.Run(ctx, pg, b)
				require.NoError(t, err)

				assert.Equal(t, wantSummary, gotSummary)
				assert.Equal(t, ids(wantDocs), ids(gotDocs))
				if len(wantDocs) > 0 {
					assert.Equal(t, len(wantDocs[0]), len(gotDocs[0]), "projected field count")
				}
			})
		}
	})
}

func TestLibrary_BorrowAgainstDatabase(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()

	books := postgres.NewCollection(db, store.BooksCollection, nil)
	borrows := postgres.NewCollection(db, store.BorrowsCollection, nil)
	lib := postgres.NewLibrary(db, books, borrows, nil)
	repo := store.NewRepository[domain.Book](books, "book", store.ErrBookNotFound)

	book, err := domain.NewBook(domain.BookDetails{Title: "Dune", Author: "Frank Herbert", Copies: 2})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, *book))
	t.Cleanup(func() {
		_, _ = db.Exec(`DELETE FROM borrows WHERE (doc ->> 'bookId')::uuid = $1`, book.ID)
		_, _ = db.Exec(`DELETE FROM books WHERE id = $1`, book.ID)
	})

	updated, borrow, err := lib.Borrow(ctx, book.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Copies)
	assert.False(t, updated.Available)
	assert.Equal(t, book.ID, borrow.BookID)

	_, _, err = lib.Borrow(ctx, book.ID, 1)
	assert.ErrorIs(t, err, domain.ErrNoCopiesAvailable)

	_, _, err = lib.Borrow(ctx, uuid.New(), 1)
	assert.ErrorIs(t, err, store.ErrBookNotFound)

	records, err := lib.ListBorrowRecords(ctx)
	require.NoError(t, err)
	var found bool
	for _, r := range records {
		if r.ID == borrow.ID {
			found = true
			assert.Equal(t, "Dune", r.BookInfo.Title)
		}
	}
	assert.True(t, found)
}
