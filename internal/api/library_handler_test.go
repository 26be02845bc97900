package api_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-dev/shelf-api/internal/api"
	"github.com/kestrel-dev/shelf-api/internal/domain"
)

func createBook(t *testing.T, s *testServer, title string, copies int) domain.Book {
	t.Helper()
	rec := s.do(http.MethodPost, "/api/books", map[string]any{
		"title":  title,
		"author": "Frank Herbert",
		"genre":  "science fiction",
		"copies": copies,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[domain.Book](t, rec)
}

func TestCreateBook(t *testing.T) {
	s := newTestServer(t)

	book := createBook(t, s, "Dune", 3)
	assert.NotEqual(t, uuid.Nil, book.ID)
	assert.Equal(t, 3, book.Copies)
	assert.True(t, book.Available)

	tests := []struct {
		name    string
		body    map[string]any
		wantMsg string
	}{
		{"missing author", map[string]any{"title": "Dune"}, "Invalid author: required field"},
		{"negative copies", map[string]any{"title": "Dune", "author": "F", "copies": -1}, "Invalid copies: too small"},
		{"blank author", map[string]any{"title": "Dune", "author": "  "}, "Invalid author: required field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/api/books", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, decode[errorBody](t, rec).Error)
		})
	}
}

func TestGetBook(t *testing.T) {
	s := newTestServer(t)
	book := createBook(t, s, "Dune", 3)

	rec := s.do(http.MethodGet, "/api/books/"+book.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[api.BookResponse](t, rec)
	assert.True(t, body.Success)
	require.NotNil(t, body.Data)
	assert.Equal(t, "Dune", body.Data.Title)

	rec = s.do(http.MethodGet, "/api/books/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Book not found", decode[errorBody](t, rec).Error)

	rec = s.do(http.MethodGet, "/api/books/123", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListBooks(t *testing.T) {
	s := newTestServer(t)
	createBook(t, s, "Dune", 3)
	createBook(t, s, "Dune Messiah", 0)
	createBook(t, s, "Hyperion", 5)

	rec := s.do(http.MethodGet, "/api/books?searchTerm=dune&copies[gte]=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[api.BookListResponse](t, rec)
	require.Len(t, body.Books, 1)
	assert.Equal(t, "Dune", body.Books[0]["title"])
	assert.EqualValues(t, 1, body.Pagination.TotalDocuments)

	rec = s.do(http.MethodGet, "/api/books?sort=title&fields=-description,-genre", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode[api.BookListResponse](t, rec)
	require.Len(t, body.Books, 3)
	assert.Equal(t, "Dune", body.Books[0]["title"])
	assert.Equal(t, "Dune Messiah", body.Books[1]["title"])
	assert.Equal(t, "Hyperion", body.Books[2]["title"])
	assert.NotContains(t, body.Books[0], "genre")
	assert.Contains(t, body.Books[0], "author")
}

func TestUpdateAndDeleteBook(t *testing.T) {
	s := newTestServer(t)
	book := createBook(t, s, "Dune", 3)

	rec := s.do(http.MethodPatch, "/api/books/"+book.ID.String(), map[string]any{"copies": 7})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, decode[domain.Book](t, rec).Copies)

	rec = s.do(http.MethodPatch, "/api/books/"+book.ID.String(), map[string]any{"copies": -2})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodDelete, "/api/books/"+book.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Book deleted"}`, rec.Body.String())

	rec = s.do(http.MethodPatch, "/api/books/"+book.ID.String(), map[string]any{"copies": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBorrow(t *testing.T) {
	s := newTestServer(t)
	book := createBook(t, s, "Dune", 3)

	rec := s.do(http.MethodPost, "/api/borrow", map[string]any{
		"bookId":       book.ID.String(),
		"borrowNumber": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode[api.BorrowResponse](t, rec)
	assert.Equal(t, api.MsgBookBorrowed, body.Message)
	assert.Equal(t, 1, body.UpdatedCopies)
	require.NotNil(t, body.Borrow)
	assert.Equal(t, book.ID, body.Borrow.BookID)
	assert.Equal(t, 2, body.Borrow.BorrowNumber)

	rec = s.do(http.MethodGet, "/api/books/"+book.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stored := decode[api.BookResponse](t, rec).Data
	assert.Equal(t, 1, stored.Copies)
	assert.True(t, stored.Available)

	rec = s.do(http.MethodPost, "/api/borrow", map[string]any{"bookid": book.ID.String(), "borrowNumber": 1})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 0, decode[api.BorrowResponse](t, rec).UpdatedCopies)

	rec = s.do(http.MethodGet, "/api/books/"+book.ID.String(), nil)
	assert.False(t, decode[api.BookResponse](t, rec).Data.Available)
}

func TestBorrow_Errors(t *testing.T) {
	s := newTestServer(t)
	empty := createBook(t, s, "Dune", 0)
	few := createBook(t, s, "Hyperion", 2)
	missing := uuid.NewString()

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "zero borrow number on missing book",
			body:       map[string]any{"bookId": missing, "borrowNumber": 0},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid borrow number",
		},
		{
			name:       "fractional borrow number",
			body:       map[string]any{"bookId": few.ID.String(), "borrowNumber": 1.5},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid borrow number",
		},
		{
			name:       "missing borrow number",
			body:       map[string]any{"bookId": few.ID.String()},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid borrow number",
		},
		{
			name:       "malformed book id",
			body:       map[string]any{"bookId": "abc", "borrowNumber": 1},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid ID",
		},
		{
			name:       "missing book",
			body:       map[string]any{"bookId": missing, "borrowNumber": 1},
			wantStatus: http.StatusNotFound,
			wantMsg:    "Book not found",
		},
		{
			name:       "no copies",
			body:       map[string]any{"bookId": empty.ID.String(), "borrowNumber": 1},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "No copies available",
		},
		{
			name:       "not enough copies",
			body:       map[string]any{"bookId": few.ID.String(), "borrowNumber": 3},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Not enough copies available",
		},
		{
			name:       "malformed body",
			body:       `{"bookId":`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid request format",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/api/borrow", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantMsg, decode[errorBody](t, rec).Error)
		})
	}

	rec := s.do(http.MethodGet, "/api/books/"+few.ID.String(), nil)
	assert.Equal(t, 2, decode[api.BookResponse](t, rec).Data.Copies)
}

func TestListBorrows(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/borrow", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"No borrow records found","data":[]}`, rec.Body.String())

	kept := createBook(t, s, "Dune", 3)
	gone := createBook(t, s, "Hyperion", 3)
	for _, id := range []uuid.UUID{kept.ID, gone.ID} {
		rec = s.do(http.MethodPost, "/api/borrow", map[string]any{"bookId": id.String(), "borrowNumber": 1})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec = s.do(http.MethodDelete, "/api/books/"+gone.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/borrow", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[api.BorrowListResponse](t, rec)
	assert.Equal(t, api.MsgBorrowsRetrieved, body.Message)
	require.Len(t, body.Data, 2)

	titles := map[string]bool{}
	for _, r := range body.Data {
		titles[r.BookInfo.Title] = true
		assert.Equal(t, 1, r.BorrowNumber)
	}
	assert.True(t, titles["Dune"])
	assert.True(t, titles[domain.MissingBookTitle])
}
