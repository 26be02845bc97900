package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBook(t *testing.T, copies int) *Book {
	t.Helper()
	book, err := NewBook(BookDetails{Title: "Dune", Author: "Frank Herbert", Copies: copies})
	require.NoError(t, err)
	return book
}

func TestNewBook(t *testing.T) {
	t.Parallel()

	book := newTestBook(t, 3)
	assert.NotEqual(t, uuid.Nil, book.ID)
	assert.True(t, book.Available)
	assert.Equal(t, 3, book.Copies)

	unavailable := false
	book, err := NewBook(BookDetails{Title: "Dune", Author: "Frank Herbert", Available: &unavailable})
	require.NoError(t, err)
	assert.False(t, book.Available)

	_, err = NewBook(BookDetails{Title: "Dune"})
	assert.ErrorIs(t, err, ErrEmptyBookAuthor)

	_, err = NewBook(BookDetails{Author: "x"})
	assert.ErrorIs(t, err, ErrEmptyBookTitle)

	_, err = NewBook(BookDetails{Title: "Dune", Author: "x", Copies: -1})
	assert.ErrorIs(t, err, ErrNegativeCopies)
}

func TestBookLend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		copies        int
		n             int
		wantErr       error
		wantCopies    int
		wantAvailable bool
	}{
		{"partial", 3, 2, nil, 1, true},
		{"last copies", 2, 2, nil, 0, false},
		{"zero requested", 3, 0, ErrInvalidBorrowCount, 3, true},
		{"negative requested", 3, -1, ErrInvalidBorrowCount, 3, true},
		{"no copies", 0, 1, ErrNoCopiesAvailable, 0, true},
		{"too many", 2, 3, ErrNotEnoughCopies, 2, true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			book := newTestBook(t, tc.copies)
			err := book.Lend(tc.n)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.wantCopies, book.Copies)
			assert.Equal(t, tc.wantAvailable, book.Available)
		})
	}
}

func TestBookApply(t *testing.T) {
	t.Parallel()

	book := newTestBook(t, 1)
	genre := "sci-fi"
	copies := 5
	require.NoError(t, book.Apply(BookPatch{Genre: &genre, Copies: &copies}))
	assert.Equal(t, "sci-fi", book.Genre)
	assert.Equal(t, 5, book.Copies)

	empty := ""
	assert.ErrorIs(t, book.Apply(BookPatch{Author: &empty}), ErrEmptyBookAuthor)
	assert.Equal(t, "Frank Herbert", book.Author)
}
