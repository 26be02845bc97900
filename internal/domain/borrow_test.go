package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBorrow(t *testing.T) {
	t.Parallel()

	bookID := uuid.New()
	borrow, err := NewBorrow(bookID, 2)
	require.NoError(t, err)
	assert.Equal(t, bookID, borrow.BookID)
	assert.Equal(t, 2, borrow.BorrowNumber)

	_, err = NewBorrow(uuid.Nil, 1)
	assert.ErrorIs(t, err, ErrEmptyBorrowBookID)

	_, err = NewBorrow(bookID, 0)
	assert.ErrorIs(t, err, ErrInvalidBorrowCount)
}

func TestNewBorrowRecord(t *testing.T) {
	t.Parallel()

	book, err := NewBook(BookDetails{Title: "Dune", Author: "Frank Herbert", Copies: 1})
	require.NoError(t, err)
	borrow, err := NewBorrow(book.ID, 1)
	require.NoError(t, err)

	rec := NewBorrowRecord(*borrow, book)
	assert.Equal(t, borrow.ID, rec.ID)
	require.NotNil(t, rec.BookInfo.ID)
	assert.Equal(t, book.ID, *rec.BookInfo.ID)
	assert.Equal(t, "Dune", rec.BookInfo.Title)
	require.NotNil(t, rec.BookInfo.Copies)
	assert.Equal(t, 1, *rec.BookInfo.Copies)

	missing := NewBorrowRecord(*borrow, nil)
	assert.Nil(t, missing.BookInfo.ID)
	assert.Equal(t, MissingBookTitle, missing.BookInfo.Title)
	assert.Equal(t, MissingBookDescription, missing.BookInfo.Description)
}
