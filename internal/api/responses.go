package api

import (
	"github.com/kestrel-dev/shelf-api/internal/domain"
	"github.com/kestrel-dev/shelf-api/internal/query"
)

// Response messages
const (
	MsgTaskDeleted      = "Task deleted"
	MsgBookDeleted      = "Book deleted"
	MsgBookBorrowed     = "Book borrowed successfully"
	MsgBorrowsRetrieved = "Borrow records retrieved successfully"
	MsgNoBorrowsFound   = "No borrow records found"
)

// TaskListResponse is the body of GET /api/tasks.
type TaskListResponse struct {
	Tasks      []query.Document `json:"tasks"`
	Pagination query.Summary    `json:"pagination"`
}

// BookListResponse is the body of GET /api/books.
type BookListResponse struct {
	Books      []query.Document `json:"books"`
	Pagination query.Summary    `json:"pagination"`
}

// BookResponse is the body of GET /api/books/{id}.
type BookResponse struct {
	Success bool         `json:"success"`
	Data    *domain.Book `json:"data"`
}

// MessageResponse carries a confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// BorrowResponse is the body of POST /api/borrow.
type BorrowResponse struct {
	Message       string         `json:"message"`
	Borrow        *domain.Borrow `json:"borrow"`
	UpdatedCopies int            `json:"updatedCopies"`
}

// BorrowListResponse is the body of GET /api/borrow.
type BorrowListResponse struct {
	Message string                `json:"message"`
	Data    []domain.BorrowRecord `json:"data"`
}
