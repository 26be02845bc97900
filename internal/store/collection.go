package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/kestrel-dev/shelf-api/internal/query"
)

// Collection names.
const (
	TasksCollection   = "tasks"
	BooksCollection   = "books"
	BorrowsCollection = "borrows"
)

// DocumentCollection stores JSON documents keyed by ID. Besides the list
// operations of query.Collection it supports single-document access.
//
// Implementations return ErrNotFound (possibly wrapped) when the ID is
// unknown and ErrDuplicate when Insert reuses an ID.
type DocumentCollection interface {
	query.Collection

	// Name returns the collection name, used for logging and metrics.
	Name() string

	// Insert stores doc under id. createdAt is kept alongside the document
	// so the default sort does not depend on the document body.
	Insert(ctx context.Context, id uuid.UUID, createdAt time.Time, doc json.RawMessage) error

	// Get returns the document stored under id.
	Get(ctx context.Context, id uuid.UUID) (json.RawMessage, error)

	// Replace overwrites the document stored under id.
	Replace(ctx context.Context, id uuid.UUID, doc json.RawMessage) error

	// Delete removes the document stored under id.
	Delete(ctx context.Context, id uuid.UUID) error
}
