package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kestrel-dev/shelf-api/internal/query"
)

// Entity is a domain value that can be stored in a DocumentCollection.
type Entity interface {
	EntityID() uuid.UUID
	EntityCreatedAt() time.Time
}

// Repository provides typed access to a DocumentCollection. Documents are
// the JSON encoding of T.
type Repository[T Entity] struct {
	coll     DocumentCollection
	entity   string
	notFound error
}

// NewRepository wraps coll. notFound replaces ErrNotFound in returned errors
// so callers can tell entities apart.
func NewRepository[T Entity](coll DocumentCollection, entity string, notFound error) *Repository[T] {
	if coll == nil {
		panic("collection cannot be nil")
	}
	if notFound == nil {
		notFound = ErrNotFound
	}
	return &Repository[T]{coll: coll, entity: entity, notFound: notFound}
}

// Collection returns the underlying collection.
func (r *Repository[T]) Collection() DocumentCollection {
	return r.coll
}

// Create stores a new entity.
func (r *Repository[T]) Create(ctx context.Context, v T) error {
	doc, err := JSON.Marshal(v)
	if err != nil {
		return NewStoreError(r.entity, "create", "failed to encode document",
			fmt.Errorf("%w: %v", ErrInvalidEntity, err))
	}
	return r.coll.Insert(ctx, v.EntityID(), v.EntityCreatedAt(), doc)
}

// Get loads the entity stored under id.
func (r *Repository[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	var v T
	doc, err := r.coll.Get(ctx, id)
	if err != nil {
		return v, r.mapErr(err)
	}
	if err := JSON.Unmarshal(doc, &v); err != nil {
		return v, NewStoreError(r.entity, "get", "failed to decode document",
			fmt.Errorf("%w: %v", ErrInvalidEntity, err))
	}
	return v, nil
}

// Update overwrites the stored entity with v.
func (r *Repository[T]) Update(ctx context.Context, v T) error {
	doc, err := JSON.Marshal(v)
	if err != nil {
		return NewStoreError(r.entity, "update", "failed to encode document",
			fmt.Errorf("%w: %v", ErrInvalidEntity, err))
	}
	return r.mapErr(r.coll.Replace(ctx, v.EntityID(), doc))
}

// Delete removes the entity stored under id.
func (r *Repository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return r.mapErr(r.coll.Delete(ctx, id))
}

// List runs the builder's query and its count against the collection.
func (r *Repository[T]) List(ctx context.Context, b query.Builder) ([]query.Document, query.Summary, error) {
	return query.Run(ctx, r.coll, b)
}

func (r *Repository[T]) mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) && !errors.Is(err, r.notFound) {
		return r.notFound
	}
	return err
}
