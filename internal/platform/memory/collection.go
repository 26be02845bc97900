package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kestrel-dev/shelf-api/internal/query"
	"github.com/kestrel-dev/shelf-api/internal/store"
)

type entry struct {
	createdAt time.Time
	doc       json.RawMessage
}

// Collection is a mutex-guarded map of JSON documents.
type Collection struct {
	name string

	mu   sync.RWMutex
	docs map[uuid.UUID]entry
}

var _ store.DocumentCollection = (*Collection)(nil)

// NewCollection creates an empty collection.
func NewCollection(name string) *Collection {
	return &Collection{name: name, docs: make(map[uuid.UUID]entry)}
}

// Name implements store.DocumentCollection.
func (c *Collection) Name() string {
	return c.name
}

// Insert implements store.DocumentCollection.
func (c *Collection) Insert(ctx context.Context, id uuid.UUID, createdAt time.Time, doc json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !store.JSON.Valid(doc) {
		return store.NewStoreError(c.name, "insert", "document is not valid JSON", store.ErrInvalidEntity)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; ok {
		return fmt.Errorf("%w: %s %s", store.ErrDuplicate, c.name, id)
	}
	c.docs[id] = entry{createdAt: createdAt, doc: slices.Clone(doc)}
	return nil
}

// Get implements store.DocumentCollection.
func (c *Collection) Get(ctx context.Context, id uuid.UUID) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return slices.Clone(e.doc), nil
}

// Replace implements store.DocumentCollection.
func (c *Collection) Replace(ctx context.Context, id uuid.UUID, doc json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !store.JSON.Valid(doc) {
		return store.NewStoreError(c.name, "replace", "document is not valid JSON", store.ErrInvalidEntity)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.docs[id]
	if !ok {
		return store.ErrNotFound
	}
	e.doc = slices.Clone(doc)
	c.docs[id] = e
	return nil
}

// Delete implements store.DocumentCollection.
func (c *Collection) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return store.ErrNotFound
	}
	delete(c.docs, id)
	return nil
}

// Find implements query.Finder: predicate, then sort, then window, then
// projection.
func (c *Collection) Find(ctx context.Context, q query.Query) ([]query.Document, error) {
	docs, err := c.matching(ctx, q.Predicate)
	if err != nil {
		return nil, err
	}

	query.SortDocuments(docs, q.Sort)

	if q.Skip >= len(docs) {
		return []query.Document{}, nil
	}
	docs = docs[q.Skip:]
	if q.Limit > 0 && q.Limit < len(docs) {
		docs = docs[:q.Limit]
	}

	if !q.Projection.IsZero() {
		for i, d := range docs {
			docs[i] = q.Projection.Apply(d)
		}
	}
	return docs, nil
}

// Count implements query.Counter.
func (c *Collection) Count(ctx context.Context, p query.Predicate) (int64, error) {
	docs, err := c.matching(ctx, p)
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

func (c *Collection) matching(ctx context.Context, p query.Predicate) ([]query.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	docs := make([]query.Document, 0, len(c.docs))
	for id, e := range c.docs {
		var doc query.Document
		if err := store.JSON.Unmarshal(e.doc, &doc); err != nil {
			return nil, store.NewStoreError(c.name, "find", "failed to decode document "+id.String(), err)
		}
		if p.Match(doc) {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}
