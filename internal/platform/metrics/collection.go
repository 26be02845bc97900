package metrics

import (
	"context"
	"time"

	"github.com/kestrel-dev/shelf-api/internal/query"
	"github.com/kestrel-dev/shelf-api/internal/store"
)

// InstrumentedCollection records list query metrics for the collection it
// wraps. Single-document operations pass through untouched.
type InstrumentedCollection struct {
	store.DocumentCollection
	metrics *Collector
}

var _ store.DocumentCollection = (*InstrumentedCollection)(nil)

// Instrument wraps coll. A nil collector returns coll unchanged.
func Instrument(coll store.DocumentCollection, c *Collector) store.DocumentCollection {
	if c == nil {
		return coll
	}
	return &InstrumentedCollection{DocumentCollection: coll, metrics: c}
}

// Find implements query.Finder.
func (ic *InstrumentedCollection) Find(ctx context.Context, q query.Query) ([]query.Document, error) {
	start := time.Now()
	docs, err := ic.DocumentCollection.Find(ctx, q)
	ic.metrics.ObserveListQuery(ic.Name(), len(docs), time.Since(start), err)
	return docs, err
}
