package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-dev/shelf-api/internal/platform/memory"
	"github.com/kestrel-dev/shelf-api/internal/query"
	"github.com/kestrel-dev/shelf-api/internal/store"
)

func TestCollector_ObserveHTTPRequest(t *testing.T) {
	c := NewCollector(nil)

	c.ObserveHTTPRequest(http.MethodGet, "/api/tasks", http.StatusOK, 20*time.Millisecond)
	c.ObserveHTTPRequest(http.MethodGet, "/api/tasks", http.StatusOK, 30*time.Millisecond)
	c.ObserveHTTPRequest(http.MethodGet, "/api/tasks", http.StatusBadRequest, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/api/tasks", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/api/tasks", "400")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.httpDuration))
}

func TestCollector_ObserveListQuery(t *testing.T) {
	c := NewCollector(nil)

	c.ObserveListQuery(store.BooksCollection, 7, time.Millisecond, nil)
	c.ObserveListQuery(store.BooksCollection, 0, time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.listQueries.WithLabelValues("books", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.listQueries.WithLabelValues("books", OutcomeError)))
	assert.Equal(t, 1, testutil.CollectAndCount(c.listResults))
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	c := NewCollector(nil)

	r := chi.NewRouter()
	r.Use(Middleware(c))
	r.Get("/api/books/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	for _, path := range []string{"/api/books/" + uuid.NewString(), "/api/books/" + uuid.NewString(), "/health"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/api/books/{id}", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/health", "200")))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	c := NewCollector(nil)
	c.ObserveHTTPRequest(http.MethodPost, "/api/borrow", http.StatusCreated, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "shelf_http_requests_total"))
	assert.Contains(t, body, `route="/api/borrow"`)
}

func TestInstrument(t *testing.T) {
	ctx := context.Background()
	c := NewCollector(nil)
	coll := memory.NewCollection(store.TasksCollection)

	assert.Same(t, coll, Instrument(coll, nil).(*memory.Collection))

	wrapped := Instrument(coll, c)
	require.NoError(t, wrapped.Insert(ctx, uuid.New(), time.Now(), []byte(`{"title":"a"}`)))
	require.NoError(t, wrapped.Insert(ctx, uuid.New(), time.Now(), []byte(`{"title":"b"}`)))

	docs, err := wrapped.Find(ctx, query.Query{})
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.listQueries.WithLabelValues("tasks", OutcomeSuccess)))
	assert.Equal(t, "tasks", wrapped.Name())
}
