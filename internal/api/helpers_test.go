package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-dev/shelf-api/internal/api"
	"github.com/kestrel-dev/shelf-api/internal/api/middleware"
	"github.com/kestrel-dev/shelf-api/internal/domain"
	"github.com/kestrel-dev/shelf-api/internal/platform/logger"
	"github.com/kestrel-dev/shelf-api/internal/platform/memory"
	"github.com/kestrel-dev/shelf-api/internal/query"
	"github.com/kestrel-dev/shelf-api/internal/service"
	"github.com/kestrel-dev/shelf-api/internal/store"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	logs    *logger.TestLogBuffer
}

func newTestServer(t *testing.T, opts ...query.Option) *testServer {
	t.Helper()
	log, buf := logger.NewTestLogger(t)

	tasks := memory.NewCollection(store.TasksCollection)
	books := memory.NewCollection(store.BooksCollection)
	borrows := memory.NewCollection(store.BorrowsCollection)

	taskSvc, err := service.NewTaskService(
		store.NewRepository[domain.Task](tasks, "task", store.ErrTaskNotFound), log)
	require.NoError(t, err)
	librarySvc, err := service.NewLibraryService(
		store.NewRepository[domain.Book](books, "book", store.ErrBookNotFound),
		memory.NewLibrary(books, borrows), log)
	require.NoError(t, err)

	taskHandler := api.NewTaskHandler(taskSvc, opts, log)
	libraryHandler := api.NewLibraryHandler(librarySvc, opts, log)

	r := chi.NewRouter()
	r.Use(middleware.NewTraceMiddleware(log))
	r.Route("/api", func(r chi.Router) {
		r.Get("/tasks", taskHandler.ListTasks)
		r.Post("/tasks", taskHandler.CreateTask)
		r.Patch("/tasks/{id}", taskHandler.UpdateTask)
		r.Delete("/tasks/{id}", taskHandler.DeleteTask)

		r.Get("/books", libraryHandler.ListBooks)
		r.Post("/books", libraryHandler.CreateBook)
		r.Get("/books/{id}", libraryHandler.GetBook)
		r.Patch("/books/{id}", libraryHandler.UpdateBook)
		r.Delete("/books/{id}", libraryHandler.DeleteBook)

		r.Post("/borrow", libraryHandler.Borrow)
		r.Get("/borrow", libraryHandler.ListBorrows)
	})

	return &testServer{t: t, handler: r, logs: buf}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type errorBody struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id"`
}
