package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kestrel-dev/shelf-api/internal/api"
	apiMiddleware "github.com/kestrel-dev/shelf-api/internal/api/middleware"
	"github.com/kestrel-dev/shelf-api/internal/platform/metrics"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(apiMiddleware.RequestLogger(app.logger))
	r.Use(metrics.Middleware(app.metrics))
	r.Use(apiMiddleware.CORS(app.config.Server.CORSOrigins))

	taskHandler := api.NewTaskHandler(app.taskService, app.queryOpts, app.logger)
	libraryHandler := api.NewLibraryHandler(app.libraryService, app.queryOpts, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.ListTasks)
			r.Post("/", taskHandler.CreateTask)
			r.Patch("/{id}", taskHandler.UpdateTask)
			r.Delete("/{id}", taskHandler.DeleteTask)
		})

		r.Route("/books", func(r chi.Router) {
			r.Get("/", libraryHandler.ListBooks)
			r.Post("/", libraryHandler.CreateBook)
			r.Get("/{id}", libraryHandler.GetBook)
			r.Patch("/{id}", libraryHandler.UpdateBook)
			r.Delete("/{id}", libraryHandler.DeleteBook)
		})

		r.Post("/borrow", libraryHandler.Borrow)
		r.Get("/borrow", libraryHandler.ListBorrows)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r
}
