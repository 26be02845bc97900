package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kestrel-dev/shelf-api/internal/config"
	"github.com/kestrel-dev/shelf-api/internal/domain"
	"github.com/kestrel-dev/shelf-api/internal/platform/memory"
	"github.com/kestrel-dev/shelf-api/internal/platform/metrics"
	"github.com/kestrel-dev/shelf-api/internal/platform/postgres"
	"github.com/kestrel-dev/shelf-api/internal/query"
	"github.com/kestrel-dev/shelf-api/internal/service"
	"github.com/kestrel-dev/shelf-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil for the memory driver.
	db      *sqlx.DB
	metrics *metrics.Collector

	taskService    service.TaskService
	libraryService service.LibraryService
	queryOpts      []query.Option
}

// stores groups the collections and the lending store a driver provides.
type stores struct {
	tasks   store.DocumentCollection
	books   store.DocumentCollection
	library store.LibraryStore
}

// newApplication creates a new application instance with all dependencies
// initialized. For the postgres driver it connects to the database and, when
// configured, applies pending migrations.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	queryOpts, err := queryOptions(cfg.Query)
	if err != nil {
		return nil, err
	}

	app := &application{
		config:    cfg,
		logger:    logger,
		metrics:   metrics.NewCollector(prometheus.NewRegistry()),
		queryOpts: queryOpts,
	}

	var s stores
	switch cfg.Database.Driver {
	case config.DriverMemory:
		s = app.memoryStores()
		logger.Warn("using in-memory store, data is lost on shutdown")
	case config.DriverPostgres:
		s, err = app.postgresStores(ctx)
		if err != nil {
			app.cleanup()
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	app.taskService, err = service.NewTaskService(
		store.NewRepository[domain.Task](metrics.Instrument(s.tasks, app.metrics), "task", store.ErrTaskNotFound),
		logger,
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.libraryService, err = service.NewLibraryService(
		store.NewRepository[domain.Book](metrics.Instrument(s.books, app.metrics), "book", store.ErrBookNotFound),
		s.library,
		logger,
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create library service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

func (app *application) memoryStores() stores {
	books := memory.NewCollection(store.BooksCollection)
	borrows := memory.NewCollection(store.BorrowsCollection)
	return stores{
		tasks:   memory.NewCollection(store.TasksCollection),
		books:   books,
		library: memory.NewLibrary(books, borrows),
	}
}

func (app *application) postgresStores(ctx context.Context) (stores, error) {
	db, err := setupAppDatabase(ctx, app.config.Database, app.logger)
	if err != nil {
		return stores{}, err
	}
	app.db = db

	if app.config.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db.DB, "up", app.logger); err != nil {
			return stores{}, fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	books := postgres.NewCollection(db, store.BooksCollection, app.logger)
	borrows := postgres.NewCollection(db, store.BorrowsCollection, app.logger)
	return stores{
		tasks:   postgres.NewCollection(db, store.TasksCollection, app.logger),
		books:   books,
		library: postgres.NewLibrary(db, books, borrows, app.logger),
	}, nil
}

// queryOptions converts the list-query configuration into builder options.
func queryOptions(cfg config.QueryConfig) ([]query.Option, error) {
	policy, err := query.ParsePolicy(cfg.UnknownOperatorPolicy)
	if err != nil {
		return nil, fmt.Errorf("invalid query configuration: %w", err)
	}
	if len(query.ParseSort(cfg.DefaultSort)) == 0 {
		return nil, fmt.Errorf("invalid query configuration: default sort %q names no valid field", cfg.DefaultSort)
	}
	return []query.Option{
		query.WithDefaultLimit(cfg.DefaultLimit),
		query.WithMaxLimit(cfg.MaxLimit),
		query.WithDefaultSort(cfg.DefaultSort),
		query.WithUnknownOperatorPolicy(policy),
	}, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
		app.db = nil
	}
	app.logger.Info("application shutdown completed")
}
