package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kestrel-dev/shelf-api/internal/platform/logger"
	"github.com/kestrel-dev/shelf-api/internal/query"
	"github.com/kestrel-dev/shelf-api/internal/store"
)

// Collection implements store.DocumentCollection over a table of
// (id uuid, doc jsonb, created_at timestamptz) rows.
type Collection struct {
	db     store.DBTX
	table  string
	logger *slog.Logger
}

var _ store.DocumentCollection = (*Collection)(nil)

// NewCollection creates a collection backed by table. It accepts a
// database connection or transaction managed by the caller.
// If logger is nil, a default logger will be used.
func NewCollection(db store.DBTX, table string, logger *slog.Logger) *Collection {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection{
		db:    db,
		table: table,
		logger: logger.With(
			slog.String("component", "collection"),
			slog.String("collection", table),
		),
	}
}

// WithTx returns a copy of the collection that runs its statements in tx.
func (c *Collection) WithTx(tx *sqlx.Tx) *Collection {
	return &Collection{db: tx, table: c.table, logger: c.logger}
}

// Name implements store.DocumentCollection.
func (c *Collection) Name() string {
	return c.table
}

// Insert implements store.DocumentCollection.
func (c *Collection) Insert(ctx context.Context, id uuid.UUID, createdAt time.Time, doc json.RawMessage) error {
	log := logger.FromContextOrDefault(ctx, c.logger)

	sql, _, err := goqu.Dialect(dialect).
		Insert(goqu.T(c.table)).
		Rows(goqu.Record{
			colID:        id.String(),
			colDoc:       goqu.L("?::jsonb", string(doc)),
			colCreatedAt: createdAt.UTC(),
		}).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := c.db.ExecContext(ctx, sql); err != nil {
		log.Error("failed to insert document",
			slog.String("error", err.Error()),
			slog.String("id", id.String()))
		return MapError(err)
	}

	log.Debug("document inserted", slog.String("id", id.String()))
	return nil
}

// Get implements store.DocumentCollection.
func (c *Collection) Get(ctx context.Context, id uuid.UUID) (json.RawMessage, error) {
	return c.get(ctx, id, false)
}

// GetForUpdate is Get with a row lock held until the enclosing transaction
// ends.
func (c *Collection) GetForUpdate(ctx context.Context, id uuid.UUID) (json.RawMessage, error) {
	return c.get(ctx, id, true)
}

func (c *Collection) get(ctx context.Context, id uuid.UUID, lock bool) (json.RawMessage, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	ds := goqu.Dialect(dialect).
		From(goqu.T(c.table)).
		Select(goqu.C(colDoc)).
		Where(goqu.C(colID).Eq(id.String()))
	if lock {
		ds = ds.ForUpdate(goqu.Wait)
	}
	sql, _, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build get: %w", err)
	}

	var row docRow
	if err := sqlx.GetContext(ctx, c.db, &row, sql); err != nil {
		if IsNotFoundError(err) {
			log.Debug("document not found", slog.String("id", id.String()))
		} else {
			log.Error("failed to get document",
				slog.String("error", err.Error()),
				slog.String("id", id.String()))
		}
		return nil, MapError(err)
	}
	return row.Doc, nil
}

// Replace implements store.DocumentCollection.
func (c *Collection) Replace(ctx context.Context, id uuid.UUID, doc json.RawMessage) error {
	log := logger.FromContextOrDefault(ctx, c.logger)

	sql, _, err := goqu.Dialect(dialect).
		Update(goqu.T(c.table)).
		Set(goqu.Record{colDoc: goqu.L("?::jsonb", string(doc))}).
		Where(goqu.C(colID).Eq(id.String())).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build replace: %w", err)
	}

	result, err := c.db.ExecContext(ctx, sql)
	if err != nil {
		log.Error("failed to replace document",
			slog.String("error", err.Error()),
			slog.String("id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, c.table)
}

// Delete implements store.DocumentCollection.
func (c *Collection) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, c.logger)

	sql, _, err := goqu.Dialect(dialect).
		Delete(goqu.T(c.table)).
		Where(goqu.C(colID).Eq(id.String())).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}

	result, err := c.db.ExecContext(ctx, sql)
	if err != nil {
		log.Error("failed to delete document",
			slog.String("error", err.Error()),
			slog.String("id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, c.table)
}

// Find implements query.Finder. The projection is applied to the decoded
// documents.
func (c *Collection) Find(ctx context.Context, q query.Query) ([]query.Document, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	sql, err := buildFindSQL(c.table, q)
	if err != nil {
		return nil, err
	}
	log.Debug("finding documents", slog.String("sql", sql))

	var rows []docRow
	if err := sqlx.SelectContext(ctx, c.db, &rows, sql); err != nil {
		log.Error("failed to find documents", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	docs := make([]query.Document, 0, len(rows))
	for _, r := range rows {
		var doc query.Document
		if err := store.JSON.Unmarshal(r.Doc, &doc); err != nil {
			return nil, store.NewStoreError(c.table, "find", "failed to decode document", err)
		}
		if !q.Projection.IsZero() {
			doc = q.Projection.Apply(doc)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Count implements query.Counter.
func (c *Collection) Count(ctx context.Context, p query.Predicate) (int64, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	sql, err := buildCountSQL(c.table, p)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := sqlx.GetContext(ctx, c.db, &n, sql); err != nil {
		log.Error("failed to count documents", slog.String("error", err.Error()))
		return 0, MapError(err)
	}
	return n, nil
}

type docRow struct {
	Doc []byte `db:"doc"`
}
