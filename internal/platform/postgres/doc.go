// Package postgres stores documents in PostgreSQL. Each collection is a
// table of (id, doc jsonb, created_at) rows; queries from internal/query are
// rendered to SQL with goqu and executed through sqlx. The schema is managed
// with goose migrations embedded in the binary.
package postgres
