// Package service contains the application use cases: task management and
// the library's book catalogue and lending. Services coordinate domain
// entities with the repositories defined in internal/store and never depend
// on a specific storage backend.
//
// Expected failures surface as the sentinel errors of internal/domain,
// internal/store and internal/query, wrapped in ServiceError so callers can
// still match them with errors.Is. The API layer maps them to status codes.
package service
