// Package store defines how entities are persisted. Every entity lives in a
// DocumentCollection as a JSON document keyed by its ID; Repository adds
// typed access on top and LibraryStore covers the operations that span the
// book and borrow collections. Backends live under internal/platform.
package store
