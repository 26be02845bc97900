// Package testdb provides utilities for tests that run against a real
// PostgreSQL database.
//
// Tests using it are skipped unless SHELF_TEST_DATABASE_URL (or
// DATABASE_URL) is set. Open applies the embedded migrations once per
// connection, and WithTx runs a test body inside a transaction that is
// always rolled back:
//
//	db := testdb.Open(t)
//	testdb.WithTx(t, db, func(t *testing.T, tx *sqlx.Tx) {
//		coll := postgres.NewCollection(tx, store.TasksCollection, nil)
//		...
//	})
package testdb
