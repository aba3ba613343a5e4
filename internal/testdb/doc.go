// Package testdb provides utilities for database integration tests.
//
// Tests run inside a transaction that is rolled back when the test
// finishes, so they can share one migrated database without cleanup:
//
//	func TestMyFeature(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        users := postgres.NewPostgresUserStore(tx, nil)
//	        // ...
//	    })
//	}
//
// GetTestDBWithT skips the test when no database URL is configured and
// applies the embedded migrations once per process.
package testdb
