package testutil

import (
	"testing"

	"attest-go/internal/attest"
	"attest-go/internal/database"
)

// NewTestDatabase creates a new in-memory SQLite database with schema applied.
// IDs come from a StubIDGenerator and time from clock, so rows are
// predictable. The database is closed when the test completes.
func NewTestDatabase(t *testing.T, clock attest.Clock) attest.Database {
	t.Helper()

	sqlDB, err := database.OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if _, err := sqlDB.Exec(database.Schema); err != nil {
		sqlDB.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	db := database.NewSQLiteDatabaseFromDB(sqlDB, clock, NewStubIDGenerator())

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
