package migrations

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestMigrateUp_FreshDatabase(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	tables := []string{
		"users",
		"reddit_profiles",
		"subreddit_karma",
		"github_profiles",
		"repository_contributions",
		"attestations",
		"zktls_proofs",
		"schema_migrations",
	}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s was not created: %v", table, err)
		}
	}
}

func TestCheckDBMigrationStatus(t *testing.T) {
	t.Run("fresh database needs migration", func(t *testing.T) {
		db := openTestDB(t)

		err := CheckDBMigrationStatus(db)
		if err == nil {
			t.Fatal("CheckDBMigrationStatus() expected error for fresh database, got nil")
		}
		if err.Error() != "database has no schema version (needs migration)" {
			t.Errorf("CheckDBMigrationStatus() error = %q, want error about needing migration", err.Error())
		}
	})

	t.Run("migrated database is current", func(t *testing.T) {
		db := openTestDB(t)
		if err := MigrateUp(db); err != nil {
			t.Fatalf("MigrateUp() failed: %v", err)
		}

		if err := CheckDBMigrationStatus(db); err != nil {
			t.Errorf("CheckDBMigrationStatus() after migration returned error: %v", err)
		}

		status, err := GetStatus(db)
		if err != nil {
			t.Fatalf("GetStatus() error = %v", err)
		}
		if !status.Current() {
			t.Errorf("GetStatus() = %+v, want current", status)
		}
	})
}

func TestMigrateUp_Idempotent(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("First MigrateUp() failed: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Errorf("Second MigrateUp() failed: %v (should be idempotent)", err)
	}
	if err := CheckDBMigrationStatus(db); err != nil {
		t.Errorf("CheckDBMigrationStatus() after double migration returned error: %v", err)
	}
}

func TestSchema_Constraints(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	insertUser := `INSERT INTO users (id, wallet_address, reddit_id, created_at, updated_at)
		VALUES (?, ?, ?, datetime('now'), datetime('now'))`

	if _, err := db.Exec(insertUser, "u1", "0xabc", "r1"); err != nil {
		t.Fatalf("inserting first user: %v", err)
	}

	t.Run("wallet address is unique", func(t *testing.T) {
		if _, err := db.Exec(insertUser, "u2", "0xabc", nil); err == nil {
			t.Error("expected unique violation for duplicate wallet address")
		}
	})

	t.Run("reddit id is unique", func(t *testing.T) {
		if _, err := db.Exec(insertUser, "u3", nil, "r1"); err == nil {
			t.Error("expected unique violation for duplicate reddit id")
		}
	})

	t.Run("null provider ids do not collide", func(t *testing.T) {
		if _, err := db.Exec(insertUser, "u4", nil, nil); err != nil {
			t.Fatalf("inserting user without identities: %v", err)
		}
		if _, err := db.Exec(insertUser, "u5", nil, nil); err != nil {
			t.Errorf("second user without identities rejected: %v", err)
		}
	})

	t.Run("attestation requires existing user", func(t *testing.T) {
		_, err := db.Exec(`INSERT INTO attestations
			(id, entity_key, expiration_block, platform, attestation_type, raw_api_data, data_hash, user_id, issued_at, created_at)
			VALUES ('a1', '0x01', '500', 'reddit', 'profile', '{}', 'h', 'missing', datetime('now'), datetime('now'))`)
		if err == nil {
			t.Error("expected foreign key violation for unknown user")
		}
	})

	t.Run("attestation status is constrained", func(t *testing.T) {
		_, err := db.Exec(`INSERT INTO attestations
			(id, entity_key, expiration_block, platform, attestation_type, status, raw_api_data, data_hash, user_id, issued_at, created_at)
			VALUES ('a2', '0x02', '500', 'reddit', 'profile', 'bogus', '{}', 'h', 'u1', datetime('now'), datetime('now'))`)
		if err == nil {
			t.Error("expected check violation for unknown status")
		}
	})
}

// openTestDB opens an in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	return db
}
