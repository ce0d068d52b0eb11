package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"attest-go/internal/attest"
	"attest-go/internal/config"
	"attest-go/internal/ledger"
)

func testConfig(t *testing.T, seal bool) *config.Config {
	t.Helper()
	key, err := ledger.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey() error = %v", err)
	}

	cfg := config.NewConfig(t.TempDir())
	cfg.Database = config.DatabaseConfig{Type: "memory"}
	cfg.Encryption = config.EncryptionConfig{Type: "test"}
	cfg.Ledger.Type = "memory"
	cfg.Ledger.InitialHeight = 42
	cfg.Ledger.PrivateKey = key
	cfg.Ledger.Seal = seal
	cfg.Server.JWTSecret = "test-secret"
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *AttestApp {
	t.Helper()
	clock := attest.RealClock{}
	a, err := newAttestApp(context.Background(), cfg, NewRun("test", clock.Now()), attest.NewNopLogger(), clock)
	if err != nil {
		t.Fatalf("newAttestApp() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestNewAttestApp(t *testing.T) {
	cfg := testConfig(t, false)

	a, err := NewAttestApp(context.Background(), cfg, "ledger height")
	if err != nil {
		t.Fatalf("NewAttestApp() error = %v", err)
	}

	height, err := a.LedgerHeight(context.Background())
	if err != nil {
		t.Fatalf("LedgerHeight() error = %v", err)
	}
	if height.Int64() != 42 {
		t.Errorf("LedgerHeight() = %s, want 42", height)
	}

	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.LogDir, "attest.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	for _, want := range []string{"command started", "command finished", "command=ledger height", "status=success"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log missing %q:\n%s", want, data)
		}
	}
}

func TestNewAttestApp_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown database", func(c *config.Config) { c.Database.Type = "postgres" }},
		{"unknown ledger", func(c *config.Config) { c.Ledger.Type = "chain" }},
		{"unknown encryption", func(c *config.Config) { c.Encryption.Type = "rot13" }},
		{"bad ledger key", func(c *config.Config) { c.Ledger.PrivateKey = "zz" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, false)
			tt.mutate(cfg)
			if _, err := newAttestApp(context.Background(), cfg, NewRun("test", time.Now()), attest.NewNopLogger(), attest.RealClock{}); err == nil {
				t.Fatal("newAttestApp() expected error")
			}
		})
	}
}

func TestAttestApp_Users(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, testConfig(t, false))

	user, err := a.RegisterWallet(ctx, "0xABCDEFabcdef0123456789ABCDEFabcdef012345")
	if err != nil {
		t.Fatalf("RegisterWallet() error = %v", err)
	}

	profile, err := a.UserProfile(ctx, user.ID)
	if err != nil {
		t.Fatalf("UserProfile() error = %v", err)
	}
	if profile.User.WalletAddress.String != "0xabcdefabcdef0123456789abcdefabcdef012345" {
		t.Errorf("WalletAddress = %q", profile.User.WalletAddress.String)
	}

	overview, err := a.Overview(ctx)
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}
	if overview.Stats.TotalUsers != 1 {
		t.Errorf("TotalUsers = %d, want 1", overview.Stats.TotalUsers)
	}

	token, err := a.IssueToken(user.ID, "", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /users/me status = %d, want 200: %s", rec.Code, rec.Body)
	}

	if _, err := a.IssueToken("missing", "", time.Hour); !errors.Is(err, attest.ErrNotFound) {
		t.Errorf("IssueToken(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := a.Unlink(ctx, user.ID, "myspace"); !errors.Is(err, attest.ErrInvalidArgument) {
		t.Errorf("Unlink(myspace) error = %v, want ErrInvalidArgument", err)
	}
}

func TestAttestApp_Attestations(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, testConfig(t, false))

	records, err := a.ListAttestations(ctx, attest.AttestationFilter{})
	if err != nil {
		t.Fatalf("ListAttestations() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("ListAttestations() = %d records, want 0", len(records))
	}

	n, err := a.ExpireAttestations(ctx)
	if err != nil {
		t.Fatalf("ExpireAttestations() error = %v", err)
	}
	if n != 0 {
		t.Errorf("ExpireAttestations() = %d, want 0", n)
	}

	if _, err := a.VerifyAttestation(ctx, "missing"); !errors.Is(err, attest.ErrNotFound) {
		t.Errorf("VerifyAttestation() error = %v, want ErrNotFound", err)
	}
	if _, err := a.RevokeAttestation(ctx, "missing", ""); !errors.Is(err, attest.ErrNotFound) {
		t.Errorf("RevokeAttestation() error = %v, want ErrNotFound", err)
	}
}

func TestAttestApp_LedgerEntity(t *testing.T) {
	ctx := context.Background()

	for _, seal := range []bool{false, true} {
		name := "plain"
		if seal {
			name = "sealed"
		}
		t.Run(name, func(t *testing.T) {
			a := newTestApp(t, testConfig(t, seal))

			receipt, err := a.ledger.CreateEntity(ctx, []byte(`{"dataHash":"abc"}`), 10, attest.Annotations{})
			if err != nil {
				t.Fatalf("CreateEntity() error = %v", err)
			}

			entity, data, err := a.LedgerEntity(ctx, receipt.EntityKey, "any passphrase")
			if err != nil {
				t.Fatalf("LedgerEntity() error = %v", err)
			}
			if entity.Key != receipt.EntityKey {
				t.Errorf("Key = %q, want %q", entity.Key, receipt.EntityKey)
			}
			if string(data) != `{"dataHash":"abc"}` {
				t.Errorf("data = %q", data)
			}
			if sealed := string(entity.Data) != string(data); sealed != seal {
				t.Errorf("stored data sealed = %v, want %v", sealed, seal)
			}
		})
	}

	t.Run("missing entity", func(t *testing.T) {
		a := newTestApp(t, testConfig(t, false))
		if _, _, err := a.LedgerEntity(ctx, "missing", ""); !errors.Is(err, attest.ErrNotFound) {
			t.Errorf("LedgerEntity() error = %v, want ErrNotFound", err)
		}
	})
}

func TestBackupDatabase(t *testing.T) {
	cfg := testConfig(t, false)
	cfg.Database = config.DatabaseConfig{Type: "sqlite", DataDir: filepath.Join(cfg.BaseDir, "db")}

	db, err := OpenDatabase(cfg)
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	db.Close()

	dest := filepath.Join(t.TempDir(), "backup.db")
	if err := BackupDatabase(cfg, dest); err != nil {
		t.Fatalf("BackupDatabase() error = %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("backup not written: %v", err)
	}
}
