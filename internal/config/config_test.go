package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		BaseDir: "/home/user/.local/share/attest",
		LogDir:  "/home/user/.local/share/attest/log",
		Server:  ServerConfig{Addr: ":9090", AllowedOrigins: []string{"https://app.test"}},
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: "/home/user/.local/share/attest/db",
		},
		Ledger: LedgerConfig{
			Type:             "s3",
			BTL:              365,
			BlockTimeSeconds: 2,
			Genesis:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			S3Bucket:         "attestations",
			S3Region:         "eu-central-1",
			Seal:             true,
		},
		GitHub: GitHubConfig{ClientID: "gh-client", RequestsPerSecond: 2.5},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.BaseDir != original.BaseDir {
		t.Errorf("BaseDir = %q, want %q", got.BaseDir, original.BaseDir)
	}
	if got.Server.Addr != ":9090" || len(got.Server.AllowedOrigins) != 1 {
		t.Errorf("Server = %+v", got.Server)
	}
	if got.Database.Type != "sqlite" || got.Database.DataDir != original.Database.DataDir {
		t.Errorf("Database = %+v", got.Database)
	}
	if got.Ledger.Type != "s3" || got.Ledger.S3Bucket != "attestations" || !got.Ledger.Seal {
		t.Errorf("Ledger = %+v", got.Ledger)
	}
	if !got.Ledger.Genesis.Equal(original.Ledger.Genesis) {
		t.Errorf("Ledger.Genesis = %v, want %v", got.Ledger.Genesis, original.Ledger.Genesis)
	}
	if got.Ledger.BTL != 365 {
		t.Errorf("Ledger.BTL = %d, want 365", got.Ledger.BTL)
	}
	if got.GitHub.RequestsPerSecond != 2.5 {
		t.Errorf("GitHub.RequestsPerSecond = %v, want 2.5", got.GitHub.RequestsPerSecond)
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/data/attest")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"BaseDir", cfg.BaseDir, "/data/attest"},
		{"LogDir", cfg.LogDir, "/data/attest/log"},
		{"Database.DataDir", cfg.Database.DataDir, "/data/attest/db"},
		{"Ledger.FSRoot", cfg.Ledger.FSRoot, "/data/attest/ledger"},
		{"Encryption.PublicKeyPath", cfg.Encryption.PublicKeyPath, "/data/attest/keys/attest.pub"},
		{"Reddit.UserAgent", cfg.Reddit.UserAgent, "DoxxMe/1.0.0"},
		{"GitHub.GraphQLURL", cfg.GitHub.GraphQLURL, "https://api.github.com/graphql"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
	if cfg.GitHub.MaxPullRequests != 1000 {
		t.Errorf("GitHub.MaxPullRequests = %d, want 1000", cfg.GitHub.MaxPullRequests)
	}
	if cfg.Ledger.MaxAttempts != 3 {
		t.Errorf("Ledger.MaxAttempts = %d, want 3", cfg.Ledger.MaxAttempts)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Addr: ":1234"},
		Ledger: LedgerConfig{BTL: 10, BlockTimeSeconds: 12},
	}
	cfg.ApplyDefaults()

	if cfg.Server.Addr != ":1234" {
		t.Errorf("Server.Addr = %q, want :1234", cfg.Server.Addr)
	}
	if cfg.Ledger.BTL != 10 || cfg.Ledger.BlockTimeSeconds != 12 {
		t.Errorf("Ledger = %+v", cfg.Ledger)
	}
	if cfg.Ledger.TimeoutSeconds != 30 {
		t.Errorf("Ledger.TimeoutSeconds = %d, want 30", cfg.Ledger.TimeoutSeconds)
	}
}

func TestApplyDefaults_MaxPullRequests(t *testing.T) {
	tests := []struct {
		configured int
		want       int
	}{
		{0, 1000},
		{-5, 1000},
		{250, 250},
		{1000, 1000},
		{5000, 1000},
	}
	for _, tt := range tests {
		cfg := &Config{GitHub: GitHubConfig{MaxPullRequests: tt.configured}}
		cfg.ApplyDefaults()
		if cfg.GitHub.MaxPullRequests != tt.want {
			t.Errorf("MaxPullRequests %d after defaults = %d, want %d", tt.configured, cfg.GitHub.MaxPullRequests, tt.want)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvRedditClientSecret: "reddit-secret",
		EnvJWTSecret:          "jwt-secret",
	}
	cfg := &Config{GitHub: GitHubConfig{ClientSecret: "from-file"}}
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.Reddit.ClientSecret != "reddit-secret" {
		t.Errorf("Reddit.ClientSecret = %q", cfg.Reddit.ClientSecret)
	}
	if cfg.Server.JWTSecret != "jwt-secret" {
		t.Errorf("Server.JWTSecret = %q", cfg.Server.JWTSecret)
	}
	if cfg.GitHub.ClientSecret != "from-file" {
		t.Errorf("GitHub.ClientSecret = %q, want the file value kept", cfg.GitHub.ClientSecret)
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "attest.toml")

		if err := Init(path, NewConfig(dir)); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("config file not created: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("permissions = %o, want 600", perm)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "attest.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}
		if err := Init(path, cfg); err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config and applies env overrides", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "attest.toml")
		cfg := NewConfig(dir)
		cfg.Database = DatabaseConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		t.Setenv(EnvLedgerPrivateKey, "abcd")

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.Database.Type != "memory" {
			t.Errorf("Database.Type = %q, want memory", got.Database.Type)
		}
		if got.Ledger.PrivateKey != "abcd" {
			t.Errorf("Ledger.PrivateKey = %q, want abcd", got.Ledger.PrivateKey)
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		if _, err := ReadFromFile("/nonexistent/path/attest.toml"); err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
