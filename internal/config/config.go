package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for attest.
type Config struct {
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Ledger     LedgerConfig     `toml:"ledger"`
	Encryption EncryptionConfig `toml:"encryption"`
	Reddit     RedditConfig     `toml:"reddit"`
	GitHub     GitHubConfig     `toml:"github"`
	ZkTLS      ZkTLSConfig      `toml:"zktls"`
}

// ServerConfig holds HTTP listener settings. JWTSecret verifies the session
// tokens issued by the wallet login flow.
type ServerConfig struct {
	Addr                string   `toml:"addr"`
	JWTSecret           string   `toml:"jwt_secret,omitempty"`
	AllowedOrigins      []string `toml:"allowed_origins,omitempty"`
	ReadTimeoutSeconds  int      `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `toml:"write_timeout_seconds"`
}

// DatabaseConfig represents configuration for the attestation database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// LedgerConfig represents configuration for the ledger backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type LedgerConfig struct {
	Type             string    `toml:"type"` // "memory", "filesystem", or "s3"
	PrivateKey       string    `toml:"private_key,omitempty"`
	BTL              uint64    `toml:"btl"`                // blocks an entity lives for
	BlockTimeSeconds int       `toml:"block_time_seconds"` // filesystem and s3 height model
	Genesis          time.Time `toml:"genesis"`
	InitialHeight    uint64    `toml:"initial_height,omitempty"` // only used for type=memory
	MaxAttempts      int       `toml:"max_attempts"`
	TimeoutSeconds   int       `toml:"timeout_seconds"`
	Seal             bool      `toml:"seal"` // encrypt payloads with the encryption key

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSRoot string `toml:"fs_root,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket          string `toml:"s3_bucket,omitempty"`
	S3Prefix          string `toml:"s3_prefix,omitempty"`
	S3Region          string `toml:"s3_region,omitempty"`
	S3Endpoint        string `toml:"s3_endpoint,omitempty"`
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`
}

// EncryptionConfig holds paths to the age key pair used to seal ledger payloads.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default) or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// RedditConfig holds the Reddit OAuth application and API endpoints.
type RedditConfig struct {
	ClientID       string `toml:"client_id"`
	ClientSecret   string `toml:"client_secret,omitempty"`
	RedirectURI    string `toml:"redirect_uri"`
	UserAgent      string `toml:"user_agent"`
	TokenURL       string `toml:"token_url"`
	APIBase        string `toml:"api_base"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// GitHubConfig holds the GitHub OAuth application and API endpoints.
type GitHubConfig struct {
	ClientID          string  `toml:"client_id"`
	ClientSecret      string  `toml:"client_secret,omitempty"`
	RedirectURI       string  `toml:"redirect_uri,omitempty"`
	UserAgent         string  `toml:"user_agent"`
	TokenURL          string  `toml:"token_url"`
	APIBase           string  `toml:"api_base"`
	GraphQLURL        string  `toml:"graphql_url"`
	MaxPullRequests   int     `toml:"max_pull_requests"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
}

// ZkTLSConfig holds the zkTLS prover credentials and endpoints.
type ZkTLSConfig struct {
	ClientID       string `toml:"client_id,omitempty"`
	ClientSecret   string `toml:"client_secret,omitempty"`
	ProverURL      string `toml:"prover_url"`
	Notary         string `toml:"notary"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// NewConfig creates a new Config rooted at baseDir with default settings.
func NewConfig(baseDir string) *Config {
	cfg := &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Ledger: LedgerConfig{
			Type:   "filesystem",
			FSRoot: filepath.Join(baseDir, "ledger"),
		},
		Encryption: EncryptionConfig{
			PublicKeyPath:  filepath.Join(baseDir, "keys", "attest.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "attest.key"),
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// MaxPullRequestsCap bounds how many pull requests one contribution fetch
// collects.
const MaxPullRequestsCap = 1000

// ApplyDefaults fills unset fields with their default values.
func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeoutSeconds <= 0 {
		c.Server.ReadTimeoutSeconds = 15
	}
	if c.Server.WriteTimeoutSeconds <= 0 {
		c.Server.WriteTimeoutSeconds = 60
	}

	if c.Ledger.BTL == 0 {
		// one year of 2 second blocks
		c.Ledger.BTL = 365 * 24 * 60 * 60 / 2
	}
	if c.Ledger.BlockTimeSeconds <= 0 {
		c.Ledger.BlockTimeSeconds = 2
	}
	if c.Ledger.Genesis.IsZero() {
		c.Ledger.Genesis = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if c.Ledger.MaxAttempts <= 0 {
		c.Ledger.MaxAttempts = 3
	}
	if c.Ledger.TimeoutSeconds <= 0 {
		c.Ledger.TimeoutSeconds = 30
	}

	if c.Reddit.UserAgent == "" {
		c.Reddit.UserAgent = "DoxxMe/1.0.0"
	}
	if c.Reddit.TokenURL == "" {
		c.Reddit.TokenURL = "https://www.reddit.com/api/v1/access_token"
	}
	if c.Reddit.APIBase == "" {
		c.Reddit.APIBase = "https://oauth.reddit.com"
	}
	if c.Reddit.TimeoutSeconds <= 0 {
		c.Reddit.TimeoutSeconds = 15
	}

	if c.GitHub.UserAgent == "" {
		c.GitHub.UserAgent = "DoxxMe/1.0.0"
	}
	if c.GitHub.TokenURL == "" {
		c.GitHub.TokenURL = "https://github.com/login/oauth/access_token"
	}
	if c.GitHub.APIBase == "" {
		c.GitHub.APIBase = "https://api.github.com"
	}
	if c.GitHub.GraphQLURL == "" {
		c.GitHub.GraphQLURL = "https://api.github.com/graphql"
	}
	if c.GitHub.MaxPullRequests <= 0 || c.GitHub.MaxPullRequests > MaxPullRequestsCap {
		c.GitHub.MaxPullRequests = MaxPullRequestsCap
	}
	if c.GitHub.RequestsPerSecond <= 0 {
		c.GitHub.RequestsPerSecond = 5
	}
	if c.GitHub.TimeoutSeconds <= 0 {
		c.GitHub.TimeoutSeconds = 30
	}

	if c.ZkTLS.ProverURL == "" {
		c.ZkTLS.ProverURL = "https://web-prover.vlayer.xyz/api/v0/prove"
	}
	if c.ZkTLS.Notary == "" {
		c.ZkTLS.Notary = "https://test-notary.vlayer.xyz/v0.1.0-alpha.11"
	}
	if c.ZkTLS.TimeoutSeconds <= 0 {
		c.ZkTLS.TimeoutSeconds = 120
	}
}

// Secrets that may be supplied through the environment instead of the file.
const (
	EnvRedditClientSecret = "ATTEST_REDDIT_CLIENT_SECRET"
	EnvGitHubClientSecret = "ATTEST_GITHUB_CLIENT_SECRET"
	EnvVlayerClientSecret = "ATTEST_VLAYER_CLIENT_SECRET"
	EnvJWTSecret          = "ATTEST_JWT_SECRET"
	EnvLedgerPrivateKey   = "ATTEST_LEDGER_PRIVATE_KEY"
)

// ApplyEnv overrides secrets with non-empty values from getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	overrides := []struct {
		env string
		dst *string
	}{
		{EnvRedditClientSecret, &c.Reddit.ClientSecret},
		{EnvGitHubClientSecret, &c.GitHub.ClientSecret},
		{EnvVlayerClientSecret, &c.ZkTLS.ClientSecret},
		{EnvJWTSecret, &c.Server.JWTSecret},
		{EnvLedgerPrivateKey, &c.Ledger.PrivateKey},
	}
	for _, o := range overrides {
		if v := getenv(o.env); v != "" {
			*o.dst = v
		}
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path, fills defaults
// and applies environment overrides.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// writeToFile writes a Config to the specified file path with owner-only
// permissions, since it may hold secrets.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
