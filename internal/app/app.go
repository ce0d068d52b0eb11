package app

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"time"

	"attest-go/internal/attest"
	"attest-go/internal/config"
	"attest-go/internal/database"
	"attest-go/internal/database/sqlc"
	"attest-go/internal/encryption"
	"attest-go/internal/httpapi"
	"attest-go/internal/ledger"
	"attest-go/internal/provider/github"
	"attest-go/internal/provider/reddit"
	"attest-go/internal/provider/vlayer"
)

// AttestApp is the application layer between the CLI and the attestation
// service. It constructs all dependencies from config and manages their
// lifecycle on Close.
type AttestApp struct {
	cfg       *config.Config
	db        *database.SQLiteDatabase
	ledger    attest.Ledger
	encryptor attest.Encryptor
	service   *attest.Service
	logger    attest.Logger
	clock     attest.Clock
	run       *Run
	logFile   *os.File
}

// NewAttestApp creates a fully wired AttestApp from the given config.
// command identifies the CLI command being run (e.g. "serve", "attestations expire").
// The caller must call Close when done.
func NewAttestApp(ctx context.Context, cfg *config.Config, command string) (*AttestApp, error) {
	clock := attest.RealClock{}
	run := NewRun(command, clock.Now())

	logger, logFile, err := newLogger(cfg.LogDir, run.ID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	a, err := newAttestApp(ctx, cfg, run, &slogAdapter{l: logger}, clock)
	if err != nil {
		logFile.Close()
		return nil, err
	}
	a.logFile = logFile
	return a, nil
}

func newAttestApp(ctx context.Context, cfg *config.Config, run *Run, logger attest.Logger, clock attest.Clock) (*AttestApp, error) {
	ids := attest.UUIDGenerator{}

	db, err := database.NewDatabaseFromConfig(cfg.Database, clock, ids)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	l, err := ledger.NewLedgerFromConfig(ctx, cfg.Ledger, enc, clock, ids)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger: %w", err)
	}

	timeout := time.Duration(cfg.Ledger.TimeoutSeconds) * time.Second
	writer := attest.NewLedgerWriter(l, clock, cfg.Ledger.BTL, timeout)
	attestor := attest.NewAttestor(db, writer, logger, clock, attest.RetryPolicy{
		MaxAttempts: cfg.Ledger.MaxAttempts,
		Backoff:     500 * time.Millisecond,
	})
	linker := attest.NewLinker(db, logger)

	svc := attest.NewService(db, linker, attestor,
		reddit.NewFromConfig(cfg.Reddit),
		github.NewFromConfig(cfg.GitHub),
		vlayer.NewFromConfig(cfg.ZkTLS),
		logger, clock)

	logger.Info("command started", "command", run.Command, "ledger", cfg.Ledger.Type, "database", cfg.Database.Type)

	return &AttestApp{
		cfg:       cfg,
		db:        db,
		ledger:    l,
		encryptor: enc,
		service:   svc,
		logger:    logger,
		clock:     clock,
		run:       run,
	}, nil
}

// Fail marks the current run as failed so Close logs it accordingly.
func (a *AttestApp) Fail(err error) {
	a.run.Fail(err)
}

// Handler returns the HTTP API handler backed by this app's service.
func (a *AttestApp) Handler() http.Handler {
	srv := httpapi.NewServer(a.service, a.logger, httpapi.Options{
		JWTSecret:      a.cfg.Server.JWTSecret,
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		Clock:          a.clock,
	})
	return srv.Handler()
}

// Config returns the configuration the app was built from.
func (a *AttestApp) Config() *config.Config { return a.cfg }

// Logger returns the app logger.
func (a *AttestApp) Logger() attest.Logger { return a.logger }

// RegisterWallet creates or refreshes the user for a wallet address.
func (a *AttestApp) RegisterWallet(ctx context.Context, address string) (*sqlc.User, error) {
	return a.service.Linker().RegisterWallet(ctx, address)
}

// UserProfile returns a user and everything linked to it.
func (a *AttestApp) UserProfile(ctx context.Context, userID string) (*attest.UserProfile, error) {
	return a.service.GetUserProfile(ctx, userID)
}

// Overview returns every user with the aggregate verifier stats.
func (a *AttestApp) Overview(ctx context.Context) (*attest.VerifierOverview, error) {
	return a.service.VerifierOverview(ctx)
}

// Unlink detaches a provider identity ("reddit" or "github") from a user.
func (a *AttestApp) Unlink(ctx context.Context, userID, platform string) (*sqlc.User, error) {
	return a.service.Linker().Unlink(ctx, userID, attest.Platform(platform))
}

// IssueToken signs a session token for userID with the configured secret.
func (a *AttestApp) IssueToken(userID, role string, ttl time.Duration) (string, error) {
	if a.cfg.Server.JWTSecret == "" {
		return "", fmt.Errorf("server.jwt_secret is not configured")
	}
	if _, err := a.service.GetUserProfile(context.Background(), userID); err != nil {
		return "", err
	}
	return httpapi.IssueToken([]byte(a.cfg.Server.JWTSecret), userID, role, a.clock.Now(), ttl)
}

// ListAttestations returns attestations matching f, evaluated at the current height.
func (a *AttestApp) ListAttestations(ctx context.Context, f attest.AttestationFilter) ([]*attest.AttestationRecord, error) {
	return a.service.Attestor().GetAttestations(ctx, f)
}

// VerifyAttestation checks a stored attestation against its hash and the ledger.
func (a *AttestApp) VerifyAttestation(ctx context.Context, entityKey string) (*attest.Verification, error) {
	return a.service.Attestor().VerifyAttestation(ctx, entityKey)
}

// RevokeAttestation revokes an attestation owned by userID.
func (a *AttestApp) RevokeAttestation(ctx context.Context, entityKey, userID string) (*attest.AttestationRecord, error) {
	return a.service.Attestor().RevokeAttestation(ctx, entityKey, userID)
}

// ExpireAttestations marks active attestations past their expiration block
// as expired and returns how many changed.
func (a *AttestApp) ExpireAttestations(ctx context.Context) (int, error) {
	return a.service.Attestor().ExpireAttestations(ctx)
}

// LedgerHeight returns the ledger's current block height.
func (a *AttestApp) LedgerHeight(ctx context.Context) (*big.Int, error) {
	return a.service.Attestor().CurrentHeight(ctx)
}

// LedgerEntity reads a ledger entity. When the ledger is sealed, the payload
// is opened with the private key unlocked by passphrase.
func (a *AttestApp) LedgerEntity(ctx context.Context, key, passphrase string) (*attest.LedgerEntity, []byte, error) {
	entity, err := a.ledger.GetEntity(ctx, key)
	if err != nil {
		return nil, nil, fmt.Errorf("reading entity: %w", err)
	}
	if entity == nil {
		return nil, nil, attest.NewError(attest.KindNotFound, "ledger show", "entity not found", nil)
	}
	if !a.cfg.Ledger.Seal {
		return entity, entity.Data, nil
	}

	dctx, err := a.encryptor.Unlock(passphrase)
	if err != nil {
		return nil, nil, fmt.Errorf("unlocking private key: %w", err)
	}
	data, err := ledger.Open(entity, dctx)
	if err != nil {
		return nil, nil, err
	}
	return entity, data, nil
}

// Sealed reports whether ledger payloads are encrypted.
func (a *AttestApp) Sealed() bool { return a.cfg.Ledger.Seal }

// Close logs the end of the run and closes all resources.
func (a *AttestApp) Close() error {
	var firstErr error

	a.logger.Info("command finished",
		"command", a.run.Command,
		"status", a.run.Status,
		"elapsed", a.run.Elapsed(a.clock.Now()).String(),
	)

	if err := a.db.Close(); err != nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}

// OpenDatabase opens the configured database without checking migrations,
// for the db subcommands.
func OpenDatabase(cfg *config.Config) (*database.SQLiteDatabase, error) {
	db, err := database.NewDatabaseFromConfig(cfg.Database, attest.RealClock{}, attest.UUIDGenerator{})
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}
	return db, nil
}

// BackupDatabase snapshots the database to destPath.
func BackupDatabase(cfg *config.Config, destPath string) error {
	db, err := OpenDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.CheckMigrations(); err != nil {
		return fmt.Errorf("database schema out of date: %w", err)
	}
	if err := db.BackupTo(destPath); err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}
