package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"attest-go/internal/attest"
	"attest-go/internal/database/migrations"
	"attest-go/internal/database/sqlc"
)

// SQLiteDatabase implements the attest.Database interface using SQLite.
type SQLiteDatabase struct {
	db      *sql.DB
	queries *sqlc.Queries
	path    string
	clock   attest.Clock
	ids     attest.IDGenerator
}

var _ attest.Database = (*SQLiteDatabase)(nil)

// NewSQLiteDatabase creates a new SQLite database connection.
// path can be a file path or ":memory:" for in-memory database.
// A nil clock or id generator falls back to the real implementation.
func NewSQLiteDatabase(path string, clock attest.Clock, ids attest.IDGenerator) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	s := NewSQLiteDatabaseFromDB(db, clock, ids)
	s.path = path
	return s, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB, clock attest.Clock, ids attest.IDGenerator) *SQLiteDatabase {
	if clock == nil {
		clock = attest.RealClock{}
	}
	if ids == nil {
		ids = attest.UUIDGenerator{}
	}
	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		clock:   clock,
		ids:     ids,
	}
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// This is exported for use in tools and tests that need a properly configured SQLite connection.
// path can be a file path or ":memory:" for in-memory database.
//
// The pool is pinned to a single connection: PRAGMAs are per connection and
// an in-memory database exists only inside the connection that created it.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// isUniqueViolation reports whether err is a SQLite unique constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// User operations

func (s *SQLiteDatabase) FindUserByID(ctx context.Context, id string) (*sqlc.User, error) {
	user, err := s.queries.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding user by id: %w", err)
	}
	return &user, nil
}

func (s *SQLiteDatabase) FindUserByWalletAddress(ctx context.Context, address string) (*sqlc.User, error) {
	user, err := s.queries.GetUserByWalletAddress(ctx, nullString(strings.ToLower(address)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding user by wallet address: %w", err)
	}
	return &user, nil
}

func (s *SQLiteDatabase) FindUserByRedditID(ctx context.Context, redditID string) (*sqlc.User, error) {
	user, err := s.queries.GetUserByRedditID(ctx, nullString(redditID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding user by reddit id: %w", err)
	}
	return &user, nil
}

func (s *SQLiteDatabase) FindUserByGitHubID(ctx context.Context, githubID string) (*sqlc.User, error) {
	user, err := s.queries.GetUserByGithubID(ctx, nullString(githubID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding user by github id: %w", err)
	}
	return &user, nil
}

func (s *SQLiteDatabase) UpsertWalletUser(ctx context.Context, address string, verified bool) (*sqlc.User, error) {
	now := s.clock.Now().UTC()
	user, err := s.queries.UpsertUserByWalletAddress(ctx, sqlc.UpsertUserByWalletAddressParams{
		ID:            s.ids.New(),
		WalletAddress: nullString(strings.ToLower(address)),
		IsVerified:    verified,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, fmt.Errorf("upserting wallet user: %w", err)
	}
	return &user, nil
}

func (s *SQLiteDatabase) ListUsers(ctx context.Context) ([]*sqlc.User, error) {
	users, err := s.queries.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	result := make([]*sqlc.User, len(users))
	for i := range users {
		result[i] = &users[i]
	}
	return result, nil
}

func (s *SQLiteDatabase) UnlinkReddit(ctx context.Context, userID string) (*sqlc.User, error) {
	user, err := s.queries.ClearUserReddit(ctx, sqlc.ClearUserRedditParams{
		UpdatedAt: s.clock.Now().UTC(),
		ID:        userID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("unlinking reddit: %w", err)
	}
	return &user, nil
}

func (s *SQLiteDatabase) UnlinkGitHub(ctx context.Context, userID string) (*sqlc.User, error) {
	user, err := s.queries.ClearUserGithub(ctx, sqlc.ClearUserGithubParams{
		UpdatedAt: s.clock.Now().UTC(),
		ID:        userID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("unlinking github: %w", err)
	}
	return &user, nil
}

// Linking operations

func (s *SQLiteDatabase) LinkReddit(ctx context.Context, userID string, snapshot attest.RedditSnapshot) (*sqlc.User, *sqlc.RedditProfile, error) {
	now := s.clock.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	var user sqlc.User
	if userID != "" {
		owner, err := qtx.GetUserByRedditID(ctx, nullString(snapshot.RedditID))
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, nil, fmt.Errorf("checking reddit owner: %w", err)
		}
		if err == nil && owner.ID != userID {
			return nil, nil, attest.NewError(attest.KindConflict, "link reddit", "reddit account already linked to another wallet", nil)
		}

		user, err = qtx.SetUserReddit(ctx, sqlc.SetUserRedditParams{
			RedditID:       nullString(snapshot.RedditID),
			RedditUsername: nullString(snapshot.Username),
			RedditVerified: snapshot.Verified,
			UpdatedAt:      now,
			ID:             userID,
		})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil, attest.NewError(attest.KindNotFound, "link reddit", "user not found", nil)
			}
			if isUniqueViolation(err) {
				return nil, nil, attest.NewError(attest.KindConflict, "link reddit", "reddit account already linked to another wallet", err)
			}
			return nil, nil, fmt.Errorf("setting reddit identity: %w", err)
		}
	} else {
		user, err = qtx.UpsertUserByRedditID(ctx, sqlc.UpsertUserByRedditIDParams{
			ID:             s.ids.New(),
			RedditID:       nullString(snapshot.RedditID),
			RedditUsername: nullString(snapshot.Username),
			RedditVerified: snapshot.Verified,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("upserting reddit user: %w", err)
		}
	}

	profile, err := qtx.UpsertRedditProfile(ctx, sqlc.UpsertRedditProfileParams{
		ID:             s.ids.New(),
		UserID:         user.ID,
		RedditID:       snapshot.RedditID,
		Username:       snapshot.Username,
		TotalKarma:     snapshot.TotalKarma,
		CommentKarma:   snapshot.CommentKarma,
		LinkKarma:      snapshot.LinkKarma,
		AccountAge:     snapshot.AccountAge,
		CreatedUtc:     snapshot.CreatedUTC,
		Verified:       snapshot.Verified,
		IsPremium:      snapshot.IsPremium,
		IconImg:        snapshot.IconImg,
		RawApiResponse: snapshot.RawAPIResponse,
		ProofHash:      snapshot.ProofHash,
		ProofTimestamp: snapshot.ProofTimestamp.UTC(),
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("upserting reddit profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("committing transaction: %w", err)
	}

	return &user, &profile, nil
}

func (s *SQLiteDatabase) LinkGitHub(ctx context.Context, userID string, snapshot attest.GitHubSnapshot) (*sqlc.User, *sqlc.GithubProfile, error) {
	now := s.clock.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	var user sqlc.User
	if userID != "" {
		owner, err := qtx.GetUserByGithubID(ctx, nullString(snapshot.GitHubID))
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, nil, fmt.Errorf("checking github owner: %w", err)
		}
		if err == nil && owner.ID != userID {
			return nil, nil, attest.NewError(attest.KindConflict, "link github", "github account already linked to another wallet", nil)
		}

		user, err = qtx.SetUserGithub(ctx, sqlc.SetUserGithubParams{
			GithubID:       nullString(snapshot.GitHubID),
			GithubUsername: nullString(snapshot.Username),
			GithubVerified: true,
			UpdatedAt:      now,
			ID:             userID,
		})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil, attest.NewError(attest.KindNotFound, "link github", "user not found", nil)
			}
			if isUniqueViolation(err) {
				return nil, nil, attest.NewError(attest.KindConflict, "link github", "github account already linked to another wallet", err)
			}
			return nil, nil, fmt.Errorf("setting github identity: %w", err)
		}
	} else {
		user, err = qtx.UpsertUserByGithubID(ctx, sqlc.UpsertUserByGithubIDParams{
			ID:             s.ids.New(),
			GithubID:       nullString(snapshot.GitHubID),
			GithubUsername: nullString(snapshot.Username),
			GithubVerified: true,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("upserting github user: %w", err)
		}
	}

	profile, err := qtx.UpsertGithubProfile(ctx, sqlc.UpsertGithubProfileParams{
		ID:             s.ids.New(),
		UserID:         user.ID,
		GithubID:       snapshot.GitHubID,
		Username:       snapshot.Username,
		Name:           snapshot.Name,
		Email:          snapshot.Email,
		Bio:            snapshot.Bio,
		Company:        snapshot.Company,
		Location:       snapshot.Location,
		Blog:           snapshot.Blog,
		AvatarUrl:      snapshot.AvatarURL,
		Followers:      snapshot.Followers,
		Following:      snapshot.Following,
		PublicRepos:    snapshot.PublicRepos,
		AccountAge:     snapshot.AccountAge,
		CreatedUtc:     snapshot.CreatedUTC,
		RawApiResponse: snapshot.RawAPIResponse,
		ProofHash:      snapshot.ProofHash,
		ProofTimestamp: snapshot.ProofTimestamp.UTC(),
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("upserting github profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("committing transaction: %w", err)
	}

	return &user, &profile, nil
}

// Reddit snapshot operations

func (s *SQLiteDatabase) FindRedditProfileByUserID(ctx context.Context, userID string) (*sqlc.RedditProfile, error) {
	profile, err := s.queries.GetRedditProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding reddit profile: %w", err)
	}
	return &profile, nil
}

func (s *SQLiteDatabase) ListRedditProfiles(ctx context.Context) ([]*sqlc.RedditProfile, error) {
	profiles, err := s.queries.ListRedditProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing reddit profiles: %w", err)
	}
	result := make([]*sqlc.RedditProfile, len(profiles))
	for i := range profiles {
		result[i] = &profiles[i]
	}
	return result, nil
}

func (s *SQLiteDatabase) UpsertSubredditKarma(ctx context.Context, redditProfileID string, rows []attest.SubredditKarmaRow) ([]*sqlc.SubredditKarma, error) {
	now := s.clock.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	result := make([]*sqlc.SubredditKarma, 0, len(rows))
	for _, row := range rows {
		karma, err := qtx.UpsertSubredditKarma(ctx, sqlc.UpsertSubredditKarmaParams{
			ID:              s.ids.New(),
			RedditProfileID: redditProfileID,
			Subreddit:       row.Subreddit,
			CommentKarma:    row.CommentKarma,
			LinkKarma:       row.LinkKarma,
			TotalKarma:      row.TotalKarma,
			RawKarmaData:    row.RawKarmaData,
			ProofTimestamp:  row.ProofTimestamp.UTC(),
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			return nil, fmt.Errorf("upserting karma for %s: %w", row.Subreddit, err)
		}
		result = append(result, &karma)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return result, nil
}

func (s *SQLiteDatabase) ListSubredditKarma(ctx context.Context, redditProfileID string) ([]*sqlc.SubredditKarma, error) {
	rows, err := s.queries.ListSubredditKarmaByRedditProfileID(ctx, redditProfileID)
	if err != nil {
		return nil, fmt.Errorf("listing subreddit karma: %w", err)
	}
	result := make([]*sqlc.SubredditKarma, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

// GitHub snapshot operations

func (s *SQLiteDatabase) FindGitHubProfileByUserID(ctx context.Context, userID string) (*sqlc.GithubProfile, error) {
	profile, err := s.queries.GetGithubProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding github profile: %w", err)
	}
	return &profile, nil
}

func (s *SQLiteDatabase) ListGitHubProfiles(ctx context.Context) ([]*sqlc.GithubProfile, error) {
	profiles, err := s.queries.ListGithubProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing github profiles: %w", err)
	}
	result := make([]*sqlc.GithubProfile, len(profiles))
	for i := range profiles {
		result[i] = &profiles[i]
	}
	return result, nil
}

func (s *SQLiteDatabase) UpsertRepositoryContribution(ctx context.Context, githubProfileID string, row attest.ContributionRow) (*sqlc.RepositoryContribution, error) {
	now := s.clock.Now().UTC()
	contribution, err := s.queries.UpsertRepositoryContribution(ctx, sqlc.UpsertRepositoryContributionParams{
		ID:                    s.ids.New(),
		GithubProfileID:       githubProfileID,
		RepositoryOwner:       row.RepositoryOwner,
		RepositoryName:        row.RepositoryName,
		RepositoryUrl:         row.RepositoryURL,
		RepositoryID:          row.RepositoryID,
		PrsCreated:            row.PRsCreated,
		PrsMerged:             row.PRsMerged,
		PrsOpen:               row.PRsOpen,
		PrsClosed:             row.PRsClosed,
		IssuesOpened:          row.IssuesOpened,
		IssuesClosed:          row.IssuesClosed,
		CommitsCount:          row.CommitsCount,
		LinesAdded:            row.LinesAdded,
		LinesDeleted:          row.LinesDeleted,
		PullRequestsTruncated: row.PullRequestsTruncated,
		RawGraphqlResponse:    row.RawGraphQLResponse,
		ContributionExamples:  row.ContributionExamples,
		ProofTimestamp:        row.ProofTimestamp.UTC(),
		CreatedAt:             now,
		UpdatedAt:             now,
	})
	if err != nil {
		return nil, fmt.Errorf("upserting repository contribution: %w", err)
	}
	return &contribution, nil
}

func (s *SQLiteDatabase) ListRepositoryContributions(ctx context.Context, githubProfileID string) ([]*sqlc.RepositoryContribution, error) {
	rows, err := s.queries.ListRepositoryContributionsByGithubProfileID(ctx, githubProfileID)
	if err != nil {
		return nil, fmt.Errorf("listing repository contributions: %w", err)
	}
	result := make([]*sqlc.RepositoryContribution, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

// Attestation operations

func (s *SQLiteDatabase) CreateAttestation(ctx context.Context, a attest.NewAttestation) (*sqlc.Attestation, error) {
	row, err := s.queries.CreateAttestation(ctx, sqlc.CreateAttestationParams{
		ID:              s.ids.New(),
		EntityKey:       a.EntityKey,
		ExpirationBlock: a.ExpirationBlock,
		Platform:        a.Platform,
		AttestationType: string(a.AttestationType),
		Status:          string(attest.StatusActive),
		RawApiData:      a.RawAPIData,
		ProcessedData:   nullString(a.ProcessedData),
		ApiEndpoint:     a.APIEndpoint,
		RequestParams:   nullString(a.RequestParams),
		ResponseHeaders: nullString(a.ResponseHeaders),
		DataHash:        a.DataHash,
		UserID:          a.UserID,
		IssuedAt:        a.IssuedAt.UTC(),
		CreatedAt:       s.clock.Now().UTC(),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, attest.NewError(attest.KindConflict, "create attestation", "entity key already recorded", err)
		}
		return nil, fmt.Errorf("creating attestation: %w", err)
	}
	return &row, nil
}

func (s *SQLiteDatabase) FindAttestationByEntityKey(ctx context.Context, entityKey string) (*sqlc.Attestation, error) {
	row, err := s.queries.GetAttestationByEntityKey(ctx, entityKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding attestation: %w", err)
	}
	return &row, nil
}

func (s *SQLiteDatabase) ListAttestations(ctx context.Context, q attest.AttestationQuery) ([]*sqlc.Attestation, error) {
	limit := int64(-1)
	if q.Limit > 0 {
		limit = int64(q.Limit)
	}
	rows, err := s.queries.ListAttestations(ctx, sqlc.ListAttestationsParams{
		UserID:          nullString(q.UserID),
		Platform:        nullString(q.Platform),
		AttestationType: nullString(string(q.AttestationType)),
		EntityKey:       nullString(q.EntityKey),
		RowLimit:        limit,
	})
	if err != nil {
		return nil, fmt.Errorf("listing attestations: %w", err)
	}
	result := make([]*sqlc.Attestation, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

func (s *SQLiteDatabase) ListAttestationsByStatus(ctx context.Context, status attest.Status) ([]*sqlc.Attestation, error) {
	rows, err := s.queries.ListAttestationsByStatus(ctx, string(status))
	if err != nil {
		return nil, fmt.Errorf("listing attestations by status: %w", err)
	}
	result := make([]*sqlc.Attestation, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

func (s *SQLiteDatabase) UpdateAttestationStatus(ctx context.Context, entityKey string, status attest.Status) (*sqlc.Attestation, error) {
	row, err := s.queries.UpdateAttestationStatus(ctx, sqlc.UpdateAttestationStatusParams{
		Status:    string(status),
		EntityKey: entityKey,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("updating attestation status: %w", err)
	}
	return &row, nil
}

func (s *SQLiteDatabase) ExpireAttestation(ctx context.Context, entityKey string) (*sqlc.Attestation, error) {
	row, err := s.queries.ExpireAttestation(ctx, entityKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("expiring attestation: %w", err)
	}
	return &row, nil
}

// zkTLS proof operations

func (s *SQLiteDatabase) CreateZkTLSProof(ctx context.Context, p attest.NewZkTLSProof) (*sqlc.ZktlsProof, error) {
	completedAt := sql.NullTime{}
	if !p.CompletedAt.IsZero() {
		completedAt = sql.NullTime{Time: p.CompletedAt.UTC(), Valid: true}
	}
	row, err := s.queries.CreateZktlsProof(ctx, sqlc.CreateZktlsProofParams{
		ID:              s.ids.New(),
		UserID:          p.UserID,
		Url:             p.URL,
		Notary:          p.Notary,
		Headers:         p.Headers,
		Platform:        p.Platform,
		Status:          p.Status,
		Proof:           nullString(p.Proof),
		PublicInputs:    nullString(p.PublicInputs),
		VerificationKey: nullString(p.VerificationKey),
		ErrorMessage:    nullString(p.ErrorMessage),
		CreatedAt:       s.clock.Now().UTC(),
		CompletedAt:     completedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("creating zktls proof: %w", err)
	}
	return &row, nil
}

func (s *SQLiteDatabase) ListZkTLSProofs(ctx context.Context, userID, platform string) ([]*sqlc.ZktlsProof, error) {
	rows, err := s.queries.ListZktlsProofsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing zktls proofs: %w", err)
	}
	result := make([]*sqlc.ZktlsProof, 0, len(rows))
	for i := range rows {
		if platform != "" && rows[i].Platform != platform {
			continue
		}
		result = append(result, &rows[i])
	}
	return result, nil
}

func (s *SQLiteDatabase) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// MigrationStatus reports the schema version against the embedded migrations.
func (s *SQLiteDatabase) MigrationStatus() (migrations.Status, error) {
	return migrations.GetStatus(s.db)
}

// Migrate applies any pending migrations.
func (s *SQLiteDatabase) Migrate() error {
	return migrations.MigrateUp(s.db)
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
func (s *SQLiteDatabase) BackupTo(destPath string) error {
	_, err := s.db.Exec("VACUUM INTO ?", destPath)
	if err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
