package attest

import (
	"context"
	"time"

	"attest-go/internal/database/sqlc"
)

// RedditSnapshot is the stored form of a Reddit profile fetch.
type RedditSnapshot struct {
	RedditID       string
	Username       string
	TotalKarma     int64
	CommentKarma   int64
	LinkKarma      int64
	AccountAge     string
	CreatedUTC     int64
	Verified       bool
	IsPremium      bool
	IconImg        string
	RawAPIResponse string
	ProofHash      string
	ProofTimestamp time.Time
}

// GitHubSnapshot is the stored form of a GitHub profile fetch.
type GitHubSnapshot struct {
	GitHubID       string
	Username       string
	Name           string
	Email          string
	Bio            string
	Company        string
	Location       string
	Blog           string
	AvatarURL      string
	Followers      int64
	Following      int64
	PublicRepos    int64
	AccountAge     string
	CreatedUTC     int64
	RawAPIResponse string
	ProofHash      string
	ProofTimestamp time.Time
}

// SubredditKarmaRow is one subreddit's karma, keyed by subreddit name.
type SubredditKarmaRow struct {
	Subreddit      string
	CommentKarma   int64
	LinkKarma      int64
	TotalKarma     int64
	RawKarmaData   string
	ProofTimestamp time.Time
}

// ContributionRow is one repository's contribution metrics, keyed by
// owner and name.
type ContributionRow struct {
	RepositoryOwner       string
	RepositoryName        string
	RepositoryURL         string
	RepositoryID          string
	PRsCreated            int64
	PRsMerged             int64
	PRsOpen               int64
	PRsClosed             int64
	IssuesOpened          int64
	IssuesClosed          int64
	CommitsCount          int64
	LinesAdded            int64
	LinesDeleted          int64
	PullRequestsTruncated bool
	RawGraphQLResponse    string
	ContributionExamples  string
	ProofTimestamp        time.Time
}

// NewAttestation is the row written after a successful ledger write.
// JSON fields hold canonical JSON text; empty means absent.
type NewAttestation struct {
	EntityKey       string
	ExpirationBlock string
	Platform        string
	AttestationType AttestationType
	RawAPIData      string
	ProcessedData   string
	APIEndpoint     string
	RequestParams   string
	ResponseHeaders string
	DataHash        string
	UserID          string
	IssuedAt        time.Time
}

// AttestationQuery narrows ListAttestations. Empty fields do not filter;
// Limit <= 0 means no limit.
type AttestationQuery struct {
	UserID          string
	Platform        string
	AttestationType AttestationType
	EntityKey       string
	Limit           int
}

// NewZkTLSProof is a completed or failed prover call.
type NewZkTLSProof struct {
	UserID          string
	URL             string
	Notary          string
	Headers         string
	Platform        string
	Status          string
	Proof           string
	PublicInputs    string
	VerificationKey string
	ErrorMessage    string
	CompletedAt     time.Time
}

// Database provides storage for users, provider snapshots and attestations.
// Lookups return (nil, nil) when nothing matches.
type Database interface {
	// User operations

	FindUserByID(ctx context.Context, id string) (*sqlc.User, error)
	FindUserByWalletAddress(ctx context.Context, address string) (*sqlc.User, error)
	FindUserByRedditID(ctx context.Context, redditID string) (*sqlc.User, error)
	FindUserByGitHubID(ctx context.Context, githubID string) (*sqlc.User, error)

	// UpsertWalletUser creates the user for address or refreshes it.
	UpsertWalletUser(ctx context.Context, address string, verified bool) (*sqlc.User, error)

	// ListUsers returns all users, newest first.
	ListUsers(ctx context.Context) ([]*sqlc.User, error)

	// UnlinkReddit and UnlinkGitHub clear a provider identity from a user.
	UnlinkReddit(ctx context.Context, userID string) (*sqlc.User, error)
	UnlinkGitHub(ctx context.Context, userID string) (*sqlc.User, error)

	// Linking operations. With a userID, the provider identity is attached to
	// that user and ErrConflict is returned if another user holds it. With an
	// empty userID, a user keyed by the provider identity is created or
	// updated. The user change and snapshot upsert commit together.

	LinkReddit(ctx context.Context, userID string, snapshot RedditSnapshot) (*sqlc.User, *sqlc.RedditProfile, error)
	LinkGitHub(ctx context.Context, userID string, snapshot GitHubSnapshot) (*sqlc.User, *sqlc.GithubProfile, error)

	// Reddit snapshot operations

	FindRedditProfileByUserID(ctx context.Context, userID string) (*sqlc.RedditProfile, error)
	ListRedditProfiles(ctx context.Context) ([]*sqlc.RedditProfile, error)

	// UpsertSubredditKarma writes all rows in one transaction, keyed by
	// (redditProfileID, subreddit). Later values replace earlier ones.
	UpsertSubredditKarma(ctx context.Context, redditProfileID string, rows []SubredditKarmaRow) ([]*sqlc.SubredditKarma, error)
	ListSubredditKarma(ctx context.Context, redditProfileID string) ([]*sqlc.SubredditKarma, error)

	// GitHub snapshot operations

	FindGitHubProfileByUserID(ctx context.Context, userID string) (*sqlc.GithubProfile, error)
	ListGitHubProfiles(ctx context.Context) ([]*sqlc.GithubProfile, error)

	// UpsertRepositoryContribution is keyed by (githubProfileID, owner, name).
	UpsertRepositoryContribution(ctx context.Context, githubProfileID string, row ContributionRow) (*sqlc.RepositoryContribution, error)
	ListRepositoryContributions(ctx context.Context, githubProfileID string) ([]*sqlc.RepositoryContribution, error)

	// Attestation operations

	CreateAttestation(ctx context.Context, a NewAttestation) (*sqlc.Attestation, error)
	FindAttestationByEntityKey(ctx context.Context, entityKey string) (*sqlc.Attestation, error)

	// ListAttestations returns matching attestations, newest first.
	ListAttestations(ctx context.Context, q AttestationQuery) ([]*sqlc.Attestation, error)
	ListAttestationsByStatus(ctx context.Context, status Status) ([]*sqlc.Attestation, error)
	UpdateAttestationStatus(ctx context.Context, entityKey string, status Status) (*sqlc.Attestation, error)

	// ExpireAttestation moves an active attestation to expired. Returns nil
	// when the row is missing or no longer active.
	ExpireAttestation(ctx context.Context, entityKey string) (*sqlc.Attestation, error)

	// zkTLS proof operations

	CreateZkTLSProof(ctx context.Context, p NewZkTLSProof) (*sqlc.ZktlsProof, error)
	ListZkTLSProofs(ctx context.Context, userID, platform string) ([]*sqlc.ZktlsProof, error)

	// Close closes the database connection.
	Close() error
}
