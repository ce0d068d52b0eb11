package attest

import (
	"context"
	"encoding/json"
	"time"
)

// AccessToken is a provider access token obtained from an OAuth code.
type AccessToken struct {
	Value     string
	TokenType string
	Scope     string
	Expiry    time.Time
}

// RedditProfile is the normalized /api/v1/me response. Raw holds the body
// exactly as received.
type RedditProfile struct {
	ID               string
	Name             string
	TotalKarma       int64
	CommentKarma     int64
	LinkKarma        int64
	CreatedUTC       int64
	HasVerifiedEmail bool
	IsPremium        bool
	IconImg          string
	Raw              json.RawMessage
}

// SubredditKarmaEntry is the karma a user holds in one subreddit.
type SubredditKarmaEntry struct {
	Subreddit    string `json:"subreddit"`
	CommentKarma int64  `json:"commentKarma"`
	LinkKarma    int64  `json:"linkKarma"`
}

// Total is comment plus link karma.
func (e SubredditKarmaEntry) Total() int64 { return e.CommentKarma + e.LinkKarma }

// RedditKarma is the normalized /api/v1/me/karma response.
type RedditKarma struct {
	Entries []SubredditKarmaEntry
	Raw     json.RawMessage
}

// GitHubProfile is the normalized /user response.
type GitHubProfile struct {
	ID          string
	Login       string
	Name        string
	Email       string
	Bio         string
	Company     string
	Location    string
	Blog        string
	AvatarURL   string
	Followers   int64
	Following   int64
	PublicRepos int64
	CreatedAt   time.Time
	Raw         json.RawMessage
}

// RepositoryScope selects one user's activity in one repository.
type RepositoryScope struct {
	Owner    string
	Repo     string
	Username string
}

type PullRequest struct {
	ID        string     `json:"id"`
	Number    int64      `json:"number"`
	Title     string     `json:"title"`
	State     string     `json:"state"`
	Merged    bool       `json:"merged"`
	CreatedAt time.Time  `json:"createdAt"`
	ClosedAt  *time.Time `json:"closedAt,omitempty"`
	MergedAt  *time.Time `json:"mergedAt,omitempty"`
	Additions int64      `json:"additions"`
	Deletions int64      `json:"deletions"`
}

type Commit struct {
	OID           string    `json:"oid"`
	Message       string    `json:"message"`
	CommittedDate time.Time `json:"committedDate"`
	Additions     int64     `json:"additions"`
	Deletions     int64     `json:"deletions"`
}

type Issue struct {
	Number    int64      `json:"number"`
	Title     string     `json:"title"`
	State     string     `json:"state"`
	CreatedAt time.Time  `json:"createdAt"`
	ClosedAt  *time.Time `json:"closedAt,omitempty"`
}

// RepositoryActivity is everything fetched for one RepositoryScope.
// PullRequestsTruncated is set when the pull request cap was reached.
type RepositoryActivity struct {
	RepositoryID          string        `json:"id"`
	Owner                 string        `json:"owner"`
	Name                  string        `json:"name"`
	URL                   string        `json:"url"`
	PullRequests          []PullRequest `json:"pullRequests"`
	Commits               []Commit      `json:"commits"`
	Issues                []Issue       `json:"issues"`
	PullRequestsTruncated bool          `json:"pullRequestsTruncated"`
}

// ProofRequest asks the zkTLS prover to notarize a GET of URL.
// Headers use the "Name: value" form.
type ProofRequest struct {
	URL      string
	Notary   string
	Headers  []string
	Platform string
}

// ProofResponse is the prover's answer.
type ProofResponse struct {
	Proof           string          `json:"proof"`
	PublicInputs    json.RawMessage `json:"publicInputs"`
	VerificationKey string          `json:"verificationKey"`
}

// RedditClient fetches Reddit identity and karma. Implementations perform
// no persistence.
type RedditClient interface {
	ExchangeCode(ctx context.Context, code string) (*AccessToken, error)
	FetchProfile(ctx context.Context, token string) (*RedditProfile, error)
	FetchKarma(ctx context.Context, token string) (*RedditKarma, error)
	ProfileEndpoint() string
	KarmaEndpoint() string
	UserAgent() string
}

// GitHubClient fetches GitHub identity and repository activity.
type GitHubClient interface {
	ExchangeCode(ctx context.Context, code string) (*AccessToken, error)
	FetchProfile(ctx context.Context, token string) (*GitHubProfile, error)
	FetchRepositoryActivity(ctx context.Context, token string, scope RepositoryScope) (*RepositoryActivity, error)
	ProfileEndpoint() string
	ActivityEndpoint() string
	UserAgent() string
}

// Prover produces zkTLS proofs of HTTPS responses.
type Prover interface {
	Prove(ctx context.Context, req ProofRequest) (*ProofResponse, error)
	DefaultNotary() string
}
