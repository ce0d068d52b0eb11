package attest

import (
	"encoding/json"
	"math/big"
	"time"

	"attest-go/internal/database/sqlc"
)

// Platform names the source a piece of evidence came from.
type Platform string

const (
	PlatformReddit Platform = "reddit"
	PlatformGitHub Platform = "github"
	PlatformZkTLS  Platform = "zktls"
)

// AttestationType names what an attestation asserts.
type AttestationType string

const (
	TypeProfile                 AttestationType = "profile"
	TypeSubredditKarma          AttestationType = "subreddit_karma"
	TypeRepositoryContributions AttestationType = "repository_contributions"
	TypeZkTLSProof              AttestationType = "zktls_proof"
)

// Valid reports whether t is a known attestation type.
func (t AttestationType) Valid() bool {
	switch t {
	case TypeProfile, TypeSubredditKarma, TypeRepositoryContributions, TypeZkTLSProof:
		return true
	}
	return false
}

// Status is the lifecycle state of an attestation. It only moves forward:
// active -> expired -> revoked, or active -> revoked.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
	StatusRevoked Status = "revoked"
)

func (s Status) rank() int {
	switch s {
	case StatusActive:
		return 0
	case StatusExpired:
		return 1
	case StatusRevoked:
		return 2
	}
	return -1
}

// CanTransition reports whether moving from s to next is a forward move.
func (s Status) CanTransition(next Status) bool {
	return s.rank() >= 0 && next.rank() > s.rank()
}

// Receipt is what the ledger returns for a successful write.
type Receipt struct {
	EntityKey       string
	ExpirationBlock *big.Int
}

// AttestationRecord is a stored attestation with its JSON fields decoded
// and its expiry evaluated against the ledger height at query time.
type AttestationRecord struct {
	ID              string
	EntityKey       string
	ExpirationBlock *big.Int
	Platform        string
	AttestationType AttestationType
	StoredStatus    Status
	Status          Status
	Expired         bool
	RawAPIData      json.RawMessage
	ProcessedData   json.RawMessage
	APIEndpoint     string
	RequestParams   json.RawMessage
	ResponseHeaders json.RawMessage
	DataHash        string
	UserID          string
	IssuedAt        time.Time
	CreatedAt       time.Time
}

// UserProfile gathers a user and everything linked to it.
type UserProfile struct {
	User                    *sqlc.User
	Reddit                  *sqlc.RedditProfile
	SubredditKarma          []*sqlc.SubredditKarma
	GitHub                  *sqlc.GithubProfile
	RepositoryContributions []*sqlc.RepositoryContribution
}

// VerifierStats summarizes all users for the verifier view.
type VerifierStats struct {
	TotalUsers      int
	RedditConnected int
	GitHubConnected int
	AverageKarma    float64
	AverageRepos    float64
}

// VerifierOverview is the verifier's view of all users.
type VerifierOverview struct {
	Users []*UserProfile
	Stats VerifierStats
}
