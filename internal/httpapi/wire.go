package httpapi

import (
	"database/sql"
	"encoding/json"
	"time"

	"attest-go/internal/attest"
	"attest-go/internal/database/sqlc"
)

// JSON wire forms. Block heights are decimal strings; stored JSON text is
// returned as a JSON value.

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

// rawJSON returns s as a JSON value, or as a JSON string when s is not
// valid JSON.
func rawJSON(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	if json.Valid([]byte(s)) {
		return json.RawMessage(s)
	}
	b, _ := json.Marshal(s)
	return b
}

func nullRawJSON(s sql.NullString) json.RawMessage {
	if !s.Valid {
		return nil
	}
	return rawJSON(s.String)
}

type userJSON struct {
	ID             string    `json:"id"`
	WalletAddress  *string   `json:"walletAddress"`
	IsVerified     bool      `json:"isVerified"`
	RedditID       *string   `json:"redditId"`
	RedditUsername *string   `json:"redditUsername"`
	RedditVerified bool      `json:"redditVerified"`
	GitHubID       *string   `json:"githubId"`
	GitHubUsername *string   `json:"githubUsername"`
	GitHubVerified bool      `json:"githubVerified"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toUser(u *sqlc.User) *userJSON {
	if u == nil {
		return nil
	}
	return &userJSON{
		ID:             u.ID,
		WalletAddress:  nullString(u.WalletAddress),
		IsVerified:     u.IsVerified,
		RedditID:       nullString(u.RedditID),
		RedditUsername: nullString(u.RedditUsername),
		RedditVerified: u.RedditVerified,
		GitHubID:       nullString(u.GithubID),
		GitHubUsername: nullString(u.GithubUsername),
		GitHubVerified: u.GithubVerified,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

type redditProfileJSON struct {
	RedditID       string          `json:"redditId"`
	Username       string          `json:"username"`
	TotalKarma     int64           `json:"totalKarma"`
	CommentKarma   int64           `json:"commentKarma"`
	LinkKarma      int64           `json:"linkKarma"`
	AccountAge     string          `json:"accountAge"`
	CreatedUTC     int64           `json:"createdUtc"`
	Verified       bool            `json:"verified"`
	IsPremium      bool            `json:"isPremium"`
	IconImg        string          `json:"iconImg,omitempty"`
	RawAPIResponse json.RawMessage `json:"rawApiResponse,omitempty"`
	ProofHash      string          `json:"proofHash"`
	ProofTimestamp time.Time       `json:"proofTimestamp"`
}

func toRedditProfile(p *sqlc.RedditProfile) *redditProfileJSON {
	if p == nil {
		return nil
	}
	return &redditProfileJSON{
		RedditID:       p.RedditID,
		Username:       p.Username,
		TotalKarma:     p.TotalKarma,
		CommentKarma:   p.CommentKarma,
		LinkKarma:      p.LinkKarma,
		AccountAge:     p.AccountAge,
		CreatedUTC:     p.CreatedUtc,
		Verified:       p.Verified,
		IsPremium:      p.IsPremium,
		IconImg:        p.IconImg,
		RawAPIResponse: rawJSON(p.RawApiResponse),
		ProofHash:      p.ProofHash,
		ProofTimestamp: p.ProofTimestamp,
	}
}

type githubProfileJSON struct {
	GitHubID       string          `json:"githubId"`
	Username       string          `json:"username"`
	Name           string          `json:"name,omitempty"`
	Email          string          `json:"email,omitempty"`
	Bio            string          `json:"bio,omitempty"`
	Company        string          `json:"company,omitempty"`
	Location       string          `json:"location,omitempty"`
	Blog           string          `json:"blog,omitempty"`
	AvatarURL      string          `json:"avatarUrl,omitempty"`
	Followers      int64           `json:"followers"`
	Following      int64           `json:"following"`
	PublicRepos    int64           `json:"publicRepos"`
	AccountAge     string          `json:"accountAge"`
	CreatedUTC     int64           `json:"createdUtc"`
	RawAPIResponse json.RawMessage `json:"rawApiResponse,omitempty"`
	ProofHash      string          `json:"proofHash"`
	ProofTimestamp time.Time       `json:"proofTimestamp"`
}

func toGitHubProfile(p *sqlc.GithubProfile) *githubProfileJSON {
	if p == nil {
		return nil
	}
	return &githubProfileJSON{
		GitHubID:       p.GithubID,
		Username:       p.Username,
		Name:           p.Name,
		Email:          p.Email,
		Bio:            p.Bio,
		Company:        p.Company,
		Location:       p.Location,
		Blog:           p.Blog,
		AvatarURL:      p.AvatarUrl,
		Followers:      p.Followers,
		Following:      p.Following,
		PublicRepos:    p.PublicRepos,
		AccountAge:     p.AccountAge,
		CreatedUTC:     p.CreatedUtc,
		RawAPIResponse: rawJSON(p.RawApiResponse),
		ProofHash:      p.ProofHash,
		ProofTimestamp: p.ProofTimestamp,
	}
}

type subredditKarmaJSON struct {
	Subreddit      string    `json:"subreddit"`
	CommentKarma   int64     `json:"commentKarma"`
	LinkKarma      int64     `json:"linkKarma"`
	TotalKarma     int64     `json:"totalKarma"`
	ProofTimestamp time.Time `json:"proofTimestamp"`
}

func toSubredditKarma(rows []*sqlc.SubredditKarma) []subredditKarmaJSON {
	out := make([]subredditKarmaJSON, 0, len(rows))
	for _, r := range rows {
		out = append(out, subredditKarmaJSON{
			Subreddit:      r.Subreddit,
			CommentKarma:   r.CommentKarma,
			LinkKarma:      r.LinkKarma,
			TotalKarma:     r.TotalKarma,
			ProofTimestamp: r.ProofTimestamp,
		})
	}
	return out
}

type contributionJSON struct {
	RepositoryOwner       string                     `json:"repositoryOwner"`
	RepositoryName        string                     `json:"repositoryName"`
	RepositoryURL         string                     `json:"repositoryUrl"`
	RepositoryID          string                     `json:"repositoryId"`
	Metrics               attest.ContributionMetrics `json:"metrics"`
	PullRequestsTruncated bool                       `json:"pullRequestsTruncated"`
	ContributionExamples  json.RawMessage            `json:"contributionExamples,omitempty"`
	ProofTimestamp        time.Time                  `json:"proofTimestamp"`
}

func toContribution(c *sqlc.RepositoryContribution) contributionJSON {
	return contributionJSON{
		RepositoryOwner: c.RepositoryOwner,
		RepositoryName:  c.RepositoryName,
		RepositoryURL:   c.RepositoryUrl,
		RepositoryID:    c.RepositoryID,
		Metrics: attest.ContributionMetrics{
			PRsCreated:   c.PrsCreated,
			PRsMerged:    c.PrsMerged,
			PRsOpen:      c.PrsOpen,
			PRsClosed:    c.PrsClosed,
			IssuesOpened: c.IssuesOpened,
			IssuesClosed: c.IssuesClosed,
			CommitsCount: c.CommitsCount,
			LinesAdded:   c.LinesAdded,
			LinesDeleted: c.LinesDeleted,
		},
		PullRequestsTruncated: c.PullRequestsTruncated,
		ContributionExamples:  rawJSON(c.ContributionExamples),
		ProofTimestamp:        c.ProofTimestamp,
	}
}

type profileJSON struct {
	User                    *userJSON            `json:"user"`
	Reddit                  *redditProfileJSON   `json:"redditProfile"`
	SubredditKarma          []subredditKarmaJSON `json:"subredditKarma"`
	GitHub                  *githubProfileJSON   `json:"githubProfile"`
	RepositoryContributions []contributionJSON   `json:"repositoryContributions"`
}

func toProfile(p *attest.UserProfile) *profileJSON {
	out := &profileJSON{
		User:                    toUser(p.User),
		Reddit:                  toRedditProfile(p.Reddit),
		SubredditKarma:          toSubredditKarma(p.SubredditKarma),
		GitHub:                  toGitHubProfile(p.GitHub),
		RepositoryContributions: make([]contributionJSON, 0, len(p.RepositoryContributions)),
	}
	for _, c := range p.RepositoryContributions {
		out.RepositoryContributions = append(out.RepositoryContributions, toContribution(c))
	}
	return out
}

type attestationJSON struct {
	ID              string          `json:"id"`
	EntityKey       string          `json:"entityKey"`
	ExpirationBlock string          `json:"expirationBlock"`
	Platform        string          `json:"platform"`
	AttestationType string          `json:"attestationType"`
	Status          string          `json:"status"`
	IsExpired       bool            `json:"isExpired"`
	RawAPIData      json.RawMessage `json:"rawApiData"`
	ProcessedData   json.RawMessage `json:"processedData,omitempty"`
	APIEndpoint     string          `json:"apiEndpoint"`
	RequestParams   json.RawMessage `json:"requestParams,omitempty"`
	ResponseHeaders json.RawMessage `json:"responseHeaders,omitempty"`
	DataHash        string          `json:"dataHash"`
	UserID          string          `json:"userId"`
	IssuedAt        time.Time       `json:"issuedAt"`
	CreatedAt       time.Time       `json:"createdAt"`
}

func toAttestation(a *attest.AttestationRecord) attestationJSON {
	out := attestationJSON{
		ID:              a.ID,
		EntityKey:       a.EntityKey,
		Platform:        a.Platform,
		AttestationType: string(a.AttestationType),
		Status:          string(a.Status),
		IsExpired:       a.Expired,
		RawAPIData:      a.RawAPIData,
		ProcessedData:   a.ProcessedData,
		APIEndpoint:     a.APIEndpoint,
		RequestParams:   a.RequestParams,
		ResponseHeaders: a.ResponseHeaders,
		DataHash:        a.DataHash,
		UserID:          a.UserID,
		IssuedAt:        a.IssuedAt,
		CreatedAt:       a.CreatedAt,
	}
	if a.ExpirationBlock != nil {
		out.ExpirationBlock = a.ExpirationBlock.String()
	}
	return out
}

// receiptJSON identifies the ledger entity an operation anchored.
type receiptJSON struct {
	ID              string `json:"id,omitempty"`
	EntityKey       string `json:"entityKey"`
	ExpirationBlock string `json:"expirationBlock"`
}

// outcomeJSON is embedded in responses of operations that attest as a side
// effect. A failed attestation shows up as a warning.
type outcomeJSON struct {
	Attestation *receiptJSON `json:"attestation,omitempty"`
	Warning     string       `json:"warning,omitempty"`
}

func toOutcome(o *attest.AttestationOutcome) outcomeJSON {
	if o == nil {
		return outcomeJSON{}
	}
	out := outcomeJSON{Warning: o.Warning()}
	if o.Result != nil && o.Result.Receipt != nil && o.Err == nil {
		r := &receiptJSON{
			EntityKey:       o.Result.Receipt.EntityKey,
			ExpirationBlock: o.Result.Receipt.ExpirationBlock.String(),
		}
		if o.Result.Attestation != nil {
			r.ID = o.Result.Attestation.ID
		}
		out.Attestation = r
	}
	return out
}

type proofJSON struct {
	ID              string          `json:"id"`
	URL             string          `json:"url"`
	Notary          string          `json:"notary"`
	Headers         json.RawMessage `json:"headers"`
	Platform        string          `json:"platform"`
	Status          string          `json:"status"`
	Proof           *string         `json:"proof,omitempty"`
	PublicInputs    json.RawMessage `json:"publicInputs,omitempty"`
	VerificationKey *string         `json:"verificationKey,omitempty"`
	ErrorMessage    *string         `json:"errorMessage,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	CompletedAt     *time.Time      `json:"completedAt,omitempty"`
}

func toProof(p *sqlc.ZktlsProof) proofJSON {
	out := proofJSON{
		ID:              p.ID,
		URL:             p.Url,
		Notary:          p.Notary,
		Headers:         rawJSON(p.Headers),
		Platform:        p.Platform,
		Status:          p.Status,
		Proof:           nullString(p.Proof),
		PublicInputs:    nullRawJSON(p.PublicInputs),
		VerificationKey: nullString(p.VerificationKey),
		ErrorMessage:    nullString(p.ErrorMessage),
		CreatedAt:       p.CreatedAt,
	}
	if p.CompletedAt.Valid {
		out.CompletedAt = &p.CompletedAt.Time
	}
	return out
}
