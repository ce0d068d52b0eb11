package attest

import (
	"context"
	"encoding/json"
	"strings"

	"attest-go/internal/database/sqlc"
)

// GitHubAuthResult is returned by AuthenticateGitHub.
type GitHubAuthResult struct {
	Link        *LinkResult
	AccessToken string
	Profile     *GitHubProfile
	Attestation *AttestationOutcome
}

// AuthenticateGitHub exchanges an OAuth code, fetches the profile, links it
// to userID (or to a user keyed by the GitHub id when userID is empty) and
// attests the profile.
func (s *Service) AuthenticateGitHub(ctx context.Context, code, userID string) (*GitHubAuthResult, error) {
	const op = "authenticate github"
	if s.github == nil {
		return nil, NewError(KindConfig, op, "github is not configured", nil)
	}
	if code == "" {
		return nil, NewError(KindInvalidArgument, op, "authorization code is required", nil)
	}

	token, err := s.github.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}
	profile, err := s.github.FetchProfile(ctx, token.Value)
	if err != nil {
		return nil, err
	}

	raw, hash, err := canonicalRaw(profile.Raw)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	snapshot := GitHubSnapshot{
		GitHubID:       profile.ID,
		Username:       profile.Login,
		Name:           profile.Name,
		Email:          profile.Email,
		Bio:            profile.Bio,
		Company:        profile.Company,
		Location:       profile.Location,
		Blog:           profile.Blog,
		AvatarURL:      profile.AvatarURL,
		Followers:      profile.Followers,
		Following:      profile.Following,
		PublicRepos:    profile.PublicRepos,
		AccountAge:     AccountAge(profile.CreatedAt, now),
		CreatedUTC:     profile.CreatedAt.Unix(),
		RawAPIResponse: raw,
		ProofHash:      hash,
		ProofTimestamp: now,
	}

	link, err := s.linker.LinkGitHub(ctx, userID, snapshot)
	if err != nil {
		return nil, err
	}

	outcome := s.attest(ctx, AttestationRequest{
		Platform: PlatformGitHub,
		Type:     TypeProfile,
		UserID:   link.User.ID,
		RawData:  json.RawMessage(raw),
		ProcessedData: map[string]any{
			"username":    snapshot.Username,
			"name":        snapshot.Name,
			"followers":   snapshot.Followers,
			"following":   snapshot.Following,
			"publicRepos": snapshot.PublicRepos,
			"accountAge":  snapshot.AccountAge,
		},
		APIEndpoint: s.github.ProfileEndpoint(),
	})

	return &GitHubAuthResult{
		Link:        link,
		AccessToken: token.Value,
		Profile:     profile,
		Attestation: outcome,
	}, nil
}

// ContributionMetrics summarizes one user's activity in one repository.
type ContributionMetrics struct {
	PRsCreated   int64 `json:"prsCreated"`
	PRsMerged    int64 `json:"prsMerged"`
	PRsOpen      int64 `json:"prsOpen"`
	PRsClosed    int64 `json:"prsClosed"`
	IssuesOpened int64 `json:"issuesOpened"`
	IssuesClosed int64 `json:"issuesClosed"`
	CommitsCount int64 `json:"commitsCount"`
	LinesAdded   int64 `json:"linesAdded"`
	LinesDeleted int64 `json:"linesDeleted"`
}

// ComputeContributionMetrics derives metrics from fetched activity. Closed
// pull requests count only when not merged; lines come from commits.
func ComputeContributionMetrics(activity *RepositoryActivity) ContributionMetrics {
	m := ContributionMetrics{
		PRsCreated:   int64(len(activity.PullRequests)),
		IssuesOpened: int64(len(activity.Issues)),
		CommitsCount: int64(len(activity.Commits)),
	}
	for _, pr := range activity.PullRequests {
		switch {
		case pr.Merged:
			m.PRsMerged++
		case strings.EqualFold(pr.State, "open"):
			m.PRsOpen++
		case strings.EqualFold(pr.State, "closed"):
			m.PRsClosed++
		}
	}
	for _, issue := range activity.Issues {
		if strings.EqualFold(issue.State, "closed") {
			m.IssuesClosed++
		}
	}
	for _, c := range activity.Commits {
		m.LinesAdded += c.Additions
		m.LinesDeleted += c.Deletions
	}
	return m
}

// ContributionExamples is a small sample of the activity behind the metrics.
type ContributionExamples struct {
	SamplePRs     []PullRequest `json:"samplePRs"`
	SampleCommits []Commit      `json:"sampleCommits"`
	SampleIssues  []Issue       `json:"sampleIssues"`
}

func sampleContributions(activity *RepositoryActivity) ContributionExamples {
	return ContributionExamples{
		SamplePRs:     firstN(activity.PullRequests, 5),
		SampleCommits: firstN(activity.Commits, 10),
		SampleIssues:  firstN(activity.Issues, 5),
	}
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		items = items[:n]
	}
	if items == nil {
		return []T{}
	}
	return items
}

// RepositoryContributionResult is returned by FetchRepositoryContributions.
type RepositoryContributionResult struct {
	Contribution *sqlc.RepositoryContribution
	Metrics      ContributionMetrics
	Activity     *RepositoryActivity
	Attestation  *AttestationOutcome
}

// FetchRepositoryContributions fetches scope's activity, stores the metrics
// against the user's GitHub snapshot and attests them.
func (s *Service) FetchRepositoryContributions(ctx context.Context, accessToken, userID string, scope RepositoryScope) (*RepositoryContributionResult, error) {
	const op = "fetch repository contributions"
	if s.github == nil {
		return nil, NewError(KindConfig, op, "github is not configured", nil)
	}
	if accessToken == "" || userID == "" {
		return nil, NewError(KindInvalidArgument, op, "access token and user id are required", nil)
	}
	if scope.Owner == "" || scope.Repo == "" || scope.Username == "" {
		return nil, NewError(KindInvalidArgument, op, "owner, repo and username are required", nil)
	}

	activity, err := s.github.FetchRepositoryActivity(ctx, accessToken, scope)
	if err != nil {
		return nil, err
	}
	if activity.PullRequestsTruncated {
		s.logger.Warn("pull request list truncated", "owner", scope.Owner, "repo", scope.Repo, "count", len(activity.PullRequests))
	}

	raw, err := CanonicalJSON(activity)
	if err != nil {
		return nil, err
	}
	examples, err := CanonicalJSON(sampleContributions(activity))
	if err != nil {
		return nil, err
	}
	metrics := ComputeContributionMetrics(activity)

	stored, err := s.linker.UpsertRepositoryContribution(ctx, userID, ContributionRow{
		RepositoryOwner:       scope.Owner,
		RepositoryName:        scope.Repo,
		RepositoryURL:         activity.URL,
		RepositoryID:          activity.RepositoryID,
		PRsCreated:            metrics.PRsCreated,
		PRsMerged:             metrics.PRsMerged,
		PRsOpen:               metrics.PRsOpen,
		PRsClosed:             metrics.PRsClosed,
		IssuesOpened:          metrics.IssuesOpened,
		IssuesClosed:          metrics.IssuesClosed,
		CommitsCount:          metrics.CommitsCount,
		LinesAdded:            metrics.LinesAdded,
		LinesDeleted:          metrics.LinesDeleted,
		PullRequestsTruncated: activity.PullRequestsTruncated,
		RawGraphQLResponse:    string(raw),
		ContributionExamples:  string(examples),
		ProofTimestamp:        s.clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	repository := scope.Owner + "/" + scope.Repo
	outcome := s.attest(ctx, AttestationRequest{
		Platform: PlatformGitHub,
		Type:     TypeRepositoryContributions,
		UserID:   userID,
		RawData:  json.RawMessage(raw),
		ProcessedData: map[string]any{
			"repository": repository,
			"metrics":    metrics,
		},
		Summary: map[string]any{
			"username":         scope.Username,
			"repository":       repository,
			"metrics":          metrics,
			"verificationType": TypeRepositoryContributions,
		},
		APIEndpoint: s.github.ActivityEndpoint(),
		RequestParams: map[string]any{
			"owner":    scope.Owner,
			"repo":     scope.Repo,
			"username": scope.Username,
		},
	})

	return &RepositoryContributionResult{
		Contribution: stored,
		Metrics:      metrics,
		Activity:     activity,
		Attestation:  outcome,
	}, nil
}
