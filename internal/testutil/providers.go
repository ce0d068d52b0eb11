package testutil

import (
	"context"
	"sync"

	"attest-go/internal/attest"
)

// FakeRedditClient serves fixed Reddit responses. Codes map to tokens and
// tokens to profiles; unknown values fail with an upstream auth error.
type FakeRedditClient struct {
	Tokens   map[string]string
	Profiles map[string]*attest.RedditProfile
	Karma    map[string]*attest.RedditKarma
}

var _ attest.RedditClient = (*FakeRedditClient)(nil)

func NewFakeRedditClient() *FakeRedditClient {
	return &FakeRedditClient{
		Tokens:   make(map[string]string),
		Profiles: make(map[string]*attest.RedditProfile),
		Karma:    make(map[string]*attest.RedditKarma),
	}
}

func (c *FakeRedditClient) ExchangeCode(ctx context.Context, code string) (*attest.AccessToken, error) {
	token, ok := c.Tokens[code]
	if !ok {
		return nil, attest.NewError(attest.KindUpstreamAuth, "exchange reddit code", "invalid code", nil)
	}
	return &attest.AccessToken{Value: token, TokenType: "bearer"}, nil
}

func (c *FakeRedditClient) FetchProfile(ctx context.Context, token string) (*attest.RedditProfile, error) {
	profile, ok := c.Profiles[token]
	if !ok {
		return nil, attest.NewError(attest.KindUpstreamAuth, "fetch reddit profile", "invalid token", nil)
	}
	return profile, nil
}

func (c *FakeRedditClient) FetchKarma(ctx context.Context, token string) (*attest.RedditKarma, error) {
	karma, ok := c.Karma[token]
	if !ok {
		return nil, attest.NewError(attest.KindUpstreamAuth, "fetch reddit karma", "invalid token", nil)
	}
	return karma, nil
}

func (c *FakeRedditClient) ProfileEndpoint() string { return "https://oauth.reddit.test/api/v1/me" }
func (c *FakeRedditClient) KarmaEndpoint() string   { return "https://oauth.reddit.test/api/v1/me/karma" }
func (c *FakeRedditClient) UserAgent() string       { return "attest-test/1.0" }

// FakeGitHubClient serves fixed GitHub responses.
type FakeGitHubClient struct {
	Tokens     map[string]string
	Profiles   map[string]*attest.GitHubProfile
	Activities map[string]*attest.RepositoryActivity
}

var _ attest.GitHubClient = (*FakeGitHubClient)(nil)

func NewFakeGitHubClient() *FakeGitHubClient {
	return &FakeGitHubClient{
		Tokens:     make(map[string]string),
		Profiles:   make(map[string]*attest.GitHubProfile),
		Activities: make(map[string]*attest.RepositoryActivity),
	}
}

func (c *FakeGitHubClient) ExchangeCode(ctx context.Context, code string) (*attest.AccessToken, error) {
	token, ok := c.Tokens[code]
	if !ok {
		return nil, attest.NewError(attest.KindUpstreamAuth, "exchange github code", "invalid code", nil)
	}
	return &attest.AccessToken{Value: token, TokenType: "bearer"}, nil
}

func (c *FakeGitHubClient) FetchProfile(ctx context.Context, token string) (*attest.GitHubProfile, error) {
	profile, ok := c.Profiles[token]
	if !ok {
		return nil, attest.NewError(attest.KindUpstreamAuth, "fetch github profile", "invalid token", nil)
	}
	return profile, nil
}

// FetchRepositoryActivity looks activity up by "owner/repo".
func (c *FakeGitHubClient) FetchRepositoryActivity(ctx context.Context, token string, scope attest.RepositoryScope) (*attest.RepositoryActivity, error) {
	if _, ok := c.Profiles[token]; !ok {
		return nil, attest.NewError(attest.KindUpstreamAuth, "fetch repository activity", "invalid token", nil)
	}
	activity, ok := c.Activities[scope.Owner+"/"+scope.Repo]
	if !ok {
		return nil, attest.NewError(attest.KindUpstream, "fetch repository activity", "repository not found", nil)
	}
	return activity, nil
}

func (c *FakeGitHubClient) ProfileEndpoint() string  { return "https://api.github.test/user" }
func (c *FakeGitHubClient) ActivityEndpoint() string { return "https://api.github.test/graphql" }
func (c *FakeGitHubClient) UserAgent() string        { return "attest-test/1.0" }

// FakeProver returns Response, or Err when set, and records requests.
type FakeProver struct {
	mu       sync.Mutex
	Response *attest.ProofResponse
	Err      error
	requests []attest.ProofRequest
}

var _ attest.Prover = (*FakeProver)(nil)

func (p *FakeProver) Prove(ctx context.Context, req attest.ProofRequest) (*attest.ProofResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Response, nil
}

func (p *FakeProver) DefaultNotary() string { return "https://notary.test" }

// Requests returns the requests seen so far.
func (p *FakeProver) Requests() []attest.ProofRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]attest.ProofRequest(nil), p.requests...)
}
