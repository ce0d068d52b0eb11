// Package github implements attest.GitHubClient against the GitHub REST and
// GraphQL APIs.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"attest-go/internal/attest"
	"attest-go/internal/config"
	"attest-go/internal/provider"
)

const pageSize = 100

// Options configures a Client.
type Options struct {
	ClientID          string
	ClientSecret      string
	RedirectURI       string
	UserAgent         string
	TokenURL          string
	APIBase           string
	GraphQLURL        string
	MaxPullRequests   int
	RequestsPerSecond float64
	Timeout           time.Duration
}

// Client talks to GitHub. GraphQL requests share one rate limiter.
type Client struct {
	opts    Options
	http    *http.Client
	limiter *rate.Limiter
}

var _ attest.GitHubClient = (*Client)(nil)

// New creates a Client.
func New(opts Options) *Client {
	opts.APIBase = strings.TrimRight(opts.APIBase, "/")
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxPullRequests <= 0 || opts.MaxPullRequests > config.MaxPullRequestsCap {
		opts.MaxPullRequests = config.MaxPullRequestsCap
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	return &Client{
		opts:    opts,
		http:    provider.NewHTTPClient(opts.Timeout, opts.UserAgent),
		limiter: rate.NewLimiter(limit, 1),
	}
}

// NewFromConfig creates a Client from the github config section.
func NewFromConfig(cfg config.GitHubConfig) *Client {
	return New(Options{
		ClientID:          cfg.ClientID,
		ClientSecret:      cfg.ClientSecret,
		RedirectURI:       cfg.RedirectURI,
		UserAgent:         cfg.UserAgent,
		TokenURL:          cfg.TokenURL,
		APIBase:           cfg.APIBase,
		GraphQLURL:        cfg.GraphQLURL,
		MaxPullRequests:   cfg.MaxPullRequests,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Timeout:           time.Duration(cfg.TimeoutSeconds) * time.Second,
	})
}

func (c *Client) ProfileEndpoint() string  { return c.opts.APIBase + "/user" }
func (c *Client) ActivityEndpoint() string { return c.opts.GraphQLURL }
func (c *Client) UserAgent() string        { return c.opts.UserAgent }

// ExchangeCode trades an authorization code for an access token. The
// redirect URI is optional for GitHub.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*attest.AccessToken, error) {
	const op = "exchange github code"
	if c.opts.ClientID == "" || c.opts.ClientSecret == "" {
		return nil, attest.NewError(attest.KindConfig, op, "github client id and secret are required", nil)
	}

	conf := &oauth2.Config{
		ClientID:     c.opts.ClientID,
		ClientSecret: c.opts.ClientSecret,
		RedirectURL:  c.opts.RedirectURI,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.opts.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, provider.ExchangeError(op, err)
	}
	return provider.Token(tok), nil
}

type userResponse struct {
	ID          int64     `json:"id"`
	Login       string    `json:"login"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Bio         string    `json:"bio"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Blog        string    `json:"blog"`
	AvatarURL   string    `json:"avatar_url"`
	Followers   int64     `json:"followers"`
	Following   int64     `json:"following"`
	PublicRepos int64     `json:"public_repos"`
	CreatedAt   time.Time `json:"created_at"`
}

// FetchProfile reads /user for the token's owner.
func (c *Client) FetchProfile(ctx context.Context, token string) (*attest.GitHubProfile, error) {
	const op = "fetch github profile"
	raw, err := provider.Do(ctx, c.http, provider.Request{
		Op:      op,
		URL:     c.ProfileEndpoint(),
		Token:   token,
		Headers: map[string]string{"Accept": "application/vnd.github+json"},
	})
	if err != nil {
		return nil, err
	}

	var u userResponse
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, attest.NewError(attest.KindUpstream, op, "decoding profile", err)
	}
	if u.ID == 0 || u.Login == "" {
		return nil, attest.NewError(attest.KindUpstream, op, "profile has no id", nil)
	}
	return &attest.GitHubProfile{
		ID:          strconv.FormatInt(u.ID, 10),
		Login:       u.Login,
		Name:        u.Name,
		Email:       u.Email,
		Bio:         u.Bio,
		Company:     u.Company,
		Location:    u.Location,
		Blog:        u.Blog,
		AvatarURL:   u.AvatarURL,
		Followers:   u.Followers,
		Following:   u.Following,
		PublicRepos: u.PublicRepos,
		CreatedAt:   u.CreatedAt,
		Raw:         raw,
	}, nil
}

// FetchRepositoryActivity collects the pull requests, default branch commits
// and issues scope.Username authored in scope's repository. Pull request
// search and the repository query run concurrently.
func (c *Client) FetchRepositoryActivity(ctx context.Context, token string, scope attest.RepositoryScope) (*attest.RepositoryActivity, error) {
	var (
		prs       []attest.PullRequest
		truncated bool
		repo      *repositoryNode
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prs, truncated, err = c.searchPullRequests(gctx, token, scope)
		return err
	})
	g.Go(func() error {
		authorID, err := c.userNodeID(gctx, token, scope.Username)
		if err != nil {
			return err
		}
		repo, err = c.repository(gctx, token, scope, authorID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	activity := &attest.RepositoryActivity{
		RepositoryID:          repo.ID,
		Owner:                 repo.Owner.Login,
		Name:                  repo.Name,
		URL:                   repo.URL,
		PullRequests:          prs,
		Commits:               []attest.Commit{},
		Issues:                repo.Issues.Nodes,
		PullRequestsTruncated: truncated,
	}
	if activity.Issues == nil {
		activity.Issues = []attest.Issue{}
	}
	if ref := repo.DefaultBranchRef; ref != nil && ref.Target.History != nil {
		activity.Commits = ref.Target.History.Nodes
	}
	return activity, nil
}

const searchPullRequestsQuery = `query SearchPullRequests($searchQuery: String!, $first: Int!, $after: String) {
  search(query: $searchQuery, type: ISSUE, first: $first, after: $after) {
    pageInfo { hasNextPage endCursor }
    nodes {
      ... on PullRequest {
        id number title state merged createdAt closedAt mergedAt additions deletions
      }
    }
  }
}`

type searchResponse struct {
	Search struct {
		PageInfo struct {
			HasNextPage bool   `json:"hasNextPage"`
			EndCursor   string `json:"endCursor"`
		} `json:"pageInfo"`
		Nodes []attest.PullRequest `json:"nodes"`
	} `json:"search"`
}

// searchPullRequests pages through the author's pull requests until the
// configured cap. Reaching the cap with pages left reports truncation.
func (c *Client) searchPullRequests(ctx context.Context, token string, scope attest.RepositoryScope) ([]attest.PullRequest, bool, error) {
	query := fmt.Sprintf("repo:%s/%s is:pr author:%s", scope.Owner, scope.Repo, scope.Username)
	prs := []attest.PullRequest{}
	var after *string
	for {
		first := min(pageSize, c.opts.MaxPullRequests-len(prs))
		var resp searchResponse
		err := c.graphql(ctx, token, "search pull requests", searchPullRequestsQuery, map[string]any{
			"searchQuery": query,
			"first":       first,
			"after":       after,
		}, &resp)
		if err != nil {
			return nil, false, err
		}
		for _, n := range resp.Search.Nodes {
			// non pull request results decode as empty nodes
			if n.ID != "" {
				prs = append(prs, n)
			}
		}

		page := resp.Search.PageInfo
		if !page.HasNextPage {
			return prs, false, nil
		}
		if len(prs) >= c.opts.MaxPullRequests {
			return prs[:c.opts.MaxPullRequests], true, nil
		}
		cursor := page.EndCursor
		if cursor == "" || (after != nil && *after == cursor) {
			return nil, false, attest.NewError(attest.KindUpstream, "search pull requests", "search reported more pages without advancing the cursor", nil)
		}
		after = &cursor
	}
}

const userNodeIDQuery = `query UserNodeID($login: String!) { user(login: $login) { id } }`

func (c *Client) userNodeID(ctx context.Context, token, login string) (string, error) {
	var resp struct {
		User *struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := c.graphql(ctx, token, "resolve github user", userNodeIDQuery, map[string]any{"login": login}, &resp); err != nil {
		return "", err
	}
	if resp.User == nil || resp.User.ID == "" {
		return "", attest.NewError(attest.KindNotFound, "resolve github user", "github user "+login+" not found", nil)
	}
	return resp.User.ID, nil
}

const repositoryQuery = `query RepositoryContributions($owner: String!, $name: String!, $login: String!, $authorId: ID!) {
  repository(owner: $owner, name: $name) {
    id name url
    owner { login }
    defaultBranchRef {
      target {
        ... on Commit {
          history(first: 100, author: {id: $authorId}) {
            nodes { oid message committedDate additions deletions }
          }
        }
      }
    }
    issues(first: 100, filterBy: {createdBy: $login}) {
      nodes { number title state createdAt closedAt }
    }
  }
}`

type repositoryNode struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
	DefaultBranchRef *struct {
		Target struct {
			History *struct {
				Nodes []attest.Commit `json:"nodes"`
			} `json:"history"`
		} `json:"target"`
	} `json:"defaultBranchRef"`
	Issues struct {
		Nodes []attest.Issue `json:"nodes"`
	} `json:"issues"`
}

func (c *Client) repository(ctx context.Context, token string, scope attest.RepositoryScope, authorID string) (*repositoryNode, error) {
	var resp struct {
		Repository *repositoryNode `json:"repository"`
	}
	err := c.graphql(ctx, token, "fetch repository", repositoryQuery, map[string]any{
		"owner":    scope.Owner,
		"name":     scope.Repo,
		"login":    scope.Username,
		"authorId": authorID,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Repository == nil {
		return nil, attest.NewError(attest.KindNotFound, "fetch repository", "repository "+scope.Owner+"/"+scope.Repo+" not found", nil)
	}
	return resp.Repository, nil
}

type graphqlError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// graphql posts one query and decodes its data into out. A NOT_FOUND error
// maps to KindNotFound, any other GraphQL error to KindUpstream.
func (c *Client) graphql(ctx context.Context, token, op, query string, vars map[string]any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return provider.TransportError(op, err)
	}
	raw, err := provider.Do(ctx, c.http, provider.Request{
		Op:     op,
		Method: http.MethodPost,
		URL:    c.opts.GraphQLURL,
		Token:  token,
		Body:   map[string]any{"query": query, "variables": vars},
	})
	if err != nil {
		return err
	}

	var resp struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return attest.NewError(attest.KindUpstream, op, "decoding graphql response", err)
	}
	if len(resp.Errors) > 0 {
		kind := attest.KindUpstream
		if resp.Errors[0].Type == "NOT_FOUND" {
			kind = attest.KindNotFound
		}
		return attest.NewError(kind, op, resp.Errors[0].Message, nil)
	}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return attest.NewError(attest.KindUpstream, op, "graphql response has no data", nil)
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return attest.NewError(attest.KindUpstream, op, "decoding graphql data", err)
	}
	return nil
}
