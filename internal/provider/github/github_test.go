package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"attest-go/internal/attest"
)

// fakeGitHub serves the token endpoint, /user and a GraphQL endpoint that
// answers by query name.
type fakeGitHub struct {
	mu            sync.Mutex
	totalPRs      int
	searchCalls   int
	missingRepo   bool
	missingUser   bool
	graphqlErrors bool
	stuckCursor   bool
	rateLimited   bool
}

func (f *fakeGitHub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.PostForm.Get("client_id") != "client" || r.PostForm.Get("client_secret") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("code") != "good-code" {
			io.WriteString(w, `{"error":"bad_verification_code","error_description":"The code passed is incorrect or expired."}`)
			return
		}
		io.WriteString(w, `{"access_token":"gho_tok","token_type":"bearer","scope":"read:user"}`)
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer gho_tok" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"message":"Bad credentials"}`)
			return
		}
		if f.rateLimited {
			w.WriteHeader(http.StatusForbidden)
			io.WriteString(w, `{"message":"You have exceeded a secondary rate limit"}`)
			return
		}
		io.WriteString(w, `{"id":583231,"login":"octocat","name":"The Octocat","email":null,"public_repos":8,"followers":20,"following":9,"created_at":"2011-01-25T18:44:36Z"}`)
	})
	mux.HandleFunc("/graphql", f.graphql)
	return mux
}

func (f *fakeGitHub) graphql(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.Header.Get("Authorization") != "Bearer gho_tok" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case f.graphqlErrors:
		io.WriteString(w, `{"data":null,"errors":[{"type":"RATE_LIMITED","message":"API rate limit exceeded"}]}`)
	case strings.Contains(req.Query, "SearchPullRequests") && f.stuckCursor:
		f.searchCalls++
		io.WriteString(w, `{"data":{"search":{"pageInfo":{"hasNextPage":true,"endCursor":""},"nodes":[]}}}`)
	case strings.Contains(req.Query, "SearchPullRequests"):
		f.searchCalls++
		offset := 0
		if after, ok := req.Variables["after"].(string); ok {
			fmt.Sscanf(after, "cursor-%d", &offset)
		}
		first := int(req.Variables["first"].(float64))
		var nodes []string
		for i := offset; i < offset+first && i < f.totalPRs; i++ {
			state, merged := "OPEN", false
			if i%2 == 0 {
				state, merged = "MERGED", true
			}
			nodes = append(nodes, fmt.Sprintf(`{"id":"PR_%d","number":%d,"title":"pr %d","state":%q,"merged":%t,"createdAt":"2024-01-01T00:00:00Z","additions":10,"deletions":2}`, i, i+1, i, state, merged))
		}
		end := offset + len(nodes)
		fmt.Fprintf(w, `{"data":{"search":{"pageInfo":{"hasNextPage":%t,"endCursor":"cursor-%d"},"nodes":[%s]}}}`,
			end < f.totalPRs, end, strings.Join(nodes, ","))
	case strings.Contains(req.Query, "UserNodeID"):
		if f.missingUser {
			io.WriteString(w, `{"data":{"user":null},"errors":[{"type":"NOT_FOUND","message":"Could not resolve to a User"}]}`)
			return
		}
		io.WriteString(w, `{"data":{"user":{"id":"MDQ6VXNlcjU4MzIzMQ=="}}}`)
	case strings.Contains(req.Query, "RepositoryContributions"):
		if req.Variables["authorId"] != "MDQ6VXNlcjU4MzIzMQ==" {
			http.Error(w, "wrong author id", http.StatusBadRequest)
			return
		}
		if f.missingRepo {
			io.WriteString(w, `{"data":{"repository":null}}`)
			return
		}
		io.WriteString(w, `{"data":{"repository":{"id":"R_1","name":"hello","url":"https://github.com/octo/hello","owner":{"login":"octo"},
			"defaultBranchRef":{"target":{"history":{"nodes":[{"oid":"abc","message":"init","committedDate":"2024-01-02T00:00:00Z","additions":100,"deletions":5}]}}},
			"issues":{"nodes":[{"number":7,"title":"bug","state":"CLOSED","createdAt":"2024-01-03T00:00:00Z","closedAt":"2024-01-04T00:00:00Z"}]}}}}`)
	default:
		http.Error(w, "unknown query", http.StatusBadRequest)
	}
}

func newTestClient(t *testing.T, f *fakeGitHub, maxPRs int) *Client {
	t.Helper()
	server := httptest.NewServer(f.handler())
	t.Cleanup(server.Close)
	return New(Options{
		ClientID:        "client",
		ClientSecret:    "secret",
		UserAgent:       "attest-test/1.0",
		TokenURL:        server.URL + "/login/oauth/access_token",
		APIBase:         server.URL,
		GraphQLURL:      server.URL + "/graphql",
		MaxPullRequests: maxPRs,
		Timeout:         5 * time.Second,
	})
}

var testScope = attest.RepositoryScope{Owner: "octo", Repo: "hello", Username: "octocat"}

func TestClient_ExchangeCode(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, &fakeGitHub{}, 0)

	tok, err := c.ExchangeCode(ctx, "good-code")
	if err != nil {
		t.Fatalf("ExchangeCode() error = %v", err)
	}
	if tok.Value != "gho_tok" {
		t.Errorf("token = %q, want gho_tok", tok.Value)
	}

	if _, err := c.ExchangeCode(ctx, "stale"); !errors.Is(err, attest.ErrUpstreamAuth) {
		t.Errorf("ExchangeCode(stale) error = %v, want ErrUpstreamAuth", err)
	}

	unconfigured := New(Options{TokenURL: c.opts.TokenURL})
	if _, err := unconfigured.ExchangeCode(ctx, "good-code"); !errors.Is(err, attest.ErrConfig) {
		t.Errorf("ExchangeCode() without credentials error = %v, want ErrConfig", err)
	}
}

func TestClient_FetchProfile(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, &fakeGitHub{}, 0)

	profile, err := c.FetchProfile(ctx, "gho_tok")
	if err != nil {
		t.Fatalf("FetchProfile() error = %v", err)
	}
	want := time.Date(2011, 1, 25, 18, 44, 36, 0, time.UTC)
	if profile.ID != "583231" || profile.Login != "octocat" || profile.PublicRepos != 8 || !profile.CreatedAt.Equal(want) {
		t.Errorf("FetchProfile() = %+v", profile)
	}
	if profile.Email != "" {
		t.Errorf("Email = %q, want empty for null", profile.Email)
	}

	if _, err := c.FetchProfile(ctx, "revoked"); !errors.Is(err, attest.ErrUpstreamAuth) {
		t.Errorf("FetchProfile(revoked) error = %v, want ErrUpstreamAuth", err)
	}

	limited := newTestClient(t, &fakeGitHub{rateLimited: true}, 0)
	_, err = limited.FetchProfile(ctx, "gho_tok")
	if !errors.Is(err, attest.ErrUpstream) || errors.Is(err, attest.ErrUpstreamAuth) {
		t.Errorf("FetchProfile() rate limited error = %v, want ErrUpstream", err)
	}
}

func TestNew_MaxPullRequests(t *testing.T) {
	tests := []struct {
		configured int
		want       int
	}{
		{0, 1000},
		{150, 150},
		{5000, 1000},
	}
	for _, tt := range tests {
		if got := New(Options{MaxPullRequests: tt.configured}).opts.MaxPullRequests; got != tt.want {
			t.Errorf("New(MaxPullRequests: %d) cap = %d, want %d", tt.configured, got, tt.want)
		}
	}
}

func TestClient_FetchRepositoryActivity(t *testing.T) {
	ctx := context.Background()

	t.Run("collects pull requests commits and issues", func(t *testing.T) {
		f := &fakeGitHub{totalPRs: 3}
		c := newTestClient(t, f, 0)

		activity, err := c.FetchRepositoryActivity(ctx, "gho_tok", testScope)
		if err != nil {
			t.Fatalf("FetchRepositoryActivity() error = %v", err)
		}
		if activity.RepositoryID != "R_1" || activity.Owner != "octo" || activity.Name != "hello" {
			t.Errorf("repository = %+v", activity)
		}
		if len(activity.PullRequests) != 3 || activity.PullRequestsTruncated {
			t.Errorf("PullRequests = %d truncated=%v, want 3 and false", len(activity.PullRequests), activity.PullRequestsTruncated)
		}
		if !activity.PullRequests[0].Merged {
			t.Error("first pull request should be merged")
		}
		if len(activity.Commits) != 1 || activity.Commits[0].Additions != 100 {
			t.Errorf("Commits = %+v", activity.Commits)
		}
		if len(activity.Issues) != 1 || activity.Issues[0].ClosedAt == nil {
			t.Errorf("Issues = %+v", activity.Issues)
		}
	})

	t.Run("paginates search results", func(t *testing.T) {
		f := &fakeGitHub{totalPRs: 230}
		c := newTestClient(t, f, 0)

		activity, err := c.FetchRepositoryActivity(ctx, "gho_tok", testScope)
		if err != nil {
			t.Fatalf("FetchRepositoryActivity() error = %v", err)
		}
		if len(activity.PullRequests) != 230 || activity.PullRequestsTruncated {
			t.Errorf("PullRequests = %d truncated=%v, want 230 and false", len(activity.PullRequests), activity.PullRequestsTruncated)
		}
		if f.searchCalls != 3 {
			t.Errorf("search calls = %d, want 3", f.searchCalls)
		}
	})

	t.Run("stops when the cursor does not advance", func(t *testing.T) {
		f := &fakeGitHub{stuckCursor: true}
		c := newTestClient(t, f, 0)

		if _, err := c.FetchRepositoryActivity(ctx, "gho_tok", testScope); !errors.Is(err, attest.ErrUpstream) {
			t.Fatalf("FetchRepositoryActivity() error = %v, want ErrUpstream", err)
		}
		if f.searchCalls != 1 {
			t.Errorf("search calls = %d, want 1", f.searchCalls)
		}
	})

	t.Run("truncates at the cap", func(t *testing.T) {
		f := &fakeGitHub{totalPRs: 250}
		c := newTestClient(t, f, 150)

		activity, err := c.FetchRepositoryActivity(ctx, "gho_tok", testScope)
		if err != nil {
			t.Fatalf("FetchRepositoryActivity() error = %v", err)
		}
		if len(activity.PullRequests) != 150 || !activity.PullRequestsTruncated {
			t.Errorf("PullRequests = %d truncated=%v, want 150 and true", len(activity.PullRequests), activity.PullRequestsTruncated)
		}
		if f.searchCalls != 2 {
			t.Errorf("search calls = %d, want 2", f.searchCalls)
		}
	})

	tests := []struct {
		name string
		fake *fakeGitHub
		want error
	}{
		{"missing repository", &fakeGitHub{missingRepo: true}, attest.ErrNotFound},
		{"missing user", &fakeGitHub{missingUser: true}, attest.ErrNotFound},
		{"graphql errors", &fakeGitHub{graphqlErrors: true}, attest.ErrUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.fake, 0)
			if _, err := c.FetchRepositoryActivity(ctx, "gho_tok", testScope); !errors.Is(err, tt.want) {
				t.Errorf("FetchRepositoryActivity() error = %v, want %v", err, tt.want)
			}
		})
	}
}
