// Package reddit implements attest.RedditClient against the Reddit OAuth API.
package reddit

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"attest-go/internal/attest"
	"attest-go/internal/config"
	"attest-go/internal/provider"
)

// Options configures a Client.
type Options struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	UserAgent    string
	TokenURL     string
	APIBase      string
	Timeout      time.Duration
}

// Client talks to Reddit. It is safe for concurrent use.
type Client struct {
	opts Options
	http *http.Client
}

var _ attest.RedditClient = (*Client)(nil)

// New creates a Client.
func New(opts Options) *Client {
	opts.APIBase = strings.TrimRight(opts.APIBase, "/")
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &Client{opts: opts, http: provider.NewHTTPClient(opts.Timeout, opts.UserAgent)}
}

// NewFromConfig creates a Client from the reddit config section.
func NewFromConfig(cfg config.RedditConfig) *Client {
	return New(Options{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURI:  cfg.RedirectURI,
		UserAgent:    cfg.UserAgent,
		TokenURL:     cfg.TokenURL,
		APIBase:      cfg.APIBase,
		Timeout:      time.Duration(cfg.TimeoutSeconds) * time.Second,
	})
}

func (c *Client) ProfileEndpoint() string { return c.opts.APIBase + "/api/v1/me" }
func (c *Client) KarmaEndpoint() string   { return c.opts.APIBase + "/api/v1/me/karma" }
func (c *Client) UserAgent() string       { return c.opts.UserAgent }

// ExchangeCode trades an authorization code for an access token. Reddit
// expects the client credentials as HTTP basic auth.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*attest.AccessToken, error) {
	const op = "exchange reddit code"
	if c.opts.ClientID == "" || c.opts.ClientSecret == "" || c.opts.RedirectURI == "" {
		return nil, attest.NewError(attest.KindConfig, op, "reddit client id, secret and redirect uri are required", nil)
	}

	conf := &oauth2.Config{
		ClientID:     c.opts.ClientID,
		ClientSecret: c.opts.ClientSecret,
		RedirectURL:  c.opts.RedirectURI,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.opts.TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
	ctx, cancel := context.WithTimeout(ctx, c.http.Timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, provider.ExchangeError(op, err)
	}
	return provider.Token(tok), nil
}

type meResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	TotalKarma       int64   `json:"total_karma"`
	CommentKarma     int64   `json:"comment_karma"`
	LinkKarma        int64   `json:"link_karma"`
	CreatedUTC       float64 `json:"created_utc"`
	HasVerifiedEmail bool    `json:"has_verified_email"`
	IsGold           bool    `json:"is_gold"`
	IconImg          string  `json:"icon_img"`
}

// FetchProfile reads /api/v1/me. is_gold is reported as premium.
func (c *Client) FetchProfile(ctx context.Context, token string) (*attest.RedditProfile, error) {
	const op = "fetch reddit profile"
	raw, err := provider.Do(ctx, c.http, provider.Request{Op: op, URL: c.ProfileEndpoint(), Token: token})
	if err != nil {
		return nil, err
	}

	var me meResponse
	if err := json.Unmarshal(raw, &me); err != nil {
		return nil, attest.NewError(attest.KindUpstream, op, "decoding profile", err)
	}
	if me.ID == "" {
		return nil, attest.NewError(attest.KindUpstream, op, "profile has no id", nil)
	}
	return &attest.RedditProfile{
		ID:               me.ID,
		Name:             me.Name,
		TotalKarma:       me.TotalKarma,
		CommentKarma:     me.CommentKarma,
		LinkKarma:        me.LinkKarma,
		CreatedUTC:       int64(me.CreatedUTC),
		HasVerifiedEmail: me.HasVerifiedEmail,
		IsPremium:        me.IsGold,
		IconImg:          me.IconImg,
		Raw:              raw,
	}, nil
}

type karmaResponse struct {
	Data []struct {
		Subreddit    string `json:"sr"`
		CommentKarma int64  `json:"comment_karma"`
		LinkKarma    int64  `json:"link_karma"`
	} `json:"data"`
}

// FetchKarma reads the per-subreddit breakdown from /api/v1/me/karma.
func (c *Client) FetchKarma(ctx context.Context, token string) (*attest.RedditKarma, error) {
	const op = "fetch reddit karma"
	raw, err := provider.Do(ctx, c.http, provider.Request{Op: op, URL: c.KarmaEndpoint(), Token: token})
	if err != nil {
		return nil, err
	}

	var resp karmaResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, attest.NewError(attest.KindUpstream, op, "decoding karma", err)
	}
	entries := make([]attest.SubredditKarmaEntry, 0, len(resp.Data))
	for _, d := range resp.Data {
		if d.Subreddit == "" {
			continue
		}
		entries = append(entries, attest.SubredditKarmaEntry{
			Subreddit:    d.Subreddit,
			CommentKarma: d.CommentKarma,
			LinkKarma:    d.LinkKarma,
		})
	}
	return &attest.RedditKarma{Entries: entries, Raw: raw}, nil
}
