// Package vlayer implements attest.Prover with the vlayer web prover.
package vlayer

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"attest-go/internal/attest"
	"attest-go/internal/config"
	"attest-go/internal/provider"
)

// Options configures a Client.
type Options struct {
	ClientID     string
	ClientSecret string
	ProverURL    string
	Notary       string
	Timeout      time.Duration
}

// Client requests zkTLS proofs from the web prover.
type Client struct {
	opts Options
	http *http.Client
}

var _ attest.Prover = (*Client)(nil)

func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 120 * time.Second
	}
	return &Client{opts: opts, http: provider.NewHTTPClient(opts.Timeout, "attest")}
}

// NewFromConfig creates a Client from the zktls config section.
func NewFromConfig(cfg config.ZkTLSConfig) *Client {
	return New(Options{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		ProverURL:    cfg.ProverURL,
		Notary:       cfg.Notary,
		Timeout:      time.Duration(cfg.TimeoutSeconds) * time.Second,
	})
}

func (c *Client) DefaultNotary() string { return c.opts.Notary }

type proveRequest struct {
	URL     string   `json:"url"`
	Notary  string   `json:"notary"`
	Headers []string `json:"headers"`
}

// Prove asks the prover to notarize a GET of req.URL.
func (c *Client) Prove(ctx context.Context, req attest.ProofRequest) (*attest.ProofResponse, error) {
	const op = "prove url"
	if c.opts.ClientID == "" || c.opts.ClientSecret == "" {
		return nil, attest.NewError(attest.KindConfig, op, "vlayer client id and secret are required", nil)
	}

	notary := req.Notary
	if notary == "" {
		notary = c.opts.Notary
	}
	headers := req.Headers
	if headers == nil {
		headers = []string{}
	}

	raw, err := provider.Do(ctx, c.http, provider.Request{
		Op:      op,
		Method:  http.MethodPost,
		URL:     c.opts.ProverURL,
		Token:   c.opts.ClientSecret,
		Headers: map[string]string{"x-client-id": c.opts.ClientID},
		Body:    proveRequest{URL: req.URL, Notary: notary, Headers: headers},
	})
	if err != nil {
		return nil, err
	}

	var resp attest.ProofResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, attest.NewError(attest.KindUpstream, op, "decoding proof", err)
	}
	if resp.Proof == "" {
		return nil, attest.NewError(attest.KindUpstream, op, "prover returned no proof", nil)
	}
	return &resp, nil
}
