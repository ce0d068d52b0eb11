// Package provider holds the HTTP plumbing shared by the upstream adapters:
// bounded clients, bearer GETs, JSON posts and the mapping from transport and
// status failures onto the attest error kinds.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"attest-go/internal/attest"
)

// maxBody bounds how much of an upstream response is read.
const maxBody = 10 << 20

// userAgentTransport stamps every outgoing request with a fixed User-Agent.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(req)
}

// NewHTTPClient returns a client with the given overall timeout whose
// requests all carry userAgent.
func NewHTTPClient(timeout time.Duration, userAgent string) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &userAgentTransport{base: http.DefaultTransport, userAgent: userAgent},
	}
}

// Request describes one upstream call.
type Request struct {
	Op      string
	Method  string
	URL     string
	Token   string
	Headers map[string]string
	Body    any
}

// Do performs req and returns the raw response body of a 2xx answer.
// 401 maps to KindUpstreamAuth, everything else that fails maps to
// KindUpstream.
func Do(ctx context.Context, client *http.Client, req Request) ([]byte, error) {
	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s request: %w", req.Op, err)
		}
		body = bytes.NewReader(b)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, attest.NewError(attest.KindConfig, req.Op, "building request", err)
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, TransportError(req.Op, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, TransportError(req.Op, err)
	}
	if err := StatusError(req.Op, resp.StatusCode, b); err != nil {
		return nil, err
	}
	return b, nil
}

// StatusError maps a non-2xx status to an attest error. It returns nil for
// 2xx statuses.
func StatusError(op string, status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	msg := fmt.Sprintf("status %d: %s", status, truncate(body, 200))
	if status == http.StatusUnauthorized {
		return attest.NewError(attest.KindUpstreamAuth, op, msg, nil)
	}
	return attest.NewError(attest.KindUpstream, op, msg, nil)
}

// TransportError wraps a failed round trip. Timeouts are reported as such.
func TransportError(op string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return attest.NewError(attest.KindUpstream, op, "request timed out", err)
	}
	return attest.NewError(attest.KindUpstream, op, "request failed", err)
}

// ExchangeError maps an oauth2 token exchange failure. A rejected code is an
// auth failure, anything else is an upstream failure.
func ExchangeError(op string, err error) error {
	var retrieve *oauth2.RetrieveError
	if errors.As(err, &retrieve) {
		status := 0
		if retrieve.Response != nil {
			status = retrieve.Response.StatusCode
		}
		if retrieve.ErrorCode != "" || (status >= 400 && status < 500) {
			msg := retrieve.ErrorCode
			if retrieve.ErrorDescription != "" {
				msg += ": " + retrieve.ErrorDescription
			}
			if msg == "" {
				msg = fmt.Sprintf("status %d", status)
			}
			return attest.NewError(attest.KindUpstreamAuth, op, msg, err)
		}
		return attest.NewError(attest.KindUpstream, op, fmt.Sprintf("status %d", status), err)
	}
	return TransportError(op, err)
}

// Token converts an oauth2 token to the attest form.
func Token(tok *oauth2.Token) *attest.AccessToken {
	scope, _ := tok.Extra("scope").(string)
	return &attest.AccessToken{
		Value:     tok.AccessToken,
		TokenType: tok.TokenType,
		Scope:     scope,
		Expiry:    tok.Expiry,
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
