package vlayer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"attest-go/internal/attest"
)

func TestClient_Prove(t *testing.T) {
	var got proveRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-client-id") != "cid" || r.Header.Get("Authorization") != "Bearer csecret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if got.URL == "https://fail.test" {
			w.WriteHeader(http.StatusBadGateway)
			io.WriteString(w, "notary unreachable")
			return
		}
		io.WriteString(w, `{"proof":"p1","publicInputs":{"status":200},"verificationKey":"vk"}`)
	}))
	t.Cleanup(server.Close)

	opts := Options{ClientID: "cid", ClientSecret: "csecret", ProverURL: server.URL, Notary: "https://notary.test", Timeout: 5 * time.Second}
	ctx := context.Background()

	t.Run("returns the proof", func(t *testing.T) {
		resp, err := New(opts).Prove(ctx, attest.ProofRequest{URL: "https://api.test/me", Headers: []string{"Authorization: Bearer x"}})
		if err != nil {
			t.Fatalf("Prove() error = %v", err)
		}
		if resp.Proof != "p1" || resp.VerificationKey != "vk" || string(resp.PublicInputs) != `{"status":200}` {
			t.Errorf("Prove() = %+v", resp)
		}
		if got.Notary != "https://notary.test" || len(got.Headers) != 1 {
			t.Errorf("request = %+v", got)
		}
	})

	t.Run("explicit notary wins", func(t *testing.T) {
		if _, err := New(opts).Prove(ctx, attest.ProofRequest{URL: "https://api.test/me", Notary: "https://other.test"}); err != nil {
			t.Fatalf("Prove() error = %v", err)
		}
		if got.Notary != "https://other.test" || got.Headers == nil {
			t.Errorf("request = %+v", got)
		}
	})

	t.Run("prover failure", func(t *testing.T) {
		_, err := New(opts).Prove(ctx, attest.ProofRequest{URL: "https://fail.test"})
		if !errors.Is(err, attest.ErrUpstream) {
			t.Errorf("Prove() error = %v, want ErrUpstream", err)
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		bad := opts
		bad.ClientSecret = "wrong"
		_, err := New(bad).Prove(ctx, attest.ProofRequest{URL: "https://api.test/me"})
		if !errors.Is(err, attest.ErrUpstreamAuth) {
			t.Errorf("Prove() error = %v, want ErrUpstreamAuth", err)
		}
	})

	t.Run("missing credentials", func(t *testing.T) {
		_, err := New(Options{ProverURL: server.URL}).Prove(ctx, attest.ProofRequest{URL: "https://api.test/me"})
		if !errors.Is(err, attest.ErrConfig) {
			t.Errorf("Prove() error = %v, want ErrConfig", err)
		}
	})
}
