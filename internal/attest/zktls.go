package attest

import (
	"context"
	"encoding/json"
	"strings"

	"attest-go/internal/database/sqlc"
)

const (
	proofStatusCompleted = "completed"
	proofStatusFailed    = "failed"
)

// ProofResult is returned by ProveURL. Stored and Attestation are nil when
// the proof was requested without a user.
type ProofResult struct {
	Proof       *ProofResponse
	Stored      *sqlc.ZktlsProof
	Attestation *AttestationOutcome
}

// headerNames returns the names of "Name: value" headers. Values are never
// persisted since they usually carry credentials.
func headerNames(headers []string) []string {
	names := make([]string, 0, len(headers))
	for _, h := range headers {
		name, _, _ := strings.Cut(h, ":")
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// ProveURL asks the prover to notarize a GET of req.URL. With a userID the
// outcome is stored, and a completed proof is attested.
func (s *Service) ProveURL(ctx context.Context, userID string, req ProofRequest) (*ProofResult, error) {
	const op = "prove url"
	if s.prover == nil {
		return nil, NewError(KindConfig, op, "zktls prover is not configured", nil)
	}
	if req.URL == "" {
		return nil, NewError(KindInvalidArgument, op, "url is required", nil)
	}
	if req.Notary == "" {
		req.Notary = s.prover.DefaultNotary()
	}
	if req.Platform == "" {
		req.Platform = "unknown"
	}

	names := headerNames(req.Headers)
	namesJSON, err := CanonicalJSON(names)
	if err != nil {
		return nil, err
	}
	record := NewZkTLSProof{
		UserID:   userID,
		URL:      req.URL,
		Notary:   req.Notary,
		Headers:  string(namesJSON),
		Platform: req.Platform,
	}

	proof, proveErr := s.prover.Prove(ctx, req)
	if proveErr != nil {
		if userID != "" {
			record.Status = proofStatusFailed
			record.ErrorMessage = proveErr.Error()
			record.CompletedAt = s.clock.Now()
			if _, err := s.database.CreateZkTLSProof(ctx, record); err != nil {
				s.logger.Error("failed to record failed proof", "user_id", userID, "url", req.URL, "error", err)
			}
		}
		return nil, proveErr
	}

	result := &ProofResult{Proof: proof}
	if userID == "" {
		return result, nil
	}

	record.Status = proofStatusCompleted
	record.Proof = proof.Proof
	record.PublicInputs = string(proof.PublicInputs)
	record.VerificationKey = proof.VerificationKey
	record.CompletedAt = s.clock.Now()
	result.Stored, err = s.database.CreateZkTLSProof(ctx, record)
	if err != nil {
		return nil, NewError(KindPersistence, op, "storing proof", err)
	}

	publicInputs := proof.PublicInputs
	if len(publicInputs) == 0 {
		publicInputs = json.RawMessage("null")
	}
	result.Attestation = s.attest(ctx, AttestationRequest{
		Platform: PlatformZkTLS,
		Type:     TypeZkTLSProof,
		UserID:   userID,
		RawData: map[string]any{
			"proof":           proof.Proof,
			"publicInputs":    publicInputs,
			"verificationKey": proof.VerificationKey,
			"url":             req.URL,
		},
		ProcessedData: map[string]any{
			"url":                req.URL,
			"platform":           req.Platform,
			"verificationMethod": "zktls",
			"proofGenerated":     true,
		},
		APIEndpoint: req.URL,
		RequestParams: map[string]any{
			"notary":  req.Notary,
			"headers": names,
		},
	})
	return result, nil
}

// ProveRedditProfile proves the Reddit profile response for accessToken.
func (s *Service) ProveRedditProfile(ctx context.Context, userID, accessToken string) (*ProofResult, error) {
	if s.reddit == nil {
		return nil, NewError(KindConfig, "prove reddit profile", "reddit is not configured", nil)
	}
	return s.ProveURL(ctx, userID, ProofRequest{
		URL:      s.reddit.ProfileEndpoint(),
		Platform: string(PlatformReddit),
		Headers: []string{
			"Authorization: Bearer " + accessToken,
			"User-Agent: " + s.reddit.UserAgent(),
		},
	})
}

// ProveGitHubProfile proves the GitHub profile response for accessToken.
func (s *Service) ProveGitHubProfile(ctx context.Context, userID, accessToken string) (*ProofResult, error) {
	if s.github == nil {
		return nil, NewError(KindConfig, "prove github profile", "github is not configured", nil)
	}
	return s.ProveURL(ctx, userID, ProofRequest{
		URL:      s.github.ProfileEndpoint(),
		Platform: string(PlatformGitHub),
		Headers: []string{
			"Authorization: Bearer " + accessToken,
			"User-Agent: " + s.github.UserAgent(),
			"Accept: application/vnd.github+json",
		},
	})
}

// ListProofs returns the user's proofs, newest first. An empty platform
// returns all of them.
func (s *Service) ListProofs(ctx context.Context, userID, platform string) ([]*sqlc.ZktlsProof, error) {
	if userID == "" {
		return nil, NewError(KindInvalidArgument, "list proofs", "user id is required", nil)
	}
	proofs, err := s.database.ListZkTLSProofs(ctx, userID, platform)
	if err != nil {
		return nil, NewError(KindPersistence, "list proofs", "listing proofs", err)
	}
	return proofs, nil
}
