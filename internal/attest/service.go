package attest

import (
	"context"
	"encoding/json"
	"fmt"
)

// Service runs the provider flows: fetch evidence, link it to a user, then
// anchor it. Attestation is best effort; its outcome is reported next to the
// primary result and never fails the flow.
type Service struct {
	database Database
	linker   *Linker
	attestor *Attestor
	reddit   RedditClient
	github   GitHubClient
	prover   Prover
	logger   Logger
	clock    Clock
}

// NewService creates a Service. Provider clients may be nil when a provider
// is not configured; flows that need them then fail with a config error.
func NewService(database Database, linker *Linker, attestor *Attestor, reddit RedditClient, github GitHubClient, prover Prover, logger Logger, clock Clock) *Service {
	return &Service{
		database: database,
		linker:   linker,
		attestor: attestor,
		reddit:   reddit,
		github:   github,
		prover:   prover,
		logger:   WithFields(logger, "component", "service"),
		clock:    clock,
	}
}

// Linker returns the identity linker.
func (s *Service) Linker() *Linker { return s.linker }

// Attestor returns the attestation service.
func (s *Service) Attestor() *Attestor { return s.attestor }

// AttestationOutcome is the result of the best-effort attestation that
// follows a provider flow.
type AttestationOutcome struct {
	Result *AttestationResult
	Err    error
}

// Warning describes a failed attestation for the caller, or "" on success.
func (o *AttestationOutcome) Warning() string {
	if o == nil || o.Err == nil {
		return ""
	}
	if key := EntityKeyOf(o.Err); key != "" {
		return fmt.Sprintf("attestation anchored as %s but not recorded: %v", key, o.Err)
	}
	return fmt.Sprintf("attestation failed: %v", o.Err)
}

func (s *Service) attest(ctx context.Context, req AttestationRequest) *AttestationOutcome {
	result, err := s.attestor.CreateAttestation(ctx, req)
	if err != nil {
		s.logger.Warn("attestation failed",
			"platform", req.Platform,
			"type", req.Type,
			"user_id", req.UserID,
			"entity_key", EntityKeyOf(err),
			"error", err,
		)
	}
	return &AttestationOutcome{Result: result, Err: err}
}

// canonicalRaw returns the canonical text of a provider body and its hash.
func canonicalRaw(raw json.RawMessage) (string, string, error) {
	canonical, err := CanonicalJSON(raw)
	if err != nil {
		return "", "", NewError(KindUpstream, "canonicalize response", "provider returned invalid json", err)
	}
	hash, err := Hash(json.RawMessage(canonical))
	if err != nil {
		return "", "", err
	}
	return string(canonical), hash, nil
}
