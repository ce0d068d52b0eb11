package attest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"attest-go/internal/database/sqlc"
)

// AttestationRequest describes evidence to anchor. RawData is the provider
// payload exactly as received (any JSON value); the optional fields are
// stored alongside it. Summary goes to the ledger and defaults to
// ProcessedData.
type AttestationRequest struct {
	Platform        Platform
	Type            AttestationType
	UserID          string
	RawData         any
	ProcessedData   any
	Summary         any
	APIEndpoint     string
	RequestParams   any
	ResponseHeaders any
}

// AttestationResult is a completed attestation. Receipt is set as soon as the
// ledger accepted the write, even when recording it locally failed.
type AttestationResult struct {
	Receipt     *Receipt
	Attestation *AttestationRecord
}

// AttestationFilter narrows GetAttestations. Status and IsExpired are
// evaluated against the current ledger height.
type AttestationFilter struct {
	UserID          string
	Platform        string
	AttestationType AttestationType
	EntityKey       string
	Status          Status
	IsExpired       *bool
	Limit           int
}

// RetryPolicy bounds ledger write retries. Backoff doubles after each failed
// attempt.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Attestor anchors evidence on the ledger and records the receipt locally.
// The ledger write always happens first; a failed write leaves no row.
type Attestor struct {
	database Database
	writer   *LedgerWriter
	logger   Logger
	clock    Clock
	retry    RetryPolicy
}

// NewAttestor creates an Attestor.
func NewAttestor(database Database, writer *LedgerWriter, logger Logger, clock Clock, retry RetryPolicy) *Attestor {
	return &Attestor{
		database: database,
		writer:   writer,
		logger:   WithFields(logger, "component", "attestor"),
		clock:    clock,
		retry:    retry,
	}
}

// CreateAttestation hashes req.RawData, writes the commitment to the ledger
// and records the attestation. If recording fails after the ledger write,
// the returned error has kind persistence and carries the entity key, and
// the result still holds the receipt so RecordReceipt can finish the job.
func (a *Attestor) CreateAttestation(ctx context.Context, req AttestationRequest) (*AttestationResult, error) {
	const op = "create attestation"

	row, summary, err := a.prepare(req)
	if err != nil {
		return nil, err
	}

	receipt, err := a.writeWithRetry(ctx, LedgerPayload{
		Owner:            "user:" + req.UserID,
		Platform:         string(req.Platform),
		VerificationType: req.Type,
		DataHash:         row.DataHash,
		Summary:          summary,
	})
	if err != nil {
		return nil, err
	}
	a.logger.Info("ledger entity created",
		"entity_key", receipt.EntityKey,
		"expiration_block", receipt.ExpirationBlock.String(),
		"platform", req.Platform,
		"type", req.Type,
	)

	result := &AttestationResult{Receipt: receipt}
	record, err := a.record(ctx, row, receipt)
	if err != nil {
		a.logger.Error("attestation not recorded after ledger write",
			"entity_key", receipt.EntityKey,
			"user_id", req.UserID,
			"error", err,
		)
		return result, &Error{
			Kind:      KindPersistence,
			Op:        op,
			Message:   "ledger entity written but attestation not recorded",
			EntityKey: receipt.EntityKey,
			Err:       err,
		}
	}
	result.Attestation = record
	return result, nil
}

// RecordReceipt records an attestation for a receipt that reached the ledger
// but not the database. Recording the same entity key twice returns the
// existing row.
func (a *Attestor) RecordReceipt(ctx context.Context, receipt *Receipt, req AttestationRequest) (*AttestationRecord, error) {
	if receipt == nil || receipt.EntityKey == "" || receipt.ExpirationBlock == nil {
		return nil, NewError(KindInvalidArgument, "record receipt", "receipt requires entity key and expiration block", nil)
	}
	row, _, err := a.prepare(req)
	if err != nil {
		return nil, err
	}
	record, err := a.record(ctx, row, receipt)
	if err != nil {
		return nil, &Error{Kind: KindPersistence, Op: "record receipt", EntityKey: receipt.EntityKey, Err: err}
	}
	return record, nil
}

// prepare canonicalizes the request into the row to store and the ledger
// summary.
func (a *Attestor) prepare(req AttestationRequest) (NewAttestation, json.RawMessage, error) {
	const op = "create attestation"
	switch {
	case req.UserID == "":
		return NewAttestation{}, nil, NewError(KindInvalidArgument, op, "user id is required", nil)
	case req.Platform == "":
		return NewAttestation{}, nil, NewError(KindInvalidArgument, op, "platform is required", nil)
	case !req.Type.Valid():
		return NewAttestation{}, nil, NewError(KindInvalidArgument, op, fmt.Sprintf("unknown attestation type %q", req.Type), nil)
	case req.RawData == nil:
		return NewAttestation{}, nil, NewError(KindInvalidArgument, op, "raw data is required", nil)
	}

	raw, err := CanonicalJSON(req.RawData)
	if err != nil {
		return NewAttestation{}, nil, NewError(KindInvalidArgument, op, "raw data is not valid json", err)
	}
	hash, err := Hash(json.RawMessage(raw))
	if err != nil {
		return NewAttestation{}, nil, NewError(KindInvalidArgument, op, "hashing raw data", err)
	}

	fields := make([]string, 3)
	for i, v := range []any{req.ProcessedData, req.RequestParams, req.ResponseHeaders} {
		if fields[i], err = optionalJSON(v); err != nil {
			return NewAttestation{}, nil, NewError(KindInvalidArgument, op, "optional field is not valid json", err)
		}
	}

	summary := req.Summary
	if summary == nil {
		summary = req.ProcessedData
	}
	summaryJSON, err := optionalJSON(summary)
	if err != nil {
		return NewAttestation{}, nil, NewError(KindInvalidArgument, op, "summary is not valid json", err)
	}
	var summaryRaw json.RawMessage
	if summaryJSON != "" {
		summaryRaw = json.RawMessage(summaryJSON)
	}

	return NewAttestation{
		Platform:        string(req.Platform),
		AttestationType: req.Type,
		RawAPIData:      string(raw),
		ProcessedData:   fields[0],
		APIEndpoint:     req.APIEndpoint,
		RequestParams:   fields[1],
		ResponseHeaders: fields[2],
		DataHash:        hash,
		UserID:          req.UserID,
		IssuedAt:        a.clock.Now(),
	}, summaryRaw, nil
}

func (a *Attestor) record(ctx context.Context, row NewAttestation, receipt *Receipt) (*AttestationRecord, error) {
	row.EntityKey = receipt.EntityKey
	row.ExpirationBlock = receipt.ExpirationBlock.String()

	stored, err := a.database.CreateAttestation(ctx, row)
	if errors.Is(err, ErrConflict) {
		stored, err = a.database.FindAttestationByEntityKey(ctx, receipt.EntityKey)
		if err == nil && stored == nil {
			err = fmt.Errorf("attestation %s vanished after conflict", receipt.EntityKey)
		}
	}
	if err != nil {
		return nil, err
	}
	return decodeAttestation(stored, nil)
}

func (a *Attestor) writeWithRetry(ctx context.Context, payload LedgerPayload) (*Receipt, error) {
	maxAttempts := a.retry.attempts()
	delay := a.retry.Backoff

	for attempt := 1; ; attempt++ {
		receipt, err := a.writer.Write(ctx, payload)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ErrLedgerUnavailable) || attempt >= maxAttempts {
			return nil, err
		}

		a.logger.Warn("ledger write failed, retrying", "attempt", attempt, "max_attempts", maxAttempts, "error", err)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, NewError(KindLedgerUnavailable, "ledger write", "gave up waiting to retry", ctx.Err())
		case <-timer.C:
		}
		delay *= 2
	}
}

// GetAttestations returns attestations matching f, newest first, with JSON
// fields decoded and expiry evaluated at the current ledger height. The
// height is only required when filtering on status or expiry; otherwise an
// unreachable ledger leaves expiry to the stored status.
func (a *Attestor) GetAttestations(ctx context.Context, f AttestationFilter) ([]*AttestationRecord, error) {
	const op = "get attestations"
	if f.AttestationType != "" && !f.AttestationType.Valid() {
		return nil, NewError(KindInvalidArgument, op, fmt.Sprintf("unknown attestation type %q", f.AttestationType), nil)
	}
	if f.Status != "" && f.Status.rank() < 0 {
		return nil, NewError(KindInvalidArgument, op, fmt.Sprintf("unknown status %q", f.Status), nil)
	}
	needHeight := f.Status != "" || f.IsExpired != nil

	height, err := a.currentHeight(ctx)
	if err != nil {
		if needHeight {
			return nil, err
		}
		a.logger.Warn("ledger height unavailable, using stored status", "error", err)
	}

	q := AttestationQuery{
		UserID:          f.UserID,
		Platform:        f.Platform,
		AttestationType: f.AttestationType,
		EntityKey:       f.EntityKey,
	}
	if !needHeight {
		q.Limit = f.Limit
	}
	rows, err := a.database.ListAttestations(ctx, q)
	if err != nil {
		return nil, NewError(KindPersistence, op, "listing attestations", err)
	}

	records := make([]*AttestationRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := decodeAttestation(row, height)
		if err != nil {
			return nil, fmt.Errorf("decoding attestation %s: %w", row.EntityKey, err)
		}
		if f.Status != "" && rec.Status != f.Status {
			continue
		}
		if f.IsExpired != nil && rec.Expired != *f.IsExpired {
			continue
		}
		records = append(records, rec)
		if f.Limit > 0 && len(records) == f.Limit {
			break
		}
	}
	return records, nil
}

// ExpireAttestations marks active attestations whose expiration block has
// been reached as expired. Returns how many changed.
func (a *Attestor) ExpireAttestations(ctx context.Context) (int, error) {
	height, err := a.currentHeight(ctx)
	if err != nil {
		return 0, err
	}

	active, err := a.database.ListAttestationsByStatus(ctx, StatusActive)
	if err != nil {
		return 0, NewError(KindPersistence, "expire attestations", "listing active attestations", err)
	}

	count := 0
	for _, row := range active {
		expiration, ok := new(big.Int).SetString(row.ExpirationBlock, 10)
		if !ok || height.Cmp(expiration) < 0 {
			continue
		}
		expired, err := a.database.ExpireAttestation(ctx, row.EntityKey)
		if err != nil {
			return count, NewError(KindPersistence, "expire attestations", "updating status", err)
		}
		if expired != nil {
			count++
		}
	}
	if count > 0 {
		a.logger.Info("attestations expired", "count", count, "height", height.String())
	}
	return count, nil
}

// RevokeAttestation revokes the attestation stored under entityKey. A
// non-empty userID restricts revocation to the owner; other users get
// not_found. Revoking twice is a no-op.
func (a *Attestor) RevokeAttestation(ctx context.Context, entityKey, userID string) (*AttestationRecord, error) {
	const op = "revoke attestation"
	row, err := a.database.FindAttestationByEntityKey(ctx, entityKey)
	if err != nil {
		return nil, NewError(KindPersistence, op, "finding attestation", err)
	}
	if row == nil || (userID != "" && row.UserID != userID) {
		return nil, NewError(KindNotFound, op, "attestation not found", nil)
	}

	if Status(row.Status).CanTransition(StatusRevoked) {
		row, err = a.database.UpdateAttestationStatus(ctx, entityKey, StatusRevoked)
		if err != nil {
			return nil, NewError(KindPersistence, op, "updating status", err)
		}
		a.logger.Info("attestation revoked", "entity_key", entityKey)
	}
	return decodeAttestation(row, nil)
}

// Verification is the outcome of checking a stored attestation against its
// hash and the ledger.
type Verification struct {
	Attestation *AttestationRecord
	HashValid   bool
	OnLedger    bool
	LedgerMatch bool
}

// VerifyAttestation recomputes the stored attestation's hash and checks that
// the ledger entity exists and commits to the same hash.
func (a *Attestor) VerifyAttestation(ctx context.Context, entityKey string) (*Verification, error) {
	const op = "verify attestation"
	row, err := a.database.FindAttestationByEntityKey(ctx, entityKey)
	if err != nil {
		return nil, NewError(KindPersistence, op, "finding attestation", err)
	}
	if row == nil {
		return nil, NewError(KindNotFound, op, "attestation not found", nil)
	}

	height, _ := a.currentHeight(ctx)
	rec, err := decodeAttestation(row, height)
	if err != nil {
		return nil, err
	}

	v := &Verification{
		Attestation: rec,
		HashValid:   VerifyIntegrity(json.RawMessage(row.RawApiData), row.DataHash),
	}

	if a.writer == nil || a.writer.ledger == nil {
		return nil, NewError(KindConfig, op, "no ledger configured", nil)
	}
	entity, err := a.writer.ledger.GetEntity(ctx, entityKey)
	if err != nil {
		return nil, ledgerError(op, "reading entity", err)
	}
	if entity != nil {
		v.OnLedger = true
		v.LedgerMatch = entity.Annotations.String("data_hash") == row.DataHash &&
			entity.Annotations.String("owner") == "user:"+row.UserID
	}
	return v, nil
}

// VerifyIntegrity reports whether raw hashes to expectedHash.
func (a *Attestor) VerifyIntegrity(raw any, expectedHash string) bool {
	return VerifyIntegrity(raw, expectedHash)
}

// CurrentHeight returns the ledger's current height.
func (a *Attestor) CurrentHeight(ctx context.Context) (*big.Int, error) {
	return a.currentHeight(ctx)
}

func (a *Attestor) currentHeight(ctx context.Context) (*big.Int, error) {
	if a.writer == nil || a.writer.ledger == nil {
		return nil, NewError(KindConfig, "ledger height", "no ledger configured", nil)
	}
	h, err := a.writer.ledger.CurrentHeight(ctx)
	if err != nil {
		return nil, ledgerError("ledger height", "reading current height", err)
	}
	return h, nil
}

// decodeAttestation converts a stored row. A nil height evaluates expiry from
// the stored status only.
func decodeAttestation(row *sqlc.Attestation, height *big.Int) (*AttestationRecord, error) {
	expiration, ok := new(big.Int).SetString(row.ExpirationBlock, 10)
	if !ok {
		return nil, fmt.Errorf("invalid expiration block %q", row.ExpirationBlock)
	}

	stored := Status(row.Status)
	expired := stored == StatusExpired || (height != nil && height.Cmp(expiration) >= 0)
	status := StatusActive
	switch {
	case stored == StatusRevoked:
		status = StatusRevoked
	case expired:
		status = StatusExpired
	}

	return &AttestationRecord{
		ID:              row.ID,
		EntityKey:       row.EntityKey,
		ExpirationBlock: expiration,
		Platform:        row.Platform,
		AttestationType: AttestationType(row.AttestationType),
		StoredStatus:    stored,
		Status:          status,
		Expired:         expired,
		RawAPIData:      json.RawMessage(row.RawApiData),
		ProcessedData:   rawOrNil(row.ProcessedData.String, row.ProcessedData.Valid),
		APIEndpoint:     row.ApiEndpoint,
		RequestParams:   rawOrNil(row.RequestParams.String, row.RequestParams.Valid),
		ResponseHeaders: rawOrNil(row.ResponseHeaders.String, row.ResponseHeaders.Valid),
		DataHash:        row.DataHash,
		UserID:          row.UserID,
		IssuedAt:        row.IssuedAt,
		CreatedAt:       row.CreatedAt,
	}, nil
}

func rawOrNil(s string, valid bool) json.RawMessage {
	if !valid || s == "" {
		return nil
	}
	return json.RawMessage(s)
}

// optionalJSON canonicalizes v, or returns "" for nil.
func optionalJSON(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	if raw, ok := v.(json.RawMessage); ok && len(raw) == 0 {
		return "", nil
	}
	b, err := CanonicalJSON(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
