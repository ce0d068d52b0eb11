package attest

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"time"
)

// LedgerPayload is the commitment written to the ledger for one attestation.
// It never carries the raw provider data, only its hash and a small summary.
type LedgerPayload struct {
	Owner            string          `json:"owner"`
	Platform         string          `json:"platform"`
	VerificationType AttestationType `json:"verificationType"`
	DataHash         string          `json:"dataHash"`
	Summary          json.RawMessage `json:"summary,omitempty"`
}

// LedgerWriter turns a payload into a ledger entity with the standard
// annotation set.
type LedgerWriter struct {
	ledger  Ledger
	clock   Clock
	btl     uint64
	timeout time.Duration
}

// NewLedgerWriter creates a writer storing entities for btl blocks. A zero
// timeout leaves the caller's deadline in charge.
func NewLedgerWriter(ledger Ledger, clock Clock, btl uint64, timeout time.Duration) *LedgerWriter {
	return &LedgerWriter{ledger: ledger, clock: clock, btl: btl, timeout: timeout}
}

// BTL returns the number of blocks entities are stored for.
func (w *LedgerWriter) BTL() uint64 { return w.btl }

// Write stores payload and returns the ledger receipt. Errors are *Error
// values of kind config or ledger_unavailable.
func (w *LedgerWriter) Write(ctx context.Context, payload LedgerPayload) (*Receipt, error) {
	const op = "ledger write"
	if w.ledger == nil {
		return nil, NewError(KindConfig, op, "no ledger configured", nil)
	}
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	height, err := w.ledger.CurrentHeight(ctx)
	if err != nil {
		return nil, ledgerError(op, "reading current height", err)
	}

	data, err := CanonicalJSON(payload)
	if err != nil {
		return nil, NewError(KindInvalidArgument, op, "payload is not valid json", err)
	}

	annotations := Annotations{
		Strings: []StringAnnotation{
			{Key: "owner", Value: payload.Owner},
			{Key: "platform", Value: payload.Platform},
			{Key: "verification_type", Value: string(payload.VerificationType)},
			{Key: "data_hash", Value: payload.DataHash},
		},
		Numerics: []NumericAnnotation{
			{Key: "timestamp", Value: uint64(w.clock.Now().UnixMilli())},
			{Key: "block_height", Value: heightAnnotation(height)},
		},
	}

	receipt, err := w.ledger.CreateEntity(ctx, data, w.btl, annotations)
	if err != nil {
		return nil, ledgerError(op, "creating entity", err)
	}
	return receipt, nil
}

// ledgerError keeps classified errors as they are and treats everything else
// as the ledger being unreachable.
func ledgerError(op, msg string, err error) error {
	if KindOf(err) != "" {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(KindLedgerUnavailable, op, msg+": timed out", err)
	}
	return NewError(KindLedgerUnavailable, op, msg, err)
}

func heightAnnotation(h *big.Int) uint64 {
	if h == nil || h.Sign() < 0 || !h.IsUint64() {
		return 0
	}
	return h.Uint64()
}
