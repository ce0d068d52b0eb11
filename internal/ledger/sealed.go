package ledger

import (
	"bytes"
	"context"
	"fmt"
	"math/big"

	"attest-go/internal/attest"
)

// SealedLedger encrypts entity data before handing it to the wrapped ledger.
// Annotations stay in the clear so entities remain queryable. Reading data
// back requires an unlocked DecryptionContext, see Open.
type SealedLedger struct {
	inner     attest.Ledger
	encryptor attest.Encryptor
}

var _ attest.Ledger = (*SealedLedger)(nil)

// NewSealedLedger wraps inner so every CreateEntity payload is encrypted.
func NewSealedLedger(inner attest.Ledger, encryptor attest.Encryptor) *SealedLedger {
	return &SealedLedger{inner: inner, encryptor: encryptor}
}

func (s *SealedLedger) CreateEntity(ctx context.Context, data []byte, btl uint64, annotations attest.Annotations) (*attest.Receipt, error) {
	if !s.encryptor.IsConfigured() {
		return nil, attest.NewError(attest.KindConfig, "create entity", "ledger sealing enabled but encryption keys are missing", nil)
	}
	var sealed bytes.Buffer
	if err := s.encryptor.Encrypt(bytes.NewReader(data), &sealed); err != nil {
		return nil, attest.NewError(attest.KindConfig, "create entity", "sealing entity data", err)
	}
	return s.inner.CreateEntity(ctx, sealed.Bytes(), btl, annotations)
}

func (s *SealedLedger) CurrentHeight(ctx context.Context) (*big.Int, error) {
	return s.inner.CurrentHeight(ctx)
}

// GetEntity returns the entity with its data still sealed.
func (s *SealedLedger) GetEntity(ctx context.Context, key string) (*attest.LedgerEntity, error) {
	return s.inner.GetEntity(ctx, key)
}

// Open decrypts sealed entity data.
func Open(entity *attest.LedgerEntity, dctx attest.DecryptionContext) ([]byte, error) {
	var plain bytes.Buffer
	if err := dctx.Decrypt(bytes.NewReader(entity.Data), &plain); err != nil {
		return nil, fmt.Errorf("opening entity %s: %w", entity.Key, err)
	}
	return plain.Bytes(), nil
}
