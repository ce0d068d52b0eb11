package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"attest-go/internal/attest"
)

// Envelope is the stored form of a ledger entity. The entity key is the
// SHA-256 of the envelope's canonical JSON without its signature, so the key
// commits to the data, annotations, heights and writer.
type Envelope struct {
	Version         int                `json:"version"`
	Nonce           string             `json:"nonce"`
	Data            []byte             `json:"data"`
	BTL             uint64             `json:"btl"`
	Annotations     attest.Annotations `json:"annotations"`
	CreatedAtBlock  string             `json:"createdAtBlock"`
	ExpirationBlock string             `json:"expirationBlock"`
	CreatedAt       time.Time          `json:"createdAt"`
	Signer          string             `json:"signer"`
	Signature       string             `json:"signature,omitempty"`
}

const envelopeVersion = 1

// newEnvelope builds and signs an envelope created at height.
func newEnvelope(signer *Signer, nonce string, data []byte, btl uint64, annotations attest.Annotations, height *big.Int, now time.Time) (*Envelope, string, error) {
	expiration := new(big.Int).Add(height, new(big.Int).SetUint64(btl))
	env := &Envelope{
		Version:         envelopeVersion,
		Nonce:           nonce,
		Data:            data,
		BTL:             btl,
		Annotations:     annotations,
		CreatedAtBlock:  height.String(),
		ExpirationBlock: expiration.String(),
		CreatedAt:       now.UTC(),
		Signer:          signer.PublicKey(),
	}

	digest, err := env.digest()
	if err != nil {
		return nil, "", err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, "", err
	}
	env.Signature = sig
	return env, "0x" + hex.EncodeToString(digest), nil
}

func (e *Envelope) digest() ([]byte, error) {
	unsigned := *e
	unsigned.Signature = ""
	canonical, err := attest.CanonicalJSON(&unsigned)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing envelope: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return sum[:], nil
}

// Verify checks that the envelope hashes to key and carries a valid signature.
func (e *Envelope) Verify(key string) error {
	digest, err := e.digest()
	if err != nil {
		return err
	}
	if want := "0x" + hex.EncodeToString(digest); want != key {
		return fmt.Errorf("entity key mismatch: stored under %s, content hashes to %s", key, want)
	}
	return VerifySignature(e.Signer, e.Signature, digest)
}

// Entity converts the envelope to the ledger's read model.
func (e *Envelope) Entity(key string) (*attest.LedgerEntity, error) {
	created, ok := new(big.Int).SetString(e.CreatedAtBlock, 10)
	if !ok {
		return nil, fmt.Errorf("invalid created height %q", e.CreatedAtBlock)
	}
	expiration, ok := new(big.Int).SetString(e.ExpirationBlock, 10)
	if !ok {
		return nil, fmt.Errorf("invalid expiration height %q", e.ExpirationBlock)
	}
	return &attest.LedgerEntity{
		Key:             key,
		Data:            e.Data,
		Annotations:     e.Annotations,
		CreatedAtBlock:  created,
		ExpirationBlock: expiration,
		CreatedAt:       e.CreatedAt,
		Signer:          e.Signer,
	}, nil
}

func encodeEnvelope(e *Envelope) ([]byte, error) {
	b, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding envelope: %w", err)
	}
	return b, nil
}

func decodeEnvelope(b []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("decoding envelope: %w", err)
	}
	return &e, nil
}
