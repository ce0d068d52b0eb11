package ledger

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"

	"attest-go/internal/attest"
)

// Signer signs entity envelopes with a secp256k1 key using BIP-340 Schnorr
// signatures. The x-only public key identifies the writer.
type Signer struct {
	key *btcec.PrivateKey
}

// NewSigner parses a hex-encoded 32-byte private key. A missing key is a
// configuration error: the ledger cannot accept unsigned writes.
func NewSigner(hexKey string) (*Signer, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	if hexKey == "" {
		return nil, attest.NewError(attest.KindConfig, "ledger signer", "ledger private key is not configured", nil)
	}
	b, err := hex.DecodeString(hexKey)
	if err != nil || len(b) != 32 {
		return nil, attest.NewError(attest.KindConfig, "ledger signer", "ledger private key must be 32 hex-encoded bytes", err)
	}
	key, _ := btcec.PrivKeyFromBytes(b)
	return &Signer{key: key}, nil
}

// GeneratePrivateKey returns a fresh hex-encoded private key.
func GeneratePrivateKey() (string, error) {
	key, err := btcec.NewPrivateKey()
	if err != nil {
		return "", fmt.Errorf("generating private key: %w", err)
	}
	return hex.EncodeToString(key.Serialize()), nil
}

// PublicKey returns the hex x-only public key.
func (s *Signer) PublicKey() string {
	return hex.EncodeToString(schnorr.SerializePubKey(s.key.PubKey()))
}

// Sign signs a 32-byte digest.
func (s *Signer) Sign(digest []byte) (string, error) {
	sig, err := schnorr.Sign(s.key, digest)
	if err != nil {
		return "", fmt.Errorf("signing digest: %w", err)
	}
	return hex.EncodeToString(sig.Serialize()), nil
}

// VerifySignature checks a hex signature over digest against a hex x-only
// public key.
func VerifySignature(publicKey, signature string, digest []byte) error {
	pk, err := hex.DecodeString(publicKey)
	if err != nil {
		return fmt.Errorf("decoding public key: %w", err)
	}
	pub, err := schnorr.ParsePubKey(pk)
	if err != nil {
		return fmt.Errorf("parsing public key: %w", err)
	}
	s, err := hex.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("decoding signature: %w", err)
	}
	sig, err := schnorr.ParseSignature(s)
	if err != nil {
		return fmt.Errorf("parsing signature: %w", err)
	}
	if !sig.Verify(digest, pub) {
		return fmt.Errorf("signature does not match")
	}
	return nil
}
