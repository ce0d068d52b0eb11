package encryption

import (
	"bytes"
	"fmt"
	"io"

	"attest-go/internal/attest"
)

// sealHeader marks payloads sealed by TestEncryptor.
var sealHeader = []byte("ATSEAL\x00\x01")

// TestEncryptor is a deterministic stand-in for AgeEncryptor. It prefixes a
// fixed header so sealed data differs from plaintext, and strips it again on
// decrypt. Any passphrase unlocks it.
type TestEncryptor struct {
	setupCalled bool
}

var _ attest.Encryptor = (*TestEncryptor)(nil)

func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

func (e *TestEncryptor) Setup(passphrase string) error {
	e.setupCalled = true
	return nil
}

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(sealHeader); err != nil {
		return fmt.Errorf("writing seal header: %w", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}

func (e *TestEncryptor) Unlock(passphrase string) (attest.DecryptionContext, error) {
	return &TestDecryptionContext{}, nil
}

func (e *TestEncryptor) IsConfigured() bool { return true }

// TestDecryptionContext strips the TestEncryptor header.
type TestDecryptionContext struct{}

var _ attest.DecryptionContext = (*TestDecryptionContext)(nil)

func (c *TestDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	header := make([]byte, len(sealHeader))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("reading seal header: %w", err)
	}
	if !bytes.Equal(header, sealHeader) {
		return fmt.Errorf("payload was not sealed by the test encryptor")
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}
