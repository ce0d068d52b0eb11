package testutil

import (
	"attest-go/internal/attest"
	"attest-go/internal/encryption"
)

// NewTestEncryptor creates a reversible encryptor that needs no key files.
func NewTestEncryptor() attest.Encryptor {
	return encryption.NewTestEncryptor()
}
