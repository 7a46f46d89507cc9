package testutil

import (
	"leettrack/internal/encryption"
	"leettrack/internal/tracker"
)

// TestPassphrase unlocks encryptors made by NewTestEncryptor.
const TestPassphrase = "correct horse battery staple"

// NewTestEncryptor creates a deterministic encryptor that only unlocks
// with TestPassphrase.
func NewTestEncryptor() tracker.Encryptor {
	return encryption.NewTestEncryptor(TestPassphrase)
}
