package encryption

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"leettrack/internal/tracker"
)

// testHeader marks archives written by TestEncryptor.
var testHeader = []byte("LTENC\x00\x00\x00")

// TestEncryptor is a deterministic stand-in for age. It frames the
// plaintext with a fixed header and remembers the passphrase given to
// Setup, so tests can exercise the wrong-passphrase path without scrypt.
type TestEncryptor struct {
	mu         sync.Mutex
	passphrase string
	configured bool
}

var _ tracker.Encryptor = (*TestEncryptor)(nil)

// NewTestEncryptor returns an encryptor already set up with passphrase.
// An empty passphrase accepts any passphrase on Unlock.
func NewTestEncryptor(passphrase string) *TestEncryptor {
	return &TestEncryptor{passphrase: passphrase, configured: true}
}

func (e *TestEncryptor) Setup(passphrase string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.passphrase = passphrase
	e.configured = true
	return nil
}

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(testHeader); err != nil {
		return fmt.Errorf("writing test header: %w", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}

func (e *TestEncryptor) Unlock(passphrase string) (tracker.DecryptionContext, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.passphrase != "" && passphrase != e.passphrase {
		return nil, tracker.ErrWrongPassphrase
	}
	return &TestDecryptionContext{}, nil
}

func (e *TestEncryptor) IsConfigured() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.configured
}

// TestDecryptionContext strips the header added by TestEncryptor.
type TestDecryptionContext struct{}

var _ tracker.DecryptionContext = (*TestDecryptionContext)(nil)

func (c *TestDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	header := make([]byte, len(testHeader))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("reading test header: %w", err)
	}
	if !bytes.Equal(header, testHeader) {
		return fmt.Errorf("invalid test encryption header")
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}
