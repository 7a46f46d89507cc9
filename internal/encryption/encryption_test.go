package encryption

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"leettrack/internal/config"
	"leettrack/internal/tracker"
)

func newTestAgeEncryptor(t *testing.T) *AgeEncryptor {
	t.Helper()
	dir := t.TempDir()
	return NewAgeEncryptor(config.EncryptionConfig{
		PublicKeyPath:  filepath.Join(dir, "keys", "leettrack.pub"),
		PrivateKeyPath: filepath.Join(dir, "keys", "leettrack.key"),
	})
}

func TestAgeEncryptor_Setup(t *testing.T) {
	t.Parallel()
	e := newTestAgeEncryptor(t)

	if e.IsConfigured() {
		t.Error("IsConfigured() = true before Setup, want false")
	}
	if err := e.Setup("test-passphrase"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if !e.IsConfigured() {
		t.Error("IsConfigured() = false after Setup, want true")
	}

	info, err := os.Stat(e.identityPath)
	if err != nil {
		t.Fatalf("private key missing: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("private key mode = %o, want 600", perm)
	}

	if err := e.Setup("other"); !errors.Is(err, tracker.ErrKeysExist) {
		t.Errorf("second Setup() error = %v, want ErrKeysExist", err)
	}
	if err := newTestAgeEncryptor(t).Setup(""); err == nil {
		t.Error("Setup(\"\") expected error")
	}
}

func TestAgeEncryptor_RoundTrip(t *testing.T) {
	t.Parallel()

	e := newTestAgeEncryptor(t)
	if err := e.Setup("test-passphrase"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "export json", input: []byte(`{"version":1,"problems":[]}`)},
		{name: "empty", input: []byte{}},
		{name: "large archive", input: bytes.Repeat([]byte(`{"title":"Two Sum"},`), 5000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var encrypted bytes.Buffer
			if err := e.Encrypt(bytes.NewReader(tt.input), &encrypted); err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}
			if !strings.HasPrefix(encrypted.String(), "-----BEGIN AGE ENCRYPTED FILE-----") {
				t.Error("archive is not armored")
			}

			dc, err := e.Unlock("test-passphrase")
			if err != nil {
				t.Fatalf("Unlock() error = %v", err)
			}

			var decrypted bytes.Buffer
			if err := dc.Decrypt(&encrypted, &decrypted); err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if !bytes.Equal(decrypted.Bytes(), tt.input) {
				t.Errorf("round-trip failed: got %d bytes, want %d bytes", decrypted.Len(), len(tt.input))
			}
		})
	}
}

func TestAgeEncryptor_UnlockWrongPassphrase(t *testing.T) {
	t.Parallel()

	e := newTestAgeEncryptor(t)
	if err := e.Setup("correct-passphrase"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	if _, err := e.Unlock("wrong-passphrase"); !errors.Is(err, tracker.ErrWrongPassphrase) {
		t.Errorf("Unlock() error = %v, want ErrWrongPassphrase", err)
	}
}

func TestAgeEncryptor_BeforeSetup(t *testing.T) {
	t.Parallel()

	e := newTestAgeEncryptor(t)
	var buf bytes.Buffer
	if err := e.Encrypt(strings.NewReader("data"), &buf); err == nil {
		t.Error("Encrypt() before Setup should return error")
	}
	if _, err := e.Unlock("passphrase"); err == nil {
		t.Error("Unlock() before Setup should return error")
	}
}

func TestTestEncryptor(t *testing.T) {
	t.Parallel()

	e := NewTestEncryptor("secret")
	if !e.IsConfigured() {
		t.Error("IsConfigured() = false, want true")
	}

	var encrypted bytes.Buffer
	if err := e.Encrypt(strings.NewReader("plaintext"), &encrypted); err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if encrypted.String() == "plaintext" {
		t.Error("encrypted output is identical to plaintext")
	}

	if _, err := e.Unlock("nope"); !errors.Is(err, tracker.ErrWrongPassphrase) {
		t.Errorf("Unlock() error = %v, want ErrWrongPassphrase", err)
	}

	dc, err := e.Unlock("secret")
	if err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	var decrypted bytes.Buffer
	if err := dc.Decrypt(&encrypted, &decrypted); err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if decrypted.String() != "plaintext" {
		t.Errorf("Decrypt() = %q, want %q", decrypted.String(), "plaintext")
	}

	if err := e.Setup("rotated"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if _, err := e.Unlock("rotated"); err != nil {
		t.Errorf("Unlock() after Setup error = %v", err)
	}
}

func TestTestDecryptionContext_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"truncated header", "LTE"},
		{"wrong header", "BTENC\x00\x00\x00data"},
	}

	dc := &TestDecryptionContext{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := dc.Decrypt(strings.NewReader(tt.input), &out); err == nil {
				t.Error("Decrypt() expected error")
			}
		})
	}
}

func TestNewEncryptorFromConfig(t *testing.T) {
	tests := []struct {
		typ     string
		wantErr bool
	}{
		{"", false},
		{"age", false},
		{"test", false},
		{"rot13", true},
	}
	for _, tt := range tests {
		got, err := NewEncryptorFromConfig(config.EncryptionConfig{Type: tt.typ})
		if (err != nil) != tt.wantErr {
			t.Errorf("NewEncryptorFromConfig(%q) error = %v, wantErr %v", tt.typ, err, tt.wantErr)
		}
		if !tt.wantErr && got == nil {
			t.Errorf("NewEncryptorFromConfig(%q) = nil", tt.typ)
		}
	}
}
