package testutil

import (
	"path/filepath"

	"leettrack/internal/config"
)

// NewTestConfig returns a config for userID where every backend is in
// memory. Only the log file lands on disk, under dir.
func NewTestConfig(userID, dir string) *config.Config {
	cfg := config.NewConfig(userID, dir)
	cfg.Database = config.DatabaseConfig{Type: "memory"}
	cfg.Cache = config.CacheConfig{Type: "memory"}
	cfg.Vault = config.VaultConfig{Type: "memory", Name: "test"}
	cfg.Encryption = config.EncryptionConfig{Type: "test"}
	cfg.Log.Dir = filepath.Join(dir, "log")
	cfg.Log.Level = "debug"
	return cfg
}
