package database

import (
	"fmt"
	"os"
	"path/filepath"

	"leettrack/internal/config"
)

// DatabaseFile is the SQLite file name inside data_dir.
const DatabaseFile = "leettrack.db"

// NewDatabaseFromConfig creates a Database based on the database config type.
func NewDatabaseFromConfig(cfg config.DatabaseConfig) (*Database, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return NewSQLiteDatabase(filepath.Join(cfg.DataDir, DatabaseFile))
	case "memory":
		return NewSQLiteDatabase(MemoryPath)
	case "postgres":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("dsn required for postgres database")
		}
		return NewPostgresDatabase(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
