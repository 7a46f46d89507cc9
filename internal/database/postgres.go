package database

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDatabase prepares a PostgreSQL connection pool without
// contacting the server, so the app can start offline. The schema is
// created or extended with gorm's AutoMigrate after the first successful
// Ping. The embedded migrations are SQLite-only.
func NewPostgresDatabase(dsn string) (*Database, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("getting postgres connection pool: %w", err)
	}

	d := newDatabase(gdb, sqlDB, "postgres")
	d.prepare = autoMigrate
	return d, nil
}

func autoMigrate(ctx context.Context, gdb *gorm.DB) error {
	if err := gdb.WithContext(ctx).AutoMigrate(&problemRecord{}, &contestRecord{}, &settingsRecord{}); err != nil {
		return fmt.Errorf("migrating postgres schema: %w", err)
	}
	return nil
}
