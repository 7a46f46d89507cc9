package database

import (
	"database/sql"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"leettrack/internal/database/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// NewSQLiteDatabase opens the SQLite database at path, applies pending
// migrations and wraps it for gorm. path may be MemoryPath.
func NewSQLiteDatabase(path string) (*Database, error) {
	sqlDB, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return NewSQLiteDatabaseFromDB(sqlDB, path)
}

// NewSQLiteDatabaseFromDB wraps an already migrated connection.
func NewSQLiteDatabaseFromDB(sqlDB *sql.DB, path string) (*Database, error) {
	gdb, err := gorm.Open(&sqlite.Dialector{Conn: sqlDB}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening gorm session: %w", err)
	}
	return newDatabase(gdb, sqlDB, path), nil
}

// OpenConnection opens a SQLite connection with foreign keys enabled and a
// busy timeout. Both are set through the DSN so that every pooled
// connection gets them. An in-memory database is pinned to one connection
// because each new connection to ":memory:" would see a different, empty
// database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// CheckMigrations verifies the schema is up to date.
func (d *Database) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(d.sqlDB)
}
