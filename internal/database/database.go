package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

type Database struct {
	db     *gorm.DB
	sqlDB  *sql.DB
	logger *logrus.Logger
}

// NewDatabase opens (creating if needed) the sqlite file at dbPath and
// migrates the schema.
func NewDatabase(dbPath string, log *logrus.Logger) (*Database, error) {
	if log == nil {
		log = logrus.New()
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetOutput(os.Stdout)
	}

	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	d, err := newDatabase(sqlDB, log)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	return d, nil
}

// NewTestDB returns a migrated in-memory database.
func NewTestDB() (*gorm.DB, error) {
	sqlDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}
	db, err := openGorm(sqlDB)
	if err != nil {
		return nil, err
	}
	if err := MigrateSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

// NewFromGorm wraps an already opened gorm handle.
func NewFromGorm(db *gorm.DB, log *logrus.Logger) (*Database, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	return &Database{db: db, sqlDB: sqlDB, logger: log}, nil
}

func newDatabase(sqlDB *sql.DB, log *logrus.Logger) (*Database, error) {
	db, err := openGorm(sqlDB)
	if err != nil {
		return nil, err
	}

	log.Info("Running database migrations...")
	if err := MigrateSchema(db); err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	return &Database{db: db, sqlDB: sqlDB, logger: log}, nil
}

// openGorm hands an explicitly opened mattn/go-sqlite3 pool to gorm.
// sqlite allows a single writer, so the pool is limited to one connection.
func openGorm(sqlDB *sql.DB) (*gorm.DB, error) {
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db, err := gorm.Open(sqlite.New(sqlite.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}
	return db, nil
}

// GetDB returns the gorm handle used for batch transactions.
func (d *Database) GetDB() *gorm.DB {
	return d.db
}

func (d *Database) Close() error {
	return d.sqlDB.Close()
}
