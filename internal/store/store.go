// Package store provides unified access to the SQLite medication database
// and the BadgerDB key-value store holding daily taken-logs and the external
// API cache.
package store

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"
	_ "github.com/glebarez/go-sqlite" // Pure Go SQLite driver
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pillguard/pillguard/internal/config"
)

// Store provides unified access to SQLite and BadgerDB
type Store struct {
	db     *gorm.DB
	badger *badger.DB
	config *config.StorageConfig
}

// New creates a new Store instance
func New(cfg *config.Config) (*Store, error) {
	sqlitePath := cfg.Storage.SQLitePath
	if sqlitePath == "" {
		sqlitePath = filepath.Join(cfg.Storage.DataDir, "pillguard.db")
	}

	sqliteDB, err := sql.Open("sqlite", sqlitePath+"?_journal=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	sqliteDB.SetMaxOpenConns(10)
	sqliteDB.SetMaxIdleConns(5)
	sqliteDB.SetConnMaxLifetime(time.Hour)

	db, err := gorm.Open(sqlite.Dialector{Conn: sqliteDB}, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	badgerPath := cfg.Storage.BadgerPath
	if badgerPath == "" {
		badgerPath = filepath.Join(cfg.Storage.DataDir, "badger")
	}

	badgerOpts := badger.DefaultOptions(badgerPath).
		WithLogger(nil).
		WithNumVersionsToKeep(1).
		WithCompactL0OnClose(true).
		WithValueLogFileSize(16 << 20).
		WithMemTableSize(16 << 20)

	badgerDB, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	return &Store{
		db:     db,
		badger: badgerDB,
		config: &cfg.Storage,
	}, nil
}

// Close closes all database connections
func (s *Store) Close() error {
	return s.badger.Close()
}

// DB returns the GORM database instance
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Badger returns the BadgerDB instance
func (s *Store) Badger() *badger.DB {
	return s.badger
}
