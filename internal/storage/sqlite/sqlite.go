// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/maeumjangbu/ledger/internal/metrics"
	"github.com/maeumjangbu/ledger/internal/models"
	"github.com/maeumjangbu/ledger/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var (
	_ storage.Store = (*SQLiteStore)(nil)
	_ storage.Tx    = (*txStore)(nil)
)

// querier is satisfied by both *sql.DB and *sql.Tx so that every statement
// can run inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
//
// The pool is limited to a single connection: SQLite allows one writer at a
// time, and the pragmas in the DSN then apply to every statement. As a
// consequence transactions are serialized.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies that the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	defer metrics.ObserveDB("ping")()
	return s.db.PingContext(ctx)
}

// WithTx runs fn inside a single transaction.
func (s *SQLiteStore) WithTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	defer metrics.ObserveDB("tx")()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&txStore{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// txStore is the storage.Tx handed to WithTx callbacks.
type txStore struct {
	tx *sql.Tx
}

func (t *txStore) FindFriendByName(ctx context.Context, ownerID, name string) (*models.Friend, error) {
	return findFriendByName(ctx, t.tx, ownerID, name)
}

func (t *txStore) CreateFriend(ctx context.Context, friend *models.Friend) error {
	return insertFriend(ctx, t.tx, friend)
}

func (t *txStore) CreateEvent(ctx context.Context, event *models.Event) error {
	return insertEvent(ctx, t.tx, event)
}

func (t *txStore) CreateRecord(ctx context.Context, record *models.Record) error {
	return insertRecord(ctx, t.tx, record)
}

// placeholders returns "?, ?, ?" with n placeholders for IN clauses.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// expectOneRow turns a zero-row update or delete into storage.ErrNotFound.
func expectOneRow(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, storage.ErrNotFound)
	}
	return nil
}
