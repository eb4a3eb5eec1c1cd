// Package store keeps the beverage ledger: accounts, the drink catalog, the
// per-account consumption leaderboard and the transaction log, all in one
// local sqlite file.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// Store is a single-writer ledger. Every mutating operation runs inside one
// sqlite transaction while holding mu.
type Store struct {
	logger    *logrus.Logger
	db        *sql.DB
	mu        sync.Mutex
	now       func() time.Time
	closeOnce sync.Once
}

// LedgerHandler is the set of ledger operations the API works against.
type LedgerHandler interface {
	ListAccounts(ctx context.Context) ([]Account, error)
	AddAccount(ctx context.Context, name string, initialCredit int64) (int64, error)
	SetAccountName(ctx context.Context, id int64, name string) error
	AddCredit(ctx context.Context, accountID, amount int64) error
	DeleteAccount(ctx context.Context, id int64) error

	ListDrinks(ctx context.Context) ([]Drink, error)
	AddDrink(ctx context.Context, spec DrinkSpec) (int64, error)
	SetDrink(ctx context.Context, id int64, spec DrinkSpec) error
	DeleteDrink(ctx context.Context, id int64) error

	ConsumeDrinks(ctx context.Context, accountID int64, items []LineItem) (int64, error)
	UndoTransaction(ctx context.Context, groupID int64) error

	Transactions(ctx context.Context, accountID int64) ([]TransactionRow, error)
	Kings(ctx context.Context) ([]King, error)
	Balances(ctx context.Context) ([]AccountBalance, error)
}

// SchemaError means the database file cannot be used at all. Callers are
// expected to stop the process.
type SchemaError struct {
	Message string
	Err     error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// TransactionError means a transaction could not begin or commit.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s", e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a referenced row that does not exist.
type NotFoundError struct {
	Err error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s", e.Err)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// InternalError wraps any other failing statement.
type InternalError struct {
	Message string
	Err     error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Option configures a Store in Open.
type Option func(*Store)

// WithClock replaces time.Now as the source of transaction timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open opens or creates the ledger database at path. ctx only bounds the
// schema check; the connection stays open until Close.
func Open(ctx context.Context, logger *logrus.Logger, path string, opts ...Option) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &SchemaError{Message: "Can't create database directory " + dir, Err: err}
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &SchemaError{Message: "Can't open database " + path, Err: err}
	}
	s := newStore(db, logger, opts...)
	if err := s.init(ctx, path); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func newStore(db *sql.DB, logger *logrus.Logger, opts ...Option) *Store {
	// sqlite allows a single writer; one connection keeps every statement
	// of a transaction on the same handle.
	db.SetMaxOpenConns(1)
	s := &Store{
		logger: logger,
		db:     db,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) init(ctx context.Context, path string) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &SchemaError{Message: "Can't read database " + path, Err: err}
	}

	var existing int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN (?, ?, ?, ?)",
		tableNames[0], tableNames[1], tableNames[2], tableNames[3]).Scan(&existing)
	if err != nil {
		return &SchemaError{Message: "Can't read database " + path, Err: err}
	}

	if existing == 0 {
		err = s.withTx(ctx, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, CreateTables)
			return err
		})
		if err != nil {
			return &SchemaError{Message: "Can't create tables", Err: err}
		}
		s.logger.Info("Created new database @ ", path)
	} else {
		s.logger.Info("Found an existing database @ ", path)
		for _, table := range tableNames {
			rows, err := s.db.QueryContext(ctx, schemaProbes[table])
			if err != nil {
				s.logger.Errorf("Database corrupt or created by an older version, table %s: %s", table, err)
				return &SchemaError{Message: "Unexpected schema for table " + table, Err: err}
			}
			rows.Close()
		}
		s.logger.Info("Database seems to be usable")
	}

	if _, err = s.db.ExecContext(ctx, CreateIndexes); err != nil {
		return &SchemaError{Message: "Can't create indexes", Err: err}
	}
	return nil
}

// Close releases the database file. It is safe to call more than once.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.db.Close()
		if err != nil {
			s.logger.Error("Can't close database: ", err)
			return
		}
		s.logger.Info("Database connection closed")
	})
	return err
}

// withTx runs fn in one transaction. Nothing fn wrote survives unless fn
// returns nil and the commit succeeds.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &TransactionError{Err: fmt.Errorf("begin: %w", err)}
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return &TransactionError{Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}

// nextGroupID returns max(group_id)+1, or 1 on an empty log.
func nextGroupID(ctx context.Context, tx *sql.Tx) (int64, error) {
	var last sql.NullInt64
	if err := tx.QueryRowContext(ctx, "SELECT MAX(group_id) FROM transactions").Scan(&last); err != nil {
		return 0, &InternalError{Message: "Error reading last transaction group", Err: err}
	}
	if !last.Valid {
		return 1, nil
	}
	return last.Int64 + 1, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
