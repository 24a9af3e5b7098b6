package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fastspringexamples/accountbridge/internal/core"
)

// SQLiteStore persists accounts in an embedded SQLite database while keeping
// the same load-all/save-all contract as the JSON file store. Save runs in a
// single transaction, so the whole-mapping replace is atomic on disk. It
// still provides no isolation between concurrent load-mutate-save callers.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dbPath, err := expandHome(dbPath)
	if err != nil {
		return nil, err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("%w: creating store directory: %v", core.ErrStorageUnavailable, err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", core.ErrStorageUnavailable, dbPath, err)
	}

	store := &SQLiteStore{db: db, path: dbPath}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// migrate creates the necessary tables
func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			customer TEXT,
			password TEXT NOT NULL DEFAULT ''
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("%w: migrating schema: %v", core.ErrStorageUnavailable, err)
	}
	return nil
}

// Load reads the full mapping. An empty table yields an empty mapping.
func (s *SQLiteStore) Load(ctx context.Context) (core.Accounts, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, customer, password FROM accounts`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying accounts: %v", core.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	accounts := core.Accounts{}
	for rows.Next() {
		var id, password string
		var customer sql.NullString
		if err := rows.Scan(&id, &customer, &password); err != nil {
			return nil, fmt.Errorf("%w: scanning account row: %v", core.ErrStorageUnavailable, err)
		}
		account := core.Account{Password: password}
		if customer.Valid && customer.String != "" {
			account.Customer = []byte(customer.String)
		}
		accounts[id] = account
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading account rows: %v", core.ErrStorageUnavailable, err)
	}
	return accounts, nil
}

// Save replaces the entire persisted mapping inside one transaction.
func (s *SQLiteStore) Save(ctx context.Context, accounts core.Accounts) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", core.ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
		return fmt.Errorf("%w: clearing accounts: %v", core.ErrStorageUnavailable, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO accounts (id, customer, password) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: preparing insert: %v", core.ErrStorageUnavailable, err)
	}
	defer stmt.Close()

	for id, account := range accounts {
		if _, err := stmt.ExecContext(ctx, id, string(account.Customer), account.Password); err != nil {
			return fmt.Errorf("%w: inserting account %s: %v", core.ErrStorageUnavailable, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing: %v", core.ErrStorageUnavailable, err)
	}
	return nil
}

// Reset wipes every account row.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
		return fmt.Errorf("%w: clearing accounts: %v", core.ErrStorageUnavailable, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the resolved database path, for the status command.
func (s *SQLiteStore) Path() string {
	return s.path
}
