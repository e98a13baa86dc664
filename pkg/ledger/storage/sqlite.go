package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteBackend persists users and transaction logs in a SQLite file.
//
// The database uses WAL mode for concurrent readers and a connection pool
// capped at a single connection, since SQLite supports only one writer.
// The file is created on first open.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

// SQLiteConfig configures the SQLite backend.
type SQLiteConfig struct {
	// Path is the database file path. Required.
	Path string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds.
	BusyTimeout time.Duration
}

// NewSQLiteBackend opens (creating if absent) the ledger database.
func NewSQLiteBackend(cfg SQLiteConfig) (*SQLiteBackend, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("storage: db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.Path, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	backend := &SQLiteBackend{db: db, path: cfg.Path}
	if err := backend.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: initialize schema: %w", err)
	}
	return backend, nil
}

func (s *SQLiteBackend) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		username   TEXT NOT NULL,
		balance    INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id),
		delta      INTEGER NOT NULL,
		reason     TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// GetUser returns the user record, or (nil, nil) if absent.
func (s *SQLiteBackend) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, balance, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Username, &u.Balance, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get user: %w", err)
	}
	u.CreatedAt = time.Unix(createdAt, 0)
	return &u, nil
}

// CreateUser inserts a new user with its welcome transaction in one
// database transaction.
func (s *SQLiteBackend) CreateUser(ctx context.Context, user *User, welcome *Transaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin create user: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, user.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("storage: check user exists: %w", err)
	}
	if exists > 0 {
		return ErrUserExists
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, username, balance, created_at) VALUES (?, ?, ?, ?)`,
		user.ID, user.Username, user.Balance, user.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("storage: insert user: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, delta, reason, created_at) VALUES (?, ?, ?, ?, ?)`,
		welcome.ID, welcome.UserID, welcome.Delta, welcome.Reason, welcome.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("storage: insert welcome transaction: %w", err)
	}

	return tx.Commit()
}

// ApplyTransaction updates the balance and appends to the log in one
// database transaction.
func (s *SQLiteBackend) ApplyTransaction(ctx context.Context, userID string, newBalance int64, txn *Transaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin apply transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `UPDATE users SET balance = ? WHERE id = ?`, newBalance, userID)
	if err != nil {
		return fmt.Errorf("storage: update balance: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, delta, reason, created_at) VALUES (?, ?, ?, ?, ?)`,
		txn.ID, txn.UserID, txn.Delta, txn.Reason, txn.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("storage: insert transaction: %w", err)
	}

	return tx.Commit()
}

// Transactions returns the user's log in insertion order (rowid order).
func (s *SQLiteBackend) Transactions(ctx context.Context, userID string) ([]Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, delta, reason, created_at FROM transactions WHERE user_id = ? ORDER BY rowid`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("storage: query transactions: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		var createdAt int64
		if err := rows.Scan(&t.ID, &t.UserID, &t.Delta, &t.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: scan transaction: %w", err)
		}
		t.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListUsers returns all user records.
func (s *SQLiteBackend) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, username, balance, created_at FROM users`)
	if err != nil {
		return nil, fmt.Errorf("storage: list users: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		var createdAt int64
		if err := rows.Scan(&u.ID, &u.Username, &u.Balance, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: scan user: %w", err)
		}
		u.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, u)
	}
	return out, rows.Err()
}

// Checkpoint truncates the write-ahead log into the main database file.
func (s *SQLiteBackend) Checkpoint(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`)
	if err != nil {
		return fmt.Errorf("storage: wal checkpoint: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}
