package storage

import (
	"context"
	"errors"
	"time"
)

// ErrUserExists is returned by CreateUser when the user id is taken.
var ErrUserExists = errors.New("user already exists")

// User is a billable account. Balance is in integer minor currency units
// and always equals the sum of the user's transaction deltas.
type User struct {
	// ID is the stable user key (e.g. a chat platform user id).
	ID string

	// Username is the display name recorded at creation time.
	Username string

	// Balance is the current balance in minor currency units.
	Balance int64

	// CreatedAt is when the user record was created.
	CreatedAt time.Time
}

// Transaction is one append-only ledger entry.
type Transaction struct {
	// ID is a unique transaction identifier.
	ID string

	// UserID is the owning user.
	UserID string

	// Delta is the signed balance change in minor currency units.
	Delta int64

	// Reason is the operation tag ("welcome", "timecodes", "topup", ...).
	Reason string

	// CreatedAt is when the transaction was recorded.
	CreatedAt time.Time
}

// Backend persists users and their transaction logs.
// Implementations must be safe for concurrent use. The compound writes
// (CreateUser, ApplyTransaction) must be atomic: either both the user
// record and the transaction land, or neither does.
type Backend interface {
	// GetUser returns the user record, or (nil, nil) if absent.
	GetUser(ctx context.Context, id string) (*User, error)

	// CreateUser inserts a new user together with its initial (welcome)
	// transaction. Returns ErrUserExists if the id is taken.
	CreateUser(ctx context.Context, user *User, welcome *Transaction) error

	// ApplyTransaction sets the user's balance to newBalance and appends
	// txn to the user's log as one atomic write.
	ApplyTransaction(ctx context.Context, userID string, newBalance int64, txn *Transaction) error

	// Transactions returns the user's log in insertion order.
	// An absent user yields an empty slice; existence is checked by the
	// ledger, which always records a welcome transaction at creation.
	Transactions(ctx context.Context, userID string) ([]Transaction, error)

	// ListUsers returns all user records.
	ListUsers(ctx context.Context) ([]User, error)

	// Checkpoint flushes buffered state to durable storage (WAL
	// checkpoint for SQLite). No-op for memory backends.
	Checkpoint(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
