// Package ledger maintains per-user prepaid balances with an append-only
// transaction history.
//
// Every balance mutation goes through an atomic read-modify-write of both
// the balance and the transaction log, serialized per user key: the
// invariant balance == sum(transaction deltas) holds at every observable
// point. Distinct users never block each other.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"infomat-hq/infomat/pkg/ledger/storage"
)

// Re-export the stored record types for callers.
type (
	User        = storage.User
	Transaction = storage.Transaction
)

// Well-known transaction reasons.
const (
	ReasonWelcome = "welcome"
	ReasonTopUp   = "topup"
)

// ErrUserNotFound is returned for operations on a user that was never
// created. It is distinct from a user with an empty history, a state the
// welcome transaction makes impossible.
var ErrUserNotFound = errors.New("user not found")

// NonPositiveAmountError reports a debit or credit with amount <= 0.
// This is a programming error in the caller, not a user-facing condition.
type NonPositiveAmountError struct {
	Amount int64
}

// Error implements the error interface.
func (e *NonPositiveAmountError) Error() string {
	return fmt.Sprintf("ledger: amount must be positive, got %d", e.Amount)
}

// lockStripes is the number of per-user lock stripes. Concurrent calls
// for the same user always hit the same stripe and serialize.
const lockStripes = 64

// Ledger is the balance ledger over a storage backend.
type Ledger struct {
	backend storage.Backend
	locks   [lockStripes]sync.Mutex
}

// New creates a Ledger over the given backend.
func New(backend storage.Backend) *Ledger {
	return &Ledger{backend: backend}
}

func (l *Ledger) lockFor(userID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return &l.locks[h.Sum32()%lockStripes]
}

// GetOrCreate returns the user record, creating it with the welcome
// balance (and a welcome transaction) on first contact. Idempotent: an
// existing user is returned unchanged regardless of the supplied username
// and welcome balance.
func (l *Ledger) GetOrCreate(ctx context.Context, userID, username string, welcomeBalance int64) (*User, bool, error) {
	mu := l.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	user, err := l.backend.GetUser(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if user != nil {
		return user, false, nil
	}

	now := time.Now()
	user = &User{
		ID:        userID,
		Username:  username,
		Balance:   welcomeBalance,
		CreatedAt: now,
	}
	welcome := &Transaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		Delta:     welcomeBalance,
		Reason:    ReasonWelcome,
		CreatedAt: now,
	}
	if err := l.backend.CreateUser(ctx, user, welcome); err != nil {
		return nil, false, err
	}

	slog.Info("user created",
		"user_id", userID,
		"username", username,
		"welcome_balance", welcomeBalance,
	)
	return user, true, nil
}

// Debit atomically subtracts amount from the user's balance and records
// a transaction with the given reason. amount must be > 0.
func (l *Ledger) Debit(ctx context.Context, userID string, amount int64, reason string) error {
	if amount <= 0 {
		return &NonPositiveAmountError{Amount: amount}
	}
	return l.change(ctx, userID, -amount, reason)
}

// Credit atomically adds amount to the user's balance and records a
// transaction with the given reason. amount must be > 0.
func (l *Ledger) Credit(ctx context.Context, userID string, amount int64, reason string) error {
	if amount <= 0 {
		return &NonPositiveAmountError{Amount: amount}
	}
	return l.change(ctx, userID, amount, reason)
}

func (l *Ledger) change(ctx context.Context, userID string, delta int64, reason string) error {
	mu := l.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	user, err := l.backend.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}

	txn := &Transaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		Delta:     delta,
		Reason:    reason,
		CreatedAt: time.Now(),
	}
	if err := l.backend.ApplyTransaction(ctx, userID, user.Balance+delta, txn); err != nil {
		return err
	}

	slog.Debug("balance changed",
		"user_id", userID,
		"delta", delta,
		"reason", reason,
		"balance", user.Balance+delta,
	)
	return nil
}

// Get returns the user record, or ErrUserNotFound.
func (l *Ledger) Get(ctx context.Context, userID string) (*User, error) {
	user, err := l.backend.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	return user, nil
}

// Transactions returns the user's history in insertion order.
// A user that was never created yields ErrUserNotFound rather than an
// empty history.
func (l *Ledger) Transactions(ctx context.Context, userID string) ([]Transaction, error) {
	user, err := l.backend.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	return l.backend.Transactions(ctx, userID)
}
