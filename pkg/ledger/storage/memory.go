package storage

import (
	"context"
	"sync"
)

// MemoryBackend is an in-memory Backend for tests and ephemeral use.
type MemoryBackend struct {
	mu    sync.RWMutex
	users map[string]User
	logs  map[string][]Transaction
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		users: make(map[string]User),
		logs:  make(map[string][]Transaction),
	}
}

// GetUser returns the user record, or (nil, nil) if absent.
func (m *MemoryBackend) GetUser(_ context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// CreateUser inserts a new user with its welcome transaction.
func (m *MemoryBackend) CreateUser(_ context.Context, user *User, welcome *Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; ok {
		return ErrUserExists
	}
	m.users[user.ID] = *user
	m.logs[user.ID] = []Transaction{*welcome}
	return nil
}

// ApplyTransaction updates the balance and appends to the log atomically.
func (m *MemoryBackend) ApplyTransaction(_ context.Context, userID string, newBalance int64, txn *Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[userID]
	u.Balance = newBalance
	m.users[userID] = u
	m.logs[userID] = append(m.logs[userID], *txn)
	return nil
}

// Transactions returns the user's log in insertion order.
func (m *MemoryBackend) Transactions(_ context.Context, userID string) ([]Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	log := m.logs[userID]
	out := make([]Transaction, len(log))
	copy(out, log)
	return out, nil
}

// ListUsers returns all user records.
func (m *MemoryBackend) ListUsers(_ context.Context) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

// Checkpoint is a no-op for the memory backend.
func (m *MemoryBackend) Checkpoint(context.Context) error { return nil }

// Close is a no-op for the memory backend.
func (m *MemoryBackend) Close() error { return nil }
