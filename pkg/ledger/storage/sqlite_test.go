package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestBackend(t *testing.T) *SQLiteBackend {
	t.Helper()
	backend, err := NewSQLiteBackend(SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "ledger.db"),
	})
	if err != nil {
		t.Fatalf("open backend: %v", err)
	}
	t.Cleanup(func() { backend.Close() })
	return backend
}

func testUser(id string, balance int64) (*User, *Transaction) {
	now := time.Now()
	return &User{ID: id, Username: "tester", Balance: balance, CreatedAt: now},
		&Transaction{ID: "txn-" + id, UserID: id, Delta: balance, Reason: "welcome", CreatedAt: now}
}

func TestSQLiteBackend_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	backend := newTestBackend(t)

	if u, err := backend.GetUser(ctx, "100"); err != nil || u != nil {
		t.Fatalf("absent user: got (%v, %v), want (nil, nil)", u, err)
	}

	user, welcome := testUser("100", 10000)
	if err := backend.CreateUser(ctx, user, welcome); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := backend.GetUser(ctx, "100")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Balance != 10000 || got.Username != "tester" {
		t.Errorf("unexpected user: %+v", got)
	}

	if err := backend.CreateUser(ctx, user, welcome); !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate create: expected ErrUserExists, got %v", err)
	}
}

func TestSQLiteBackend_ApplyTransactionOrder(t *testing.T) {
	ctx := context.Background()
	backend := newTestBackend(t)

	user, welcome := testUser("100", 100)
	if err := backend.CreateUser(ctx, user, welcome); err != nil {
		t.Fatalf("create: %v", err)
	}

	deltas := []int64{-10, 25, -5}
	balance := user.Balance
	for i, d := range deltas {
		balance += d
		txn := &Transaction{
			ID:        "t" + string(rune('a'+i)),
			UserID:    "100",
			Delta:     d,
			Reason:    "test",
			CreatedAt: time.Now(),
		}
		if err := backend.ApplyTransaction(ctx, "100", balance, txn); err != nil {
			t.Fatalf("apply %d: %v", i, err)
		}
	}

	got, _ := backend.GetUser(ctx, "100")
	if got.Balance != 110 {
		t.Errorf("balance = %d, want 110", got.Balance)
	}

	txns, err := backend.Transactions(ctx, "100")
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	want := []int64{100, -10, 25, -5}
	if len(txns) != len(want) {
		t.Fatalf("transaction count = %d, want %d", len(txns), len(want))
	}
	for i, w := range want {
		if txns[i].Delta != w {
			t.Errorf("transaction %d delta = %d, want %d", i, txns[i].Delta, w)
		}
	}
}

func TestSQLiteBackend_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	backend, err := NewSQLiteBackend(SQLiteConfig{Path: path})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	user, welcome := testUser("100", 500)
	if err := backend.CreateUser(ctx, user, welcome); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := backend.Checkpoint(ctx); err != nil {
		t.Fatalf("checkpoint: %v", err)
	}
	backend.Close()

	reopened, err := NewSQLiteBackend(SQLiteConfig{Path: path})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.GetUser(ctx, "100")
	if err != nil || got == nil {
		t.Fatalf("get after reopen: (%v, %v)", got, err)
	}
	if got.Balance != 500 {
		t.Errorf("balance after reopen = %d, want 500", got.Balance)
	}

	users, err := reopened.ListUsers(ctx)
	if err != nil || len(users) != 1 {
		t.Errorf("ListUsers after reopen: (%v, %v)", users, err)
	}
}
