package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"infomat-hq/infomat/pkg/ledger/storage"
)

func newTestLedger() *Ledger {
	return New(storage.NewMemoryBackend())
}

func TestGetOrCreate_Idempotent(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger()

	user, created, err := l.GetOrCreate(ctx, "100", "tester", 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected first call to create the user")
	}
	if user.Balance != 10000 || user.Username != "tester" {
		t.Errorf("unexpected user: %+v", user)
	}

	// Second call must ignore the supplied name and welcome balance.
	user, created, err = l.GetOrCreate(ctx, "100", "other-name", 99999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected second call to find the existing user")
	}
	if user.Balance != 10000 || user.Username != "tester" {
		t.Errorf("existing record was modified: %+v", user)
	}

	txns, err := l.Transactions(ctx, "100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txns) != 1 || txns[0].Reason != ReasonWelcome || txns[0].Delta != 10000 {
		t.Errorf("unexpected welcome transaction: %+v", txns)
	}
}

func TestDebitCredit(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger()
	l.GetOrCreate(ctx, "100", "tester", 10000)

	if err := l.Debit(ctx, "100", 99, "spent"); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if user, _ := l.Get(ctx, "100"); user.Balance != 9901 {
		t.Errorf("balance after debit = %d, want 9901", user.Balance)
	}

	if err := l.Credit(ctx, "100", 22222, "paid"); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if user, _ := l.Get(ctx, "100"); user.Balance != 32123 {
		t.Errorf("balance after credit = %d, want 32123", user.Balance)
	}

	txns, _ := l.Transactions(ctx, "100")
	wantDeltas := []int64{10000, -99, 22222}
	if len(txns) != len(wantDeltas) {
		t.Fatalf("transaction count = %d, want %d", len(txns), len(wantDeltas))
	}
	for i, want := range wantDeltas {
		if txns[i].Delta != want {
			t.Errorf("transaction %d delta = %d, want %d", i, txns[i].Delta, want)
		}
	}
}

func TestNonPositiveAmountsRejected(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger()
	l.GetOrCreate(ctx, "100", "tester", 100)

	var amountErr *NonPositiveAmountError
	if err := l.Debit(ctx, "100", 0, "r"); !errors.As(err, &amountErr) {
		t.Errorf("debit 0: expected NonPositiveAmountError, got %v", err)
	}
	if err := l.Debit(ctx, "100", -5, "r"); !errors.As(err, &amountErr) {
		t.Errorf("debit -5: expected NonPositiveAmountError, got %v", err)
	}
	if err := l.Credit(ctx, "100", 0, "r"); !errors.As(err, &amountErr) {
		t.Errorf("credit 0: expected NonPositiveAmountError, got %v", err)
	}
}

func TestUnknownUser(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger()

	if err := l.Debit(ctx, "nobody", 1, "r"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("debit: expected ErrUserNotFound, got %v", err)
	}
	if _, err := l.Get(ctx, "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("get: expected ErrUserNotFound, got %v", err)
	}
	// Absent user is distinguishable from a user with an empty history.
	if _, err := l.Transactions(ctx, "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("transactions: expected ErrUserNotFound, got %v", err)
	}
}

func TestConcurrentMutationsKeepInvariant(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger()

	const welcome = 1_000_000
	l.GetOrCreate(ctx, "100", "tester", welcome)

	const (
		workers = 8
		rounds  = 50
	)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				if w%2 == 0 {
					if err := l.Debit(ctx, "100", 3, "debit"); err != nil {
						t.Errorf("debit: %v", err)
					}
				} else {
					if err := l.Credit(ctx, "100", 7, "credit"); err != nil {
						t.Errorf("credit: %v", err)
					}
				}
			}
		}(w)
	}
	wg.Wait()

	user, err := l.Get(ctx, "100")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	txns, err := l.Transactions(ctx, "100")
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}

	want := int64(welcome) + (workers/2)*rounds*(7-3)
	if user.Balance != want {
		t.Errorf("final balance = %d, want %d", user.Balance, want)
	}
	if len(txns) != 1+workers*rounds {
		t.Errorf("transaction count = %d, want %d", len(txns), 1+workers*rounds)
	}

	var sum int64
	for _, txn := range txns {
		sum += txn.Delta
	}
	if sum != user.Balance {
		t.Errorf("invariant broken: sum of deltas %d != balance %d", sum, user.Balance)
	}
}
