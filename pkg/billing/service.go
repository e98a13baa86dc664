package billing

import (
	"context"

	"infomat-hq/infomat/pkg/ledger"
)

// Service is the billing query surface exposed to operators: balance
// lookup, top-up, and transaction history.
type Service struct {
	ledger *ledger.Ledger
}

// NewService creates a Service over the ledger.
func NewService(l *ledger.Ledger) *Service {
	return &Service{ledger: l}
}

// Balance returns the user's balance, creating the user with a zero
// welcome balance on first contact.
func (s *Service) Balance(ctx context.Context, userID, username string) (int64, error) {
	user, _, err := s.ledger.GetOrCreate(ctx, userID, username, 0)
	if err != nil {
		return 0, err
	}
	return user.Balance, nil
}

// Lookup returns the user's balance without creating the user. Fails
// with ledger.ErrUserNotFound for a user that was never created.
func (s *Service) Lookup(ctx context.Context, userID string) (int64, error) {
	user, err := s.ledger.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Balance, nil
}

// TopUp credits the user's balance. Fails with ledger.ErrUserNotFound if
// the user was never created.
func (s *Service) TopUp(ctx context.Context, userID string, amount int64, reason string) error {
	if reason == "" {
		reason = ledger.ReasonTopUp
	}
	return s.ledger.Credit(ctx, userID, amount, reason)
}

// Transactions returns the user's history in insertion order, or
// ledger.ErrUserNotFound for a user that was never created.
func (s *Service) Transactions(ctx context.Context, userID string) ([]ledger.Transaction, error) {
	return s.ledger.Transactions(ctx, userID)
}
