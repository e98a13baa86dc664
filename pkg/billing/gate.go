package billing

import (
	"context"
	"fmt"
	"log/slog"

	"infomat-hq/infomat/pkg/ledger"
)

// InsufficientFundsError rejects an operation whose quoted price exceeds
// the user's balance. It is a user-facing condition, never retried.
type InsufficientFundsError struct {
	// Price is the quoted price in minor currency units.
	Price int64

	// Balance is the user's balance at quote time.
	Balance int64
}

// Error implements the error interface.
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: price %d, balance %d", e.Price, e.Balance)
}

// Observer receives billing measurements. Implemented by the telemetry
// metrics package; a nil Observer disables instrumentation.
type Observer interface {
	// ObserveCharge records a successful debit.
	ObserveCharge(reason string, amount int64)

	// ObserveRejection records an insufficient-funds rejection.
	ObserveRejection()
}

// Gate gates billable operations against the ledger.
type Gate struct {
	ledger    *ledger.Ledger
	estimator *Estimator
	observer  Observer
}

// NewGate creates a Gate. observer may be nil.
func NewGate(l *ledger.Ledger, e *Estimator, observer Observer) *Gate {
	return &Gate{ledger: l, estimator: e, observer: observer}
}

// Estimator returns the gate's price estimator.
func (g *Gate) Estimator() *Estimator {
	return g.estimator
}

// ChargeFor runs a billable operation for a user.
//
// It ensures the user exists (welcome balance 0 if new), quotes a price
// for priceableText, and rejects with InsufficientFundsError before op is
// invoked if the balance cannot cover it. On success it debits exactly
// the quoted price under the given reason; if op fails, no debit occurs.
func ChargeFor[T any](ctx context.Context, g *Gate, userID, username, priceableText, reason string,
	op func(context.Context) (T, error)) (T, int64, error) {

	var zero T

	user, _, err := g.ledger.GetOrCreate(ctx, userID, username, 0)
	if err != nil {
		return zero, 0, err
	}

	price := g.estimator.PriceText(priceableText)
	if user.Balance < price {
		if g.observer != nil {
			g.observer.ObserveRejection()
		}
		return zero, 0, &InsufficientFundsError{Price: price, Balance: user.Balance}
	}

	result, err := op(ctx)
	if err != nil {
		return zero, 0, err
	}

	if err := g.ledger.Debit(ctx, userID, price, reason); err != nil {
		return zero, 0, fmt.Errorf("billing: debit after successful operation: %w", err)
	}
	if g.observer != nil {
		g.observer.ObserveCharge(reason, price)
	}

	slog.Info("operation charged",
		"user_id", userID,
		"reason", reason,
		"price", price,
	)
	return result, price, nil
}
