package qa

import (
	"errors"
	"fmt"
	"log/slog"

	"infomat-hq/infomat/pkg/billing"
	"infomat-hq/infomat/pkg/mapreduce"
)

// UserMessage converts an internal error into text safe to show an end
// user. Insufficient funds and failed convergence are actionable and
// reported as such; everything else is logged and replaced with a
// generic retry message so internals never leak.
func UserMessage(err error) string {
	var funds *billing.InsufficientFundsError
	if errors.As(err, &funds) {
		return fmt.Sprintf("Not enough funds: this request costs %d but your balance is %d. Please top up.",
			funds.Price, funds.Balance)
	}

	var conv *mapreduce.ConvergenceError
	if errors.As(err, &conv) {
		return "The text could not be condensed into an answer. Try a shorter document or a more specific question."
	}

	slog.Error("operation failed", "error", err)
	return "Something went wrong. Please try again in a minute."
}
