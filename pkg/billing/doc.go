// Package billing prices model work and gates it against prepaid
// balances.
//
// The Estimator converts token counts to integer minor-currency prices.
// ChargeFor composes the estimator and the ledger around a billable
// operation with a strict ordering contract: the price is quoted and the
// balance checked before the operation runs, and the debit happens only
// after the operation succeeds — always for exactly the quoted price,
// even if actual token usage differed. A user is therefore never charged
// for work that did not complete, and never starts work they cannot
// afford at the quoted price.
package billing
