// Domain errors for the ledger. These are business-rule failures, not system
// errors; the HTTP layer maps each one to a status code.

package model

import "errors"

var (
	// ErrInvalidAmount is returned when an operation amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrAccountNotFound is returned when no account exists for the given number.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountLocked is returned when a debit is attempted on a locked account.
	ErrAccountLocked = errors.New("account is locked")

	// ErrAuthenticationFailed is returned when the supplied PIN does not verify.
	ErrAuthenticationFailed = errors.New("invalid PIN")

	// ErrInsufficientFunds is returned when a withdrawal exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrOverdraftExceeded is returned when a current-account withdrawal would
	// push the balance below the negative overdraft limit.
	ErrOverdraftExceeded = errors.New("withdrawal exceeds overdraft limit")

	// ErrFundsLocked is returned when a fixed-deposit account is debited before
	// its maturity date.
	ErrFundsLocked = errors.New("funds are locked until maturity")

	// ErrInvalidAccountType is returned for an unrecognized account type tag.
	ErrInvalidAccountType = errors.New("invalid account type")

	// ErrWeakPin is returned when a PIN is shorter than the minimum length.
	ErrWeakPin = errors.New("PIN too short")

	// ErrSameAccountTransfer is returned when source and destination match.
	ErrSameAccountTransfer = errors.New("cannot transfer money to the same account")

	// ErrStoreUnavailable wraps any durable-store failure surfaced to callers.
	ErrStoreUnavailable = errors.New("account store unavailable")
)
