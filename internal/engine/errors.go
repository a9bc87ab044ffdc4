package engine

import "errors"

// Rejection reasons. Every one of these is a skip-and-continue decision: the
// offending transaction is dropped and the account state it targeted is left
// untouched.
var (
	// ErrAccountLocked rejects a deposit or withdrawal on a locked account.
	ErrAccountLocked = errors.New("account is locked")

	// ErrInsufficientFunds rejects a withdrawal larger than available funds.
	ErrInsufficientFunds = errors.New("insufficient available funds")

	// ErrDuplicateTransaction rejects a funding transaction whose id is
	// already registered; the first stored transaction stays authoritative.
	ErrDuplicateTransaction = errors.New("duplicate transaction id")

	// ErrUnknownTransaction rejects a dispute, resolve or chargeback whose
	// referenced transaction was never registered.
	ErrUnknownTransaction = errors.New("referenced transaction not found")

	// ErrClientMismatch rejects a reference to a transaction owned by a
	// different client (strict client policy).
	ErrClientMismatch = errors.New("referenced transaction belongs to another client")

	// ErrNotDisputable rejects a dispute against a withdrawal when policy
	// restricts disputes to deposits.
	ErrNotDisputable = errors.New("referenced transaction kind is not disputable")

	// ErrAlreadyDisputed rejects a dispute against a transaction that is
	// already under dispute.
	ErrAlreadyDisputed = errors.New("transaction is already under dispute")

	// ErrNotDisputed rejects a resolve or chargeback against a transaction
	// that is not under dispute.
	ErrNotDisputed = errors.New("transaction is not under dispute")

	// ErrInvalidAmount rejects a funding transaction with a negative amount.
	// The source drops those before they reach the engine; this is the
	// engine's own guard.
	ErrInvalidAmount = errors.New("amount must be non-negative")

	// ErrNegativeBalance rejects any transition that would drive available
	// or held funds below zero.
	ErrNegativeBalance = errors.New("transition would drive a balance negative")
)
