package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure; no infrastructure dependency.

var (
	// App-lock errors
	ErrUnknownLifecyclePhase = errors.New("unknown lifecycle phase")
	ErrNotInitialized        = errors.New("app lock not initialized")

	// Ledger errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidAmount       = errors.New("transaction amount must be positive")
	ErrUnknownTxKind       = errors.New("unknown transaction kind")
)
