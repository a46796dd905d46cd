package domain

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// SettingsStore abstracts persistent storage of the app-lock settings record.
// Implemented by infra/sqlite.DB; tests substitute an in-memory store.
type SettingsStore interface {
	// LoadAppLockSettings returns the stored record, or (nil, nil) when no
	// record has been saved yet. Absence is not an error.
	LoadAppLockSettings() (*AppLockSettings, error)

	// SaveAppLockSettings replaces the stored record.
	SaveAppLockSettings(AppLockSettings) error
}

// TransactionStore abstracts persistent storage of the personal ledger.
// RecordTransaction is atomic: the transaction row, the balance reads the
// pair callback sees, and both ledger entries commit or roll back together.
type TransactionStore interface {
	RecordTransaction(tx Transaction, pair func(cashBal, extBal int64) (debit, credit LedgerEntry)) error
	DeleteTransaction(id string) error
	AccountBalance(account string) (int64, error)
	ListTransactions(limit int) ([]Transaction, error)
	TransactionsBetween(from, to int64) ([]Transaction, error)
}
