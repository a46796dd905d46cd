package domain

import "time"

// ─── Personal Ledger ────────────────────────────────────────────────────────
// Double-entry bookkeeping: every transaction creates matched DEBIT/CREDIT
// entries. SUM(debits) == SUM(credits) is an invariant.

// TxKind classifies a transaction from the user's point of view.
type TxKind string

const (
	TxIncome  TxKind = "income"
	TxExpense TxKind = "expense"
)

// EntrySide is the side of a ledger entry.
type EntrySide string

const (
	EntryDebit  EntrySide = "debit"
	EntryCredit EntrySide = "credit"
)

// Ledger account names. "cash" is the user's balance; "external" is the
// outside world the money comes from or goes to.
const (
	AccountCash     = "cash"
	AccountExternal = "external"
)

// Transaction is a single user-visible income or expense record.
// Amounts are integer cents to avoid float drift.
type Transaction struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Kind        TxKind    `json:"kind"`
	Category    string    `json:"category"`
	AmountCents int64     `json:"amount_cents"`
	Note        string    `json:"note,omitempty"`
}

// LedgerEntry is one half of a double-entry pair.
type LedgerEntry struct {
	ID          int64     `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	TxID        string    `json:"tx_id"`
	Side        EntrySide `json:"side"`
	Account     string    `json:"account"`
	AmountCents int64     `json:"amount_cents"`
	Balance     int64     `json:"balance"`
}

// MonthlySummary aggregates a calendar month of transactions.
type MonthlySummary struct {
	Year         int              `json:"year"`
	Month        time.Month       `json:"month"`
	IncomeCents  int64            `json:"income_cents"`
	ExpenseCents int64            `json:"expense_cents"`
	ByCategory   map[string]int64 `json:"by_category"`
}

// NetCents returns income minus expenses for the month.
func (m MonthlySummary) NetCents() int64 {
	return m.IncomeCents - m.ExpenseCents
}
