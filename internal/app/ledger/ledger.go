// Package ledger implements the double-entry personal ledger.
// Every income or expense creates matched DEBIT/CREDIT entries against the
// "cash" and "external" accounts. SUM(debits) == SUM(credits) is an
// invariant.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/coinkeep/coinkeep/internal/domain"
	"github.com/coinkeep/coinkeep/internal/infra/metrics"
	"github.com/coinkeep/coinkeep/internal/infra/sqlite"
)

// Service manages the user's transaction history and balances.
type Service struct {
	db *sqlite.DB
}

// NewService creates a ledger service.
func NewService(db *sqlite.DB) *Service {
	return &Service{db: db}
}

// Balance returns the current cash balance in cents.
func (s *Service) Balance() (int64, error) {
	return s.db.AccountBalance(domain.AccountCash)
}

// RecordIncome records money coming in: DEBIT external, CREDIT cash.
func (s *Service) RecordIncome(amountCents int64, category, note string) (domain.Transaction, error) {
	return s.record(domain.TxIncome, amountCents, category, note)
}

// RecordExpense records money going out: DEBIT cash, CREDIT external.
// A negative cash balance is allowed; this is a tracker, not a bank.
func (s *Service) RecordExpense(amountCents int64, category, note string) (domain.Transaction, error) {
	return s.record(domain.TxExpense, amountCents, category, note)
}

func (s *Service) record(kind domain.TxKind, amountCents int64, category, note string) (domain.Transaction, error) {
	var zero domain.Transaction
	if amountCents <= 0 {
		return zero, fmt.Errorf("%w: got %d", domain.ErrInvalidAmount, amountCents)
	}

	now := time.Now()
	tx := domain.Transaction{
		ID:          uuid.NewString(),
		Timestamp:   now,
		Kind:        kind,
		Category:    strings.TrimSpace(category),
		AmountCents: amountCents,
		Note:        note,
	}
	// One SQL transaction for the row, the balance reads and both entries:
	// no partial write can break SUM(debits) == SUM(credits), and concurrent
	// writers cannot interleave between read and insert.
	err := s.db.RecordTransaction(tx, func(cashBal, extBal int64) (domain.LedgerEntry, domain.LedgerEntry) {
		return entryPair(tx, cashBal, extBal)
	})
	if err != nil {
		return zero, fmt.Errorf("record %s: %w", kind, err)
	}

	metrics.TransactionsRecorded.WithLabelValues(string(kind)).Inc()
	if newBal, err := s.db.AccountBalance(domain.AccountCash); err == nil {
		metrics.CashBalance.Set(float64(newBal))
	}
	return tx, nil
}

// entryPair builds the matched DEBIT/CREDIT rows for a transaction.
func entryPair(tx domain.Transaction, cashBal, extBal int64) (debit, credit domain.LedgerEntry) {
	base := domain.LedgerEntry{
		Timestamp:   tx.Timestamp,
		TxID:        tx.ID,
		AmountCents: tx.AmountCents,
	}

	debit, credit = base, base
	debit.Side, credit.Side = domain.EntryDebit, domain.EntryCredit

	if tx.Kind == domain.TxIncome {
		debit.Account = domain.AccountExternal
		debit.Balance = extBal - tx.AmountCents
		credit.Account = domain.AccountCash
		credit.Balance = cashBal + tx.AmountCents
		return debit, credit
	}

	debit.Account = domain.AccountCash
	debit.Balance = cashBal - tx.AmountCents
	credit.Account = domain.AccountExternal
	credit.Balance = extBal + tx.AmountCents
	return debit, credit
}

// History returns the most recent transactions, newest first.
func (s *Service) History(limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.db.ListTransactions(limit)
}

// Delete removes a transaction and its ledger entries.
func (s *Service) Delete(id string) error {
	return s.db.DeleteTransaction(id)
}

// MonthlySummary aggregates one calendar month in the given location.
func (s *Service) MonthlySummary(year int, month time.Month, loc *time.Location) (domain.MonthlySummary, error) {
	if loc == nil {
		loc = time.Local
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	to := from.AddDate(0, 1, 0)

	txs, err := s.db.TransactionsBetween(from.Unix(), to.Unix())
	if err != nil {
		return domain.MonthlySummary{}, fmt.Errorf("query month: %w", err)
	}

	summary := domain.MonthlySummary{
		Year:       year,
		Month:      month,
		ByCategory: make(map[string]int64),
	}
	for _, tx := range txs {
		switch tx.Kind {
		case domain.TxIncome:
			summary.IncomeCents += tx.AmountCents
		case domain.TxExpense:
			summary.ExpenseCents += tx.AmountCents
			summary.ByCategory[tx.Category] += tx.AmountCents
		}
	}
	return summary, nil
}
