package sqlite

import (
	"database/sql"
	"time"

	"github.com/coinkeep/coinkeep/internal/domain"
)

// ─── Transactions ───────────────────────────────────────────────────────────

// InsertTransaction inserts a user-visible transaction record.
func (d *DB) InsertTransaction(tx domain.Transaction) error {
	_, err := d.db.Exec(
		`INSERT INTO transactions (id, timestamp, kind, category, amount_cents, note)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Timestamp.Unix(), string(tx.Kind), tx.Category, tx.AmountCents, tx.Note,
	)
	return err
}

// GetTransaction retrieves a transaction by ID, or nil when absent.
func (d *DB) GetTransaction(id string) (*domain.Transaction, error) {
	row := d.db.QueryRow(
		`SELECT id, timestamp, kind, category, amount_cents, note
		 FROM transactions WHERE id = ?`, id,
	)
	return scanTransaction(row)
}

// ListTransactions returns the most recent transactions, newest first.
func (d *DB) ListTransactions(limit int) ([]domain.Transaction, error) {
	rows, err := d.db.Query(
		`SELECT id, timestamp, kind, category, amount_cents, note
		 FROM transactions ORDER BY timestamp DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// TransactionsBetween returns transactions with from <= timestamp < to
// (Unix seconds), oldest first.
func (d *DB) TransactionsBetween(from, to int64) ([]domain.Transaction, error) {
	rows, err := d.db.Query(
		`SELECT id, timestamp, kind, category, amount_cents, note
		 FROM transactions WHERE timestamp >= ? AND timestamp < ?
		 ORDER BY timestamp ASC`, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// DeleteTransaction removes a transaction and its ledger entries in one SQL
// transaction. Balances stay correct because AccountBalance sums the
// surviving entries rather than trusting a stored running total.
func (d *DB) DeleteTransaction(id string) error {
	sqlTx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer sqlTx.Rollback()

	result, err := sqlTx.Exec(`DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrTransactionNotFound
	}
	if _, err := sqlTx.Exec(`DELETE FROM ledger WHERE tx_id = ?`, id); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// ─── Ledger Entries ─────────────────────────────────────────────────────────

// InsertLedgerEntry inserts one half of a double-entry pair.
func (d *DB) InsertLedgerEntry(e domain.LedgerEntry) (int64, error) {
	result, err := d.db.Exec(
		`INSERT INTO ledger (timestamp, tx_id, side, account, amount_cents, balance)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Timestamp.Unix(), e.TxID, string(e.Side), e.Account, e.AmountCents, e.Balance,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// AccountBalance returns the current balance of an account, derived from its
// debit and credit entries. Summing keeps the balance correct after deletes;
// the stored balance column is only a snapshot taken at write time.
func (d *DB) AccountBalance(account string) (int64, error) {
	return accountBalance(d.db, account)
}

func accountBalance(q querier, account string) (int64, error) {
	var balance int64
	err := q.QueryRow(
		`SELECT COALESCE(SUM(CASE side WHEN 'credit' THEN amount_cents ELSE -amount_cents END), 0)
		 FROM ledger WHERE account = ?`, account,
	).Scan(&balance)
	return balance, err
}

// RecordTransaction atomically writes a transaction row and its matched
// ledger entries. pair receives the cash and external balances read inside
// the same SQL transaction, so concurrent writers cannot interleave between
// the balance read and the entry inserts, and a failure anywhere rolls the
// whole write back.
func (d *DB) RecordTransaction(tx domain.Transaction, pair func(cashBal, extBal int64) (debit, credit domain.LedgerEntry)) error {
	sqlTx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer sqlTx.Rollback()

	if _, err := sqlTx.Exec(
		`INSERT INTO transactions (id, timestamp, kind, category, amount_cents, note)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Timestamp.Unix(), string(tx.Kind), tx.Category, tx.AmountCents, tx.Note,
	); err != nil {
		return err
	}

	cashBal, err := accountBalance(sqlTx, domain.AccountCash)
	if err != nil {
		return err
	}
	extBal, err := accountBalance(sqlTx, domain.AccountExternal)
	if err != nil {
		return err
	}

	debit, credit := pair(cashBal, extBal)
	for _, e := range []domain.LedgerEntry{debit, credit} {
		if _, err := sqlTx.Exec(
			`INSERT INTO ledger (timestamp, tx_id, side, account, amount_cents, balance)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			e.Timestamp.Unix(), e.TxID, string(e.Side), e.Account, e.AmountCents, e.Balance,
		); err != nil {
			return err
		}
	}
	return sqlTx.Commit()
}

// LedgerEntries returns recent entries for an account, newest first.
func (d *DB) LedgerEntries(account string, limit int) ([]domain.LedgerEntry, error) {
	rows, err := d.db.Query(
		`SELECT id, timestamp, tx_id, side, account, amount_cents, balance
		 FROM ledger WHERE account = ? ORDER BY id DESC LIMIT ?`, account, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		var ts int64
		if err := rows.Scan(&e.ID, &ts, &e.TxID, &e.Side, &e.Account, &e.AmountCents, &e.Balance); err != nil {
			return nil, err
		}
		e.Timestamp = time.Unix(ts, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ─── Scanners ───────────────────────────────────────────────────────────────

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var tx domain.Transaction
	var ts int64
	err := s.Scan(&tx.ID, &ts, &tx.Kind, &tx.Category, &tx.AmountCents, &tx.Note)
	if err == sql.ErrNoRows {
		return nil, nil // Not found, no error
	}
	if err != nil {
		return nil, err
	}
	tx.Timestamp = time.Unix(ts, 0)
	return &tx, nil
}

func collectTransactions(rows *sql.Rows) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *tx)
	}
	return txs, rows.Err()
}
