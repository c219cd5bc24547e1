package db

import (
	"github.com/go-pg/pg"
)

// LedgerEntry is an immutable record of one balance change. The sum of all
// entries for an account always equals that account's current balance.
type LedgerEntry struct {
	Timestamps

	ID          int64           `json:"id"`
	AccountID   int64           `json:"account_id"`
	Amount      int64           `json:"amount"`
	Kind        LedgerEntryKind `json:"kind"`
	Description string          `json:"description"`
}

// LedgerEntryKind represents the business reason for an entry
type LedgerEntryKind string

const (
	LedgerEntryKindReferralBonus LedgerEntryKind = "referral_bonus"
	LedgerEntryKindTaskReward    LedgerEntryKind = "task_reward"
	LedgerEntryKindTaskPayment   LedgerEntryKind = "task_payment"
	LedgerEntryKindDeposit       LedgerEntryKind = "deposit"
)

// applyEntryTx inserts a ledger entry and moves the account's balance by the
// entry's amount inside the given transaction. The two writes commit or roll
// back together with whatever else the transaction carries.
//
// The balance update runs first: a missing account must surface as
// ErrAccountNotFound, not as a foreign key failure on the entry insert.
func applyEntryTx(tx *pg.Tx, accountID int64, amount int64, kind LedgerEntryKind, description string) (*LedgerEntry, error) {
	res, err := tx.Exec(
		`UPDATE accounts SET balance = balance + ?, updated_at = now() WHERE id = ?`,
		amount, accountID,
	)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected() == 0 {
		return nil, ErrAccountNotFound
	}

	entry := &LedgerEntry{
		AccountID:   accountID,
		Amount:      amount,
		Kind:        kind,
		Description: description,
	}
	err = tx.Insert(entry)
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// ApplyEntry records a ledger entry and updates the account balance as one
// atomic unit. It does not enforce a non-negative balance; callers that need
// a sufficiency check must use DebitAccount instead.
func (c *Client) ApplyEntry(accountID int64, amount int64, kind LedgerEntryKind, description string) (*LedgerEntry, error) {
	var entry *LedgerEntry
	err := c.RunInTransaction(func(tx *pg.Tx) error {
		var err error
		entry, err = applyEntryTx(tx, accountID, amount, kind, description)
		return err
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return entry, nil
}

// DebitAccount verifies the balance covers amount and applies the negated
// entry, all inside one transaction with the account row locked. On
// ErrInsufficientFunds nothing is written.
func (c *Client) DebitAccount(accountID int64, amount int64, kind LedgerEntryKind, description string) (*LedgerEntry, error) {
	var entry *LedgerEntry
	err := c.RunInTransaction(func(tx *pg.Tx) error {
		account := new(Account)
		err := tx.Model(account).Where("id = ?", accountID).For("UPDATE").First()
		if err == pg.ErrNoRows {
			return ErrAccountNotFound
		}
		if err != nil {
			return err
		}

		if account.Balance < amount {
			return ErrInsufficientFunds
		}

		entry, err = applyEntryTx(tx, accountID, -amount, kind, description)
		return err
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return entry, nil
}

// EntriesByAccount returns the account's ledger entries, newest first
func (c *Client) EntriesByAccount(accountID int64, limit int) ([]LedgerEntry, error) {
	entries := make([]LedgerEntry, 0)
	err := c.Model(&entries).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Select()
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	return entries, nil
}
