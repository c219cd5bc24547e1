package db

import (
	"fmt"

	"github.com/go-pg/pg"
	"github.com/google/uuid"
)

// ProcessedPayment marks one external payment as credited. The unique
// payment_ref column makes deposit delivery replay-safe: the same provider
// confirmation can arrive more than once but credits at most once.
type ProcessedPayment struct {
	Timestamps

	ID         uuid.UUID `json:"id" sql:",pk,type:uuid"`
	AccountID  int64     `json:"account_id"`
	PaymentRef string    `json:"payment_ref"`
	Stars      int64     `json:"stars"`
	Coins      int64     `json:"coins"`
}

// RecordDeposit credits coins for a confirmed external payment and records
// the payment reference, as one atomic unit. It returns false without any
// side effects when the reference was already processed.
func (c *Client) RecordDeposit(accountID int64, paymentRef string, stars int64, coins int64) (bool, error) {
	applied := false
	err := c.RunInTransaction(func(tx *pg.Tx) error {
		account := new(Account)
		err := tx.Model(account).Where("id = ?", accountID).For("UPDATE").First()
		if err == pg.ErrNoRows {
			return ErrAccountNotFound
		}
		if err != nil {
			return err
		}

		payment := &ProcessedPayment{
			ID:         uuid.New(),
			AccountID:  accountID,
			PaymentRef: paymentRef,
			Stars:      stars,
			Coins:      coins,
		}
		res, err := tx.Model(payment).
			OnConflict("(payment_ref) DO NOTHING").
			Insert()
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			// Replay of a payment confirmation already credited.
			return nil
		}

		description := fmt.Sprintf("Deposit via Telegram Stars: %d", stars)
		_, err = applyEntryTx(tx, accountID, coins, LedgerEntryKindDeposit, description)
		if err != nil {
			return err
		}

		applied = true
		return nil
	})
	if err != nil {
		return false, wrapStoreErr(err)
	}
	return applied, nil
}
