package db

import (
	"fmt"

	"github.com/go-pg/pg"
)

// Account is a user's balance and referral metadata. The ID is the stable
// identifier assigned by the conversational front end.
type Account struct {
	Timestamps

	ID            int64  `json:"id" sql:",pk"`
	Username      string `json:"username"`
	FirstName     string `json:"first_name"`
	Balance       int64  `json:"balance" sql:",notnull"`
	ReferralCount int64  `json:"referral_count" sql:",notnull"`
	ReferredBy    int64  `json:"referred_by"`
}

// AccountByID selects an account by ID
func (c *Client) AccountByID(id int64) (*Account, error) {
	var account Account
	err := c.Model(&account).Where("id = ?", id).First()
	if err == pg.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return &account, nil
}

// AddAccount inserts a new account. When referrerID is non-zero the insert,
// the referrer's counter increment and the referrer's bonus credit are one
// atomic unit: either all of them happen or none do.
func (c *Client) AddAccount(account *Account, referrerID int64, referralBonus int64) error {
	err := c.RunInTransaction(func(tx *pg.Tx) error {
		err := tx.Insert(account)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrAccountExists
			}
			return err
		}

		if referrerID == 0 {
			return nil
		}

		res, err := tx.Exec(
			`UPDATE accounts SET referral_count = referral_count + 1, updated_at = now() WHERE id = ?`,
			referrerID,
		)
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return ErrAccountNotFound
		}

		description := fmt.Sprintf("Referral bonus for inviting user %d", account.ID)
		_, err = applyEntryTx(tx, referrerID, referralBonus, LedgerEntryKindReferralBonus, description)
		return err
	})
	return wrapStoreErr(err)
}
