// Package ledger exposes the only money-moving operations of the reward
// economy. Every operation is atomic against the store: it fully applies or
// fully rolls back, and produces exactly one ledger entry (account creation
// with a referral produces the referrer's bonus entry as well).
package ledger

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	tickCtx "github.com/tickpiar/tick/services/tickapi/context"
	"github.com/tickpiar/tick/services/tickapi/db"
)

// ErrInvalidAmount is returned when a credit or debit is attempted with a
// non-positive amount.
var ErrInvalidAmount = errors.New("amount must be positive")

// Store is the slice of the datastore the ledger needs. db.Client satisfies
// it; tests substitute an in-memory fake.
type Store interface {
	AccountByID(id int64) (*db.Account, error)
	AddAccount(account *db.Account, referrerID int64, referralBonus int64) error
	ApplyEntry(accountID int64, amount int64, kind db.LedgerEntryKind, description string) (*db.LedgerEntry, error)
	DebitAccount(accountID int64, amount int64, kind db.LedgerEntryKind, description string) (*db.LedgerEntry, error)
	RecordDeposit(accountID int64, paymentRef string, stars int64, coins int64) (bool, error)
	EntriesByAccount(accountID int64, limit int) ([]db.LedgerEntry, error)
}

// Service orchestrates balance mutations against the ledger store
type Service struct {
	store  Store
	config tickCtx.Config
	log    logrus.FieldLogger
}

// NewService creates a ledger service
func NewService(store Store, config tickCtx.Config, log logrus.FieldLogger) *Service {
	return &Service{
		store:  store,
		config: config,
		log:    log.WithField("service", "ledger"),
	}
}

// OpenAccount creates the account on first interaction. A valid referral
// token credits the referrer the configured bonus and bumps their referral
// count atomically with the account's creation. A token referring to the new
// account itself, or to nobody, is treated as no referral. Calling
// OpenAccount for an existing account returns it unchanged.
func (s *Service) OpenAccount(id int64, username string, firstName string, referralToken string) (*db.Account, error) {
	existing, err := s.store.AccountByID(id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	referrerID := ParseReferralToken(referralToken)
	if referrerID == id {
		referrerID = 0
	}
	if referrerID != 0 {
		referrer, err := s.store.AccountByID(referrerID)
		if err != nil {
			return nil, err
		}
		if referrer == nil {
			referrerID = 0
		}
	}

	account := &db.Account{
		ID:         id,
		Username:   username,
		FirstName:  firstName,
		ReferredBy: referrerID,
	}
	err = s.store.AddAccount(account, referrerID, s.config.Rewards.ReferralBonus)
	if errors.Is(err, db.ErrAccountExists) {
		// Lost a race against a concurrent first interaction for the same id.
		return s.Account(id)
	}
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"account":  id,
		"referrer": referrerID,
	}).Info("account opened")

	return account, nil
}

// Credit applies a positive balance change
func (s *Service) Credit(accountID int64, amount int64, kind db.LedgerEntryKind, description string) (*db.LedgerEntry, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.store.ApplyEntry(accountID, amount, kind, description)
}

// Debit applies a negative balance change after verifying the balance covers
// it. The check and the entry are one atomic unit in the store; on
// ErrInsufficientFunds nothing is applied.
func (s *Service) Debit(accountID int64, amount int64, kind db.LedgerEntryKind, description string) (*db.LedgerEntry, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.store.DebitAccount(accountID, amount, kind, description)
}

// RecordDeposit converts a confirmed Stars payment into coins and credits
// them. Delivery of the same paymentRef twice credits only once; the replay
// returns 0 coins credited and no error.
func (s *Service) RecordDeposit(accountID int64, paymentRef string, stars int64) (int64, error) {
	if stars <= 0 {
		return 0, ErrInvalidAmount
	}
	coins := stars * s.config.Payment.StarsExchangeRate

	applied, err := s.store.RecordDeposit(accountID, paymentRef, stars, coins)
	if err != nil {
		return 0, err
	}
	if !applied {
		s.log.WithFields(logrus.Fields{
			"account":     accountID,
			"payment_ref": paymentRef,
		}).Warn("duplicate payment confirmation ignored")
		return 0, nil
	}

	return coins, nil
}

// Account returns the account, failing with db.ErrAccountNotFound when it
// does not exist
func (s *Service) Account(accountID int64) (*db.Account, error) {
	account, err := s.store.AccountByID(accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, db.ErrAccountNotFound
	}
	return account, nil
}

// History returns the account's ledger entries, newest first
func (s *Service) History(accountID int64, limit int) ([]db.LedgerEntry, error) {
	return s.store.EntriesByAccount(accountID, limit)
}

// ReferralLink builds the account's referral deep link
func (s *Service) ReferralLink(accountID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=_%d", s.config.App.BotName, accountID)
}

// ParseReferralToken extracts the referrer id from a start token of the form
// "_<id>". Anything else yields 0 (no referral).
func ParseReferralToken(token string) int64 {
	token = strings.TrimSpace(token)
	if !strings.HasPrefix(token, "_") {
		return 0
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(token, "_"), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
