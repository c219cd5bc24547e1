package db

import (
	"errors"
	"fmt"

	"github.com/go-pg/pg"
)

// Errors for the db module. Callers discriminate on these with errors.Is,
// never on message text.
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountExists     = errors.New("account already exists")
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskInactive      = errors.New("task is not active")
	ErrBudgetExhausted   = errors.New("task budget is exhausted")
	ErrAlreadyCompleted  = errors.New("task already completed by this user")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrStoreUnavailable  = errors.New("store unavailable")
)

// expected is the set of errors that represent business conditions rather
// than store failures. They pass through wrapStoreErr untouched.
var expected = []error{
	ErrAccountNotFound,
	ErrAccountExists,
	ErrTaskNotFound,
	ErrTaskInactive,
	ErrBudgetExhausted,
	ErrAlreadyCompleted,
	ErrInsufficientFunds,
}

// wrapStoreErr tags any unexpected error as a store failure so that callers
// can tell an I/O problem apart from a business condition.
func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	for _, e := range expected {
		if errors.Is(err, e) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	pgErr, ok := err.(pg.Error)
	return ok && pgErr.Field('C') == "23505"
}
