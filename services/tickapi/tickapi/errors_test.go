package tickapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tickpiar/tick/services/tickapi/db"
	"github.com/tickpiar/tick/services/tickapi/ledger"
	"github.com/tickpiar/tick/services/tickapi/marketplace"
)

func TestErrorStatus(t *testing.T) {
	testCases := []struct {
		desc     string
		err      error
		expected int
	}{
		{
			desc:     "Account not found",
			err:      db.ErrAccountNotFound,
			expected: http.StatusNotFound,
		},
		{
			desc:     "Task not found",
			err:      db.ErrTaskNotFound,
			expected: http.StatusNotFound,
		},
		{
			desc:     "Insufficient funds",
			err:      db.ErrInsufficientFunds,
			expected: http.StatusUnprocessableEntity,
		},
		{
			desc:     "Invalid amount",
			err:      ledger.ErrInvalidAmount,
			expected: http.StatusUnprocessableEntity,
		},
		{
			desc:     "Invalid task parameters, wrapped",
			err:      fmt.Errorf("%w: reward must be between 15 and 50", marketplace.ErrInvalidTaskParameters),
			expected: http.StatusUnprocessableEntity,
		},
		{
			desc:     "Already completed",
			err:      db.ErrAlreadyCompleted,
			expected: http.StatusConflict,
		},
		{
			desc:     "Task inactive",
			err:      db.ErrTaskInactive,
			expected: http.StatusConflict,
		},
		{
			desc:     "Budget exhausted",
			err:      db.ErrBudgetExhausted,
			expected: http.StatusConflict,
		},
		{
			desc:     "Store failure",
			err:      fmt.Errorf("%w: connection refused", db.ErrStoreUnavailable),
			expected: http.StatusInternalServerError,
		},
		{
			desc:     "Unknown error",
			err:      errors.New("boom"),
			expected: http.StatusInternalServerError,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.expected, errorStatus(tC.err))
		})
	}
}
