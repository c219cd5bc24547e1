package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapStoreErr(t *testing.T) {
	testCases := []struct {
		desc     string
		err      error
		expected error
	}{
		{
			desc:     "Nil error",
			err:      nil,
			expected: nil,
		},
		{
			desc:     "Account not found passes through",
			err:      ErrAccountNotFound,
			expected: ErrAccountNotFound,
		},
		{
			desc:     "Account exists passes through",
			err:      ErrAccountExists,
			expected: ErrAccountExists,
		},
		{
			desc:     "Insufficient funds passes through",
			err:      ErrInsufficientFunds,
			expected: ErrInsufficientFunds,
		},
		{
			desc:     "Wrapped business condition passes through",
			err:      fmt.Errorf("completing: %w", ErrAlreadyCompleted),
			expected: ErrAlreadyCompleted,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			wrapped := wrapStoreErr(tC.err)
			if tC.expected == nil {
				assert.NoError(t, wrapped)
				return
			}
			assert.True(t, errors.Is(wrapped, tC.expected))
			assert.False(t, errors.Is(wrapped, ErrStoreUnavailable))
		})
	}

	// anything else is a store failure
	wrapped := wrapStoreErr(errors.New("connection refused"))
	assert.True(t, errors.Is(wrapped, ErrStoreUnavailable))
}
