package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bankingapp/ledger/internal/database"
	"github.com/stretchr/testify/assert"
)

func TestOperationError(t *testing.T) {
	cause := fmt.Errorf("%w: database is locked", database.ErrLockContention)
	err := &OperationError{Op: "withdraw", AccountID: 42, Attempts: 3, Err: cause}

	assert.ErrorIs(t, err, ErrOperationFailed)
	assert.ErrorIs(t, err, database.ErrLockContention)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, KindOperationFailed, KindOf(err))
	assert.False(t, KindOf(err).Expected())
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err      error
		kind     ErrorKind
		expected bool
	}{
		{nil, KindNone, false},
		{validationError("amount", "must be greater than zero"), KindValidation, true},
		{fmt.Errorf("account 7: %w", ErrAccountNotFound), KindAccountNotFound, true},
		{fmt.Errorf("user 7: %w", ErrUserNotFound), KindUserNotFound, true},
		{ErrInsufficientFunds, KindInsufficientFunds, true},
		{ErrAccountFrozen, KindAccountFrozen, true},
		{errors.New("connection reset"), KindInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.Equal(t, tt.expected, KindOf(tt.err).Expected())
		})
	}
}

func TestMessage_DistinctPerKind(t *testing.T) {
	errs := []error{
		validationError("amount", "must be greater than zero"),
		ErrAccountNotFound,
		ErrUserNotFound,
		ErrInsufficientFunds,
		ErrAccountFrozen,
		&OperationError{Err: database.ErrLockContention},
		errors.New("boom"),
	}

	seen := map[string]bool{}
	for _, err := range errs {
		msg := Message(err)
		assert.NotEmpty(t, msg)
		assert.False(t, seen[msg], "duplicate message %q", msg)
		seen[msg] = true
	}
	assert.Equal(t, "Invalid input: amount: must be greater than zero", Message(errs[0]))
	assert.Empty(t, Message(nil))
}
