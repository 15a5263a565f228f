package services

import (
	"errors"
	"fmt"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAccountFrozen     = errors.New("account is frozen")
	ErrOperationFailed   = errors.New("operation failed")
	ErrValidation        = errors.New("validation failed")
)

// OperationError is returned when every retry attempt hit lock contention.
// It matches both ErrOperationFailed and the last underlying cause.
type OperationError struct {
	Op        string
	AccountID int64
	Attempts  int
	Err       error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s on account %d failed after %d attempts: %v", e.Op, e.AccountID, e.Attempts, e.Err)
}

func (e *OperationError) Unwrap() []error {
	return []error{ErrOperationFailed, e.Err}
}

// ValidationError rejects input before the store is touched
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func validationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindValidation
	KindAccountNotFound
	KindUserNotFound
	KindInsufficientFunds
	KindAccountFrozen
	KindOperationFailed
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindAccountNotFound:
		return "account_not_found"
	case KindUserNotFound:
		return "user_not_found"
	case KindInsufficientFunds:
		return "insufficient_funds"
	case KindAccountFrozen:
		return "account_frozen"
	case KindOperationFailed:
		return "operation_failed"
	default:
		return "internal"
	}
}

// Expected reports whether the kind is an ordinary business outcome the caller
// should report to the user rather than treat as a failure of the system.
func (k ErrorKind) Expected() bool {
	switch k {
	case KindValidation, KindAccountNotFound, KindUserNotFound, KindInsufficientFunds, KindAccountFrozen:
		return true
	default:
		return false
	}
}

// KindOf classifies err. OperationFailed is checked first since it also wraps its cause.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrOperationFailed):
		return KindOperationFailed
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrAccountNotFound):
		return KindAccountNotFound
	case errors.Is(err, ErrUserNotFound):
		return KindUserNotFound
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, ErrAccountFrozen):
		return KindAccountFrozen
	default:
		return KindInternal
	}
}

// Message is the text shown to an end user for err
func Message(err error) string {
	switch KindOf(err) {
	case KindNone:
		return ""
	case KindValidation:
		var ve *ValidationError
		if errors.As(err, &ve) {
			return "Invalid input: " + ve.Error()
		}
		return "Invalid input."
	case KindAccountNotFound:
		return "Account not found."
	case KindUserNotFound:
		return "User not found."
	case KindInsufficientFunds:
		return "Insufficient funds."
	case KindAccountFrozen:
		return "This account is frozen."
	case KindOperationFailed:
		return "The bank is busy right now. Please try again."
	default:
		return "An unexpected error occurred."
	}
}
