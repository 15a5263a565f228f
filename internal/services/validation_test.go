package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		Name:        "Ada Lovelace",
		Address:     "12 St James's Square",
		Password:    "secret1",
		PhoneNumber: "+447700900123",
		Email:       "ada@example.com",
	}
}

func TestValidationHelper_ValidateStruct(t *testing.T) {
	vh := NewValidationHelper()

	t.Run("valid request", func(t *testing.T) {
		req := validRegisterRequest()
		assert.NoError(t, vh.ValidateStruct(&req))
	})

	t.Run("missing required fields", func(t *testing.T) {
		req := RegisterRequest{Name: "A"}

		err := vh.ValidateStruct(&req)
		require.Error(t, err)

		validationErrors, ok := err.(validator.ValidationErrors)
		require.True(t, ok)
		assert.Len(t, validationErrors, 5) // Name, Address, Password, PhoneNumber, Email
	})

	t.Run("invalid email format", func(t *testing.T) {
		req := validRegisterRequest()
		req.Email = "invalid-email"

		err := vh.ValidateStruct(&req)
		require.Error(t, err)

		validationErrors, ok := err.(validator.ValidationErrors)
		require.True(t, ok)
		assert.Len(t, validationErrors, 1)
		assert.Equal(t, "Email", validationErrors[0].Field())
		assert.Equal(t, "email", validationErrors[0].Tag())
	})
}

func TestFromValidator(t *testing.T) {
	req := validRegisterRequest()
	req.Email = "nope"

	err := fromValidator(NewValidationHelper().ValidateStruct(&req))
	assert.ErrorIs(t, err, ErrValidation)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Email", ve.Field)
	assert.Contains(t, ve.Reason, "email")
}

func TestSendErrorResponse(t *testing.T) {
	t.Run("error response without validation errors", func(t *testing.T) {
		w := httptest.NewRecorder()

		SendErrorResponse(w, "Something went wrong", http.StatusInternalServerError, nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Something went wrong", response.Error)
		assert.Nil(t, response.Details)
	})

	t.Run("error response with validation errors", func(t *testing.T) {
		req := RegisterRequest{}
		verr := NewValidationHelper().ValidateStruct(&req)

		w := httptest.NewRecorder()
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, verr)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Validation failed", response.Error)
		assert.Contains(t, response.Details, "Email")
		assert.Contains(t, response.Details, "Name")
	})
}

func TestSendLedgerError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"validation", validationError("amount", "must be greater than zero"), http.StatusBadRequest, "validation"},
		{"account not found", fmt.Errorf("account 1: %w", ErrAccountNotFound), http.StatusNotFound, "account_not_found"},
		{"insufficient funds", ErrInsufficientFunds, http.StatusUnprocessableEntity, "insufficient_funds"},
		{"frozen", ErrAccountFrozen, http.StatusForbidden, "account_frozen"},
		{"operation failed", &OperationError{Op: "withdraw", AccountID: 1, Attempts: 3, Err: errors.New("busy")}, http.StatusServiceUnavailable, "operation_failed"},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			SendLedgerError(w, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.kind, response.Kind)
			assert.Equal(t, Message(tt.err), response.Error)
		})
	}
}
