package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse represents error response structure
type ErrorResponse struct {
	Error   string            `json:"error"`             // Error message
	Kind    string            `json:"kind,omitempty"`    // Error kind for ledger errors
	Details map[string]string `json:"details,omitempty"` // Validation details
}

// ValidationHelper provides shared validation functionality
type ValidationHelper struct {
	validator *validator.Validate
}

// NewValidationHelper creates a new validation helper
func NewValidationHelper() *ValidationHelper {
	return &ValidationHelper{
		validator: validator.New(),
	}
}

// ValidateStruct validates a struct and returns validation errors
func (vh *ValidationHelper) ValidateStruct(s any) error {
	return vh.validator.Struct(s)
}

// fromValidator turns the first failed rule into a ValidationError
func fromValidator(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{
			Field:  verrs[0].Field(),
			Reason: fmt.Sprintf("failed on the '%s' rule", verrs[0].Tag()),
		}
	}
	return &ValidationError{Reason: err.Error()}
}

// SendErrorResponse sends a JSON error response
func SendErrorResponse(w http.ResponseWriter, message string, statusCode int, validationErr error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResp := ErrorResponse{Error: message}
	var verrs validator.ValidationErrors
	if errors.As(validationErr, &verrs) {
		errorResp.Details = make(map[string]string)
		for _, err := range verrs {
			errorResp.Details[err.Field()] = fmt.Sprintf("Field Validation Failed on '%s' tag", err.Tag())
		}
	}

	json.NewEncoder(w).Encode(errorResp)
}

// SendLedgerError maps a service error onto an HTTP status and writes it
func SendLedgerError(w http.ResponseWriter, err error) {
	kind := KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case KindValidation:
		status = http.StatusBadRequest
	case KindAccountNotFound, KindUserNotFound:
		status = http.StatusNotFound
	case KindInsufficientFunds:
		status = http.StatusUnprocessableEntity
	case KindAccountFrozen:
		status = http.StatusForbidden
	case KindOperationFailed:
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: Message(err), Kind: kind.String()})
}
