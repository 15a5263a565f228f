package handlers

import (
	"context"
	"net/http"

	"github.com/bankingapp/ledger/internal/models"
	"github.com/bankingapp/ledger/internal/services"
	"go.uber.org/zap"
)

type Accounts interface {
	RegisterUser(ctx context.Context, req services.RegisterRequest) (*models.User, *models.Account, error)
	CreateAccount(ctx context.Context, userID int64, accountType models.AccountType) (*models.Account, error)
	GetAccount(ctx context.Context, accountID int64) (*models.Account, error)
	ListAccounts(ctx context.Context, userID int64) ([]models.Account, error)
	History(ctx context.Context, accountID int64, limit int) ([]models.Transaction, error)
}

type CreateAccountRequest struct {
	UserID      int64  `json:"userId" validate:"required,gt=0" example:"12345678901"`
	AccountType string `json:"accountType" validate:"required,oneof=Savings Current" example:"Current"`
}

type LoginRequest struct {
	AccountID int64  `json:"accountId" validate:"required,gt=0" example:"1234567890"`
	Password  string `json:"password" validate:"required" example:"secret1"`
}

type RegisterResponse struct {
	User    *models.User    `json:"user"`
	Account *models.Account `json:"account"`
}

type AccountHandler struct {
	accounts  Accounts
	ledger    Ledger
	validator *services.ValidationHelper
	logger    *zap.Logger
}

func NewAccountHandler(accounts Accounts, ledger Ledger, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		accounts:  accounts,
		ledger:    ledger,
		validator: services.NewValidationHelper(),
		logger:    logger,
	}
}

// Register creates a user with a Savings account
// @Router /users [post]
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	user, account, err := h.accounts.RegisterUser(r.Context(), req)
	if err != nil {
		h.logger.Warn("[HTTP] Registration failed", zap.Error(err))
		services.SendLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, RegisterResponse{User: user, Account: account})
}

// CreateAccount opens another account for an existing user
// @Router /accounts [post]
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	account, err := h.accounts.CreateAccount(r.Context(), req.UserID, models.AccountType(req.AccountType))
	if err != nil {
		services.SendLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

// Login checks an account ID and password pair and returns the account
// @Router /auth/login [post]
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	ok, err := h.ledger.Authenticate(r.Context(), req.AccountID, req.Password)
	if err != nil {
		h.logger.Error("[HTTP] Login lookup failed", zap.Error(err))
		services.SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}
	if !ok {
		services.SendErrorResponse(w, "Invalid account ID or password", http.StatusUnauthorized, nil)
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), req.AccountID)
	if err != nil {
		services.SendLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// ListAccounts returns every account owned by the user
// @Router /users/{userId}/accounts [get]
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := int64Param(r, "userId")
	if !ok {
		services.SendErrorResponse(w, "Invalid user ID", http.StatusBadRequest, nil)
		return
	}

	accounts, err := h.accounts.ListAccounts(r.Context(), userID)
	if err != nil {
		services.SendLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}
