package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/bankingapp/ledger/internal/middleware"
	"github.com/bankingapp/ledger/internal/models"
	"github.com/bankingapp/ledger/internal/services"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Ledger interface {
	Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (decimal.Decimal, error)
	Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (decimal.Decimal, error)
	GetBalance(ctx context.Context, accountID int64) (decimal.Decimal, error)
	FreezeWithCode(ctx context.Context, code string, accountID int64) (bool, error)
	Authenticate(ctx context.Context, accountID int64, password string) (bool, error)
}

type HistoryReader interface {
	History(ctx context.Context, accountID int64, limit int) ([]models.Transaction, error)
}

// AmountRequest is the body of deposit and withdraw calls
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" example:"30.00"`
}

type FreezeRequest struct {
	Code string `json:"code" validate:"required" example:"*391#"`
}

type BalanceResponse struct {
	AccountID int64           `json:"accountId"`
	Balance   decimal.Decimal `json:"balance"`
}

type FreezeResponse struct {
	AccountID int64 `json:"accountId"`
	Affected  bool  `json:"affected"`
}

type LedgerHandler struct {
	ledger    Ledger
	history   HistoryReader
	validator *services.ValidationHelper
	logger    *zap.Logger
}

func NewLedgerHandler(ledger Ledger, history HistoryReader, logger *zap.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledger:    ledger,
		history:   history,
		validator: services.NewValidationHelper(),
		logger:    logger,
	}
}

// GetBalance returns the current balance of the authenticated account
// @Router /accounts/{accountId}/balance [get]
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	balance, err := h.ledger.GetBalance(r.Context(), accountID)
	if err != nil {
		services.SendLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceResponse{AccountID: accountID, Balance: balance})
}

// Deposit credits the authenticated account
// @Router /accounts/{accountId}/deposit [post]
func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.ledger.Deposit)
}

// Withdraw debits the authenticated account
// @Router /accounts/{accountId}/withdraw [post]
func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.ledger.Withdraw)
}

func (h *LedgerHandler) move(w http.ResponseWriter, r *http.Request, op func(context.Context, int64, decimal.Decimal) (decimal.Decimal, error)) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	var req AmountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	balance, err := op(r.Context(), accountID, req.Amount)
	if err != nil {
		if !services.KindOf(err).Expected() {
			h.logger.Error("[HTTP] Ledger operation failed", zap.String("path", r.URL.Path), zap.Error(err))
		}
		services.SendLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceResponse{AccountID: accountID, Balance: balance})
}

// Freeze freezes the authenticated account when the USSD code matches
// @Router /accounts/{accountId}/freeze [post]
func (h *LedgerHandler) Freeze(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	var req FreezeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	affected, err := h.ledger.FreezeWithCode(r.Context(), req.Code, accountID)
	if err != nil {
		services.SendLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FreezeResponse{AccountID: accountID, Affected: affected})
}

// Transactions lists the account's transactions, newest first. ?limit=N caps the result.
// @Router /accounts/{accountId}/transactions [get]
func (h *LedgerHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			services.SendErrorResponse(w, "limit must be a non-negative integer", http.StatusBadRequest, nil)
			return
		}
		limit = n
	}

	history, err := h.history.History(r.Context(), accountID, limit)
	if err != nil {
		services.SendLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
