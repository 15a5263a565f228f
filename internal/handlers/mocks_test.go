package handlers

import (
	"context"

	"github.com/bankingapp/ledger/internal/models"
	"github.com/bankingapp/ledger/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, amount.StringFixed(2))
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedger) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, amount.StringFixed(2))
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedger) GetBalance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedger) FreezeWithCode(ctx context.Context, code string, accountID int64) (bool, error) {
	args := m.Called(ctx, code, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedger) Authenticate(ctx context.Context, accountID int64, password string) (bool, error) {
	args := m.Called(ctx, accountID, password)
	return args.Bool(0), args.Error(1)
}

type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) RegisterUser(ctx context.Context, req services.RegisterRequest) (*models.User, *models.Account, error) {
	args := m.Called(ctx, req.Email)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.User), args.Get(1).(*models.Account), args.Error(2)
}

func (m *MockAccounts) CreateAccount(ctx context.Context, userID int64, accountType models.AccountType) (*models.Account, error) {
	args := m.Called(ctx, userID, accountType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccounts) GetAccount(ctx context.Context, accountID int64) (*models.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccounts) ListAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Account), args.Error(1)
}

func (m *MockAccounts) History(ctx context.Context, accountID int64, limit int) ([]models.Transaction, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}
