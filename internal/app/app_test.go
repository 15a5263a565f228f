package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/bankingapp/ledger/internal/config"
	"github.com/bankingapp/ledger/internal/database"
	"github.com/bankingapp/ledger/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Database: config.DBConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "bank.db"), BusyTimeout: time.Second},
		Ledger:   config.LedgerConfig{MaxAttempts: 3, BackoffStrategy: "fixed", EnforceFrozen: true},
		Freeze:   config.FreezeConfig{USSDCode: "*391#"},
		Notify:   config.NotifyConfig{Backend: "log"},
	}
}

func TestNew_EndToEnd(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, database.DialectSQLite, a.Dialect)

	_, account, err := a.Accounts.RegisterUser(ctx, services.RegisterRequest{
		Name:           "Ada Lovelace",
		Address:        "12 St James's Square",
		Password:       "secret1",
		PhoneNumber:    "+447700900123",
		Email:          "ada@example.com",
		InitialDeposit: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	ok, err := a.Ledger.Authenticate(ctx, account.AccountID, "secret1")
	require.NoError(t, err)
	assert.True(t, ok)

	balance, err := a.Ledger.Withdraw(ctx, account.AccountID, decimal.NewFromInt(30))
	require.NoError(t, err)
	assert.Equal(t, "70.00", balance.StringFixed(2))
}

func TestNew_HashedPasswords(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Auth = config.AuthConfig{PasswordHasher: "bcrypt"}

	a, err := New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	user, account, err := a.Accounts.RegisterUser(ctx, services.RegisterRequest{
		Name: "Grace Hopper", Address: "Arlington", Password: "cobol60", PhoneNumber: "+15550100", Email: "grace@example.com",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "cobol60", user.Password)

	ok, err := a.Ledger.Authenticate(ctx, account.AccountID, "cobol60")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNew_UnknownHasher(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.PasswordHasher = "md5"

	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
