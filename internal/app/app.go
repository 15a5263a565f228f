// Package app wires the store, notifier and services that every front end shares.
package app

import (
	"context"
	"database/sql"
	"errors"
	"io"

	"github.com/bankingapp/ledger/internal/audit"
	"github.com/bankingapp/ledger/internal/config"
	"github.com/bankingapp/ledger/internal/database"
	"github.com/bankingapp/ledger/internal/notify"
	"github.com/bankingapp/ledger/internal/services"
	"go.uber.org/zap"
)

type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	DB       *sql.DB
	Dialect  database.Dialect
	Ledger   *services.LedgerService
	Accounts *services.AccountService

	notifierCloser io.Closer
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	hasher, err := services.NewPasswordHasher(cfg.Auth)
	if err != nil {
		return nil, err
	}
	if _, ok := hasher.(services.PlaintextHasher); ok {
		logger.Warn("[APP] Passwords are stored and compared in plaintext; set AUTH_PASSWORD_HASHER=argon2 or bcrypt outside of demos")
	}

	db, dialect, err := database.InitDB(cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	notifier, closer := notify.New(ctx, cfg.Notify, logger)
	logger.Info("[APP] Notification backend ready", zap.String("backend", notify.Describe(notifier)))

	ledger := services.NewLedgerService(db, dialect, services.LedgerOptions{
		Retry: services.RetryPolicy{
			MaxAttempts: cfg.Ledger.MaxAttempts,
			Backoff:     cfg.Ledger.Backoff,
			Strategy:    cfg.Ledger.BackoffStrategy,
		},
		Hasher:        hasher,
		Notifier:      notifier,
		Audit:         audit.NewAuditLogger(logger),
		Logger:        logger,
		EnforceFrozen: cfg.Ledger.EnforceFrozen,
		FreezeCode:    cfg.Freeze.USSDCode,
	})

	accounts := services.NewAccountService(db, services.AccountOptions{
		IDs:    services.RandomIDGenerator{},
		Hasher: hasher,
		Logger: logger,
	})

	return &App{
		Config:         cfg,
		Logger:         logger,
		DB:             db,
		Dialect:        dialect,
		Ledger:         ledger,
		Accounts:       accounts,
		notifierCloser: closer,
	}, nil
}

func (a *App) Close() error {
	return errors.Join(a.notifierCloser.Close(), a.DB.Close())
}
