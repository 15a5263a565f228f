package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bankingapp/ledger/internal/audit"
	"github.com/bankingapp/ledger/internal/database"
	"github.com/bankingapp/ledger/internal/models"
	"github.com/bankingapp/ledger/internal/notify"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerOptions carries the collaborators of a LedgerService. Zero values fall back
// to the defaults: fixed 3x100ms retries, plaintext passwords, wall clock, no notifier.
type LedgerOptions struct {
	Retry         RetryPolicy
	Hasher        PasswordHasher
	Clock         func() time.Time
	Notifier      notify.Notifier
	Audit         *audit.AuditLogger
	Logger        *zap.Logger
	EnforceFrozen bool
	FreezeCode    string
}

// LedgerService moves money in and out of accounts. Each balance change and its
// transaction record are committed together, and a balance never goes below zero.
type LedgerService struct {
	db            *sql.DB
	dialect       database.Dialect
	retry         RetryPolicy
	hasher        PasswordHasher
	now           func() time.Time
	notifier      notify.Notifier
	audit         *audit.AuditLogger
	logger        *zap.Logger
	enforceFrozen bool
	freezeCode    string
}

func NewLedgerService(db *sql.DB, dialect database.Dialect, opts LedgerOptions) *LedgerService {
	s := &LedgerService{
		db:            db,
		dialect:       dialect,
		retry:         opts.Retry,
		hasher:        opts.Hasher,
		now:           opts.Clock,
		notifier:      opts.Notifier,
		audit:         opts.Audit,
		logger:        opts.Logger,
		enforceFrozen: opts.EnforceFrozen,
		freezeCode:    opts.FreezeCode,
	}
	if s.retry.MaxAttempts == 0 {
		s.retry = DefaultRetryPolicy()
	}
	if s.hasher == nil {
		s.hasher = PlaintextHasher{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.freezeCode == "" {
		s.freezeCode = "*391#"
	}
	return s
}

func (s *LedgerService) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	return s.move(ctx, "deposit", models.TransactionDeposit, accountID, amount)
}

func (s *LedgerService) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	return s.move(ctx, "withdraw", models.TransactionWithdrawal, accountID, amount)
}

// move applies one deposit or withdrawal. op labels the operation in errors, logs and audit events.
func (s *LedgerService) move(ctx context.Context, op string, txType models.TransactionType, accountID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := validateAmount(amount); err != nil {
		s.audit.LogError(op, accountID, amount, err)
		return decimal.Zero, err
	}

	var newBalance decimal.Decimal
	attempts, err := s.runUnit(ctx, op, accountID, func(tx *sql.Tx) error {
		balance, frozen, err := s.lockAccount(ctx, tx, accountID)
		if err != nil {
			return err
		}
		if frozen && s.enforceFrozen {
			return ErrAccountFrozen
		}

		if txType == models.TransactionWithdrawal {
			if balance.LessThan(amount) {
				return ErrInsufficientFunds
			}
			newBalance = balance.Sub(amount)
		} else {
			newBalance = balance.Add(amount)
		}

		if err := s.updateBalance(ctx, tx, accountID, newBalance); err != nil {
			return err
		}
		_, err = s.appendTransaction(ctx, tx, accountID, amount, txType)
		return err
	})
	if err != nil {
		s.audit.LogError(op, accountID, amount, err)
		if KindOf(err).Expected() {
			s.logger.Info("[LEDGER] Operation rejected", zap.String("operation", op), zap.Int64("accountId", accountID), zap.Error(err))
		} else {
			s.logger.Error("[LEDGER] Operation failed", zap.String("operation", op), zap.Int64("accountId", accountID), zap.Error(err))
		}
		return decimal.Zero, err
	}

	s.audit.LogOperation(op, accountID, amount, attempts)
	s.logger.Info("[LEDGER] Operation committed",
		zap.String("operation", op),
		zap.Int64("accountId", accountID),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("balance", newBalance.StringFixed(2)),
		zap.Int("attempts", attempts))

	s.notifyOwner(ctx, accountID, fmt.Sprintf("%s of %s on account %d. New balance: %s",
		txType, amount.StringFixed(2), accountID, newBalance.StringFixed(2)))

	return newBalance, nil
}

func (s *LedgerService) GetBalance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.db.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE account_id = $1`, accountID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("account %d: %w", accountID, ErrAccountNotFound)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read balance: %w", err)
	}
	return balance, nil
}

// Freeze marks the account frozen. affected is false when the account does not
// exist or was already frozen.
func (s *LedgerService) Freeze(ctx context.Context, accountID int64) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET frozen = $1 WHERE account_id = $2 AND frozen = $3`,
		true, accountID, false)
	if err != nil {
		return false, fmt.Errorf("failed to freeze account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	affected := rowsAffected > 0
	if affected {
		s.audit.LogOperation("freeze", accountID, decimal.Zero, 1)
	} else {
		s.audit.LogNoOp("freeze", accountID, "account missing or already frozen")
	}
	s.logger.Info("[LEDGER] Freeze requested", zap.Int64("accountId", accountID), zap.Bool("affected", affected))
	return affected, nil
}

// FreezeWithCode freezes the account when code matches the configured USSD short code
func (s *LedgerService) FreezeWithCode(ctx context.Context, code string, accountID int64) (bool, error) {
	if strings.TrimSpace(code) != s.freezeCode {
		err := validationError("code", "invalid USSD code")
		s.audit.LogError("freeze", accountID, decimal.Zero, err)
		return false, err
	}
	return s.Freeze(ctx, accountID)
}

// Authenticate reports whether password belongs to the owner of the account.
// An unknown account is not an error, it simply fails authentication.
func (s *LedgerService) Authenticate(ctx context.Context, accountID int64, password string) (bool, error) {
	var stored string
	err := s.db.QueryRowContext(ctx, `
		SELECT u.password
		FROM accounts a
		JOIN users u ON u.user_id = a.user_id
		WHERE a.account_id = $1`, accountID).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load credentials: %w", err)
	}

	ok := s.hasher.Verify(password, stored)
	if !ok {
		s.logger.Warn("[LEDGER] Authentication failed", zap.Int64("accountId", accountID))
	}
	return ok, nil
}

// runUnit runs fn inside a database transaction, retrying the whole unit while the
// store reports lock contention. It returns the number of attempts used.
func (s *LedgerService) runUnit(ctx context.Context, op string, accountID int64, fn func(tx *sql.Tx) error) (int, error) {
	maxAttempts := s.retry.attempts()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := s.retry.wait(ctx, attempt-1); err != nil {
				return attempt - 1, fmt.Errorf("%s cancelled while retrying: %w", op, err)
			}
		}

		err := s.unitOfWork(ctx, fn)
		if err == nil {
			return attempt, nil
		}
		if !errors.Is(err, database.ErrLockContention) {
			return attempt, err
		}

		lastErr = err
		s.logger.Warn("[LEDGER] Lock contention",
			zap.String("operation", op),
			zap.Int64("accountId", accountID),
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", maxAttempts),
			zap.Error(err))
	}

	return maxAttempts, &OperationError{Op: op, AccountID: accountID, Attempts: maxAttempts, Err: lastErr}
}

func (s *LedgerService) unitOfWork(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return database.Classify(err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.logger.Error("[LEDGER] Rollback failed", zap.Error(rbErr))
		}
		return database.Classify(err)
	}

	return database.Classify(tx.Commit())
}

func (s *LedgerService) lockAccount(ctx context.Context, tx *sql.Tx, accountID int64) (decimal.Decimal, bool, error) {
	var (
		balance decimal.Decimal
		frozen  bool
	)
	err := tx.QueryRowContext(ctx,
		`SELECT balance, frozen FROM accounts WHERE account_id = $1`+s.dialect.LockingRead(),
		accountID).Scan(&balance, &frozen)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, false, fmt.Errorf("account %d: %w", accountID, ErrAccountNotFound)
	}
	return balance, frozen, err
}

func (s *LedgerService) updateBalance(ctx context.Context, tx *sql.Tx, accountID int64, balance decimal.Decimal) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = $1 WHERE account_id = $2`,
		balance.StringFixed(2), accountID)
	return err
}

func (s *LedgerService) appendTransaction(ctx context.Context, tx *sql.Tx, accountID int64, amount decimal.Decimal, txType models.TransactionType) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO transactions (account_id, amount, type, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING transaction_id`,
		accountID, amount.StringFixed(2), string(txType), s.now().UTC()).Scan(&id)
	return id, err
}

// notifyOwner sends message to the phone number of the account owner. Failures are logged only.
func (s *LedgerService) notifyOwner(ctx context.Context, accountID int64, message string) {
	if s.notifier == nil {
		return
	}

	var phone string
	err := s.db.QueryRowContext(ctx, `
		SELECT u.phone_number
		FROM accounts a
		JOIN users u ON u.user_id = a.user_id
		WHERE a.account_id = $1`, accountID).Scan(&phone)
	if err != nil {
		s.logger.Warn("[LEDGER] Could not resolve notification contact", zap.Int64("accountId", accountID), zap.Error(err))
		return
	}

	s.notifier.Notify(ctx, phone, message)
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return validationError("amount", "must be greater than zero")
	}
	if !amount.Equal(amount.Round(2)) {
		return validationError("amount", "must have at most 2 decimal places")
	}
	return nil
}
