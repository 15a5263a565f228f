package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bankingapp/ledger/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RegisterRequest represents the registration payload
type RegisterRequest struct {
	Name           string          `json:"name" validate:"required,min=2" example:"Ada Lovelace"`
	Address        string          `json:"address" validate:"required" example:"12 St James's Square"`
	Password       string          `json:"password" validate:"required,min=4" example:"secret1"`
	PhoneNumber    string          `json:"phoneNumber" validate:"required,min=7,max=20" example:"+447700900123"`
	Email          string          `json:"email" validate:"required,email" example:"ada@example.com"`
	InitialDeposit decimal.Decimal `json:"initialDeposit" example:"100.00"`
}

type AccountOptions struct {
	IDs    IDGenerator
	Hasher PasswordHasher
	Clock  func() time.Time
	Logger *zap.Logger
}

// AccountService handles users, account creation and read-only views of the ledger
type AccountService struct {
	db         *sql.DB
	ids        IDGenerator
	hasher     PasswordHasher
	now        func() time.Time
	logger     *zap.Logger
	validation *ValidationHelper
}

func NewAccountService(db *sql.DB, opts AccountOptions) *AccountService {
	s := &AccountService{
		db:         db,
		ids:        opts.IDs,
		hasher:     opts.Hasher,
		now:        opts.Clock,
		logger:     opts.Logger,
		validation: NewValidationHelper(),
	}
	if s.ids == nil {
		s.ids = RandomIDGenerator{}
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
	return s
}

// RegisterUser creates the user together with a Savings account holding the initial deposit
func (s *AccountService) RegisterUser(ctx context.Context, req RegisterRequest) (*models.User, *models.Account, error) {
	if err := s.validation.ValidateStruct(req); err != nil {
		return nil, nil, fromValidator(err)
	}
	if req.InitialDeposit.IsNegative() {
		return nil, nil, validationError("initialDeposit", "must not be negative")
	}
	if !req.InitialDeposit.Equal(req.InitialDeposit.Round(2)) {
		return nil, nil, validationError("initialDeposit", "must have at most 2 decimal places")
	}

	userID, err := s.ids.UserID()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate user id: %w", err)
	}
	accountID, err := s.ids.AccountID()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate account id: %w", err)
	}
	stored, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		UserID:      userID,
		Name:        req.Name,
		Address:     req.Address,
		Password:    stored,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
	}
	account := &models.Account{
		AccountID:   accountID,
		UserID:      userID,
		AccountType: models.AccountTypeSavings,
		Balance:     req.InitialDeposit,
		CreatedAt:   s.now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO users (user_id, name, address, password, phone_number, email)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		user.UserID, user.Name, user.Address, user.Password, user.PhoneNumber, user.Email); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.insertAccount(ctx, tx, account); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	s.logger.Info("[ACCOUNT] User registered", zap.Int64("userId", userID), zap.Int64("accountId", accountID))
	return user, account, nil
}

// CreateAccount opens an empty account of the given type for an existing user
func (s *AccountService) CreateAccount(ctx context.Context, userID int64, accountType models.AccountType) (*models.Account, error) {
	if !accountType.Valid() {
		return nil, validationError("accountType", "must be Savings or Current")
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE user_id = $1)`, userID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	}

	accountID, err := s.ids.AccountID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate account id: %w", err)
	}
	account := &models.Account{
		AccountID:   accountID,
		UserID:      userID,
		AccountType: accountType,
		Balance:     decimal.Zero,
		CreatedAt:   s.now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.insertAccount(ctx, tx, account); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("[ACCOUNT] Account created", zap.Int64("userId", userID), zap.Int64("accountId", accountID), zap.String("type", string(accountType)))
	return account, nil
}

func (s *AccountService) GetAccount(ctx context.Context, accountID int64) (*models.Account, error) {
	var a models.Account
	err := s.db.QueryRowContext(ctx, `
		SELECT account_id, user_id, account_type, balance, frozen, created_at
		FROM accounts WHERE account_id = $1`, accountID).
		Scan(&a.AccountID, &a.UserID, &a.AccountType, &a.Balance, &a.Frozen, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %d: %w", accountID, ErrAccountNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AccountService) ListAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT account_id, user_id, account_type, balance, frozen, created_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at, account_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.AccountID, &a.UserID, &a.AccountType, &a.Balance, &a.Frozen, &a.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// History lists the account's transactions newest first. limit <= 0 returns all of them.
func (s *AccountService) History(ctx context.Context, accountID int64, limit int) ([]models.Transaction, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE account_id = $1)`, accountID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("account %d: %w", accountID, ErrAccountNotFound)
	}

	query := `
		SELECT transaction_id, account_id, amount, type, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, transaction_id DESC`
	args := []any{accountID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.TransactionID, &t.AccountID, &t.Amount, &t.Type, &t.CreatedAt); err != nil {
			return nil, err
		}
		history = append(history, t)
	}
	return history, rows.Err()
}

func (s *AccountService) insertAccount(ctx context.Context, tx *sql.Tx, a *models.Account) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO accounts (account_id, user_id, account_type, balance, frozen, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.AccountID, a.UserID, string(a.AccountType), a.Balance.StringFixed(2), false, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}
