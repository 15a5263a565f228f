package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionDeposit    TransactionType = "Deposit"
	TransactionWithdrawal TransactionType = "Withdrawal"
)

// Transaction is an append-only record of a committed deposit or withdrawal
type Transaction struct {
	TransactionID int64           `json:"transactionId" db:"transaction_id"`
	AccountID     int64           `json:"accountId" db:"account_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Type          TransactionType `json:"type" db:"type"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
}
