package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType is Savings or Current
type AccountType string

const (
	AccountTypeSavings AccountType = "Savings"
	AccountTypeCurrent AccountType = "Current"
)

// Valid reports whether t is one of the supported account types
func (t AccountType) Valid() bool {
	return t == AccountTypeSavings || t == AccountTypeCurrent
}

type Account struct {
	AccountID   int64           `json:"accountId" db:"account_id"`
	UserID      int64           `json:"userId" db:"user_id"`
	AccountType AccountType     `json:"accountType" db:"account_type"`
	Balance     decimal.Decimal `json:"balance" db:"balance"`
	Frozen      bool            `json:"frozen" db:"frozen"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}
