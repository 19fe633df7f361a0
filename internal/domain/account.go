package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeSavings  AccountType = "savings"
	AccountTypeChecking AccountType = "checking"
	AccountTypeBusiness AccountType = "business"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeSavings, AccountTypeChecking, AccountTypeBusiness:
		return true
	}
	return false
}

// Account balance and limits use decimal arithmetic; binary floats would
// break the transfer conservation property.
type Account struct {
	ID                      string          `json:"account_id"`
	UserID                  string          `json:"user_id"`
	AccountNumber           string          `json:"account_number"`
	AccountType             AccountType     `json:"account_type"`
	Balance                 decimal.Decimal `json:"balance"`
	CreatedAt               time.Time       `json:"created_at"`
	IsActive                bool            `json:"is_active"`
	DailyTransactionLimit   decimal.Decimal `json:"daily_transaction_limit"`
	MonthlyTransactionLimit decimal.Decimal `json:"monthly_transaction_limit"`
}

// Stored on every new account. Advisory only: no operation enforces them.
var (
	DefaultDailyTransactionLimit   = decimal.NewFromInt(50000)
	DefaultMonthlyTransactionLimit = decimal.NewFromInt(500000)
)
