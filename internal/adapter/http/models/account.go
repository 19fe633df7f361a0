package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/core-ledger/internal/domain"
)

type CreateAccountRequest struct {
	UserID         string `json:"userId"`
	AccountType    string `json:"accountType"`
	InitialBalance string `json:"initialBalance,omitempty"`
}

func (r CreateAccountRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.UserID) == "" {
		errs = append(errs, "userId is required")
	}

	accountType := domain.AccountType(strings.TrimSpace(r.AccountType))
	if !accountType.Valid() {
		errs = append(errs, "accountType must be one of savings, checking, business")
	}

	if raw := strings.TrimSpace(r.InitialBalance); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			errs = append(errs, "initialBalance must be numeric")
		} else if parsed.IsNegative() {
			errs = append(errs, "initialBalance cannot be negative")
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func (r CreateAccountRequest) Balance() decimal.Decimal {
	raw := strings.TrimSpace(r.InitialBalance)
	if raw == "" {
		return decimal.Zero
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return parsed
}

type AccountResponse struct {
	ID                      string `json:"id"`
	UserID                  string `json:"userId"`
	AccountNumber           string `json:"accountNumber"`
	AccountType             string `json:"accountType"`
	Balance                 string `json:"balance"`
	CreatedAt               string `json:"createdAt"`
	IsActive                bool   `json:"isActive"`
	DailyTransactionLimit   string `json:"dailyTransactionLimit"`
	MonthlyTransactionLimit string `json:"monthlyTransactionLimit"`
}

func NewAccountResponse(account domain.Account) AccountResponse {
	return AccountResponse{
		ID:                      account.ID,
		UserID:                  account.UserID,
		AccountNumber:           account.AccountNumber,
		AccountType:             string(account.AccountType),
		Balance:                 account.Balance.StringFixed(2),
		CreatedAt:               account.CreatedAt.Format(time.RFC3339),
		IsActive:                account.IsActive,
		DailyTransactionLimit:   account.DailyTransactionLimit.StringFixed(2),
		MonthlyTransactionLimit: account.MonthlyTransactionLimit.StringFixed(2),
	}
}
