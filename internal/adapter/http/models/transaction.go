package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/core-ledger/internal/domain"
)

type DepositRequest struct {
	AccountID   string `json:"accountId"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
}

func (r DepositRequest) Validate() error {
	return validateMovement(r.AccountID, "accountId", r.Amount)
}

type WithdrawRequest struct {
	AccountID   string `json:"accountId"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
}

func (r WithdrawRequest) Validate() error {
	return validateMovement(r.AccountID, "accountId", r.Amount)
}

type TransferRequest struct {
	FromAccountID   string `json:"fromAccountId"`
	ToAccountNumber string `json:"toAccountNumber"`
	Amount          string `json:"amount"`
	Description     string `json:"description,omitempty"`
}

func (r TransferRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.FromAccountID) == "" {
		errs = append(errs, "fromAccountId is required")
	}

	toNumber := strings.TrimSpace(r.ToAccountNumber)
	if len(toNumber) != 10 || !allDigits(toNumber) {
		errs = append(errs, "toAccountNumber must be exactly 10 digits")
	}

	if err := validateAmount(r.Amount); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func MustAmount(raw string) decimal.Decimal {
	parsed, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return parsed
}

type TransactionResponse struct {
	ID              string `json:"id"`
	AccountID       string `json:"accountId"`
	Type            string `json:"type"`
	Amount          string `json:"amount"`
	Description     string `json:"description,omitempty"`
	TargetAccountID string `json:"targetAccountId,omitempty"`
	CreatedAt       string `json:"createdAt"`
	Status          string `json:"status"`
	ReferenceNumber string `json:"referenceNumber"`
	Fee             string `json:"fee"`
}

func NewTransactionResponse(transaction domain.Transaction) TransactionResponse {
	response := TransactionResponse{
		ID:              transaction.ID,
		AccountID:       transaction.AccountID,
		Type:            string(transaction.Type),
		Amount:          transaction.Amount.StringFixed(2),
		Description:     transaction.Description,
		CreatedAt:       transaction.CreatedAt.Format(time.RFC3339),
		Status:          string(transaction.Status),
		ReferenceNumber: transaction.ReferenceNumber,
		Fee:             transaction.Fee.StringFixed(2),
	}
	if transaction.TargetAccountID != nil {
		response.TargetAccountID = *transaction.TargetAccountID
	}
	return response
}

func NewTransactionResponses(transactions []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, 0, len(transactions))
	for _, transaction := range transactions {
		responses = append(responses, NewTransactionResponse(transaction))
	}
	return responses
}

func validateMovement(id, idField, amount string) error {
	var errs []string

	if strings.TrimSpace(id) == "" {
		errs = append(errs, idField+" is required")
	}
	if err := validateAmount(amount); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateAmount(raw string) error {
	amount := strings.TrimSpace(raw)
	if amount == "" {
		return errors.New("amount is required")
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return errors.New("amount must be numeric")
	}
	if parsed.LessThanOrEqual(decimal.Zero) {
		return errors.New("amount must be greater than zero")
	}
	return nil
}

func allDigits(value string) bool {
	for _, ch := range value {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
