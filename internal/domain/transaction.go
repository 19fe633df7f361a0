package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeTransfer   TransactionType = "transfer"
	TransactionTypeFee        TransactionType = "fee"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// Transaction is an append-only audit record. Amount is always a positive
// magnitude; the direction is implied by Type and the owning account.
// TargetAccountID is set on both legs of a transfer, each pointing at the
// other account.
type Transaction struct {
	ID              string            `json:"transaction_id"`
	AccountID       string            `json:"account_id"`
	Type            TransactionType   `json:"transaction_type"`
	Amount          decimal.Decimal   `json:"amount"`
	Description     string            `json:"description"`
	TargetAccountID *string           `json:"target_account_id"`
	CreatedAt       time.Time         `json:"created_at"`
	Status          TransactionStatus `json:"status"`
	ReferenceNumber string            `json:"reference_number"`
	Fee             decimal.Decimal   `json:"fee"`
}

// Status only ever moves forward out of pending; completed, failed and
// cancelled are terminal.

func (t *Transaction) Complete() {
	if t.Status == TransactionStatusPending {
		t.Status = TransactionStatusCompleted
	}
}

func (t *Transaction) Fail() {
	if t.Status == TransactionStatusPending {
		t.Status = TransactionStatusFailed
	}
}

func (t *Transaction) Cancel() {
	if t.Status == TransactionStatusPending {
		t.Status = TransactionStatusCancelled
	}
}
