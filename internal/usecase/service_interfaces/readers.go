package service_interfaces

import "github.com/api-sage/core-ledger/internal/domain"

// LedgerReader is the read-only view the reporting queries aggregate over.
type LedgerReader interface {
	ListAccounts() []domain.Account
	ListTransactions() []domain.Transaction
}

// IdentityReader exposes the user collection for system-level stats.
type IdentityReader interface {
	ListAll() []domain.User
}
