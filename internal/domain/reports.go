package domain

import "github.com/shopspring/decimal"

type TransactionSummary struct {
	PeriodDays        int             `json:"period_days"`
	TotalTransactions int             `json:"total_transactions"`
	TotalDeposits     decimal.Decimal `json:"total_deposits"`
	TotalWithdrawals  decimal.Decimal `json:"total_withdrawals"`
	TotalTransfers    decimal.Decimal `json:"total_transfers"`
	NetFlow           decimal.Decimal `json:"net_flow"`
}

type SystemStats struct {
	TotalUsers        int             `json:"total_users"`
	TotalAccounts     int             `json:"total_accounts"`
	TotalBalance      decimal.Decimal `json:"total_balance"`
	TotalTransactions int             `json:"total_transactions"`
}

type AccountActivity struct {
	AccountID        string          `json:"account_id"`
	AccountNumber    string          `json:"account_number"`
	AccountType      AccountType     `json:"account_type"`
	TransactionCount int             `json:"transaction_count"`
	TotalVolume      decimal.Decimal `json:"total_volume"`
	CurrentBalance   decimal.Decimal `json:"current_balance"`
}

type DailyActivity struct {
	Date             string          `json:"date"`
	TransactionCount int             `json:"transaction_count"`
	TotalVolume      decimal.Decimal `json:"total_volume"`
}
