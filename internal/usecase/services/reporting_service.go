package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/core-ledger/internal/domain"
	"github.com/api-sage/core-ledger/internal/usecase/service_interfaces"
)

// ReportingService aggregates over the ledger's current in-memory snapshot.
// Read-only: nothing here mutates or persists state.
type ReportingService struct {
	ledger   service_interfaces.LedgerReader
	identity service_interfaces.IdentityReader
}

func NewReportingService(ledger service_interfaces.LedgerReader, identity service_interfaces.IdentityReader) *ReportingService {
	return &ReportingService{ledger: ledger, identity: identity}
}

// TransactionSummary sums completed activity over the trailing window.
// Net flow is deposits minus withdrawals; order of transactions does not
// matter.
func (s *ReportingService) TransactionSummary(windowDays int) domain.TransactionSummary {
	cutoff := time.Now().AddDate(0, 0, -windowDays)

	summary := domain.TransactionSummary{
		PeriodDays:       windowDays,
		TotalDeposits:    decimal.Zero,
		TotalWithdrawals: decimal.Zero,
		TotalTransfers:   decimal.Zero,
	}

	for _, transaction := range s.ledger.ListTransactions() {
		if transaction.CreatedAt.Before(cutoff) {
			continue
		}
		summary.TotalTransactions++
		if transaction.Status != domain.TransactionStatusCompleted {
			continue
		}
		switch transaction.Type {
		case domain.TransactionTypeDeposit:
			summary.TotalDeposits = summary.TotalDeposits.Add(transaction.Amount)
		case domain.TransactionTypeWithdrawal:
			summary.TotalWithdrawals = summary.TotalWithdrawals.Add(transaction.Amount)
		case domain.TransactionTypeTransfer:
			summary.TotalTransfers = summary.TotalTransfers.Add(transaction.Amount)
		}
	}

	summary.NetFlow = summary.TotalDeposits.Sub(summary.TotalWithdrawals)
	return summary
}

func (s *ReportingService) SystemStats() domain.SystemStats {
	stats := domain.SystemStats{TotalBalance: decimal.Zero}

	for _, user := range s.identity.ListAll() {
		if user.IsActive {
			stats.TotalUsers++
		}
	}

	for _, account := range s.ledger.ListAccounts() {
		if account.IsActive {
			stats.TotalAccounts++
			stats.TotalBalance = stats.TotalBalance.Add(account.Balance)
		}
	}

	stats.TotalTransactions = len(s.ledger.ListTransactions())
	return stats
}

// TopActiveAccounts ranks accounts by transaction count over the window.
func (s *ReportingService) TopActiveAccounts(n, windowDays int) []domain.AccountActivity {
	cutoff := time.Now().AddDate(0, 0, -windowDays)

	counts := map[string]int{}
	volumes := map[string]decimal.Decimal{}
	for _, transaction := range s.ledger.ListTransactions() {
		if transaction.CreatedAt.Before(cutoff) {
			continue
		}
		counts[transaction.AccountID]++
		volume, ok := volumes[transaction.AccountID]
		if !ok {
			volume = decimal.Zero
		}
		volumes[transaction.AccountID] = volume.Add(transaction.Amount)
	}

	byID := map[string]domain.Account{}
	for _, account := range s.ledger.ListAccounts() {
		byID[account.ID] = account
	}

	activity := make([]domain.AccountActivity, 0, len(counts))
	for accountID, count := range counts {
		account, ok := byID[accountID]
		if !ok {
			continue
		}
		activity = append(activity, domain.AccountActivity{
			AccountID:        accountID,
			AccountNumber:    account.AccountNumber,
			AccountType:      account.AccountType,
			TransactionCount: count,
			TotalVolume:      volumes[accountID],
			CurrentBalance:   account.Balance,
		})
	}

	sort.Slice(activity, func(i, j int) bool {
		if activity[i].TransactionCount != activity[j].TransactionCount {
			return activity[i].TransactionCount > activity[j].TransactionCount
		}
		return activity[i].AccountNumber < activity[j].AccountNumber
	})

	if n > 0 && len(activity) > n {
		activity = activity[:n]
	}
	return activity
}

// DailyActivity buckets transactions per calendar day over the window,
// newest day first.
func (s *ReportingService) DailyActivity(windowDays int) []domain.DailyActivity {
	cutoff := time.Now().AddDate(0, 0, -windowDays)

	buckets := map[string]*domain.DailyActivity{}
	for _, transaction := range s.ledger.ListTransactions() {
		if transaction.CreatedAt.Before(cutoff) {
			continue
		}
		day := transaction.CreatedAt.Format("2006-01-02")
		bucket, ok := buckets[day]
		if !ok {
			bucket = &domain.DailyActivity{Date: day, TotalVolume: decimal.Zero}
			buckets[day] = bucket
		}
		bucket.TransactionCount++
		bucket.TotalVolume = bucket.TotalVolume.Add(transaction.Amount)
	}

	days := make([]domain.DailyActivity, 0, len(buckets))
	for _, bucket := range buckets {
		days = append(days, *bucket)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date > days[j].Date
	})
	return days
}
