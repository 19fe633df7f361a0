package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/api-sage/core-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/core-ledger/internal/commons"
	"github.com/api-sage/core-ledger/internal/domain"
	"github.com/api-sage/core-ledger/internal/logger"
)

// LedgerService owns the account and transaction collections and enforces
// the balance invariants. A single mutex serializes every mutating
// operation end to end: read balance, validate, mutate, persist. Two
// concurrent withdrawals can therefore never both observe the same stale
// balance.
//
// Persistence ordering: state is mutated in memory, persisted, and rolled
// back in memory when the save fails, so the caller never sees success for
// a mutation that did not reach the store.
type LedgerService struct {
	store          repo_interfaces.CollectionStore
	persistTimeout time.Duration

	mu           sync.RWMutex
	accounts     map[string]domain.Account
	transactions map[string]domain.Transaction
}

func NewLedgerService(ctx context.Context, store repo_interfaces.CollectionStore, persistTimeout time.Duration) (*LedgerService, error) {
	accounts, err := store.LoadAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	transactions, err := store.LoadTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	return &LedgerService{
		store:          store,
		persistTimeout: persistTimeout,
		accounts:       accounts,
		transactions:   transactions,
	}, nil
}

// CreateAccount opens an account for a user. A positive initial balance is
// recorded as one pre-completed deposit transaction so the audit log
// explains where the opening funds came from.
func (s *LedgerService) CreateAccount(ctx context.Context, userID string, accountType domain.AccountType, initialBalance decimal.Decimal) (domain.Account, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.Account{}, fmt.Errorf("userId is required")
	}
	if !accountType.Valid() {
		return domain.Account{}, fmt.Errorf("account type must be savings, checking or business")
	}
	if initialBalance.IsNegative() {
		return domain.Account{}, commons.ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	number, err := s.nextAccountNumber()
	if err != nil {
		return domain.Account{}, err
	}

	account := domain.Account{
		ID:                      uuid.NewString(),
		UserID:                  userID,
		AccountNumber:           number,
		AccountType:             accountType,
		Balance:                 initialBalance,
		CreatedAt:               time.Now(),
		IsActive:                true,
		DailyTransactionLimit:   domain.DefaultDailyTransactionLimit,
		MonthlyTransactionLimit: domain.DefaultMonthlyTransactionLimit,
	}
	s.accounts[account.ID] = account

	var opening *domain.Transaction
	if initialBalance.IsPositive() {
		transaction := s.newTransaction(account.ID, domain.TransactionTypeDeposit, initialBalance, "Initial deposit", nil)
		transaction.Complete()
		s.transactions[transaction.ID] = transaction
		opening = &transaction
	}

	if err := s.persist(ctx, true); err != nil {
		delete(s.accounts, account.ID)
		if opening != nil {
			delete(s.transactions, opening.ID)
		}
		return domain.Account{}, err
	}

	logger.Info("ledger service created account", logger.Fields{
		"accountId":     account.ID,
		"accountNumber": account.AccountNumber,
		"userId":        userID,
		"accountType":   string(accountType),
	})
	return account, nil
}

func (s *LedgerService) Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (domain.Transaction, error) {
	if !amount.IsPositive() {
		return domain.Transaction{}, commons.ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return domain.Transaction{}, commons.ErrRecordNotFound
	}

	transaction := s.newTransaction(accountID, domain.TransactionTypeDeposit, amount, description, nil)

	previousBalance := account.Balance
	account.Balance = account.Balance.Add(amount)
	s.accounts[accountID] = account
	transaction.Complete()
	s.transactions[transaction.ID] = transaction

	if err := s.persist(ctx, true); err != nil {
		account.Balance = previousBalance
		s.accounts[accountID] = account
		delete(s.transactions, transaction.ID)
		return domain.Transaction{}, err
	}

	logger.Info("ledger service deposit completed", logger.Fields{
		"accountId": accountID,
		"amount":    amount.String(),
		"reference": transaction.ReferenceNumber,
	})
	return transaction, nil
}

// Withdraw rejects amounts above the current balance but still records the
// attempt as a failed transaction; audits need refused withdrawals too.
func (s *LedgerService) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, description string) (domain.Transaction, error) {
	if !amount.IsPositive() {
		return domain.Transaction{}, commons.ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return domain.Transaction{}, commons.ErrRecordNotFound
	}

	transaction := s.newTransaction(accountID, domain.TransactionTypeWithdrawal, amount, description, nil)

	if amount.GreaterThan(account.Balance) {
		transaction.Fail()
		s.transactions[transaction.ID] = transaction
		if err := s.persist(ctx, false); err != nil {
			logger.Error("ledger service failed to persist refused withdrawal", err, logger.Fields{
				"accountId": accountID,
				"reference": transaction.ReferenceNumber,
			})
		}
		return transaction, commons.ErrInsufficientFunds
	}

	previousBalance := account.Balance
	account.Balance = account.Balance.Sub(amount)
	s.accounts[accountID] = account
	transaction.Complete()
	s.transactions[transaction.ID] = transaction

	if err := s.persist(ctx, true); err != nil {
		account.Balance = previousBalance
		s.accounts[accountID] = account
		delete(s.transactions, transaction.ID)
		return domain.Transaction{}, err
	}

	logger.Info("ledger service withdrawal completed", logger.Fields{
		"accountId": accountID,
		"amount":    amount.String(),
		"reference": transaction.ReferenceNumber,
	})
	return transaction, nil
}

// Transfer debits the source account and credits the destination, resolved
// by its external account number. Both legs are written as transaction
// records that reference each other's account id, so either account's
// history shows the movement without a cross-account join. Debit and credit
// are applied inside the same critical section; no observer can see a
// half-applied transfer.
func (s *LedgerService) Transfer(ctx context.Context, fromAccountID, toAccountNumber string, amount decimal.Decimal, description string) (domain.Transaction, error) {
	if !amount.IsPositive() {
		return domain.Transaction{}, commons.ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	source, ok := s.accounts[fromAccountID]
	if !ok {
		return domain.Transaction{}, commons.ErrRecordNotFound
	}

	destination, ok := s.findActiveByNumber(toAccountNumber)
	if !ok {
		return domain.Transaction{}, commons.ErrRecordNotFound
	}
	if destination.ID == source.ID {
		return domain.Transaction{}, commons.ErrSameAccount
	}

	debit := s.newTransaction(source.ID, domain.TransactionTypeTransfer, amount, description, &destination.ID)

	if amount.GreaterThan(source.Balance) {
		debit.Fail()
		s.transactions[debit.ID] = debit
		if err := s.persist(ctx, false); err != nil {
			logger.Error("ledger service failed to persist refused transfer", err, logger.Fields{
				"accountId": source.ID,
				"reference": debit.ReferenceNumber,
			})
		}
		return debit, commons.ErrInsufficientFunds
	}

	previousSource := source.Balance
	previousDestination := destination.Balance

	source.Balance = source.Balance.Sub(amount)
	destination.Balance = destination.Balance.Add(amount)
	s.accounts[source.ID] = source
	s.accounts[destination.ID] = destination

	debit.Complete()
	s.transactions[debit.ID] = debit

	credit := s.newTransaction(destination.ID, domain.TransactionTypeDeposit, amount, "Transfer from "+source.AccountNumber, &source.ID)
	credit.Complete()
	s.transactions[credit.ID] = credit

	if err := s.persist(ctx, true); err != nil {
		source.Balance = previousSource
		destination.Balance = previousDestination
		s.accounts[source.ID] = source
		s.accounts[destination.ID] = destination
		delete(s.transactions, debit.ID)
		delete(s.transactions, credit.ID)
		return domain.Transaction{}, err
	}

	logger.Info("ledger service transfer completed", logger.Fields{
		"fromAccountId":   source.ID,
		"toAccountNumber": destination.AccountNumber,
		"amount":          amount.String(),
		"reference":       debit.ReferenceNumber,
	})
	return debit, nil
}

// Backup delegates to the store; exposed here so callers hold one handle.
func (s *LedgerService) Backup(ctx context.Context) (string, error) {
	return s.store.Backup(ctx)
}

func (s *LedgerService) GetAccountsForUser(userID string) []domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]domain.Account, 0)
	for _, account := range s.accounts {
		if account.UserID == userID && account.IsActive {
			accounts = append(accounts, account)
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts
}

// GetAccountByNumber resolves active accounts only; deactivated accounts
// are not externally addressable.
func (s *LedgerService) GetAccountByNumber(accountNumber string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.findActiveByNumber(accountNumber)
	if !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}
	return account, nil
}

func (s *LedgerService) GetAccountByID(accountID string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}
	return account, nil
}

func (s *LedgerService) GetAccountTransactions(accountID string, limit int) []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	transactions := make([]domain.Transaction, 0)
	for _, transaction := range s.transactions {
		if transaction.AccountID == accountID {
			transactions = append(transactions, transaction)
		}
	}
	return newestFirst(transactions, limit)
}

func (s *LedgerService) GetAllTransactions(limit int) []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	transactions := make([]domain.Transaction, 0, len(s.transactions))
	for _, transaction := range s.transactions {
		transactions = append(transactions, transaction)
	}
	return newestFirst(transactions, limit)
}

func (s *LedgerService) ListAccounts() []domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]domain.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		accounts = append(accounts, account)
	}
	return accounts
}

func (s *LedgerService) ListTransactions() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	transactions := make([]domain.Transaction, 0, len(s.transactions))
	for _, transaction := range s.transactions {
		transactions = append(transactions, transaction)
	}
	return transactions
}

// persist writes the mutated collections with a bounded deadline; a hung
// store surfaces as a failed operation instead of a stuck caller.
func (s *LedgerService) persist(ctx context.Context, includeAccounts bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	defer cancel()

	if includeAccounts {
		if err := s.store.SaveAccounts(ctx, s.accounts); err != nil {
			return fmt.Errorf("persist accounts: %w", err)
		}
	}
	if err := s.store.SaveTransactions(ctx, s.transactions); err != nil {
		return fmt.Errorf("persist transactions: %w", err)
	}
	return nil
}

func (s *LedgerService) findActiveByNumber(accountNumber string) (domain.Account, bool) {
	for _, account := range s.accounts {
		if account.AccountNumber == accountNumber && account.IsActive {
			return account, true
		}
	}
	return domain.Account{}, false
}

func (s *LedgerService) newTransaction(accountID string, transactionType domain.TransactionType, amount decimal.Decimal, description string, targetAccountID *string) domain.Transaction {
	return domain.Transaction{
		ID:              uuid.NewString(),
		AccountID:       accountID,
		Type:            transactionType,
		Amount:          amount,
		Description:     description,
		TargetAccountID: targetAccountID,
		CreatedAt:       time.Now(),
		Status:          domain.TransactionStatusPending,
		ReferenceNumber: s.nextReferenceNumber(),
		Fee:             decimal.Zero,
	}
}

// nextAccountNumber draws a 10-digit number from a CSPRNG and retries on
// the (vanishingly rare) collision with an existing account.
func (s *LedgerService) nextAccountNumber() (string, error) {
	span := big.NewInt(9_000_000_000)
	for {
		n, err := rand.Int(rand.Reader, span)
		if err != nil {
			return "", fmt.Errorf("generate account number: %w", err)
		}
		number := fmt.Sprintf("%d", n.Int64()+1_000_000_000)

		taken := false
		for _, account := range s.accounts {
			if account.AccountNumber == number {
				taken = true
				break
			}
		}
		if !taken {
			return number, nil
		}
	}
}

var referenceCounter uint32

// Reference numbers are the human-facing audit handle, distinct from the
// internal transaction id. Timestamp plus counter keeps them sortable; the
// existence check guards against counter wrap within one second.
func (s *LedgerService) nextReferenceNumber() string {
	for {
		counter := atomic.AddUint32(&referenceCounter, 1) % 100000
		reference := fmt.Sprintf("TXN%s%05d", time.Now().UTC().Format("20060102150405"), counter)

		inUse := false
		for _, transaction := range s.transactions {
			if transaction.ReferenceNumber == reference {
				inUse = true
				break
			}
		}
		if !inUse {
			return reference
		}
	}
}

func newestFirst(transactions []domain.Transaction, limit int) []domain.Transaction {
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].CreatedAt.After(transactions[j].CreatedAt)
	})
	if limit > 0 && len(transactions) > limit {
		return transactions[:limit]
	}
	return transactions
}
