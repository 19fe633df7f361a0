package services_test

import (
	"context"

	"github.com/api-sage/core-ledger/internal/domain"
)

type collectionStoreStub struct {
	loadUsersFn        func(ctx context.Context) (map[string]domain.User, error)
	saveUsersFn        func(ctx context.Context, users map[string]domain.User) error
	loadAccountsFn     func(ctx context.Context) (map[string]domain.Account, error)
	saveAccountsFn     func(ctx context.Context, accounts map[string]domain.Account) error
	loadTransactionsFn func(ctx context.Context) (map[string]domain.Transaction, error)
	saveTransactionsFn func(ctx context.Context, transactions map[string]domain.Transaction) error
	backupFn           func(ctx context.Context) (string, error)
}

func (s collectionStoreStub) LoadUsers(ctx context.Context) (map[string]domain.User, error) {
	if s.loadUsersFn != nil {
		return s.loadUsersFn(ctx)
	}
	return map[string]domain.User{}, nil
}

func (s collectionStoreStub) SaveUsers(ctx context.Context, users map[string]domain.User) error {
	if s.saveUsersFn != nil {
		return s.saveUsersFn(ctx, users)
	}
	return nil
}

func (s collectionStoreStub) LoadAccounts(ctx context.Context) (map[string]domain.Account, error) {
	if s.loadAccountsFn != nil {
		return s.loadAccountsFn(ctx)
	}
	return map[string]domain.Account{}, nil
}

func (s collectionStoreStub) SaveAccounts(ctx context.Context, accounts map[string]domain.Account) error {
	if s.saveAccountsFn != nil {
		return s.saveAccountsFn(ctx, accounts)
	}
	return nil
}

func (s collectionStoreStub) LoadTransactions(ctx context.Context) (map[string]domain.Transaction, error) {
	if s.loadTransactionsFn != nil {
		return s.loadTransactionsFn(ctx)
	}
	return map[string]domain.Transaction{}, nil
}

func (s collectionStoreStub) SaveTransactions(ctx context.Context, transactions map[string]domain.Transaction) error {
	if s.saveTransactionsFn != nil {
		return s.saveTransactionsFn(ctx, transactions)
	}
	return nil
}

func (s collectionStoreStub) Backup(ctx context.Context) (string, error) {
	if s.backupFn != nil {
		return s.backupFn(ctx)
	}
	return "", nil
}
