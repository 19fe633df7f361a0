package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/core-ledger/internal/domain"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func TestUsersRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	lastLogin := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	users := map[string]domain.User{
		"u-1": {
			ID:           "u-1",
			Username:     "alice",
			Email:        "alice@example.com",
			Phone:        "08010000000",
			Role:         domain.UserRoleCustomer,
			PasswordHash: "$2a$10$example",
			CreatedAt:    time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
			LastLogin:    &lastLogin,
			IsActive:     true,
		},
		"u-2": {
			ID:        "u-2",
			Username:  "bob",
			Role:      domain.UserRoleAdmin,
			CreatedAt: time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC),
			IsActive:  false,
		},
	}

	if err := store.SaveUsers(ctx, users); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := store.LoadUsers(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if len(loaded) != 2 {
		t.Fatalf("expected 2 users, got %d", len(loaded))
	}
	alice := loaded["u-1"]
	if alice.Username != "alice" || alice.Role != domain.UserRoleCustomer || !alice.IsActive {
		t.Fatalf("user fields did not survive round trip: %+v", alice)
	}
	if alice.LastLogin == nil || !alice.LastLogin.Equal(lastLogin) {
		t.Fatal("expected last login to survive round trip")
	}
	if loaded["u-2"].LastLogin != nil {
		t.Fatal("expected nil last login to stay nil")
	}
}

func TestAccountsRoundTripKeepsDecimalBalance(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	balance, _ := decimal.NewFromString("1250.50")
	accounts := map[string]domain.Account{
		"a-1": {
			ID:                      "a-1",
			UserID:                  "u-1",
			AccountNumber:           "1234567890",
			AccountType:             domain.AccountTypeSavings,
			Balance:                 balance,
			CreatedAt:               time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
			IsActive:                true,
			DailyTransactionLimit:   domain.DefaultDailyTransactionLimit,
			MonthlyTransactionLimit: domain.DefaultMonthlyTransactionLimit,
		},
	}

	if err := store.SaveAccounts(ctx, accounts); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := store.LoadAccounts(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	account := loaded["a-1"]
	if !account.Balance.Equal(balance) {
		t.Fatalf("expected balance %s, got %s", balance, account.Balance)
	}
	if account.AccountType != domain.AccountTypeSavings {
		t.Fatalf("expected savings account, got %s", account.AccountType)
	}
	if !account.DailyTransactionLimit.Equal(domain.DefaultDailyTransactionLimit) {
		t.Fatalf("expected default daily limit, got %s", account.DailyTransactionLimit)
	}
}

func TestTransactionsRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	target := "a-2"
	amount, _ := decimal.NewFromString("500.00")
	transactions := map[string]domain.Transaction{
		"t-1": {
			ID:              "t-1",
			AccountID:       "a-1",
			Type:            domain.TransactionTypeTransfer,
			Amount:          amount,
			Description:     "rent share",
			TargetAccountID: &target,
			CreatedAt:       time.Date(2025, 5, 3, 15, 4, 5, 0, time.UTC),
			Status:          domain.TransactionStatusCompleted,
			ReferenceNumber: "TXN2025050315040500001",
			Fee:             decimal.Zero,
		},
	}

	if err := store.SaveTransactions(ctx, transactions); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := store.LoadTransactions(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	transaction := loaded["t-1"]
	if transaction.Status != domain.TransactionStatusCompleted {
		t.Fatalf("expected completed status, got %s", transaction.Status)
	}
	if transaction.TargetAccountID == nil || *transaction.TargetAccountID != target {
		t.Fatal("expected target account id to survive round trip")
	}
	if !transaction.Amount.Equal(amount) {
		t.Fatalf("expected amount %s, got %s", amount, transaction.Amount)
	}
}

func TestLoadMissingFileReturnsEmptyCollection(t *testing.T) {
	store := testStore(t)

	users, err := store.LoadUsers(context.Background())
	if err != nil {
		t.Fatalf("expected nil error for missing file, got %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected empty collection, got %d records", len(users))
	}
}

func TestLoadCorruptFileReturnsEmptyCollection(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "accounts.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to plant corrupt file: %v", err)
	}

	accounts, err := store.LoadAccounts(context.Background())
	if err != nil {
		t.Fatalf("expected corruption to be non-fatal, got %v", err)
	}
	if len(accounts) != 0 {
		t.Fatalf("expected empty collection, got %d records", len(accounts))
	}
}

func TestSaveOverwritesPriorSnapshot(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	first := map[string]domain.User{
		"u-1": {ID: "u-1", Username: "alice", CreatedAt: time.Now().UTC(), IsActive: true},
		"u-2": {ID: "u-2", Username: "bob", CreatedAt: time.Now().UTC(), IsActive: true},
	}
	if err := store.SaveUsers(ctx, first); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	second := map[string]domain.User{
		"u-3": {ID: "u-3", Username: "carol", CreatedAt: time.Now().UTC(), IsActive: true},
	}
	if err := store.SaveUsers(ctx, second); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.LoadUsers(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected snapshot to be fully replaced, got %d records", len(loaded))
	}
	if _, ok := loaded["u-3"]; !ok {
		t.Fatal("expected only the latest snapshot contents")
	}
}

func TestBackupCopiesSnapshots(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	ctx := context.Background()

	if err := store.SaveUsers(ctx, map[string]domain.User{
		"u-1": {ID: "u-1", Username: "alice", CreatedAt: time.Now().UTC(), IsActive: true},
	}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.SaveAccounts(ctx, map[string]domain.Account{}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	location, err := store.Backup(ctx)
	if err != nil {
		t.Fatalf("backup failed: %v", err)
	}

	if filepath.Dir(location) != filepath.Join(dir, "backups") {
		t.Fatalf("expected backup under %s, got %s", filepath.Join(dir, "backups"), location)
	}

	if _, err := os.Stat(filepath.Join(location, "users.json")); err != nil {
		t.Fatalf("expected users snapshot in backup: %v", err)
	}
	if _, err := os.Stat(filepath.Join(location, "accounts.json")); err != nil {
		t.Fatalf("expected accounts snapshot in backup: %v", err)
	}
	// transactions.json was never written, so the backup must skip it.
	if _, err := os.Stat(filepath.Join(location, "transactions.json")); !os.IsNotExist(err) {
		t.Fatal("expected missing snapshot to be skipped")
	}
}
