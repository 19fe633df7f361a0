package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/api-sage/core-ledger/internal/domain"
)

// Store implements the collection-snapshot contract over postgres. Save
// rewrites the whole table inside one transaction, matching the file
// backend's full-overwrite semantics; load scans every row back into a map.
type Store struct {
	db        *sql.DB
	backupDir string
}

func NewStore(db *sql.DB, backupDir string) *Store {
	return &Store{db: db, backupDir: backupDir}
}

func (s *Store) LoadUsers(ctx context.Context) (map[string]domain.User, error) {
	const query = `
SELECT user_id, username, email, phone, role, password_hash, created_at, last_login, is_active
FROM users`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	defer rows.Close()

	users := map[string]domain.User{}
	for rows.Next() {
		var user domain.User
		var lastLogin sql.NullTime
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.Phone,
			&user.Role,
			&user.PasswordHash,
			&user.CreatedAt,
			&lastLogin,
			&user.IsActive,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		if lastLogin.Valid {
			t := lastLogin.Time
			user.LastLogin = &t
		}
		users[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	return users, nil
}

func (s *Store) SaveUsers(ctx context.Context, users map[string]domain.User) error {
	const insert = `
INSERT INTO users (user_id, username, email, phone, role, password_hash, created_at, last_login, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	return s.replaceAll(ctx, "users", func(tx *sql.Tx) error {
		for _, user := range users {
			var lastLogin sql.NullTime
			if user.LastLogin != nil {
				lastLogin = sql.NullTime{Time: *user.LastLogin, Valid: true}
			}
			if _, err := tx.ExecContext(
				ctx,
				insert,
				user.ID,
				user.Username,
				user.Email,
				user.Phone,
				user.Role,
				user.PasswordHash,
				user.CreatedAt,
				lastLogin,
				user.IsActive,
			); err != nil {
				return fmt.Errorf("insert user %q: %w", user.ID, err)
			}
		}
		return nil
	})
}

func (s *Store) LoadAccounts(ctx context.Context) (map[string]domain.Account, error) {
	const query = `
SELECT account_id, user_id, account_number, account_type, balance, created_at, is_active, daily_transaction_limit, monthly_transaction_limit
FROM accounts`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	defer rows.Close()

	accounts := map[string]domain.Account{}
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(
			&account.ID,
			&account.UserID,
			&account.AccountNumber,
			&account.AccountType,
			&account.Balance,
			&account.CreatedAt,
			&account.IsActive,
			&account.DailyTransactionLimit,
			&account.MonthlyTransactionLimit,
		); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts[account.ID] = account
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}

	return accounts, nil
}

func (s *Store) SaveAccounts(ctx context.Context, accounts map[string]domain.Account) error {
	const insert = `
INSERT INTO accounts (account_id, user_id, account_number, account_type, balance, created_at, is_active, daily_transaction_limit, monthly_transaction_limit)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	return s.replaceAll(ctx, "accounts", func(tx *sql.Tx) error {
		for _, account := range accounts {
			if _, err := tx.ExecContext(
				ctx,
				insert,
				account.ID,
				account.UserID,
				account.AccountNumber,
				account.AccountType,
				account.Balance,
				account.CreatedAt,
				account.IsActive,
				account.DailyTransactionLimit,
				account.MonthlyTransactionLimit,
			); err != nil {
				return fmt.Errorf("insert account %q: %w", account.ID, err)
			}
		}
		return nil
	})
}

func (s *Store) LoadTransactions(ctx context.Context) (map[string]domain.Transaction, error) {
	const query = `
SELECT transaction_id, account_id, transaction_type, amount, description, target_account_id, created_at, status, reference_number, fee
FROM transactions`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	defer rows.Close()

	transactions := map[string]domain.Transaction{}
	for rows.Next() {
		var transaction domain.Transaction
		var target sql.NullString
		if err := rows.Scan(
			&transaction.ID,
			&transaction.AccountID,
			&transaction.Type,
			&transaction.Amount,
			&transaction.Description,
			&target,
			&transaction.CreatedAt,
			&transaction.Status,
			&transaction.ReferenceNumber,
			&transaction.Fee,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if target.Valid {
			v := target.String
			transaction.TargetAccountID = &v
		}
		transactions[transaction.ID] = transaction
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	return transactions, nil
}

func (s *Store) SaveTransactions(ctx context.Context, transactions map[string]domain.Transaction) error {
	const insert = `
INSERT INTO transactions (transaction_id, account_id, transaction_type, amount, description, target_account_id, created_at, status, reference_number, fee)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	return s.replaceAll(ctx, "transactions", func(tx *sql.Tx) error {
		for _, transaction := range transactions {
			var target sql.NullString
			if transaction.TargetAccountID != nil {
				target = sql.NullString{String: *transaction.TargetAccountID, Valid: true}
			}
			if _, err := tx.ExecContext(
				ctx,
				insert,
				transaction.ID,
				transaction.AccountID,
				transaction.Type,
				transaction.Amount,
				transaction.Description,
				target,
				transaction.CreatedAt,
				transaction.Status,
				transaction.ReferenceNumber,
				transaction.Fee,
			); err != nil {
				return fmt.Errorf("insert transaction %q: %w", transaction.ID, err)
			}
		}
		return nil
	})
}

// Backup exports all three collections as JSON snapshots into
// <backupDir>/backups/backup_<YYYYMMDD_HHMMSS>, mirroring the file
// backend's backup layout so restore tooling works against either driver.
func (s *Store) Backup(ctx context.Context) (string, error) {
	timestamp := time.Now().Format("20060102_150405")
	dir := filepath.Join(s.backupDir, "backups", "backup_"+timestamp)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory %q: %w", dir, err)
	}

	users, err := s.LoadUsers(ctx)
	if err != nil {
		return "", err
	}
	if err := writeBackupFile(dir, "users.json", users); err != nil {
		return "", err
	}

	accounts, err := s.LoadAccounts(ctx)
	if err != nil {
		return "", err
	}
	if err := writeBackupFile(dir, "accounts.json", accounts); err != nil {
		return "", err
	}

	transactions, err := s.LoadTransactions(ctx)
	if err != nil {
		return "", err
	}
	if err := writeBackupFile(dir, "transactions.json", transactions); err != nil {
		return "", err
	}

	return dir, nil
}

func (s *Store) replaceAll(ctx context.Context, table string, insertAll func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for %s snapshot: %w", table, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear %s snapshot: %w", table, err)
	}

	if err := insertAll(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s snapshot: %w", table, err)
	}

	return nil
}

func writeBackupFile[T any](dir, name string, records map[string]T) error {
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode backup %q: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), raw, 0o644); err != nil {
		return fmt.Errorf("write backup %q: %w", name, err)
	}
	return nil
}
