package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
	user_id TEXT PRIMARY KEY,
	username TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT NOT NULL,
	role TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	last_login TIMESTAMPTZ,
	is_active BOOLEAN NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS accounts (
	account_id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	account_number TEXT NOT NULL,
	account_type TEXT NOT NULL,
	balance NUMERIC(20, 4) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	is_active BOOLEAN NOT NULL,
	daily_transaction_limit NUMERIC(20, 4) NOT NULL,
	monthly_transaction_limit NUMERIC(20, 4) NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS transactions (
	transaction_id TEXT PRIMARY KEY,
	account_id TEXT NOT NULL,
	transaction_type TEXT NOT NULL,
	amount NUMERIC(20, 4) NOT NULL,
	description TEXT NOT NULL,
	target_account_id TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	status TEXT NOT NULL,
	reference_number TEXT NOT NULL,
	fee NUMERIC(20, 4) NOT NULL
)`,
}

// EnsureSchema creates the three collection tables when they do not exist
// yet. The snapshot contract needs no further migrations machinery.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, ddl := range schemaStatements {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
