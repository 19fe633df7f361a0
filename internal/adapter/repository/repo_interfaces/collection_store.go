package repo_interfaces

import (
	"context"

	"github.com/api-sage/core-ledger/internal/domain"
)

// CollectionStore persists each record collection as one durable snapshot.
// Save fully overwrites the prior snapshot of that collection; there is no
// incremental write. Load of a missing or corrupt snapshot yields an empty
// map, never an error the caller has to treat as fatal.
type CollectionStore interface {
	LoadUsers(ctx context.Context) (map[string]domain.User, error)
	SaveUsers(ctx context.Context, users map[string]domain.User) error
	LoadAccounts(ctx context.Context) (map[string]domain.Account, error)
	SaveAccounts(ctx context.Context, accounts map[string]domain.Account) error
	LoadTransactions(ctx context.Context) (map[string]domain.Transaction, error)
	SaveTransactions(ctx context.Context, transactions map[string]domain.Transaction) error

	// Backup copies the current snapshots into a timestamped directory and
	// returns its path. Operator convenience, not part of the write path.
	Backup(ctx context.Context) (string, error)
}
