package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/api-sage/core-ledger/internal/domain"
	"github.com/api-sage/core-ledger/internal/logger"
)

const (
	usersFile        = "users.json"
	accountsFile     = "accounts.json"
	transactionsFile = "transactions.json"
)

// Store keeps each collection in one JSON object-of-objects file under the
// data directory. Writes go through a temp file and an atomic rename, so a
// crash leaves either the old snapshot or the new one, never a torn file.
type Store struct {
	dataDir string
	mu      sync.Mutex
}

func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %q: %w", dataDir, err)
	}
	return &Store{dataDir: dataDir}, nil
}

func (s *Store) LoadUsers(ctx context.Context) (map[string]domain.User, error) {
	return loadCollection[domain.User](ctx, s, usersFile)
}

func (s *Store) SaveUsers(ctx context.Context, users map[string]domain.User) error {
	return saveCollection(ctx, s, usersFile, users)
}

func (s *Store) LoadAccounts(ctx context.Context) (map[string]domain.Account, error) {
	return loadCollection[domain.Account](ctx, s, accountsFile)
}

func (s *Store) SaveAccounts(ctx context.Context, accounts map[string]domain.Account) error {
	return saveCollection(ctx, s, accountsFile, accounts)
}

func (s *Store) LoadTransactions(ctx context.Context) (map[string]domain.Transaction, error) {
	return loadCollection[domain.Transaction](ctx, s, transactionsFile)
}

func (s *Store) SaveTransactions(ctx context.Context, transactions map[string]domain.Transaction) error {
	return saveCollection(ctx, s, transactionsFile, transactions)
}

// Backup copies the current snapshot files into
// <dataDir>/backups/backup_<YYYYMMDD_HHMMSS>. Missing snapshots are skipped.
func (s *Store) Backup(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	timestamp := time.Now().Format("20060102_150405")
	backupDir := filepath.Join(s.dataDir, "backups", "backup_"+timestamp)
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory %q: %w", backupDir, err)
	}

	for _, name := range []string{usersFile, accountsFile, transactionsFile} {
		raw, err := os.ReadFile(filepath.Join(s.dataDir, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("read snapshot %q: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(backupDir, name), raw, 0o644); err != nil {
			return "", fmt.Errorf("copy snapshot %q: %w", name, err)
		}
	}

	return backupDir, nil
}

// A missing or unreadable snapshot is treated as "no prior data": logged and
// returned as an empty collection, so a corrupt file never blocks startup.
func loadCollection[T any](ctx context.Context, s *Store, name string) (map[string]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.dataDir, name)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]T{}, nil
	}
	if err != nil {
		logger.Error("filestore load snapshot unreadable, starting empty", err, logger.Fields{
			"file": path,
		})
		return map[string]T{}, nil
	}

	records := map[string]T{}
	if err := json.Unmarshal(raw, &records); err != nil {
		logger.Error("filestore load snapshot corrupt, starting empty", err, logger.Fields{
			"file": path,
		})
		return map[string]T{}, nil
	}

	return records, nil
}

func saveCollection[T any](ctx context.Context, s *Store, name string, records map[string]T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot %q: %w", name, err)
	}

	path := filepath.Join(s.dataDir, name)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, raw, 0o644); err != nil {
		return fmt.Errorf("write snapshot %q: %w", name, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("replace snapshot %q: %w", name, err)
	}

	return nil
}
