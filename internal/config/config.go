package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultListenAddr = ":8080"
const defaultDataDir = "data"
const defaultStorageDriver = "file"
const defaultDatabaseDSN = "host=localhost port=5432 dbname=core_ledger user=postgres password=postgres sslmode=disable"
const defaultChannelID = "LedgerApp"
const defaultChannelKey = "LedgerKey001"
const defaultPersistTimeout = 5 * time.Second

type Config struct {
	ListenAddr     string
	DataDir        string
	StorageDriver  string
	DatabaseDSN    string
	ChannelID      string
	ChannelKey     string
	PersistTimeout time.Duration
}

func Load() (Config, error) {
	// Optional .env for local runs; real deployments set the environment.
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:     envOrDefault("LISTEN_ADDR", defaultListenAddr),
		DataDir:        envOrDefault("DATA_DIR", defaultDataDir),
		StorageDriver:  strings.ToLower(envOrDefault("STORAGE_DRIVER", defaultStorageDriver)),
		DatabaseDSN:    envOrDefault("DATABASE_DSN", defaultDatabaseDSN),
		ChannelID:      envOrDefault("CHANNEL_ID", defaultChannelID),
		ChannelKey:     envOrDefault("CHANNEL_KEY", defaultChannelKey),
		PersistTimeout: defaultPersistTimeout,
	}

	if raw := strings.TrimSpace(os.Getenv("PERSIST_TIMEOUT_SECONDS")); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err == nil && seconds > 0 {
			cfg.PersistTimeout = time.Duration(seconds) * time.Second
		}
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
