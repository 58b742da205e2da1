// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"time"
)

// StorageBackend selects the KeyValueStore implementation.
type StorageBackend string

const (
	StorageSQLite  StorageBackend = "sqlite"
	StorageFile    StorageBackend = "file"
	StorageKeyring StorageBackend = "keyring"
	StorageMemory  StorageBackend = "memory"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr          string
	Storage             StorageBackend
	DBPath              string
	DataDir             string
	KeyringService      string
	NotificationTimeout time.Duration
}

// Load reads configuration from environment variables and returns a validated Config.
// All variables are optional: ACCOUNTDESK_LISTEN_ADDR (127.0.0.1:8080),
// ACCOUNTDESK_STORAGE (sqlite), ACCOUNTDESK_DB_PATH (accountdesk.db),
// ACCOUNTDESK_DATA_DIR (data), ACCOUNTDESK_KEYRING_SERVICE (accountdesk),
// ACCOUNTDESK_NOTIFICATION_TIMEOUT (3s).
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("ACCOUNTDESK_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	storage := StorageSQLite
	if v, ok := os.LookupEnv("ACCOUNTDESK_STORAGE"); ok && v != "" {
		storage = StorageBackend(v)
		switch storage {
		case StorageSQLite, StorageFile, StorageKeyring, StorageMemory:
		default:
			return nil, fmt.Errorf("ACCOUNTDESK_STORAGE has unknown backend %q (want sqlite, file, keyring or memory)", v)
		}
	}

	dbPath := "accountdesk.db"
	if v, ok := os.LookupEnv("ACCOUNTDESK_DB_PATH"); ok {
		dbPath = v
	}

	dataDir := "data"
	if v, ok := os.LookupEnv("ACCOUNTDESK_DATA_DIR"); ok {
		dataDir = v
	}

	keyringService := "accountdesk"
	if v, ok := os.LookupEnv("ACCOUNTDESK_KEYRING_SERVICE"); ok && v != "" {
		keyringService = v
	}

	notificationTimeout := 3 * time.Second
	if v, ok := os.LookupEnv("ACCOUNTDESK_NOTIFICATION_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("ACCOUNTDESK_NOTIFICATION_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("ACCOUNTDESK_NOTIFICATION_TIMEOUT must be positive, got %s", parsed)
		}
		notificationTimeout = parsed
	}

	return &Config{
		ListenAddr:          listenAddr,
		Storage:             storage,
		DBPath:              dbPath,
		DataDir:             dataDir,
		KeyringService:      keyringService,
		NotificationTimeout: notificationTimeout,
	}, nil
}
