// Package storage opens the KeyValueStore backend selected by configuration.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	fileadapter "github.com/ericfisherdev/accountdesk/internal/adapter/driven/file"
	keyringadapter "github.com/ericfisherdev/accountdesk/internal/adapter/driven/keyring"
	memoryadapter "github.com/ericfisherdev/accountdesk/internal/adapter/driven/memory"
	sqliteadapter "github.com/ericfisherdev/accountdesk/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/accountdesk/internal/config"
	"github.com/ericfisherdev/accountdesk/internal/domain/port/driven"
)

// Open returns the configured KeyValueStore and a function that releases its
// resources. The close function is never nil.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (driven.KeyValueStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage {
	case config.StorageSQLite, "":
		db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
		if err != nil {
			return nil, noop, err
		}
		if err := sqliteadapter.RunMigrations(db.Writer, logger); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		logger.Info("storage opened", "backend", config.StorageSQLite, "path", cfg.DBPath)
		return sqliteadapter.NewSlotRepo(db), db.Close, nil

	case config.StorageFile:
		store, err := fileadapter.NewStore(cfg.DataDir)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("storage opened", "backend", config.StorageFile, "dir", cfg.DataDir)
		return store, noop, nil

	case config.StorageKeyring:
		logger.Info("storage opened", "backend", config.StorageKeyring, "service", cfg.KeyringService)
		return keyringadapter.NewStore(cfg.KeyringService), noop, nil

	case config.StorageMemory:
		logger.Warn("storage opened in memory, accounts will not survive restart")
		return memoryadapter.NewStore(), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}
