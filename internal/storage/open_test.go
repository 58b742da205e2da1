package storage

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"

	"github.com/ericfisherdev/accountdesk/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestOpen_Backends(t *testing.T) {
	gokeyring.MockInit()
	dir := t.TempDir()

	tests := []struct {
		name string
		cfg  config.Config
	}{
		{name: "sqlite", cfg: config.Config{Storage: config.StorageSQLite, DBPath: filepath.Join(dir, "test.db")}},
		{name: "file", cfg: config.Config{Storage: config.StorageFile, DataDir: filepath.Join(dir, "data")}},
		{name: "keyring", cfg: config.Config{Storage: config.StorageKeyring, KeyringService: "accountdesk-test"}},
		{name: "memory", cfg: config.Config{Storage: config.StorageMemory}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv, closeFn, err := Open(ctx, &tt.cfg, discardLogger())
			require.NoError(t, err)
			require.NotNil(t, closeFn)
			t.Cleanup(func() { assert.NoError(t, closeFn()) })

			require.NoError(t, kv.Set(ctx, "accounts", "[]"))
			val, ok, err := kv.Get(ctx, "accounts")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "[]", val)
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	kv, closeFn, err := Open(context.Background(), &config.Config{Storage: "cloud"}, discardLogger())

	require.Error(t, err)
	assert.Nil(t, kv)
	require.NotNil(t, closeFn)
	assert.NoError(t, closeFn())
}
