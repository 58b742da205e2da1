package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every ACCOUNTDESK_ env var that Load() reads.
var allConfigKeys = []string{
	"ACCOUNTDESK_LISTEN_ADDR",
	"ACCOUNTDESK_STORAGE",
	"ACCOUNTDESK_DB_PATH",
	"ACCOUNTDESK_DATA_DIR",
	"ACCOUNTDESK_KEYRING_SERVICE",
	"ACCOUNTDESK_NOTIFICATION_TIMEOUT",
}

// isolateConfigEnv saves and unsets all ACCOUNTDESK_ env vars so tests don't
// inherit values from the host environment. t.Cleanup restores original values.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("ACCOUNTDESK_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("ACCOUNTDESK_STORAGE", "file")
	t.Setenv("ACCOUNTDESK_DB_PATH", "/tmp/test.db")
	t.Setenv("ACCOUNTDESK_DATA_DIR", "/tmp/accountdesk")
	t.Setenv("ACCOUNTDESK_KEYRING_SERVICE", "accountdesk-dev")
	t.Setenv("ACCOUNTDESK_NOTIFICATION_TIMEOUT", "5s")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, StorageFile, cfg.Storage)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, "/tmp/accountdesk", cfg.DataDir)
	assert.Equal(t, "accountdesk-dev", cfg.KeyringService)
	assert.Equal(t, 5*time.Second, cfg.NotificationTimeout)
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, "accountdesk.db", cfg.DBPath)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "accountdesk", cfg.KeyringService)
	assert.Equal(t, 3*time.Second, cfg.NotificationTimeout)
}

func TestLoad_EmptyStorageUsesDefault(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("ACCOUNTDESK_STORAGE", "")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, StorageSQLite, cfg.Storage)
}

func TestLoad_UnknownStorage(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("ACCOUNTDESK_STORAGE", "localstorage")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ACCOUNTDESK_STORAGE")
}

func TestLoad_InvalidNotificationTimeout(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("ACCOUNTDESK_NOTIFICATION_TIMEOUT", "not-a-duration")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ACCOUNTDESK_NOTIFICATION_TIMEOUT")
}

func TestLoad_NonPositiveNotificationTimeout(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("ACCOUNTDESK_NOTIFICATION_TIMEOUT", "0s")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")
}
