package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "DATABASE_DSN", "MIGRATIONS_DIR", "CHANNEL_ID", "CHANNEL_KEY", "LOG_LEVEL", "SEED_ACCOUNTS", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.False(t, cfg.UsesPostgres())
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	require.Empty(t, cfg.SeedAccounts)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_DSN", "Host=db;Port=5432;Database=ledger;Username=app;Password=secret")
	t.Setenv("SEED_ACCOUNTS", "A:password-a:1000, B:password-b:500.25")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.UsesPostgres())
	require.Equal(t, "host=db port=5432 dbname=ledger user=app password=secret sslmode=disable", cfg.DatabaseDSN)
	require.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	require.Len(t, cfg.SeedAccounts, 2)
	require.Equal(t, "B", cfg.SeedAccounts[1].DisplayName)
	require.True(t, cfg.SeedAccounts[1].Balance.Equal(decimal.RequireFromString("500.25")))
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEED_ACCOUNTS", "A:1000")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("SEED_ACCOUNTS", "A:pw:-5")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("SEED_ACCOUNTS", "A:pw:10.123")
	_, err = Load()
	require.ErrorContains(t, err, "balance cannot have more than 2 decimal places")

	t.Setenv("SEED_ACCOUNTS", "")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	_, err = Load()
	require.Error(t, err)
}

func TestNormalizeConnectionStringKeepsURLs(t *testing.T) {
	url := "postgres://app:secret@db:5432/ledger?sslmode=require"
	require.Equal(t, url, normalizeConnectionString(url))
}
