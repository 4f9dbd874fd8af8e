package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":9700", cfg.Addr)
	require.Equal(t, "sqlite", cfg.DBDriver)
	require.Equal(t, "bookmark.db", cfg.DSN)
	require.Equal(t, "embedded", cfg.IdentityMode)
	require.Equal(t, 3*time.Second, cfg.IdentityTimeout)
	require.Zero(t, cfg.SweepInterval)
	require.Equal(t, 24*time.Hour, cfg.SweepRetention)
	require.Empty(t, cfg.AdminEndpoint, "registration is off by default")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ADDR", ":8443")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("IDENTITY_MODE", "remote")
	t.Setenv("IDENTITY_ENDPOINT", "http://identity:8080")
	t.Setenv("SWEEP_INTERVAL", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":8443", cfg.Addr)
	require.Equal(t, "postgres", cfg.DBDriver)
	require.Equal(t, "remote", cfg.IdentityMode)
	require.Equal(t, "http://identity:8080", cfg.IdentityEndpoint)
	require.Equal(t, time.Hour, cfg.SweepInterval)
}
