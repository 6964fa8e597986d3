package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PROXYPANEL_DATABASE_DRIVER", "sqlite")
	t.Setenv("PROXYPANEL_SUBSCRIPTION_BATCH_SIZE", "50")
	t.Setenv("PROXYPANEL_SUBSCRIPTION_AUTO_RENEW_INTERVAL", "30s")

	cfg, err := Load("release")
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "proxypanel.db", cfg.Database.GetDSN())
	assert.Equal(t, 50, cfg.Subscription.BatchSize)
	assert.Equal(t, 30*time.Second, cfg.Subscription.AutoRenewInterval)
	assert.Equal(t, 5*time.Minute, cfg.Subscription.ExpiryCheckInterval)
	assert.Equal(t, 24*time.Hour, cfg.Subscription.AutoRenewGrace)
	assert.Equal(t, "proxypanel:subscription:events", cfg.Subscription.EventChannel)
	assert.Same(t, cfg, Get())
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PROXYPANEL_SUBSCRIPTION_BATCH_SIZE", "0")

	_, err := Load("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "BatchSize")
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PROXYPANEL_DATABASE_DRIVER", "postgres")

	_, err := Load("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Driver")
}
