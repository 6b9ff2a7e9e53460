package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/config"
)

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("TURSO_DB_URL", "libsql://shop.example.turso.io")
	t.Setenv("TURSO_DB_AUTH_TOKEN", "secret-token")
	t.Setenv("APP_PORT", ":9090")
	t.Setenv("DB_AUTO_MIGRATE", "false")

	cfg, err := config.Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "libsql://shop.example.turso.io", cfg.Database.URL)
	assert.Equal(t, "secret-token", cfg.Database.AuthToken)
	assert.Equal(t, ":9090", cfg.AppPort)
	assert.False(t, cfg.AutoMigrate)
	assert.Empty(t, cfg.RabbitMQURL)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TURSO_DB_URL", "file:test.db")

	cfg, err := config.Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.True(t, cfg.AutoMigrate)
	assert.False(t, cfg.Database.LogSQL)
	assert.Empty(t, cfg.Database.AuthToken)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("TURSO_DB_URL", "")

	cfg, err := config.Load(viper.New())
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "URL")
}
