package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "logistock", cfg.App.Name)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 20, cfg.RateLimit.LoginMax)
	assert.Empty(t, cfg.Redis.URL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "p@ss:word")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("LOGIN_RATE_LIMIT", "no-es-numero")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.App.Env)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 20, cfg.RateLimit.LoginMax, "valor inválido cae al default")
	assert.Contains(t, cfg.DB.DSN(), "db.internal:5432")
	assert.Contains(t, cfg.DB.DSN(), "p%40ss%3Aword")
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestConnectionString_PrefersDatabaseURL(t *testing.T) {
	c := DBConfig{DatabaseURL: "postgres://u:p@h:5432/d", Host: "otro"}
	assert.Equal(t, "postgres://u:p@h:5432/d", c.ConnectionString())
}
