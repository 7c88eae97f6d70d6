package config

import (
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requiredEnv() map[string]string {
	return map[string]string{
		"APP_NAME":           "smartats",
		"JWT_ACCESS_SECRET":  "access",
		"JWT_REFRESH_SECRET": "refresh",
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	_, err := LoadWithLookuper(envconfig.MapLookuper(map[string]string{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingRequiredEnv)
	assert.Contains(t, err.Error(), "APP_NAME")
	assert.Contains(t, err.Error(), "JWT_ACCESS_SECRET")
	assert.Contains(t, err.Error(), "JWT_REFRESH_SECRET")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadWithLookuper(envconfig.MapLookuper(requiredEnv()))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.HTTPPort)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "localhost", cfg.Database.DBHost)
	assert.Equal(t, "disable", cfg.Database.DBSSLMode)
	assert.Equal(t, int32(10), cfg.Database.PoolMaxConns)
	assert.False(t, cfg.Database.RunMigrations)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, 30*time.Minute, cfg.Redis.JobDetailTTL)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiresIn)
	assert.False(t, cfg.NATS.Enabled())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_Overrides(t *testing.T) {
	env := requiredEnv()
	env["HTTP_PORT"] = "9090"
	env["REDIS_HOST"] = "cache"
	env["REDIS_JOB_DETAIL_TTL"] = "5m"
	env["NATS_URL"] = "nats://localhost:4222"
	env["DB_RUN_MIGRATIONS"] = "true"

	cfg, err := LoadWithLookuper(envconfig.MapLookuper(env))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.HTTPPort)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr())
	assert.Equal(t, 5*time.Minute, cfg.Redis.JobDetailTTL)
	assert.True(t, cfg.NATS.Enabled())
	assert.True(t, cfg.Database.RunMigrations)
}

func TestLoad_InvalidDuration(t *testing.T) {
	env := requiredEnv()
	env["JWT_ACCESS_EXPIRES_IN"] = "soon"

	_, err := LoadWithLookuper(envconfig.MapLookuper(env))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingRequiredEnv)
}
