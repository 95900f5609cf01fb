package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("MYSQL_DSN", "root:root@tcp(127.0.0.1:3306)/blog?parseTime=true")
	t.Setenv("JWT_ACCESS_SECRET", "a")
	t.Setenv("JWT_REFRESH_SECRET", "r")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.ServerPort)
	assert.Equal(t, 30*time.Minute, cfg.AccessTTL)
	assert.Equal(t, int64(1<<20), cfg.UploadMaxBytes)
	assert.Equal(t, "local", cfg.StorageDriver)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TTL", "15m")
	t.Setenv("LOG_LEVEL", "verbose")
	t.Setenv("NOTIFY_WORKERS", "4")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 4, cfg.NotifyWorkers)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_MissingSecrets(t *testing.T) {
	t.Setenv("MYSQL_DSN", "dsn")
	t.Setenv("JWT_ACCESS_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MinioNeedsEndpoint(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_DRIVER", "minio")
	t.Setenv("MINIO_ENDPOINT", "")

	_, err := Load()
	assert.Error(t, err)
}
