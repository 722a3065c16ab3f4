package config_test

import (
	"testing"

	"github.com/confetti-clj/s3-deploy/core/config"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	assert.NoError(t, err)

	assert.Equal(t, "localhost:9000", cfg.Storage.Endpoint)
	assert.Equal(t, "", cfg.Storage.Bucket)
	assert.Equal(t, 30, cfg.Storage.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 1, cfg.Sync.Concurrency)
	assert.False(t, cfg.Sync.Prune)
	assert.Equal(t, "md5", cfg.Sync.HashAlgorithm)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("STORAGE_BUCKET", "www-mysite-com")
	t.Setenv("STORAGE_ENDPOINT", "s3.amazonaws.com")
	t.Setenv("SYNC_CONCURRENCY", "8")
	t.Setenv("SYNC_PRUNE", "true")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := config.LoadConfig(t.TempDir())
	assert.NoError(t, err)

	assert.Equal(t, "www-mysite-com", cfg.Storage.Bucket)
	assert.Equal(t, "s3.amazonaws.com", cfg.Storage.Endpoint)
	assert.Equal(t, 8, cfg.Sync.Concurrency)
	assert.True(t, cfg.Sync.Prune)
	assert.Equal(t, "json", cfg.Log.Format)
}
