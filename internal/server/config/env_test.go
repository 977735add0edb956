package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseEnv_PrefixedVariables(t *testing.T) {
	t.Setenv("FILES_HTTP_ADDR", ":6000")
	t.Setenv("FILES_AUTH_TOKEN_TTL", "2h")
	t.Setenv("FILES_AUTH_ENFORCE_PUBLISH_OWNERSHIP", "true")
	t.Setenv("FILES_SESSIONS_BACKEND", "memory")
	t.Setenv("FILES_REDIS_DB", "4")
	t.Setenv("FILES_THUMBNAILS_SIZES", "300, 150")
	t.Setenv("FILES_THUMBNAILS_WORKERS", "5")
	t.Setenv("FILES_LOGGING_LEVEL", "warn")

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(cfg, ""))

	assert.Equal(t, ":6000", cfg.HTTPAddr)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.EnforcePublishOwnership)
	assert.Equal(t, SessionsMemory, cfg.SessionBackend)
	assert.Equal(t, 4, cfg.RedisDB)
	assert.Equal(t, []int{300, 150}, cfg.ThumbnailSizes)
	assert.Equal(t, 5, cfg.Workers)
	assert.Equal(t, "warn", cfg.LogLevel)
	// untouched
	assert.Equal(t, ContentFilesystem, cfg.ContentBackend)
}

func Test_parseEnv_LegacyAliases(t *testing.T) {
	t.Setenv("PORT", "5001")
	t.Setenv("FOLDER_PATH", "/data/files")

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(cfg, ""))

	assert.Equal(t, ":5001", cfg.HTTPAddr)
	assert.Equal(t, "/data/files", cfg.FolderPath)
}

func Test_parseEnv_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FILES_PAGE_SIZE=50\nFILES_CONTENT_S3_BUCKET=from-dotenv\n"), 0o600))
	t.Setenv("FILES_CONTENT_S3_BUCKET", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("FILES_PAGE_SIZE") })

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(cfg, path))

	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, "from-env", cfg.S3Bucket, "process environment wins over .env")
}

func Test_parseEnv_MissingDotEnvIgnored(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(cfg, filepath.Join(t.TempDir(), ".env")))
}

func Test_parseEnv_BadSizes(t *testing.T) {
	t.Setenv("FILES_THUMBNAILS_SIZES", "500,big")

	cfg := &Config{}
	err := parseEnv(cfg, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FILES_THUMBNAILS_SIZES")
}
