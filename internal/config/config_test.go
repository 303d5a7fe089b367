package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PG_HOST", "REDIS_ADDR", "HISTORIAN_QUEUE_NAME", "PASS_TIMEOUT_SEC", "POINT_MULTIPLIER", "HISTORIAN_BATCH_SIZE"} {
		t.Setenv(k, "")
	}
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.PGHost)
	assert.Equal(t, "big2_actions", cfg.HistorianQueue)
	assert.Equal(t, 100, cfg.PointMultiplier)
	assert.Equal(t, 100, cfg.HistorianBatchSize)
	assert.Zero(t, cfg.PassTimeout)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("POSTGRES_USER", "dealer")
	t.Setenv("POSTGRES_PASSWORD", "pw")
	t.Setenv("PG_HOST", "db")
	t.Setenv("PG_PORT", "6543")
	t.Setenv("PG_DATABASE", "cards")
	t.Setenv("PASS_TIMEOUT_SEC", "15")
	t.Setenv("HISTORIAN_FLUSH_MS", "250")
	t.Setenv("REDIS_DB", "3")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "postgres://dealer:pw@db:6543/cards", cfg.PostgresURL())
	assert.Equal(t, 15*time.Second, cfg.PassTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.HistorianFlush)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestFromEnvRejectsBadNumbers(t *testing.T) {
	t.Setenv("PASS_TIMEOUT_SEC", "soon")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("PASS_TIMEOUT_SEC", "-5")
	_, err = FromEnv()
	assert.Error(t, err)
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("HISTORIAN_QUEUE_NAME=from_file\n"), 0o600))
	t.Setenv("HISTORIAN_QUEUE_NAME", "")
	os.Unsetenv("HISTORIAN_QUEUE_NAME")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from_file", cfg.HistorianQueue)
	os.Unsetenv("HISTORIAN_QUEUE_NAME")
}

func TestLoadWithoutEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestNewLogger(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, NewLogger(Config{LogLevel: "debug"}).GetLevel())
	assert.Equal(t, logrus.InfoLevel, NewLogger(Config{LogLevel: "loud"}).GetLevel())
}
