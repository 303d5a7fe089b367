// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config is the process configuration, read from the environment.
type Config struct {
	PGUser     string
	PGPassword string
	PGHost     string
	PGPort     string
	PGDatabase string

	RedisAddr string
	RedisDB   int

	HistorianQueue     string
	HistorianBatchSize int
	HistorianFlush     time.Duration

	GameInactivityTimeout time.Duration
	PassTimeout           time.Duration
	PointMultiplier       int

	LogLevel string
}

// Load reads an optional .env file from the working directory (or the given files)
// and then the environment. Values already set in the environment win.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables, applying defaults.
func FromEnv() (Config, error) {
	cfg := Config{
		PGUser:         getenv("POSTGRES_USER", "postgres"),
		PGPassword:     os.Getenv("POSTGRES_PASSWORD"),
		PGHost:         getenv("PG_HOST", "localhost"),
		PGPort:         getenv("PG_PORT", "5432"),
		PGDatabase:     getenv("PG_DATABASE", "big2"),
		RedisAddr:      getenv("REDIS_ADDR", "localhost:6379"),
		HistorianQueue: getenv("HISTORIAN_QUEUE_NAME", "big2_actions"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.RedisDB, err = intEnv("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.HistorianBatchSize, err = intEnv("HISTORIAN_BATCH_SIZE", 100); err != nil {
		return Config{}, err
	}
	flushMS, err := intEnv("HISTORIAN_FLUSH_MS", 1000)
	if err != nil {
		return Config{}, err
	}
	cfg.HistorianFlush = time.Duration(flushMS) * time.Millisecond

	inactivity, err := intEnv("GAME_INACTIVITY_TIMEOUT_SEC", 600)
	if err != nil {
		return Config{}, err
	}
	cfg.GameInactivityTimeout = time.Duration(inactivity) * time.Second

	pass, err := intEnv("PASS_TIMEOUT_SEC", 0)
	if err != nil {
		return Config{}, err
	}
	cfg.PassTimeout = time.Duration(pass) * time.Second

	if cfg.PointMultiplier, err = intEnv("POINT_MULTIPLIER", 100); err != nil {
		return Config{}, err
	}
	if cfg.HistorianBatchSize <= 0 {
		return Config{}, fmt.Errorf("HISTORIAN_BATCH_SIZE must be positive, got %d", cfg.HistorianBatchSize)
	}
	return cfg, nil
}

// PostgresURL is the pgx connection string.
func (c Config) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}

// NewLogger builds the process logger at the configured level.
func NewLogger(c Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logger.Warnf("unknown LOG_LEVEL %q, using info", c.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %d", key, n)
	}
	return n, nil
}
