package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/pable/go-lol-titles/internal/aggregator"
	"github.com/pable/go-lol-titles/internal/constants"
)

type Config struct {
	DBPath           string
	LockfilePath     string
	PollInterval     time.Duration
	HistorySize      int
	Decay            float64
	FetchConcurrency int
	LogLevel         string
	LogFormat        string
	AnthropicAPIKey  string
}

// Load reads .env (if present) and the environment. Malformed numeric values
// are reported as errors rather than silently replaced.
func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:          getEnv("LOLTITLES_DB", DefaultDBPath()),
		LockfilePath:    getEnv("LOLTITLES_LOCKFILE", DefaultLockfilePath()),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
	}

	var err error
	if cfg.PollInterval, err = getDuration("LOLTITLES_POLL_INTERVAL", constants.DefaultPollPeriod); err != nil {
		return nil, err
	}
	if cfg.HistorySize, err = getInt("LOLTITLES_HISTORY_SIZE", constants.DefaultHistorySize); err != nil {
		return nil, err
	}
	if cfg.FetchConcurrency, err = getInt("LOLTITLES_FETCH_CONCURRENCY", constants.DefaultFetchConcurrency); err != nil {
		return nil, err
	}
	if cfg.Decay, err = getFloat("LOLTITLES_DECAY", aggregator.DecayFactor); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("db_path", cfg.DBPath).
		Str("lockfile", cfg.LockfilePath).
		Dur("poll_interval", cfg.PollInterval).
		Int("history_size", cfg.HistorySize).
		Float64("decay", cfg.Decay).
		Int("fetch_concurrency", cfg.FetchConcurrency).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.HistorySize < 1 || c.HistorySize > constants.MaxHistorySize {
		return fmt.Errorf("LOLTITLES_HISTORY_SIZE must be between 1 and %d, got %d", constants.MaxHistorySize, c.HistorySize)
	}
	if c.Decay <= 0 || c.Decay > 1 {
		return fmt.Errorf("LOLTITLES_DECAY must be in (0, 1], got %g", c.Decay)
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("LOLTITLES_FETCH_CONCURRENCY must be positive, got %d", c.FetchConcurrency)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("LOLTITLES_POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}
	return nil
}

// DefaultDBPath is ~/.loltitles/titles.db, or titles.db when there is no home dir.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return constants.DBFileName
	}
	return filepath.Join(home, ".loltitles", constants.DBFileName)
}

// DefaultLockfilePath is the League client lockfile in its default install location.
func DefaultLockfilePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join("C:\\", "Riot Games", "League of Legends", "lockfile")
	case "darwin":
		return "/Applications/League of Legends.app/Contents/LoL/lockfile"
	default:
		return "lockfile"
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return f, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
