package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pable/go-lol-titles/internal/app"
	"github.com/pable/go-lol-titles/internal/config"
	"github.com/pable/go-lol-titles/internal/lcu"
	"github.com/pable/go-lol-titles/internal/logger"
	"github.com/pable/go-lol-titles/internal/storage"
)

var (
	dbPath    string
	logLevel  string
	logFormat string
	lockfile  string

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "loltitles",
	Short: "League of Legends lobby title tool",
	Long: `Profile recent League of Legends match histories and hand out flavor titles
to the members of a lobby: at most one title per player, each backed by a stat line.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (env LOLTITLES_DB)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (env LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json (env LOG_FORMAT)")
	rootCmd.PersistentFlags().StringVar(&lockfile, "lockfile", "", "path to the League client lockfile (env LOLTITLES_LOCKFILE)")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(titlesCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(evaluationsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
}

// loadConfig merges environment config with explicitly set flags and
// builds the process logger.
func loadConfig(cmd *cobra.Command, _ []string) error {
	boot := logger.Build(os.Stderr, envOr("LOG_LEVEL", "warn"), "console")
	c, err := config.Load(boot)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		c.DBPath = dbPath
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		c.LogFormat = logFormat
	}
	if flags.Changed("lockfile") {
		c.LockfilePath = lockfile
	}

	cfg = c
	dbPath = c.DBPath
	log = logger.Build(os.Stderr, c.LogLevel, c.LogFormat)
	return nil
}

func openStore() (*storage.DB, error) {
	if err := os.MkdirAll(dbDir(), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

func dbDir() string {
	return filepath.Dir(dbPath)
}

// connectLCU reads the lockfile and returns a client for the running League client.
func connectLCU() (*lcu.Client, error) {
	return app.ProvideLCU(cfg, log)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
