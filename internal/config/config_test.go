package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"LOLTITLES_DB", "LOLTITLES_POLL_INTERVAL", "LOLTITLES_HISTORY_SIZE",
		"LOLTITLES_DECAY", "LOLTITLES_FETCH_CONCURRENCY",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load(zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != DefaultDBPath() || filepath.Base(cfg.DBPath) != "titles.db" {
		t.Errorf("DBPath: got %q", cfg.DBPath)
	}
	if cfg.HistorySize != 20 {
		t.Errorf("HistorySize: want 20, got %d", cfg.HistorySize)
	}
	if cfg.Decay != 0.85 {
		t.Errorf("Decay: want 0.85, got %v", cfg.Decay)
	}
	if cfg.FetchConcurrency != 4 {
		t.Errorf("FetchConcurrency: want 4, got %d", cfg.FetchConcurrency)
	}
	if cfg.PollInterval != 3*time.Second {
		t.Errorf("PollInterval: want 3s, got %s", cfg.PollInterval)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LOLTITLES_DB", "/tmp/x.db")
	t.Setenv("LOLTITLES_POLL_INTERVAL", "750ms")
	t.Setenv("LOLTITLES_HISTORY_SIZE", "10")
	t.Setenv("LOLTITLES_DECAY", "0.9")
	t.Setenv("LOLTITLES_FETCH_CONCURRENCY", "2")

	cfg, err := Load(zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/x.db" || cfg.HistorySize != 10 || cfg.Decay != 0.9 ||
		cfg.FetchConcurrency != 2 || cfg.PollInterval != 750*time.Millisecond {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		key, value, want string
	}{
		{"LOLTITLES_HISTORY_SIZE", "abc", "parse LOLTITLES_HISTORY_SIZE"},
		{"LOLTITLES_HISTORY_SIZE", "0", "between 1 and"},
		{"LOLTITLES_DECAY", "1.2", "(0, 1]"},
		{"LOLTITLES_POLL_INTERVAL", "soon", "parse LOLTITLES_POLL_INTERVAL"},
		{"LOLTITLES_FETCH_CONCURRENCY", "-1", "must be positive"},
	}
	for _, tc := range cases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load(zerolog.Nop())
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}
