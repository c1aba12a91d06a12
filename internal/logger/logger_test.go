package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q): want %s, got %s", in, want, got)
		}
	}
}

func TestBuild_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := Build(&buf, "warn", "json")

	l.Info().Msg("hidden")
	l.Warn().Str("puuid", "abc").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %s", out)
	}
	if !strings.Contains(out, `"puuid":"abc"`) || !strings.Contains(out, "shown") {
		t.Errorf("warn line missing: %s", out)
	}
}

func TestBuild_Console(t *testing.T) {
	var buf bytes.Buffer
	l := Build(&buf, "info", "console")
	l.Info().Msg("hello")
	if strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("console format wrote JSON: %s", buf.String())
	}
}
