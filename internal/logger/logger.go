package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a logger writing JSON to stderr at info level.
func New() zerolog.Logger {
	return Build(os.Stderr, "info", "json")
}

// Build returns a logger at the named level. format "console" selects the
// human-readable writer; anything else writes JSON. An unknown level falls
// back to info.
func Build(w io.Writer, level, format string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	out := w
	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	logger := zerolog.New(out).
		With().
		Timestamp().
		Caller().
		Logger()

	return logger.Level(ParseLevel(level))
}

func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
