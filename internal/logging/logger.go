package logging

import (
	"os"
	"strings"
	"time"

	"courtside/config"

	"github.com/rs/zerolog"
)

// New constructs the application logger. Defaults to JSON on stdout at info
// level when the config fields are empty.
func New(cfg config.LoggingConfig, env string) zerolog.Logger {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level))); err == nil && cfg.Level != "" {
		level = parsed
	}

	var out = zerolog.New(os.Stdout)
	if strings.ToLower(strings.TrimSpace(cfg.Format)) == "console" {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	return out.Level(level).With().
		Timestamp().
		Str("app", "courtside").
		Str("env", env).
		Logger()
}
