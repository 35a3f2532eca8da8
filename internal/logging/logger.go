// Package logging provides the zerolog setup shared by the bridge and the
// demo browser.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Environment overrides, honored by NewFromEnv before any config file has
// been read.
const (
	EnvLevel  = "WEFT_LOG_LEVEL"
	EnvFormat = "WEFT_LOG_FORMAT"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// NewFromConfigValues builds a logger from the level and format strings as
// they appear in the config file. Unknown values fall back to info-level
// console output rather than failing: logging must come up even when the
// config is wrong, or nothing else can report that it is.
func NewFromConfigValues(level, format string) zerolog.Logger {
	lvl := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(level); err == nil && level != "" {
		lvl = parsed
	}

	var out io.Writer = os.Stderr
	if format != FormatJSON {
		out = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// NewFromEnv builds a logger from WEFT_LOG_LEVEL and WEFT_LOG_FORMAT, for
// the window between process start and config load.
func NewFromEnv() zerolog.Logger {
	return NewFromConfigValues(os.Getenv(EnvLevel), os.Getenv(EnvFormat))
}
