// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup sets the global level and replaces log.Logger. Format "json" writes
// JSON lines, anything else a console writer. Unknown levels fall back to info.
func Setup(level, format string) {
	SetupTo(os.Stderr, level, format)
}

// SetupTo is Setup with an explicit destination.
func SetupTo(w io.Writer, level, format string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if format == "json" {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: w != os.Stderr}).
		With().Timestamp().Logger()
}

// OrGlobal returns l, or the global logger when l is the zero value.
// zerolog.Nop() is not the zero value and stays silent.
func OrGlobal(l zerolog.Logger) zerolog.Logger {
	if reflect.ValueOf(l).IsZero() {
		return log.Logger
	}
	return l
}
