// Package logger holds the process-wide zerolog instance. All output goes
// to stderr; stdout belongs to the interactive session.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	Init("info")
}

// Init configures the global logger at the given level ("debug", "info",
// "warn", "error", "fatal"; unknown values fall back to info). Debug level
// switches to the human-readable console format.
func Init(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	if lvl == zerolog.DebugLevel {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}

	log = zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

func Debug() *zerolog.Event { return log.Debug() }
func Info() *zerolog.Event  { return log.Info() }
func Warn() *zerolog.Event  { return log.Warn() }
func Error() *zerolog.Event { return log.Error() }
func Fatal() *zerolog.Event { return log.Fatal() }

// Infof logs a printf-formatted message at info level.
func Infof(format string, v ...any) {
	log.Info().Msgf(format, v...)
}

// Errorf logs a printf-formatted message at error level.
func Errorf(format string, v ...any) {
	log.Error().Msgf(format, v...)
}

// Fatalf logs at fatal level and exits.
func Fatalf(format string, v ...any) {
	log.Fatal().Msgf(format, v...)
}

// Get exposes the underlying zerolog.Logger.
func Get() zerolog.Logger {
	return log
}
