package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Setup configures the process-wide logger. Development environments get
// human-readable console output, everything else JSON lines.
func Setup(env string, debug bool) {
	var w io.Writer = os.Stdout
	if env == "" || env == "development" || env == "local" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	log = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// SetOutput redirects the logger, used by tests to capture output
func SetOutput(w io.Writer) {
	log = log.Output(w)
}

// Get returns the configured logger
func Get() *zerolog.Logger {
	return &log
}

// With returns a child logger tagged with a component name
func With(component string) zerolog.Logger {
	return log.With().Str("component", strings.ToLower(component)).Logger()
}

func Debug() *zerolog.Event { return log.Debug() }

func Info() *zerolog.Event { return log.Info() }

func Warn() *zerolog.Event { return log.Warn() }

func Error() *zerolog.Event { return log.Error() }

func Fatal() *zerolog.Event { return log.Fatal() }
