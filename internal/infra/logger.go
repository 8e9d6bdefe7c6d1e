package infra

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger constructs a zerolog.Logger for the given environment: debug level
// with console output in development, JSON at info level elsewhere.
func NewLogger(appEnv string) zerolog.Logger {
	return newLogger(appEnv, os.Stdout)
}

// NewCLILogger is NewLogger for command-line tools: logs go to stderr so
// stdout stays free for reports.
func NewCLILogger(appEnv string, verbose bool) zerolog.Logger {
	logger := newLogger(appEnv, os.Stderr)
	if verbose {
		logger = logger.Level(zerolog.DebugLevel)
	}
	return logger
}

func newLogger(appEnv string, out io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Logger()

	if appEnv == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}

	return logger
}

// Logger aliases zerolog.Logger so packages can accept a logger without
// importing zerolog themselves.
type Logger = zerolog.Logger
