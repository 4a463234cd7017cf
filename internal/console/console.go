// Package console provides the shared printf-style logger used across the
// generator. Output goes to stderr so generated artifacts piped through
// stdout stay clean.
package console

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is the process-wide logger instance.
var Logger = New()

// ConsoleLogger wraps a zerolog logger behind printf-style leveled methods.
type ConsoleLogger struct {
	logger zerolog.Logger
}

// New creates a logger writing human-readable output to stderr at info level.
func New() *ConsoleLogger {
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return &ConsoleLogger{
		logger: zerolog.New(writer).With().Timestamp().Logger().Level(zerolog.InfoLevel),
	}
}

// SetQuiet suppresses everything below the error level.
func (l *ConsoleLogger) SetQuiet(quiet bool) {
	if quiet {
		l.logger = l.logger.Level(zerolog.ErrorLevel)
	}
}

// SetDebug enables debug output.
func (l *ConsoleLogger) SetDebug(debug bool) {
	if debug {
		l.logger = l.logger.Level(zerolog.DebugLevel)
	}
}

// Debug logs at debug level.
func (l *ConsoleLogger) Debug(format string, v ...interface{}) {
	l.logger.Debug().Msgf(format, v...)
}

// Info logs at info level.
func (l *ConsoleLogger) Info(format string, v ...interface{}) {
	l.logger.Info().Msgf(format, v...)
}

// Warn logs at warn level.
func (l *ConsoleLogger) Warn(format string, v ...interface{}) {
	l.logger.Warn().Msgf(format, v...)
}

// Error logs at error level.
func (l *ConsoleLogger) Error(format string, v ...interface{}) {
	l.logger.Error().Msgf(format, v...)
}
