package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const (
	// LogFormatPlain defines a logging format used for human-readable,
	// single-line log output.
	LogFormatPlain string = "plain"

	// LogFormatJSON defines a logging format for structured JSON output.
	LogFormatJSON string = "json"

	// Supported log levels.
	LogLevelDebug string = "debug"
	LogLevelInfo  string = "info"
	LogLevelError string = "error"
)

type defaultLogger struct {
	zerolog.Logger
}

// NewDefaultLogger returns a default logger that writes to os.Stderr.
func NewDefaultLogger(format, level string) (Logger, error) {
	return NewLogger(format, level, os.Stderr)
}

// NewLogger returns a logger in the given format and at the given level,
// writing to w. An unknown format or level is an error.
func NewLogger(format, level string, w io.Writer) (Logger, error) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level (%s): %w", level, err)
	}

	var logWriter io.Writer
	switch strings.ToLower(format) {
	case LogFormatPlain:
		logWriter = zerolog.ConsoleWriter{
			Out:     w,
			NoColor: true,
		}
	case LogFormatJSON:
		logWriter = w
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}

	return &defaultLogger{
		Logger: zerolog.New(logWriter).Level(logLevel).With().Timestamp().Logger(),
	}, nil
}

func (l defaultLogger) Debug(msg string, keyvals ...interface{}) {
	l.Logger.Debug().Fields(getLogFields(keyvals...)).Msg(msg)
}

func (l defaultLogger) Info(msg string, keyvals ...interface{}) {
	l.Logger.Info().Fields(getLogFields(keyvals...)).Msg(msg)
}

func (l defaultLogger) Error(msg string, keyvals ...interface{}) {
	l.Logger.Error().Fields(getLogFields(keyvals...)).Msg(msg)
}

func (l defaultLogger) With(keyvals ...interface{}) Logger {
	return &defaultLogger{
		Logger: l.Logger.With().Fields(getLogFields(keyvals...)).Logger(),
	}
}

func getLogFields(keyvals ...interface{}) map[string]interface{} {
	if len(keyvals)%2 != 0 {
		return nil
	}

	fields := make(map[string]interface{}, len(keyvals))
	for i := 0; i < len(keyvals); i += 2 {
		fields[fmt.Sprint(keyvals[i])] = keyvals[i+1]
	}

	return fields
}
