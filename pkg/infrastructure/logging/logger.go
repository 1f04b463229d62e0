package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

// New creates a logger writing to stderr with the given level and format
func New(level, format string) (*logrus.Logger, error) {
	return NewWithOutput(os.Stderr, level, format)
}

// NewWithOutput creates a logger writing to out
func NewWithOutput(out io.Writer, level, format string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	parsed, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(parsed)

	formatter, err := Formatter(format)
	if err != nil {
		return nil, err
	}
	logger.SetFormatter(formatter)

	return logger, nil
}

// ParseLevel accepts debug, info, warn and error; empty means info
func ParseLevel(level string) (logrus.Level, error) {
	switch level {
	case "debug":
		return logrus.DebugLevel, nil
	case "info", "":
		return logrus.InfoLevel, nil
	case "warn":
		return logrus.WarnLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	default:
		return logrus.InfoLevel, fmt.Errorf("invalid log level: %q", level)
	}
}

// Formatter returns the JSON (default) or text formatter
func Formatter(format string) (logrus.Formatter, error) {
	switch format {
	case "json", "":
		return &logrus.JSONFormatter{TimestampFormat: timestampFormat}, nil
	case "text":
		return &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
		}, nil
	default:
		return nil, fmt.Errorf("invalid log format: %q", format)
	}
}
