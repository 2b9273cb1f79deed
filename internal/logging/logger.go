// =============================================================================
// Invoice Report Importer - Logging
// =============================================================================
//
// Builds the logrus logger from level, format and destination options.
//
// =============================================================================

// Package logging builds the application's logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options selects level, format and destination.
type Options struct {
	// Level is a logrus level name. Unknown names fall back to info.
	Level string
	// Format is "json" or "text".
	Format string
	// File receives the log when set; otherwise stdout.
	File string
	// Verbose forces debug level.
	Verbose bool
}

// New returns a configured logger and a function that releases its output.
func New(opts Options) (*logrus.Logger, func() error, error) {
	logger := logrus.New()

	level := opts.Level
	if level == "" {
		level = "info"
	}
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	if opts.Verbose {
		logLevel = logrus.DebugLevel
	}
	logger.SetLevel(logLevel)

	if strings.EqualFold(opts.Format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	closeFn := func() error { return nil }
	if opts.File == "" {
		logger.SetOutput(os.Stdout)
		return logger, closeFn, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger.SetOutput(f)
	return logger, f.Close, nil
}

// Discard returns a logger that writes nowhere. Tests use it.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
