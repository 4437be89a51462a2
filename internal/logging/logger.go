// Package logging provides the process wide structured logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Fields is an alias so callers do not import logrus just for field maps
type Fields = logrus.Fields

// Output formats accepted by Configure
const (
	FormatJSON = "json"
	FormatText = "text"
)

const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

var logger *logrus.Logger

func init() {
	logger = logrus.New()
	logger.SetOutput(os.Stdout)
	setFormat(FormatText)

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	setLevel(logLevel)
}

// GetLogger returns the shared logger
func GetLogger() *logrus.Logger {
	return logger
}

// Configure applies level and format, typically from config.Env.
// Unknown values fall back to info and text.
func Configure(level, format string) {
	setLevel(level)
	setFormat(format)
}

// SetOutput redirects log output, used by tests to silence or capture logs
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func setLevel(name string) {
	level, err := logrus.ParseLevel(strings.TrimSpace(name))
	if err != nil {
		logger.Warnf("Invalid log level %s, defaulting to info", name)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

func setFormat(format string) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: timestampFormat,
			FullTimestamp:   true,
		})
	}
}

// WithComponent tags entries with the emitting package
func WithComponent(name string) *logrus.Entry {
	return logger.WithField("component", name)
}

// WithResolution tags entries with a resolution correlation id and generation
func WithResolution(entry *logrus.Entry, resolutionID string, generation uint64) *logrus.Entry {
	if entry == nil {
		entry = logrus.NewEntry(logger)
	}
	return entry.WithFields(Fields{
		"resolution_id": resolutionID,
		"generation":    generation,
	})
}
