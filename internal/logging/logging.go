// Package logging builds the application logger. The TUI owns the terminal,
// so log output goes to a file in the data directory.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileName is the log file created inside the data directory
const FileName = "tickle.log"

// Options holds configuration for the application logger.
type Options struct {
	Level     string // debug, info, warn, error
	Format    string // text, json, logfmt
	Prefix    string
	Timestamp bool
}

// DefaultOptions returns default logger options.
func DefaultOptions() Options {
	return Options{
		Level:     "info",
		Format:    "text",
		Prefix:    "tickle",
		Timestamp: true,
	}
}

// New creates a logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	level := ParseLevel(opts.Level)
	if os.Getenv("TICKLE_DEBUG") == "1" {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       ParseFormatter(opts.Format),
		ReportTimestamp: opts.Timestamp,
		Prefix:          opts.Prefix,
	})
}

// FileLogger is a logger backed by a log file.
type FileLogger struct {
	*log.Logger
	Path string
	file *os.File
}

// OpenFile opens (appending) the log file in dir and returns a logger on it.
func OpenFile(dir string, opts Options) (*FileLogger, error) {
	if dir == "" {
		return nil, fmt.Errorf("log dir is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	path := filepath.Join(dir, FileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return &FileLogger{
		Logger: New(file, opts),
		Path:   path,
		file:   file,
	}, nil
}

// Close closes the log file.
func (f *FileLogger) Close() error {
	if f == nil || f.file == nil {
		return nil
	}
	return f.file.Close()
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// ParseLevel parses a level name, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter parses a formatter name, defaulting to text.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// ValidFormat reports whether format names a known formatter.
func ValidFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text", "json", "logfmt":
		return true
	}
	return false
}
