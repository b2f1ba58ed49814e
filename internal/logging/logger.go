// Package logging sets up the client's file logger. The terminal belongs
// to the UI, so nothing is ever written to stdout or stderr.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// FileLogger writes structured JSON logs to a file.
type FileLogger struct {
	Logger *log.Logger
	file   *os.File
	path   string
}

// New opens path for appending and returns a logger at the given level.
// An empty path places a timestamped file under ~/.wordsearch/logs.
func New(path, level string) (*FileLogger, error) {
	lvl := log.InfoLevel
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		lvl = parsed
	}

	if path == "" {
		var err error
		path, err = defaultPath(time.Now())
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	// #nosec G304 -- path comes from local config or the home directory.
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	logger := log.NewWithOptions(file, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	logger.SetFormatter(log.JSONFormatter)
	logger.With("log_file", path).Info("logger initialized")

	return &FileLogger{Logger: logger, file: file, path: path}, nil
}

// Close closes the log file.
func (f *FileLogger) Close() error {
	if f == nil || f.file == nil {
		return nil
	}
	return f.file.Close()
}

// Path returns the log file path.
func (f *FileLogger) Path() string {
	if f == nil {
		return ""
	}
	return f.path
}

func defaultPath(now time.Time) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	name := fmt.Sprintf("wordsearch-%s.log", now.UTC().Format("20060102-150405"))
	return filepath.Join(home, ".wordsearch", "logs", name), nil
}
