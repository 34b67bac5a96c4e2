// Package logger wraps charm's log package with the events the editor reports.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that appends to a file.
// The terminal belongs to the editor, so this is the only place logs can go.
func NewFileLogger(path string, level log.Level) (*Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return NewWithLevel(f, level), cleanup, nil
}

// ParseLevel maps a config string to a level, defaulting to info.
func ParseLevel(s string) log.Level {
	if s == "" {
		return log.InfoLevel
	}
	level, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// FileOpened logs a successful open
func (l *Logger) FileOpened(path string, bytes int) {
	l.Info("file opened",
		"path", path,
		"bytes", bytes)
}

// FileSaved logs a successful write
func (l *Logger) FileSaved(path string, bytes int, saveAs bool) {
	l.Info("file saved",
		"path", path,
		"bytes", bytes,
		"save_as", saveAs)
}

// OperationCancelled logs a dialog the user dismissed
func (l *Logger) OperationCancelled(op string) {
	l.Debug("operation cancelled",
		"op", op)
}

// OperationFailed logs an error surfaced to the user
func (l *Logger) OperationFailed(op string, err error) {
	l.Error("operation failed",
		"op", op,
		"error", err)
}

// DialogRequested logs a dialog round trip through the UI
func (l *Logger) DialogRequested(id, kind string) {
	l.Debug("dialog requested",
		"id", id,
		"kind", kind)
}

// ConfigLoaded logs the configuration in use
func (l *Logger) ConfigLoaded(path string, err error) {
	if err != nil {
		l.Warn("config not loaded",
			"path", path,
			"error", err)
		return
	}
	l.Debug("config loaded",
		"path", path)
}

// EncodingDetected logs how a file's bytes were interpreted
func (l *Logger) EncodingDetected(path, encoding, lineEnding string, confidence int) {
	l.Debug("encoding detected",
		"path", path,
		"encoding", encoding,
		"line_ending", lineEnding,
		"confidence", confidence)
}

// EditDropped logs widget content that arrived for a replaced document
func (l *Logger) EditDropped(generation, current uint64) {
	l.Debug("stale edit dropped",
		"generation", generation,
		"current", current)
}
