// Package logger provides component-scoped structured logging for athena.
//
// The chat TUI owns the terminal, so log output normally goes to a file.
// Until Init is called every call is discarded.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the global logger
type Options struct {
	// Path of the log file. Empty disables file logging.
	Path string
	// Verbose enables debug level output
	Verbose bool
	// Writer overrides Path when set (tests, stderr)
	Writer io.Writer
}

var (
	mu     sync.RWMutex
	log    = zerolog.Nop()
	closer io.Closer
)

// Init configures the global logger. Calling it again replaces the previous sink.
func Init(opts Options) error {
	w := opts.Writer
	var c io.Closer

	if w == nil && opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o700); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		w, c = f, f
	}

	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	mu.Lock()
	defer mu.Unlock()

	if closer != nil {
		_ = closer.Close()
	}
	closer = c

	if w == nil {
		log = zerolog.Nop()
		return nil
	}
	log = zerolog.New(w).Level(level).With().Timestamp().Logger()
	return nil
}

// Close flushes and closes the log file, if any
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	log = zerolog.Nop()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	return err
}

// Fields are structured key/value pairs attached to a log line
type Fields map[string]interface{}

func emit(ev *zerolog.Event, component, msg string, fields Fields) {
	if ev == nil {
		return
	}
	ev = ev.Str("component", component)
	for k, v := range fields {
		switch val := v.(type) {
		case error:
			ev = ev.AnErr(k, val)
		case time.Duration:
			ev = ev.Dur(k, val)
		default:
			ev = ev.Interface(k, val)
		}
	}
	ev.Msg(msg)
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// DebugCF logs a debug message for a component
func DebugCF(component, msg string, fields Fields) {
	l := current()
	emit(l.Debug(), component, msg, fields)
}

// InfoCF logs an info message for a component
func InfoCF(component, msg string, fields Fields) {
	l := current()
	emit(l.Info(), component, msg, fields)
}

// WarnCF logs a warning for a component
func WarnCF(component, msg string, fields Fields) {
	l := current()
	emit(l.Warn(), component, msg, fields)
}

// ErrorCF logs an error for a component
func ErrorCF(component, msg string, fields Fields) {
	l := current()
	emit(l.Error(), component, msg, fields)
}
