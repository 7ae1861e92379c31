// Package logger provides levelled logging for gcs-indexer.
// Debug and info lines are only printed in verbose mode (--verbose);
// warnings and errors are always printed. Output goes to stderr.
//
// Services receive a *Logger so tests can capture output; the package-level
// functions write through Default.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Logger writes prefixed log lines to an output.
type Logger struct {
	mu      sync.RWMutex
	verbose bool
	output  io.Writer
	fields  string
}

// Default is the process-wide logger used by the package-level functions.
var Default = New(os.Stderr, false)

// New creates a logger writing to w.
func New(w io.Writer, verbose bool) *Logger {
	return &Logger{output: w, verbose: verbose}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, false)
}

// With returns a logger that shares this logger's settings and appends
// key=value pairs to every line.
func (l *Logger) With(key string, value any) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return &Logger{
		verbose: l.verbose,
		output:  l.output,
		fields:  l.fields + fmt.Sprintf(" %s=%v", key, value),
	}
}

// SetVerbose enables or disables verbose logging.
func (l *Logger) SetVerbose(v bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func (l *Logger) IsVerbose() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verbose
}

// SetOutput sets the output writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
}

func (l *Logger) write(always bool, level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if always || l.verbose {
		fmt.Fprintf(l.output, "[%s] %s%s\n", level, fmt.Sprintf(format, args...), l.fields)
	}
}

// Debug prints a message if verbose mode is enabled.
func (l *Logger) Debug(format string, args ...any) { l.write(false, "DEBUG", format, args...) }

// Info prints an informational message if verbose mode is enabled.
func (l *Logger) Info(format string, args ...any) { l.write(false, "INFO", format, args...) }

// Warn prints a warning.
func (l *Logger) Warn(format string, args ...any) { l.write(true, "WARN", format, args...) }

// Error prints an error.
func (l *Logger) Error(format string, args ...any) { l.write(true, "ERROR", format, args...) }

// Section prints a section header if verbose mode is enabled.
func (l *Logger) Section(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.verbose {
		fmt.Fprintf(l.output, "\n=== %s ===\n", name)
	}
}

// SetVerbose enables or disables verbose logging on Default.
func SetVerbose(v bool) { Default.SetVerbose(v) }

// IsVerbose returns true if Default is verbose.
func IsVerbose() bool { return Default.IsVerbose() }

// SetOutput sets the output writer for Default.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) { Default.SetOutput(w) }

// Debug logs through Default.
func Debug(format string, args ...any) { Default.Debug(format, args...) }

// Info logs through Default.
func Info(format string, args ...any) { Default.Info(format, args...) }

// Warn logs through Default.
func Warn(format string, args ...any) { Default.Warn(format, args...) }

// Error logs through Default.
func Error(format string, args ...any) { Default.Error(format, args...) }

// Section prints a header through Default.
func Section(name string) { Default.Section(name) }
