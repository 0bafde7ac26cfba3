// Package logger provides the leveled logging interface shared by the
// rosvault engine, daemon and CLI. Backends exist for console output,
// append-only log files and tests; MultiLogger fans out to several.
package logger

import (
	"fmt"
	"log"
	"os"
)

// Logger is the capability the engine depends on for reporting. The
// engine never knows whether lines end up on a console, in a file, or
// in a control panel.
type Logger interface {
	// Info logs routine progress (finds, downloads, saves).
	Info(format string, args ...interface{})

	// Warning logs degraded-but-continuing conditions (retries, feed
	// failures, persistence failures).
	Warning(format string, args ...interface{})

	// Error logs per-target failures. Nothing logged here is fatal.
	Error(format string, args ...interface{})

	// Close releases backend resources. Safe to call more than once.
	Close() error
}

// StandardLogger writes leveled lines through a stdlib *log.Logger.
type StandardLogger struct {
	logger *log.Logger
}

// NewStandardLogger wraps an existing *log.Logger.
func NewStandardLogger(l *log.Logger) *StandardLogger {
	return &StandardLogger{logger: l}
}

func (s *StandardLogger) Info(format string, args ...interface{}) {
	s.logger.Printf("[INFO] "+format, args...)
}

func (s *StandardLogger) Warning(format string, args ...interface{}) {
	s.logger.Printf("[WARNING] "+format, args...)
}

func (s *StandardLogger) Error(format string, args ...interface{}) {
	s.logger.Printf("[ERROR] "+format, args...)
}

func (s *StandardLogger) Close() error {
	return nil
}

// FileLogger appends leveled lines to a log file.
type FileLogger struct {
	f *os.File
	l *log.Logger
}

// NewFileLogger opens (or creates) path for appending.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{
		f: f,
		l: log.New(f, "", log.LstdFlags),
	}, nil
}

func (fl *FileLogger) Info(format string, args ...interface{}) {
	fl.l.Printf("[INFO] "+format, args...)
}

func (fl *FileLogger) Warning(format string, args ...interface{}) {
	fl.l.Printf("[WARNING] "+format, args...)
}

func (fl *FileLogger) Error(format string, args ...interface{}) {
	fl.l.Printf("[ERROR] "+format, args...)
}

// Close closes the underlying file. Subsequent calls return the file's
// close error; callers treat that as best-effort cleanup.
func (fl *FileLogger) Close() error {
	return fl.f.Close()
}

// NopLogger discards every message. Used as the engine default and in
// tests that don't assert on log output.
type NopLogger struct{}

func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

func (n *NopLogger) Info(format string, args ...interface{})    {}
func (n *NopLogger) Warning(format string, args ...interface{}) {}
func (n *NopLogger) Error(format string, args ...interface{})   {}
func (n *NopLogger) Close() error                               { return nil }

// MockLogger records formatted calls for test assertions.
type MockLogger struct {
	InfoCalls    []string
	WarningCalls []string
	ErrorCalls   []string
	CloseCalled  bool
}

func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) Info(format string, args ...interface{}) {
	m.InfoCalls = append(m.InfoCalls, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Warning(format string, args ...interface{}) {
	m.WarningCalls = append(m.WarningCalls, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Error(format string, args ...interface{}) {
	m.ErrorCalls = append(m.ErrorCalls, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Close() error {
	m.CloseCalled = true
	return nil
}

var (
	_ Logger = (*StandardLogger)(nil)
	_ Logger = (*FileLogger)(nil)
	_ Logger = (*NopLogger)(nil)
	_ Logger = (*MockLogger)(nil)
)
