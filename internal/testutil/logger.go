// Package testutil holds helpers shared by package tests.
package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/systmms/gstack/internal/logging"
)

// TestLogger captures log output for validation in tests.
//
// Example usage:
//
//	logger := testutil.NewTestLogger(t, false)
//	chk := checker.New(logger.Logger, nil, false)
//	...
//	logger.AssertContains(t, "EmptyStack")
type TestLogger struct {
	*logging.Logger
	Logs *observer.ObservedLogs
}

// NewTestLogger creates a logger whose entries are kept in memory.
// Debug entries are only recorded when debug is true.
func NewTestLogger(t *testing.T, debug bool) *TestLogger {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	return &TestLogger{
		Logger: logging.NewWithCore(core, debug),
		Logs:   logs,
	}
}

// Output returns every captured message, one per line.
func (l *TestLogger) Output() string {
	var lines []string
	for _, e := range l.Logs.AllUntimed() {
		lines = append(lines, e.Message)
	}
	return strings.Join(lines, "\n")
}

// Reports returns the messages logged at error level.
func (l *TestLogger) Reports() []string {
	var out []string
	for _, e := range l.Logs.FilterLevelExact(zapcore.ErrorLevel).AllUntimed() {
		out = append(out, e.Message)
	}
	return out
}

// AssertContains asserts that some captured message contains substr.
func (l *TestLogger) AssertContains(t *testing.T, substr string) {
	t.Helper()
	assert.Contains(t, l.Output(), substr)
}

// AssertNotContains asserts that no captured message contains substr.
func (l *TestLogger) AssertNotContains(t *testing.T, substr string) {
	t.Helper()
	assert.NotContains(t, l.Output(), substr)
}
