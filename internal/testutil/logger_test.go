package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTestLogger(t *testing.T) {
	t.Parallel()

	logger := NewTestLogger(t, false)
	logger.Info("hello %s", "stack")
	logger.Debug("invisible")
	logger.Report("status: FAILED (1 error)", true)

	logger.AssertContains(t, "hello stack")
	logger.AssertNotContains(t, "invisible")
	assert.Equal(t, []string{"status: FAILED (1 error)"}, logger.Reports())
}
