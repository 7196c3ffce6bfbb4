package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/gstack/internal/config"
	"github.com/systmms/gstack/internal/logging"
	"github.com/systmms/gstack/pkg/stack"
)

func testConfig(t *testing.T, content string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gstack.yaml")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return &config.Config{
		Path:   path,
		Logger: logging.New(false, true),
	}
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunCommand_NoSteps(t *testing.T) {
	t.Parallel()

	_, err := execute(t, NewRunCommand(testConfig(t, "")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No steps specified")
}

func TestRunCommand_PopThenTop(t *testing.T) {
	t.Parallel()

	out, err := execute(t, NewRunCommand(testConfig(t, "")), "push 1 push 2 push 3 pop push 4 top")
	require.NoError(t, err)

	assert.Contains(t, out, "pop")
	assert.Contains(t, out, "value=3 size=2")
	assert.Contains(t, out, "value=4 size=3")
}

func TestRunCommand_ReportsFaults(t *testing.T) {
	t.Parallel()

	out, err := execute(t, NewRunCommand(testConfig(t, "")), "push", "1", "corrupt", "data-right", "push", "2")
	require.Error(t, err)
	assert.ErrorIs(t, err, stack.DataGuardRightDamaged)
	assert.Contains(t, err.Error(), "script failed")
	assert.Contains(t, out, "faults=DataGuardRightDamaged")
	assert.Contains(t, out, "size=invalid")
}

func TestRunCommand_NoConstruct(t *testing.T) {
	t.Parallel()

	_, err := execute(t, NewRunCommand(testConfig(t, "")), "--no-construct", "push", "1")
	assert.ErrorIs(t, err, stack.NullOrUnconstructed)
}

func TestRunCommand_ParseError(t *testing.T) {
	t.Parallel()

	_, err := execute(t, NewRunCommand(testConfig(t, "")), "shove 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operation")
}

func TestRunCommand_LimitedAllocatorOutOfMemory(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "version: 1\nallocator: limited\nmemoryLimit: 32\n")
	out, err := execute(t, NewRunCommand(cfg), "push 1 push 2 push 3 push 4 push 5 size")
	assert.ErrorIs(t, err, stack.OutOfMemory)
	assert.Contains(t, out, "faults=OutOfMemory")
	assert.Contains(t, out, "size=4")
}

func TestRunCommand_Metrics(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "version: 1\nmetrics:\n  enabled: true\n")
	out, err := execute(t, NewRunCommand(cfg), "push 1 pop pop")
	require.Error(t, err)

	assert.Contains(t, out, "metrics:")
	assert.Contains(t, out, `gstack_operations_total{op="push",result="ok"} 1`)
	assert.Contains(t, out, `gstack_operations_total{op="pop",result="fault"} 1`)
	assert.Contains(t, out, `gstack_faults_total{fault="EmptyStack"} 1`)
}

func TestDemoCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, NewDemoCommand(testConfig(t, "")))
	require.NoError(t, err)
	assert.Equal(t, "popped: 1 2 3 4 5\n", out)
}

func TestTortureCommand_DetectsEverything(t *testing.T) {
	t.Parallel()

	out, err := execute(t, NewTortureCommand(testConfig(t, "")))
	require.NoError(t, err)
	assert.NotContains(t, out, "MISSED")
	assert.Equal(t, len(tortureCases), bytes.Count([]byte(out), []byte(" detected\n")))
}

func TestTortureCommand_UnprotectedMisses(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "version: 1\nprotection:\n  guards: false\n  checksums: false\n")
	out, err := execute(t, NewTortureCommand(cfg))
	require.NoError(t, err)
	assert.Contains(t, out, "MISSED")
	assert.Contains(t, out, "scenarios went undetected")
}

func TestConfigCommand(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, "")
	out, err := execute(t, NewConfigCommand(cfg))
	require.NoError(t, err)
	assert.Contains(t, out, "allocator: heap")
	assert.Contains(t, out, "guards: true")

	_, err = execute(t, NewConfigCommand(cfg), "--write")
	require.NoError(t, err)
	_, err = os.Stat(cfg.Path)
	require.NoError(t, err)

	_, err = execute(t, NewConfigCommand(cfg), "--write")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestConfigCommand_InvalidFile(t *testing.T) {
	t.Parallel()

	_, err := execute(t, NewConfigCommand(testConfig(t, "version: 1\nallocator: pool\n")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")
}
