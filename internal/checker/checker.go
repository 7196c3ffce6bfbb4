// Package checker runs stack operations on behalf of the CLI: it emits the
// diagnostic report whenever an operation reports faults, records metrics
// and, when configured, turns any fault into a fatal exit.
package checker

import (
	"os"

	"github.com/systmms/gstack/internal/logging"
	"github.com/systmms/gstack/internal/metrics"
	"github.com/systmms/gstack/pkg/stack"
)

// ExitCodeFault is the process exit code used when AbortOnFault fires.
const ExitCodeFault = 3

// Checker inspects the result of each stack operation.
type Checker struct {
	Logger  *logging.Logger
	Metrics *metrics.StackMetrics
	// AbortOnFault escalates any fault to Exit after the report is written.
	AbortOnFault bool
	// Exit terminates the process; os.Exit when nil.
	Exit func(code int)
}

// New creates a checker.
func New(logger *logging.Logger, m *metrics.StackMetrics, abortOnFault bool) *Checker {
	return &Checker{Logger: logger, Metrics: m, AbortOnFault: abortOnFault}
}

// Check inspects err, the result of op on s. Faults produce a diagnostic
// report attributed to the caller of Check. err is returned unchanged
// unless the checker aborts.
func (c *Checker) Check(s *stack.Guarded, label, op string, err error) error {
	faults, isFault := stack.AsFaults(err)
	if !isFault {
		c.Logger.Error("%s %s: %v", label, op, err)
		c.Metrics.RecordError(op)
		return err
	}

	c.Metrics.RecordOperation(op, faults)
	c.Metrics.SetCapacity(label, s.Capacity())

	if faults.Healthy() {
		c.Logger.Debug("%s %s ok (size %d, capacity %d)", label, op, s.Size(), s.Capacity())
		return nil
	}

	info := stack.HereSkip(label, faults, 1)
	c.Logger.Report(stack.Report(s, info), true)

	if c.AbortOnFault {
		c.Logger.Error("aborting: %s %s reported %s", label, op, faults.String())
		c.Logger.Sync()
		c.exit(ExitCodeFault)
	}
	return err
}

// Dump writes a report for s regardless of its health.
func (c *Checker) Dump(s *stack.Guarded, label string) stack.Faults {
	info := stack.HereSkip(label, 0, 1)
	faults := stack.ReportFaults(s, info)
	c.Logger.Report(stack.Report(s, info), !faults.Healthy())
	return faults
}

func (c *Checker) exit(code int) {
	if c.Exit != nil {
		c.Exit(code)
		return
	}
	os.Exit(code)
}
